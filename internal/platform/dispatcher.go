package platform

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Dispatcher routes publish requests to the adapter registered for the
// requested platform. The platform map is built once at construction and
// never mutated, so concurrent dispatches need no coordination.
type Dispatcher struct {
	adapters map[Platform]Adapter
}

// NewDispatcher wires the four platform adapters over the given transport.
// Passing nil uses the deterministic stub transport.
func NewDispatcher(doer Doer) *Dispatcher {
	if doer == nil {
		doer = NewStubDoer()
	}
	return &Dispatcher{
		adapters: map[Platform]Adapter{
			YouTube:   NewYoutubeAdapter(doer),
			Instagram: NewInstagramAdapter(doer),
			Facebook:  NewFacebookAdapter(doer),
			TikTok:    NewTiktokAdapter(doer),
		},
	}
}

// NewDispatcherWithAdapters builds a dispatcher over an explicit adapter
// set. Used by tests to inject misbehaving adapters.
func NewDispatcherWithAdapters(adapters map[Platform]Adapter) *Dispatcher {
	m := make(map[Platform]Adapter, len(adapters))
	for p, a := range adapters {
		m[p] = a
	}
	return &Dispatcher{adapters: m}
}

// DispatchUpload performs an immediate publish on the named platform.
func (d *Dispatcher) DispatchUpload(ctx context.Context, platform, mediaPath string, meta *Metadata, accessToken string) (result *Result) {
	p, adapter, res := d.route(platform)
	if res != nil {
		return res
	}
	defer d.recoverFailure(p, "upload", &result)
	return adapter.Upload(ctx, mediaPath, meta, accessToken)
}

// DispatchSchedule requests a deferred publish on the named platform.
func (d *Dispatcher) DispatchSchedule(ctx context.Context, platform, mediaPath string, meta *Metadata, accessToken string, scheduledTime time.Time) (result *Result) {
	p, adapter, res := d.route(platform)
	if res != nil {
		return res
	}
	defer d.recoverFailure(p, "schedule", &result)
	return adapter.Schedule(ctx, mediaPath, meta, accessToken, scheduledTime)
}

// DispatchStatus queries the state of a previously submitted upload.
func (d *Dispatcher) DispatchStatus(ctx context.Context, platform, uploadID, accessToken string) (result *Result) {
	p, adapter, res := d.route(platform)
	if res != nil {
		return res
	}
	defer d.recoverFailure(p, "status", &result)
	return adapter.GetStatus(ctx, uploadID, accessToken)
}

func (d *Dispatcher) route(platform string) (Platform, Adapter, *Result) {
	p, ok := ParsePlatform(platform)
	if !ok {
		return "", nil, &Result{
			Success: false,
			Error:   fmt.Sprintf("Unsupported platform: %s", platform),
		}
	}
	return p, d.adapters[p], nil
}

// Adapters are contracted not to panic, but the uniform error shape is the
// dispatcher's promise to callers, so it guards anyway.
func (d *Dispatcher) recoverFailure(p Platform, action string, result **Result) {
	if r := recover(); r != nil {
		slog.Error("adapter panic", "platform", p, "action", action, "panic", r)
		*result = failure(p, action, fmt.Errorf("%v", r))
	}
}
