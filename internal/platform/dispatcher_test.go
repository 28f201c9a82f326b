package platform

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type panicAdapter struct{}

func (panicAdapter) Upload(ctx context.Context, mediaPath string, meta *Metadata, accessToken string) *Result {
	panic("adapter blew up")
}

func (panicAdapter) Schedule(ctx context.Context, mediaPath string, meta *Metadata, accessToken string, scheduledTime time.Time) *Result {
	panic("adapter blew up")
}

func (panicAdapter) GetStatus(ctx context.Context, uploadID, accessToken string) *Result {
	panic("adapter blew up")
}

func TestDispatchUpload(t *testing.T) {
	ctx := context.Background()
	d := NewDispatcher(nil)
	meta := &Metadata{Title: "Test", Description: "desc", MediaURL: "https://cdn.example.com/clip.mp4"}

	t.Run("routes to every supported platform", func(t *testing.T) {
		expected := map[string]string{
			"youtube":   "yt_mock_video_id",
			"instagram": "ig_mock_media_id",
			"facebook":  "fb_mock_video_id",
			"tiktok":    "tt_mock_publish_id",
		}
		for name, id := range expected {
			result := d.DispatchUpload(ctx, name, "clip.mp4", meta, "token")
			require.True(t, result.Success, name)
			assert.Equal(t, id, result.PlatformID, name)
			assert.Equal(t, name, result.Platform)
			assert.NotEmpty(t, result.URL, name)
		}
	})

	t.Run("platform names are case-insensitive", func(t *testing.T) {
		result := d.DispatchUpload(ctx, "YouTube", "clip.mp4", meta, "token")
		require.True(t, result.Success)
		assert.Equal(t, "yt_mock_video_id", result.PlatformID)
	})

	t.Run("unsupported platform gets routing error", func(t *testing.T) {
		result := d.DispatchUpload(ctx, "myspace", "clip.mp4", meta, "token")
		assert.False(t, result.Success)
		assert.Equal(t, "Unsupported platform: myspace", result.Error)
	})

	t.Run("adapter panic becomes failure result", func(t *testing.T) {
		pd := NewDispatcherWithAdapters(map[Platform]Adapter{YouTube: panicAdapter{}})
		result := pd.DispatchUpload(ctx, "youtube", "clip.mp4", meta, "token")
		require.NotNil(t, result)
		assert.False(t, result.Success)
		assert.Contains(t, result.Error, "YouTube upload failed")
		assert.Contains(t, result.Error, "adapter blew up")
	})
}

func TestDispatchSchedule(t *testing.T) {
	ctx := context.Background()
	d := NewDispatcher(nil)
	meta := &Metadata{Description: "desc", MediaURL: "https://cdn.example.com/pic.png"}
	when := time.Now().Add(4 * time.Hour)

	t.Run("facebook schedules natively", func(t *testing.T) {
		result := d.DispatchSchedule(ctx, "facebook", "pic.png", meta, "token", when)
		require.True(t, result.Success)
		assert.Equal(t, "fb_mock_scheduled_id", result.PlatformID)
		assert.Equal(t, when.Format(time.RFC3339), result.ScheduledTime)
	})

	t.Run("other platforms return local tokens", func(t *testing.T) {
		for _, name := range []string{"youtube", "instagram", "tiktok"} {
			result := d.DispatchSchedule(ctx, name, "clip.mp4", meta, "token", when)
			require.True(t, result.Success, name)
			assert.Regexp(t, "^sched_", result.PlatformID, name)
		}
	})

	t.Run("unsupported platform gets routing error", func(t *testing.T) {
		result := d.DispatchSchedule(ctx, "vine", "clip.mp4", meta, "token", when)
		assert.False(t, result.Success)
		assert.Equal(t, "Unsupported platform: vine", result.Error)
	})
}

func TestDispatchStatus(t *testing.T) {
	ctx := context.Background()
	d := NewDispatcher(nil)

	for _, name := range []string{"youtube", "instagram", "facebook", "tiktok"} {
		result := d.DispatchStatus(ctx, name, "upload_123", "token")
		require.True(t, result.Success, name)
		assert.Equal(t, "upload_123", result.PlatformID, name)
		assert.Equal(t, "completed", result.Status, name)
	}
}
