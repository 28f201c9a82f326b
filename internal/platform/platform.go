package platform

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// Platform identifies one of the supported social networks. The set is
// closed; anything else is rejected by the dispatcher before an adapter
// is ever invoked.
type Platform string

const (
	YouTube   Platform = "youtube"
	Instagram Platform = "instagram"
	Facebook  Platform = "facebook"
	TikTok    Platform = "tiktok"
)

// ParsePlatform normalizes a platform name to its canonical lowercase form.
func ParsePlatform(name string) (Platform, bool) {
	switch Platform(strings.ToLower(name)) {
	case YouTube:
		return YouTube, true
	case Instagram:
		return Instagram, true
	case Facebook:
		return Facebook, true
	case TikTok:
		return TikTok, true
	}
	return "", false
}

// Result is the normalized outcome of every adapter call. The per-platform
// id fields (video_id, media_id, post_id, publish_id) are collapsed into
// PlatformID; callers never see platform-specific response shapes.
type Result struct {
	Success       bool   `json:"success"`
	Platform      string `json:"platform,omitempty"`
	PlatformID    string `json:"platform_post_id,omitempty"`
	URL           string `json:"platform_url,omitempty"`
	Message       string `json:"message,omitempty"`
	Status        string `json:"status,omitempty"`
	ScheduledTime string `json:"scheduled_time,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Metadata carries the caller-supplied post attributes. Fields irrelevant
// to a given platform are ignored by its adapter.
type Metadata struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Hashtags         []string `json:"hashtags"`
	MediaURL         string   `json:"media_url"`
	PageID           string   `json:"page_id"`
	IGUserID         string   `json:"ig_user_id"`
	Privacy          string   `json:"privacy"`
	Category         string   `json:"category"`
	CoverTimestampMs int      `json:"cover_timestamp"`
	DisableDuet      bool     `json:"disable_duet"`
	DisableComment   bool     `json:"disable_comment"`
	DisableStitch    bool     `json:"disable_stitch"`
	AutoAddMusic     bool     `json:"auto_add_music"`
}

// Adapter is the capability interface every platform implements. Calls do
// not return Go errors: any internal failure is captured in the Result so
// callers handle one shape for all four platforms.
type Adapter interface {
	Upload(ctx context.Context, mediaPath string, meta *Metadata, accessToken string) *Result
	Schedule(ctx context.Context, mediaPath string, meta *Metadata, accessToken string, scheduledTime time.Time) *Result
	GetStatus(ctx context.Context, uploadID, accessToken string) *Result
}

// Doer executes platform API requests. Production code uses a real HTTP
// client; tests and the reference configuration inject fakes.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

var videoExtensions = map[string]struct{}{
	".mp4": {},
	".avi": {},
	".mov": {},
}

// IsVideo classifies a media path by file extension. Unknown extensions
// fall through to the image/photo branch.
func IsVideo(mediaPath string) bool {
	ext := strings.ToLower(filepath.Ext(mediaPath))
	_, ok := videoExtensions[ext]
	return ok
}

// NewAPIClient builds an HTTP client that attaches the given bearer token
// to every request, for adapters constructed against real endpoints.
func NewAPIClient(ctx context.Context, accessToken string) *http.Client {
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
}

var displayNames = map[Platform]string{
	YouTube:   "YouTube",
	Instagram: "Instagram",
	Facebook:  "Facebook",
	TikTok:    "TikTok",
}

// DisplayName returns the human-readable platform name used in messages.
func DisplayName(p Platform) string {
	return displayNames[p]
}

func failure(p Platform, action string, err error) *Result {
	return &Result{
		Success: false,
		Error:   fmt.Sprintf("%s %s failed: %v", displayNames[p], action, err),
	}
}
