package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/postmux/postmux/internal/transfer"
)

const (
	tiktokVideoInitURL   = "https://open.tiktokapis.com/v2/post/publish/video/init/"
	tiktokContentInitURL = "https://open.tiktokapis.com/v2/post/publish/content/init/"
	tiktokCreatorInfoURL = "https://open.tiktokapis.com/v2/post/publish/creator_info/query/"
)

// tiktokAdapter publishes through the TikTok Content Posting API. Media is
// always pulled from a public URL; videos go through the video init
// endpoint, photos through content init as a direct post.
type tiktokAdapter struct {
	doer Doer
}

func NewTiktokAdapter(doer Doer) Adapter {
	return &tiktokAdapter{doer: doer}
}

func (a *tiktokAdapter) Upload(ctx context.Context, mediaPath string, meta *Metadata, accessToken string) *Result {
	privacy := meta.Privacy
	if privacy == "" {
		privacy = "PUBLIC_TO_EVERYONE"
	}

	var endpoint string
	var payload interface{}
	if IsVideo(mediaPath) {
		coverTs := meta.CoverTimestampMs
		if coverTs == 0 {
			coverTs = 1000
		}
		endpoint = tiktokVideoInitURL
		payload = transfer.VideoUploadRequest{
			PostInfo: transfer.VideoPostInfo{
				Title:                 meta.Title,
				PrivacyLevel:          privacy,
				DisableDuet:           meta.DisableDuet,
				DisableComment:        meta.DisableComment,
				DisableStitch:         meta.DisableStitch,
				VideoCoverTimestampMs: coverTs,
			},
			SourceInfo: transfer.VideoSourceInfo{
				Source:   "PULL_FROM_URL",
				VideoURL: meta.MediaURL,
			},
		}
	} else {
		endpoint = tiktokContentInitURL
		payload = transfer.PhotoUploadRequest{
			PostInfo: transfer.PhotoPostInfo{
				Title:          meta.Title,
				Description:    meta.Description,
				PrivacyLevel:   privacy,
				DisableComment: meta.DisableComment,
				AutoAddMusic:   meta.AutoAddMusic,
			},
			SourceInfo: transfer.PhotoSourceInfo{
				Source:          "PULL_FROM_URL",
				PhotoCoverIndex: 1,
				PhotoImages:     []string{meta.MediaURL},
			},
			PostMode:  "DIRECT_POST",
			MediaType: "PHOTO",
		}
	}

	if err := a.queryCreatorInfo(ctx, accessToken); err != nil {
		return failure(TikTok, "upload", err)
	}

	result, err := a.publishInit(ctx, endpoint, payload, accessToken)
	if err != nil {
		return failure(TikTok, "upload", err)
	}

	return &Result{
		Success:    true,
		Platform:   string(TikTok),
		PlatformID: result.Data.PublishID,
		URL:        fmt.Sprintf("https://tiktok.com/@user/video/%s", result.Data.PublishID),
		Message:    "Media uploaded successfully to TikTok",
	}
}

// Schedule returns a locally generated scheduling token; the Content
// Posting API has no native scheduling.
func (a *tiktokAdapter) Schedule(ctx context.Context, mediaPath string, meta *Metadata, accessToken string, scheduledTime time.Time) *Result {
	token, err := gonanoid.New()
	if err != nil {
		return failure(TikTok, "schedule", err)
	}
	return &Result{
		Success:       true,
		Platform:      string(TikTok),
		PlatformID:    "sched_" + token,
		ScheduledTime: scheduledTime.Format(time.RFC3339),
		Message:       "Media scheduled for TikTok upload",
	}
}

func (a *tiktokAdapter) GetStatus(ctx context.Context, uploadID, accessToken string) *Result {
	return &Result{
		Success:    true,
		Platform:   string(TikTok),
		PlatformID: uploadID,
		Status:     "completed",
	}
}

func (a *tiktokAdapter) publishInit(ctx context.Context, endpoint string, payload interface{}, accessToken string) (*transfer.TikTokUploadResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error marshalling data: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	resp, err := a.doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request error: %w", err)
	}
	defer resp.Body.Close()

	var result transfer.TikTokUploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error parsing response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error response from TikTok: %s", result.Error.Message)
	}
	if result.Data.PublishID == "" {
		return nil, fmt.Errorf("no publish ID returned from TikTok")
	}
	return &result, nil
}

func (a *tiktokAdapter) queryCreatorInfo(ctx context.Context, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tiktokCreatorInfoURL, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	resp, err := a.doer.Do(req)
	if err != nil {
		return fmt.Errorf("error querying creator info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("creator info query returned status %d", resp.StatusCode)
	}
	return nil
}
