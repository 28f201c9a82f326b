package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const instagramGraphURL = "https://graph.instagram.com/v21.0"

// instagramAdapter publishes via the Instagram Graph API two-phase flow:
// create a media container from a public URL, then publish the container.
// The container id is an internal handle and never leaks into the Result.
type instagramAdapter struct {
	doer Doer
}

func NewInstagramAdapter(doer Doer) Adapter {
	return &instagramAdapter{doer: doer}
}

func (a *instagramAdapter) Upload(ctx context.Context, mediaPath string, meta *Metadata, accessToken string) *Result {
	igUserID := meta.IGUserID
	if igUserID == "" {
		igUserID = "me"
	}

	container := map[string]interface{}{
		"caption":      meta.Description,
		"access_token": accessToken,
	}
	if IsVideo(mediaPath) {
		container["video_url"] = meta.MediaURL
		container["media_type"] = "VIDEO"
	} else {
		container["image_url"] = meta.MediaURL
	}

	containerID, err := a.graphPost(ctx, fmt.Sprintf("%s/%s/media", instagramGraphURL, igUserID), container)
	if err != nil {
		return failure(Instagram, "upload", err)
	}

	mediaID, err := a.graphPost(ctx, fmt.Sprintf("%s/%s/media_publish", instagramGraphURL, igUserID), map[string]interface{}{
		"creation_id":  containerID,
		"access_token": accessToken,
	})
	if err != nil {
		return failure(Instagram, "upload", err)
	}

	return &Result{
		Success:    true,
		Platform:   string(Instagram),
		PlatformID: mediaID,
		URL:        fmt.Sprintf("https://instagram.com/p/%s", mediaID),
		Message:    "Media uploaded successfully to Instagram",
	}
}

// Schedule returns a locally generated scheduling token; the Graph API has
// no native scheduling for this publish flow.
func (a *instagramAdapter) Schedule(ctx context.Context, mediaPath string, meta *Metadata, accessToken string, scheduledTime time.Time) *Result {
	token, err := gonanoid.New()
	if err != nil {
		return failure(Instagram, "schedule", err)
	}
	return &Result{
		Success:       true,
		Platform:      string(Instagram),
		PlatformID:    "sched_" + token,
		ScheduledTime: scheduledTime.Format(time.RFC3339),
		Message:       "Media scheduled for Instagram upload",
	}
}

func (a *instagramAdapter) GetStatus(ctx context.Context, uploadID, accessToken string) *Result {
	return &Result{
		Success:    true,
		Platform:   string(Instagram),
		PlatformID: uploadID,
		Status:     "completed",
	}
}

func (a *instagramAdapter) graphPost(ctx context.Context, url string, payload map[string]interface{}) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("error marshalling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.doer.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code from Instagram: %d", resp.StatusCode)
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("error parsing response: %w", err)
	}
	if result.ID == "" {
		return "", fmt.Errorf("no media ID returned from Instagram")
	}
	return result.ID, nil
}
