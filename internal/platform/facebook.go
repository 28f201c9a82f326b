package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const facebookGraphURL = "https://graph.facebook.com/v21.0"

// facebookAdapter publishes to a Facebook Page. Photos go by public URL,
// videos through the page video endpoint. Facebook is the only platform
// here with native scheduling, via an unpublished feed post carrying a
// scheduled_publish_time.
type facebookAdapter struct {
	doer Doer
}

func NewFacebookAdapter(doer Doer) Adapter {
	return &facebookAdapter{doer: doer}
}

func (a *facebookAdapter) Upload(ctx context.Context, mediaPath string, meta *Metadata, accessToken string) *Result {
	pageID := meta.PageID
	if pageID == "" {
		pageID = "me"
	}

	var endpoint string
	var payload map[string]interface{}
	if IsVideo(mediaPath) {
		endpoint = fmt.Sprintf("%s/%s/videos", facebookGraphURL, pageID)
		payload = map[string]interface{}{
			"file_url":     meta.MediaURL,
			"description":  meta.Description,
			"access_token": accessToken,
		}
	} else {
		endpoint = fmt.Sprintf("%s/%s/photos", facebookGraphURL, pageID)
		payload = map[string]interface{}{
			"url":          meta.MediaURL,
			"message":      meta.Description,
			"access_token": accessToken,
		}
	}

	postID, err := a.graphPost(ctx, endpoint, payload)
	if err != nil {
		return failure(Facebook, "upload", err)
	}

	return &Result{
		Success:    true,
		Platform:   string(Facebook),
		PlatformID: postID,
		URL:        fmt.Sprintf("https://facebook.com/%s/posts/%s", pageID, postID),
		Message:    "Media uploaded successfully to Facebook",
	}
}

func (a *facebookAdapter) Schedule(ctx context.Context, mediaPath string, meta *Metadata, accessToken string, scheduledTime time.Time) *Result {
	pageID := meta.PageID
	if pageID == "" {
		pageID = "me"
	}

	payload := map[string]interface{}{
		"message":                meta.Description,
		"link":                   meta.MediaURL,
		"published":              false,
		"scheduled_publish_time": scheduledTime.Unix(),
		"access_token":           accessToken,
	}

	postID, err := a.graphPost(ctx, fmt.Sprintf("%s/%s/feed", facebookGraphURL, pageID), payload)
	if err != nil {
		return failure(Facebook, "scheduling", err)
	}

	return &Result{
		Success:       true,
		Platform:      string(Facebook),
		PlatformID:    postID,
		ScheduledTime: scheduledTime.Format(time.RFC3339),
		Message:       "Media scheduled for Facebook upload",
	}
}

func (a *facebookAdapter) GetStatus(ctx context.Context, uploadID, accessToken string) *Result {
	return &Result{
		Success:    true,
		Platform:   string(Facebook),
		PlatformID: uploadID,
		Status:     "completed",
	}
}

func (a *facebookAdapter) graphPost(ctx context.Context, url string, payload map[string]interface{}) (string, error) {
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
		return "", fmt.Errorf("unexpected status code from Facebook: %d", resp.StatusCode)
	}

	// Photo responses carry both an object id and a post_id; the post id
	// is the one callers can act on.
	var result struct {
		ID     string `json:"id"`
		PostID string `json:"post_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("error parsing response: %w", err)
	}
	if result.PostID != "" {
		return result.PostID, nil
	}
	if result.ID == "" {
		return "", fmt.Errorf("no post ID returned from Facebook")
	}
	return result.ID, nil
}
