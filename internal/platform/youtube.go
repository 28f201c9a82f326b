package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"google.golang.org/api/youtube/v3"
)

const youtubeUploadURL = "https://www.googleapis.com/upload/youtube/v3/videos?part=snippet,status&uploadType=resumable"

// youtubeAdapter publishes to YouTube via the Data API v3. YouTube only
// accepts video; whatever the media path looks like, it is treated as one.
type youtubeAdapter struct {
	doer Doer
}

func NewYoutubeAdapter(doer Doer) Adapter {
	return &youtubeAdapter{doer: doer}
}

func (a *youtubeAdapter) Upload(ctx context.Context, mediaPath string, meta *Metadata, accessToken string) *Result {
	video := a.buildVideo(meta)

	body, err := json.Marshal(video)
	if err != nil {
		return failure(YouTube, "upload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, youtubeUploadURL, bytes.NewReader(body))
	if err != nil {
		return failure(YouTube, "upload", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	resp, err := a.doer.Do(req)
	if err != nil {
		return failure(YouTube, "upload", err)
	}
	defer resp.Body.Close()

	var uploaded struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return failure(YouTube, "upload", err)
	}
	if resp.StatusCode != http.StatusOK || uploaded.ID == "" {
		return failure(YouTube, "upload", fmt.Errorf("unexpected response status: %d", resp.StatusCode))
	}

	return &Result{
		Success:    true,
		Platform:   string(YouTube),
		PlatformID: uploaded.ID,
		URL:        fmt.Sprintf("https://youtu.be/%s", uploaded.ID),
		Message:    "Video uploaded successfully to YouTube",
	}
}

// Schedule returns a locally generated scheduling token. YouTube has no
// native scheduling via the upload API; the queue re-invokes Upload when
// the scheduled time arrives.
func (a *youtubeAdapter) Schedule(ctx context.Context, mediaPath string, meta *Metadata, accessToken string, scheduledTime time.Time) *Result {
	token, err := gonanoid.New()
	if err != nil {
		return failure(YouTube, "schedule", err)
	}
	return &Result{
		Success:       true,
		Platform:      string(YouTube),
		PlatformID:    "sched_" + token,
		ScheduledTime: scheduledTime.Format(time.RFC3339),
		Message:       "Video scheduled for YouTube upload",
	}
}

func (a *youtubeAdapter) GetStatus(ctx context.Context, uploadID, accessToken string) *Result {
	return &Result{
		Success:    true,
		Platform:   string(YouTube),
		PlatformID: uploadID,
		Status:     "completed",
	}
}

func (a *youtubeAdapter) buildVideo(meta *Metadata) *youtube.Video {
	title := meta.Title
	if title == "" {
		title = "Untitled Video"
	}
	category := meta.Category
	if category == "" {
		category = "22" // People & Blogs
	}
	privacy := meta.Privacy
	if privacy == "" {
		privacy = "private"
	}

	return &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       title,
			Description: meta.Description,
			Tags:        meta.Hashtags,
			CategoryId:  category,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus: privacy,
		},
	}
}
