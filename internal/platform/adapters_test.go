package platform

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacebookSchedulePayload(t *testing.T) {
	rec := NewRecordingDoer(nil)
	adapter := NewFacebookAdapter(rec)
	when := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)

	result := adapter.Schedule(context.Background(), "pic.png", &Metadata{
		Description: "hello",
		MediaURL:    "https://cdn.example.com/pic.png",
		PageID:      "page42",
	}, "fb-token", when)

	require.True(t, result.Success)
	require.Len(t, rec.Requests, 1)
	assert.Equal(t, "/v21.0/page42/feed", rec.Requests[0].URL.Path)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(rec.Bodies[0]), &payload))
	assert.Equal(t, false, payload["published"])
	assert.Equal(t, float64(when.Unix()), payload["scheduled_publish_time"])
	assert.Equal(t, "fb-token", payload["access_token"])
}

func TestFacebookUploadEndpoints(t *testing.T) {
	t.Run("video goes to the videos endpoint", func(t *testing.T) {
		rec := NewRecordingDoer(nil)
		adapter := NewFacebookAdapter(rec)
		result := adapter.Upload(context.Background(), "clip.mp4", &Metadata{MediaURL: "https://cdn.example.com/clip.mp4"}, "tok")
		require.True(t, result.Success)
		assert.Equal(t, "/v21.0/me/videos", rec.Requests[0].URL.Path)
		assert.Equal(t, "fb_mock_video_id", result.PlatformID)
	})

	t.Run("image goes to the photos endpoint and prefers post_id", func(t *testing.T) {
		rec := NewRecordingDoer(nil)
		adapter := NewFacebookAdapter(rec)
		result := adapter.Upload(context.Background(), "pic.png", &Metadata{MediaURL: "https://cdn.example.com/pic.png"}, "tok")
		require.True(t, result.Success)
		assert.Equal(t, "/v21.0/me/photos", rec.Requests[0].URL.Path)
		assert.Equal(t, "fb_mock_post_id", result.PlatformID)
	})
}

func TestInstagramTwoPhaseUpload(t *testing.T) {
	rec := NewRecordingDoer(nil)
	adapter := NewInstagramAdapter(rec)

	result := adapter.Upload(context.Background(), "clip.mp4", &Metadata{
		Description: "caption",
		MediaURL:    "https://cdn.example.com/clip.mp4",
		IGUserID:    "ig_42",
	}, "ig-token")

	require.True(t, result.Success)
	require.Len(t, rec.Requests, 2)
	assert.Equal(t, "/v21.0/ig_42/media", rec.Requests[0].URL.Path)
	assert.Equal(t, "/v21.0/ig_42/media_publish", rec.Requests[1].URL.Path)

	var container map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(rec.Bodies[0]), &container))
	assert.Equal(t, "VIDEO", container["media_type"])
	assert.Equal(t, "https://cdn.example.com/clip.mp4", container["video_url"])

	var publish map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(rec.Bodies[1]), &publish))
	assert.Equal(t, "ig_mock_container_id", publish["creation_id"])

	// The container id never leaks; callers see the published media id.
	assert.Equal(t, "ig_mock_media_id", result.PlatformID)
}

func TestInstagramImageContainer(t *testing.T) {
	rec := NewRecordingDoer(nil)
	adapter := NewInstagramAdapter(rec)

	result := adapter.Upload(context.Background(), "pic.png", &Metadata{MediaURL: "https://cdn.example.com/pic.png"}, "tok")
	require.True(t, result.Success)

	var container map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(rec.Bodies[0]), &container))
	assert.Equal(t, "https://cdn.example.com/pic.png", container["image_url"])
	assert.NotContains(t, container, "media_type")
}

func TestTiktokUpload(t *testing.T) {
	t.Run("video init runs after creator info preflight", func(t *testing.T) {
		rec := NewRecordingDoer(nil)
		adapter := NewTiktokAdapter(rec)

		result := adapter.Upload(context.Background(), "clip.mp4", &Metadata{
			Title:    "My clip",
			MediaURL: "https://cdn.example.com/clip.mp4",
		}, "tt-token")

		require.True(t, result.Success)
		require.Len(t, rec.Requests, 2)
		assert.Contains(t, rec.Requests[0].URL.Path, "/creator_info/")
		assert.Contains(t, rec.Requests[1].URL.Path, "/video/init/")

		var payload map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(rec.Bodies[1]), &payload))
		postInfo := payload["post_info"].(map[string]interface{})
		assert.Equal(t, "PUBLIC_TO_EVERYONE", postInfo["privacy_level"])
		sourceInfo := payload["source_info"].(map[string]interface{})
		assert.Equal(t, "PULL_FROM_URL", sourceInfo["source"])
		assert.Equal(t, "https://cdn.example.com/clip.mp4", sourceInfo["video_url"])

		assert.Equal(t, "tt_mock_publish_id", result.PlatformID)
	})

	t.Run("photo goes through content init as direct post", func(t *testing.T) {
		rec := NewRecordingDoer(nil)
		adapter := NewTiktokAdapter(rec)

		result := adapter.Upload(context.Background(), "pic.png", &Metadata{
			Title:    "My photo",
			MediaURL: "https://cdn.example.com/pic.png",
		}, "tt-token")

		require.True(t, result.Success)
		assert.Contains(t, rec.Requests[1].URL.Path, "/content/init/")

		var payload map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(rec.Bodies[1]), &payload))
		assert.Equal(t, "DIRECT_POST", payload["post_mode"])
		assert.Equal(t, "PHOTO", payload["media_type"])
	})
}

func TestYoutubeUploadRequest(t *testing.T) {
	rec := NewRecordingDoer(nil)
	adapter := NewYoutubeAdapter(rec)

	result := adapter.Upload(context.Background(), "clip.mp4", &Metadata{
		Description: "desc",
		Hashtags:    []string{"#go"},
	}, "yt-token")

	require.True(t, result.Success)
	require.Len(t, rec.Requests, 1)
	assert.Equal(t, "Bearer yt-token", rec.Requests[0].Header.Get("Authorization"))

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(rec.Bodies[0]), &payload))
	snippet := payload["snippet"].(map[string]interface{})
	assert.Equal(t, "Untitled Video", snippet["title"])
	assert.Equal(t, "22", snippet["categoryId"])
	status := payload["status"].(map[string]interface{})
	assert.Equal(t, "private", status["privacyStatus"])

	assert.Equal(t, "https://youtu.be/yt_mock_video_id", result.URL)
}
