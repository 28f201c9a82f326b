package service

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doerFunc func(req *http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

func chatReply(t *testing.T, content string) doerFunc {
	t.Helper()
	return func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "api.openai.com", req.URL.Host)
		assert.Equal(t, "Bearer test-key", req.Header.Get("Authorization"))
		body := `{"choices":[{"message":{"role":"assistant","content":` + content + `}}]}`
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     http.Header{"Content-Type": []string{"application/json"}},
		}, nil
	}
}

func TestGenerateContent(t *testing.T) {
	ctx := context.Background()

	t.Run("no key uses platform template", func(t *testing.T) {
		s := NewAIService("", "", nil)
		got := s.GenerateContent(ctx, "clip.mp4", "video", "tiktok", "")
		require.NotNil(t, got)
		assert.Contains(t, got.Caption, "video")
		assert.Contains(t, got.Hashtags, "#FYP")
	})

	t.Run("no key unknown platform uses default template", func(t *testing.T) {
		s := NewAIService("", "", nil)
		got := s.GenerateContent(ctx, "pic.png", "image", "myspace", "")
		assert.Contains(t, got.Caption, "image")
		assert.Equal(t, []string{"#content", "#viral", "#trending", "#social", "#media"}, got.Hashtags)
	})

	t.Run("valid model JSON is returned as-is", func(t *testing.T) {
		reply := `"{\"caption\":\"Big launch day\",\"hashtags\":[\"#launch\"],\"suggested_time\":\"7 PM\"}"`
		s := NewAIService("test-key", "", chatReply(t, reply))
		got := s.GenerateContent(ctx, "launch.mp4", "video", "youtube", "product launch")
		assert.Equal(t, "Big launch day", got.Caption)
		assert.Equal(t, []string{"#launch"}, got.Hashtags)
		assert.Equal(t, "7 PM", got.SuggestedTime)
	})

	t.Run("JSON wrapped in prose is recovered", func(t *testing.T) {
		reply := `"Here you go: {\"caption\":\"Sunset reel\",\"hashtags\":[\"#sunset\"],\"suggested_time\":\"8 PM\"} enjoy!"`
		s := NewAIService("test-key", "", chatReply(t, reply))
		got := s.GenerateContent(ctx, "sunset.mov", "video", "instagram", "")
		assert.Equal(t, "Sunset reel", got.Caption)
	})

	t.Run("unparseable reply becomes caption with stock hashtags", func(t *testing.T) {
		reply := `"Just a plain sentence with no JSON at all."`
		s := NewAIService("test-key", "", chatReply(t, reply))
		got := s.GenerateContent(ctx, "a.png", "image", "facebook", "")
		assert.Equal(t, "Just a plain sentence with no JSON at all.", got.Caption)
		assert.Equal(t, []string{"#viral", "#trending", "#content"}, got.Hashtags)
		assert.Equal(t, "Peak hours: 7-9 PM", got.SuggestedTime)
	})

	t.Run("upstream error falls back to template", func(t *testing.T) {
		s := NewAIService("test-key", "", doerFunc(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusTooManyRequests,
				Body:       io.NopCloser(strings.NewReader(`{"error":{"type":"rate_limit","message":"slow down"}}`)),
			}, nil
		}))
		got := s.GenerateContent(ctx, "clip.mp4", "video", "youtube", "")
		assert.Contains(t, got.Hashtags, "#Subscribe")
	})
}
