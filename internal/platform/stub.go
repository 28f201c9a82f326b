package platform

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// StubDoer answers platform API requests with deterministic canned
// responses, reproducing the reference behavior without network calls.
// Responses are keyed on the request host and path so the adapters run
// their real request-building and response-parsing code against it.
type StubDoer struct{}

func NewStubDoer() *StubDoer {
	return &StubDoer{}
}

func (s *StubDoer) Do(req *http.Request) (*http.Response, error) {
	body := s.respond(req)
	if body == "" {
		return nil, fmt.Errorf("no stub response for %s %s", req.Method, req.URL.String())
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Request:    req,
	}, nil
}

func (s *StubDoer) respond(req *http.Request) string {
	host := req.URL.Host
	path := req.URL.Path

	switch {
	case strings.Contains(host, "googleapis.com"):
		return `{"id":"yt_mock_video_id","kind":"youtube#video"}`

	case strings.Contains(host, "graph.instagram.com"):
		if strings.HasSuffix(path, "/media_publish") {
			return `{"id":"ig_mock_media_id"}`
		}
		return `{"id":"ig_mock_container_id"}`

	case strings.Contains(host, "graph.facebook.com"):
		if strings.HasSuffix(path, "/videos") {
			return `{"id":"fb_mock_video_id"}`
		}
		if strings.HasSuffix(path, "/feed") {
			return `{"id":"fb_mock_scheduled_id"}`
		}
		return `{"id":"fb_mock_photo_id","post_id":"fb_mock_post_id"}`

	case strings.Contains(host, "open.tiktokapis.com"):
		if strings.Contains(path, "/creator_info/") {
			return `{"data":{},"error":{"code":"ok"}}`
		}
		return `{"data":{"publish_id":"tt_mock_publish_id"},"error":{"code":"ok"}}`
	}
	return ""
}

// RecordingDoer wraps another Doer and keeps the last request body, so
// tests can assert on the payload an adapter actually sent.
type RecordingDoer struct {
	Next     Doer
	Requests []*http.Request
	Bodies   []string
}

func NewRecordingDoer(next Doer) *RecordingDoer {
	if next == nil {
		next = NewStubDoer()
	}
	return &RecordingDoer{Next: next}
}

func (r *RecordingDoer) Do(req *http.Request) (*http.Response, error) {
	var body string
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		if err == nil {
			body = string(b)
			req.Body = io.NopCloser(bytes.NewReader(b))
		}
	}
	r.Requests = append(r.Requests, req)
	r.Bodies = append(r.Bodies, body)
	return r.Next.Do(req)
}
