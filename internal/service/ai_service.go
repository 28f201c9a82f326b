package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/postmux/postmux/internal/platform"
	"github.com/postmux/postmux/internal/transfer"
)

const (
	openAIURL       = "https://api.openai.com/v1/chat/completions"
	contentMaxToken = 800
)

// AIService generates captions and hashtags for media assets. It degrades
// gracefully: with no API key, or on any upstream failure, it falls back
// to canned per-platform templates so publishing never blocks on the AI.
type AIService struct {
	apiKey string
	model  string
	doer   platform.Doer
}

func NewAIService(apiKey, model string, doer platform.Doer) *AIService {
	if model == "" {
		model = "gpt-4o-mini"
	}
	if doer == nil {
		doer = &http.Client{Timeout: 60 * time.Second}
	}
	return &AIService{apiKey: apiKey, model: model, doer: doer}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GenerateContent asks the model for a caption, hashtags and a posting
// time for the given asset. The returned content is always usable; errors
// from the API are logged and replaced with template content.
func (s *AIService) GenerateContent(ctx context.Context, filename, fileType, targetPlatform, customPrompt string) *transfer.GeneratedContent {
	if s.apiKey == "" {
		return templateContent(fileType, targetPlatform)
	}

	content, err := s.complete(ctx, filename, fileType, targetPlatform, customPrompt)
	if err != nil {
		slog.Info("content generation fell back to templates", "platform", targetPlatform, "error", err)
		return templateContent(fileType, targetPlatform)
	}
	return content
}

func (s *AIService) complete(ctx context.Context, filename, fileType, targetPlatform, customPrompt string) (*transfer.GeneratedContent, error) {
	prompt := fmt.Sprintf(
		"Generate engaging social media content for a %s file named %q that will be posted on %s.\n\n"+
			"Please provide:\n"+
			"1. A compelling caption/description (appropriate length for %s)\n"+
			"2. Relevant hashtags (trending and niche-specific)\n"+
			"3. Suggested posting time for maximum engagement\n",
		fileType, filename, targetPlatform, targetPlatform)
	if customPrompt != "" {
		prompt += "\nAdditional context: " + customPrompt + "\n"
	}
	prompt += "\nFormat the response as JSON with keys: caption, hashtags (array), suggested_time"

	req := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a social media expert who creates viral content. Always respond with valid JSON."},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   contentMaxToken,
		Temperature: 0.8,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.doer.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if chatResp.Error != nil {
		return nil, fmt.Errorf("API error: %s - %s", chatResp.Error.Type, chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from API")
	}

	return parseGenerated(chatResp.Choices[0].Message.Content), nil
}

// parseGenerated decodes the model's JSON answer. Models occasionally
// wrap the JSON in prose or fences; if no object can be recovered the
// raw text becomes the caption with stock hashtags.
func parseGenerated(raw string) *transfer.GeneratedContent {
	var content transfer.GeneratedContent
	if err := json.Unmarshal([]byte(raw), &content); err == nil && content.Caption != "" {
		return &content
	}

	if extracted, ok := extractJSONObject(raw); ok {
		if err := json.Unmarshal([]byte(extracted), &content); err == nil && content.Caption != "" {
			return &content
		}
	}

	caption := raw
	if len(caption) > 500 {
		caption = caption[:500]
	}
	return &transfer.GeneratedContent{
		Caption:       caption,
		Hashtags:      []string{"#viral", "#trending", "#content"},
		SuggestedTime: "Peak hours: 7-9 PM",
	}
}

func extractJSONObject(raw string) (string, bool) {
	start := -1
	for i := 0; i < len(raw); i++ {
		if raw[i] == '{' {
			start = i
			break
		}
	}
	if start == -1 {
		return "", false
	}

	depth := 0
	for i := start; i < len(raw); i++ {
		switch raw[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}
	return "", false
}

var contentTemplates = map[string]transfer.GeneratedContent{
	"youtube": {
		Caption:       "Check out this amazing %s! Don't forget to like and subscribe for more content like this. What do you think? Let me know in the comments below!",
		Hashtags:      []string{"#YouTube", "#Content", "#Subscribe", "#Like", "#Share"},
		SuggestedTime: "Best times: 2-4 PM or 8-10 PM on weekdays",
	},
	"instagram": {
		Caption:       "✨ New %s alert! ✨ Swipe to see more and don't forget to double-tap if you love it! 💖",
		Hashtags:      []string{"#Instagram", "#InstaGood", "#PhotoOfTheDay", "#Content", "#Viral"},
		SuggestedTime: "Peak engagement: 11 AM-1 PM or 7-9 PM",
	},
	"facebook": {
		Caption:       "Sharing this incredible %s with all my friends! What are your thoughts? Tag someone who would love this!",
		Hashtags:      []string{"#Facebook", "#Share", "#Friends", "#Content", "#Viral"},
		SuggestedTime: "Best times: 1-3 PM or 7-9 PM",
	},
	"tiktok": {
		Caption:       "🔥 This %s is everything! Follow for more content like this! #fyp",
		Hashtags:      []string{"#TikTok", "#FYP", "#Viral", "#Trending", "#ForYou"},
		SuggestedTime: "Peak hours: 6-10 AM or 7-9 PM",
	},
}

func templateContent(fileType, targetPlatform string) *transfer.GeneratedContent {
	if fileType == "" {
		fileType = "media"
	}

	if tmpl, ok := contentTemplates[targetPlatform]; ok {
		return &transfer.GeneratedContent{
			Caption:       fmt.Sprintf(tmpl.Caption, fileType),
			Hashtags:      tmpl.Hashtags,
			SuggestedTime: tmpl.SuggestedTime,
		}
	}

	return &transfer.GeneratedContent{
		Caption:       fmt.Sprintf("Check out this amazing %s! Hope you enjoy it as much as I do. Let me know what you think!", fileType),
		Hashtags:      []string{"#content", "#viral", "#trending", "#social", "#media"},
		SuggestedTime: "Peak engagement hours: 7-9 PM",
	}
}
