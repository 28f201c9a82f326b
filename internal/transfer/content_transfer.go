package transfer

// GeneratedContent is the normalized output of the caption generator,
// whether it came from the model or from the template fallback.
type GeneratedContent struct {
	Caption       string   `json:"caption"`
	Hashtags      []string `json:"hashtags"`
	SuggestedTime string   `json:"suggested_time"`
}

type GenerateContentRequest struct {
	AssetID      int64  `json:"asset_id"`
	Platform     string `json:"platform"`
	CustomPrompt string `json:"custom_prompt"`
}

type PublishRequest struct {
	AssetID          int64    `json:"asset_id"`
	Platform         string   `json:"platform"`
	AccessToken      string   `json:"access_token"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Hashtags         []string `json:"hashtags"`
	PageID           string   `json:"page_id"`
	IGUserID         string   `json:"ig_user_id"`
	Privacy          string   `json:"privacy"`
	CoverTimestampMs int      `json:"cover_timestamp"`
	ScheduledTime    string   `json:"scheduled_time"`
}
