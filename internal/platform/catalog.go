package platform

// Capabilities describes what a platform supports, as advertised by the
// catalog endpoint. SupportsScheduling means native API scheduling; every
// platform can still be scheduled through the queue.
type Capabilities struct {
	Name               string   `json:"name"`
	SupportsVideo      bool     `json:"supports_video"`
	SupportsImage      bool     `json:"supports_image"`
	SupportsScheduling bool     `json:"supports_scheduling"`
	MaxVideoSize       string   `json:"max_video_size"`
	MaxVideoDuration   string   `json:"max_video_duration"`
	RequiredScopes     []string `json:"required_scopes"`
}

var catalog = map[Platform]Capabilities{
	YouTube: {
		Name:             "YouTube",
		SupportsVideo:    true,
		MaxVideoSize:     "128GB",
		MaxVideoDuration: "12 hours",
		RequiredScopes:   []string{"https://www.googleapis.com/auth/youtube.upload"},
	},
	Instagram: {
		Name:             "Instagram",
		SupportsVideo:    true,
		SupportsImage:    true,
		MaxVideoSize:     "4GB",
		MaxVideoDuration: "60 minutes",
		RequiredScopes:   []string{"instagram_business_basic", "instagram_business_content_publish"},
	},
	Facebook: {
		Name:               "Facebook",
		SupportsVideo:      true,
		SupportsImage:      true,
		SupportsScheduling: true,
		MaxVideoSize:       "10GB",
		MaxVideoDuration:   "240 minutes",
		RequiredScopes:     []string{"pages_manage_posts", "pages_manage_engagement"},
	},
	TikTok: {
		Name:             "TikTok",
		SupportsVideo:    true,
		SupportsImage:    true,
		MaxVideoSize:     "4GB",
		MaxVideoDuration: "10 minutes",
		RequiredScopes:   []string{"video.publish"},
	},
}

// Catalog returns the capability table keyed by platform name.
func Catalog() map[string]Capabilities {
	out := make(map[string]Capabilities, len(catalog))
	for p, c := range catalog {
		out[string(p)] = c
	}
	return out
}
