package transfer

type OptimalSlot struct {
	Day        string `json:"day"`
	Time       string `json:"time"`
	Engagement string `json:"engagement"`
}

type ViralTimesResponse struct {
	Platform          string        `json:"platform"`
	OptimalTimes      []OptimalSlot `json:"optimal_times"`
	NextSuggestedTime string        `json:"next_suggested_time"`
	CurrentTime       string        `json:"current_time"`
}
