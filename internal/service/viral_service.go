package service

import (
	"time"

	"github.com/postmux/postmux/internal/transfer"
)

// ViralTimeService recommends posting times from a fixed engagement table.
// It is stateless and advisory only: it never validates or blocks a
// caller-supplied schedule.
type ViralTimeService struct{}

func NewViralTimeService() *ViralTimeService {
	return &ViralTimeService{}
}

var optimalTimes = map[string][]transfer.OptimalSlot{
	"youtube": {
		{Day: "weekdays", Time: "14:00-16:00", Engagement: "high"},
		{Day: "weekdays", Time: "20:00-22:00", Engagement: "high"},
		{Day: "weekend", Time: "09:00-11:00", Engagement: "medium"},
	},
	"instagram": {
		{Day: "weekdays", Time: "11:00-13:00", Engagement: "high"},
		{Day: "weekdays", Time: "19:00-21:00", Engagement: "high"},
		{Day: "weekend", Time: "10:00-12:00", Engagement: "medium"},
	},
	"facebook": {
		{Day: "weekdays", Time: "13:00-15:00", Engagement: "high"},
		{Day: "weekdays", Time: "19:00-21:00", Engagement: "high"},
		{Day: "weekend", Time: "12:00-14:00", Engagement: "medium"},
	},
	"tiktok": {
		{Day: "weekdays", Time: "06:00-10:00", Engagement: "high"},
		{Day: "weekdays", Time: "19:00-21:00", Engagement: "high"},
		{Day: "weekend", Time: "07:00-09:00", Engagement: "medium"},
	},
}

// OptimalTimes returns the engagement slots for a platform. Unknown
// platforms get an empty slice, not an error.
func (s *ViralTimeService) OptimalTimes(platform string) []transfer.OptimalSlot {
	return optimalTimes[platform]
}

// NextOptimalTime suggests the next posting time. The candidate is two
// hours out; if its hour lands outside the 11:00-21:00 engagement window
// it snaps to 11:00 the same day, rolling to the next day when that is
// not strictly in the future. Platforms without table entries skip the
// snapping entirely.
func (s *ViralTimeService) NextOptimalTime(platform string, now time.Time) time.Time {
	suggested := now.Add(2 * time.Hour)

	if len(s.OptimalTimes(platform)) == 0 {
		return suggested
	}

	hour := suggested.Hour()
	if hour < 11 || hour > 21 {
		suggested = time.Date(suggested.Year(), suggested.Month(), suggested.Day(), 11, 0, 0, 0, suggested.Location())
		if !suggested.After(now) {
			suggested = suggested.AddDate(0, 0, 1)
		}
	}

	return suggested
}
