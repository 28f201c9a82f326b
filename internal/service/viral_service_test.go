package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOptimalTimes(t *testing.T) {
	s := NewViralTimeService()

	t.Run("known platforms have three slots", func(t *testing.T) {
		for _, p := range []string{"youtube", "instagram", "facebook", "tiktok"} {
			assert.Len(t, s.OptimalTimes(p), 3, p)
		}
	})

	t.Run("unknown platform is empty", func(t *testing.T) {
		assert.Empty(t, s.OptimalTimes("myspace"))
	})
}

func TestNextOptimalTime(t *testing.T) {
	s := NewViralTimeService()
	loc := time.UTC

	t.Run("inside window keeps two hour offset", func(t *testing.T) {
		now := time.Date(2025, 3, 10, 12, 30, 0, 0, loc)
		got := s.NextOptimalTime("instagram", now)
		assert.Equal(t, now.Add(2*time.Hour), got)
	})

	t.Run("late evening snaps to next morning", func(t *testing.T) {
		now := time.Date(2025, 3, 10, 21, 0, 0, 0, loc)
		got := s.NextOptimalTime("youtube", now)
		assert.Equal(t, time.Date(2025, 3, 11, 11, 0, 0, 0, loc), got)
	})

	t.Run("early morning snaps to eleven same day", func(t *testing.T) {
		now := time.Date(2025, 3, 10, 5, 0, 0, 0, loc)
		got := s.NextOptimalTime("tiktok", now)
		assert.Equal(t, time.Date(2025, 3, 10, 11, 0, 0, 0, loc), got)
	})

	t.Run("unknown platform never snaps", func(t *testing.T) {
		now := time.Date(2025, 3, 10, 23, 0, 0, 0, loc)
		got := s.NextOptimalTime("myspace", now)
		assert.Equal(t, now.Add(2*time.Hour), got)
	})
}
