package utils

import (
	"sort"
	"time"
)

const dateLayout = "2006-01-02"

// StreakResult holds the consecutive-day stats for one participant.
// CurrentStreak is anchored at the most recent check-in day; LongestStreak is
// the longest run of consecutive days anywhere in the history.
type StreakResult struct {
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
}

// CalculateStreak computes streaks from a participant's check-in dates
// ("2006-01-02" strings, any order, at most one per day). Unparseable dates
// are ignored; an empty history yields zero streaks.
func CalculateStreak(dates []string) StreakResult {
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		t, err := time.Parse(dateLayout, d)
		if err != nil {
			continue
		}
		days = append(days, t)
	}
	if len(days) == 0 {
		return StreakResult{}
	}

	// Most recent first.
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	result := StreakResult{CurrentStreak: 1, LongestStreak: 1}

	run := 1
	for i := 1; i < len(days); i++ {
		if days[i-1].Sub(days[i]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > result.LongestStreak {
			result.LongestStreak = run
		}
		// The current streak only extends while the walk from the most
		// recent day is unbroken.
		if run == i+1 {
			result.CurrentStreak = run
		}
	}

	return result
}
