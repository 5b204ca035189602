package utils

import (
	"math"
	"time"
)

// ProgressPercentage reports how far along the challenge window is right now,
// clamped to 0 before the start and 100 after the end.
func ProgressPercentage(start, end time.Time) int {
	return progressPercentageAt(time.Now(), start, end)
}

func progressPercentageAt(now, start, end time.Time) int {
	if !now.After(start) {
		return 0
	}
	if !now.Before(end) || !end.After(start) {
		return 100
	}
	elapsed := now.Sub(start).Seconds()
	total := end.Sub(start).Seconds()
	return int(math.Round(elapsed / total * 100))
}
