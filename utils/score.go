package utils

import (
	"math"

	"fitArenaAPI/internal/types/challenge"
	"fitArenaAPI/internal/types/checkin"
)

// ScoreBreakdown shows how each factor contributed to a check-in score. The
// streak multiplier applies to the running total after every other factor, so
// Total is not simply the sum of the other fields when a multiplier is active.
type ScoreBreakdown struct {
	Base             int `json:"base"`
	Workouts         int `json:"workouts"`
	Nutrition        int `json:"nutrition"`
	Steps            int `json:"steps"`
	Sleep            int `json:"sleep"`
	Water            int `json:"water"`
	Meditation       int `json:"meditation"`
	ConsistencyBonus int `json:"consistency_bonus"`
	Total            int `json:"total"`
}

// CalculateCheckinScore converts one day's metrics into points:
//
//   - base points for showing up
//   - workout points for up to two workouts
//   - nutrition score 0-10 scaled onto the configured nutrition points
//   - +2 per steps bucket threshold reached
//   - sleep bonus: +2 inside 7-9h, +1 inside 6-10h
//   - +1 for >= 2 liters of water, +1 for >= 10 minutes of meditation
//   - flat consistency bonus if configured
//   - streak multiplier applied last, when the participant has an active streak
//
// The result is deterministic and never negative.
func CalculateCheckinScore(cfg challenge.ScoringConfig, m checkin.Metrics, currentStreak int) int {
	return CalculateCheckinScoreBreakdown(cfg, m, currentStreak).Total
}

// CalculateCheckinScoreBreakdown is CalculateCheckinScore with the per-factor
// contributions exposed.
func CalculateCheckinScoreBreakdown(cfg challenge.ScoringConfig, m checkin.Metrics, currentStreak int) ScoreBreakdown {
	b := ScoreBreakdown{Base: cfg.BasePoints}

	workouts := m.Workouts
	if workouts > 2 {
		workouts = 2
	}
	if workouts > 0 {
		b.Workouts = workouts * cfg.WorkoutPoints
	}

	if m.NutritionScore != nil {
		b.Nutrition = int(math.Round(float64(*m.NutritionScore) / 10.0 * float64(cfg.NutritionPoints)))
	}

	if m.Steps != nil {
		buckets := 0
		for _, threshold := range cfg.StepsBuckets {
			if *m.Steps >= threshold {
				buckets++
			}
		}
		b.Steps = buckets * 2
	}

	if m.SleepHours != nil {
		switch h := *m.SleepHours; {
		case h >= 7 && h <= 9:
			b.Sleep = 2
		case h >= 6 && h <= 10:
			b.Sleep = 1
		}
	}

	if m.WaterIntake != nil && *m.WaterIntake >= 2 {
		b.Water = 1
	}

	if m.MeditationMinutes != nil && *m.MeditationMinutes >= 10 {
		b.Meditation = 1
	}

	b.ConsistencyBonus = cfg.ConsistencyBonus

	total := b.Base + b.Workouts + b.Nutrition + b.Steps + b.Sleep + b.Water + b.Meditation + b.ConsistencyBonus

	// The multiplier is the last step and rounds to the nearest point.
	if cfg.StreakMultiplier > 1 && currentStreak > 0 {
		total = int(math.Round(float64(total) * cfg.StreakMultiplier))
	}

	if total < 0 {
		total = 0
	}
	b.Total = total
	return b
}
