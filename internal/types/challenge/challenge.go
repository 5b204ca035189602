package challenge

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// ScoringConfig holds the per-challenge knobs for the check-in score formula.
// StepsBuckets must be ascending. ConsistencyBonus and StreakMultiplier are
// optional; zero disables them.
type ScoringConfig struct {
	BasePoints       int     `json:"base_points" db:"base_points"`
	WorkoutPoints    int     `json:"workout_points" db:"workout_points"`
	NutritionPoints  int     `json:"nutrition_points" db:"nutrition_points"`
	StepsBuckets     []int   `json:"steps_buckets" db:"steps_buckets"`
	ConsistencyBonus int     `json:"consistency_bonus" db:"consistency_bonus"`
	StreakMultiplier float64 `json:"streak_multiplier" db:"streak_multiplier"`
}

type Challenge struct {
	ID          uuid.UUID     `json:"id" db:"id"`
	Name        string        `json:"name" db:"name"`
	Description string        `json:"description" db:"description"`
	Status      Status        `json:"status" db:"status"`
	StartDate   time.Time     `json:"start_date" db:"start_date"`
	EndDate     time.Time     `json:"end_date" db:"end_date"`
	Scoring     ScoringConfig `json:"scoring" db:"scoring"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
}
