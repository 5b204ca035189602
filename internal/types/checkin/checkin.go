package checkin

import (
	"time"

	"github.com/google/uuid"
)

// Metrics is one day's self-reported activity. Steps, NutritionScore,
// SleepHours, WaterIntake and MeditationMinutes are optional; nil means the
// user did not report that metric.
type Metrics struct {
	Steps             *int     `json:"steps" db:"steps"`
	Workouts          int      `json:"workouts" db:"workouts"`
	NutritionScore    *int     `json:"nutrition_score" db:"nutrition_score"`
	SleepHours        *float64 `json:"sleep_hours" db:"sleep_hours"`
	WaterIntake       *float64 `json:"water_intake" db:"water_intake"`
	MeditationMinutes *int     `json:"meditation_minutes" db:"meditation_minutes"`
}

// Checkin is one activity record. Date is the calendar day in "2006-01-02"
// form; AutoScore is the point value computed when the check-in was submitted.
type Checkin struct {
	ID           uuid.UUID `json:"id" db:"id"`
	EnrollmentID uuid.UUID `json:"enrollment_id" db:"enrollment_id"`
	ChallengeID  uuid.UUID `json:"challenge_id" db:"challenge_id"`
	UserID       uuid.UUID `json:"user_id" db:"user_id"`
	Date         string    `json:"date" db:"date"`
	Metrics      Metrics   `json:"metrics"`
	AutoScore    int       `json:"auto_score" db:"auto_score"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
