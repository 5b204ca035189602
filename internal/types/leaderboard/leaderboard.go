package leaderboard

import "github.com/google/uuid"

// Participant is one row of a challenge leaderboard. TotalScore is the sum of
// the participant's check-in auto scores as observed at build time; Rank uses
// dense competition ranking (tied scores share a rank, the next distinct score
// skips past the tie).
type Participant struct {
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	Username      string    `json:"username" db:"username"`
	ImageURL      *string   `json:"image_url" db:"image_url"`
	TotalScore    int       `json:"total_score" db:"total_score"`
	CheckinsCount int       `json:"checkins_count" db:"checkins_count"`
	LastCheckin   string    `json:"last_checkin" db:"last_checkin"`
	CurrentStreak int       `json:"current_streak" db:"current_streak"`
	LongestStreak int       `json:"longest_streak" db:"longest_streak"`
	Rank          int       `json:"rank" db:"rank"`
}

type ChallengeLeaderboard struct {
	ChallengeID       uuid.UUID      `json:"challenge_id"`
	Participants      []*Participant `json:"participants"`
	TotalParticipants int            `json:"total_participants"`
	AverageScore      int            `json:"average_score"`
	TopScore          int            `json:"top_score"`
}

// GlobalEntry is one row of the cross-challenge leaderboard.
type GlobalEntry struct {
	UserID          uuid.UUID `json:"user_id"`
	Username        string    `json:"username"`
	ImageURL        *string   `json:"image_url"`
	TotalScore      int       `json:"total_score"`
	ChallengesCount int       `json:"challenges_count"`
	TotalCheckins   int       `json:"total_checkins"`
	AverageScore    int       `json:"average_score"`
	LastActivity    string    `json:"last_activity"`
	Rank            int       `json:"rank"`
}

// ScoreBucket is one column of the five-bucket score histogram.
type ScoreBucket struct {
	Min   int `json:"min"`
	Max   int `json:"max"`
	Count int `json:"count"`
}

type ChallengeStats struct {
	TotalParticipants  int            `json:"total_participants"`
	AverageScore       int            `json:"average_score"`
	TopScore           int            `json:"top_score"`
	ScoreDistribution  []ScoreBucket  `json:"score_distribution"`
	ParticipationTrend map[string]int `json:"participation_trend"`
}
