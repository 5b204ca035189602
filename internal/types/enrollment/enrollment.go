package enrollment

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentPaid     PaymentStatus = "paid"
	PaymentPending  PaymentStatus = "pending"
	PaymentRefunded PaymentStatus = "refunded"
)

// Enrollment links a user to a challenge. Only paid enrollments count toward
// leaderboards. TotalScore is the running counter maintained by the check-in
// submission path; leaderboard builds recompute from check-ins and never read
// it.
type Enrollment struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	UserID        uuid.UUID     `json:"user_id" db:"user_id"`
	ChallengeID   uuid.UUID     `json:"challenge_id" db:"challenge_id"`
	PaymentStatus PaymentStatus `json:"payment_status" db:"payment_status"`
	TotalScore    int           `json:"total_score" db:"total_score"`
	JoinedAt      time.Time     `json:"joined_at" db:"joined_at"`
}
