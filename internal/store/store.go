package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"fitArenaAPI/internal/types/challenge"
	"fitArenaAPI/internal/types/checkin"
	"fitArenaAPI/internal/types/enrollment"
	"fitArenaAPI/internal/types/user"
)

// ErrNotFound is returned by single-entity lookups when no row matches.
var ErrNotFound = errors.New("not found")

// Unsubscribe stops a change-notification stream. It only stops future
// deliveries; a callback already running is not interrupted.
type Unsubscribe func()

// Store is the persistence surface the leaderboard engine reads from. All
// leaderboard state is derived on the fly from these queries; nothing is ever
// written back.
type Store interface {
	GetChallenge(ctx context.Context, id uuid.UUID) (*challenge.Challenge, error)
	GetChallengesByStatus(ctx context.Context, status challenge.Status) ([]*challenge.Challenge, error)
	GetEnrollments(ctx context.Context, challengeID uuid.UUID, status enrollment.PaymentStatus) ([]*enrollment.Enrollment, error)

	// GetCheckinsByEnrollment returns check-ins newest day first.
	GetCheckinsByEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]*checkin.Checkin, error)
	// GetCheckinsByChallenge returns check-ins oldest day first.
	GetCheckinsByChallenge(ctx context.Context, challengeID uuid.UUID) ([]*checkin.Checkin, error)

	GetUserIdentity(ctx context.Context, userID uuid.UUID) (*user.Identity, error)

	// SubscribeCheckinChanges calls onEvent once for the initial snapshot and
	// once per subsequent check-in change on the challenge, and onError when
	// the stream breaks. The payload of a change is not delivered; consumers
	// re-query.
	SubscribeCheckinChanges(ctx context.Context, challengeID uuid.UUID, onEvent func(), onError func(error)) (Unsubscribe, error)
}
