package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"fitArenaAPI/internal/store"
	"fitArenaAPI/internal/types/challenge"
	"fitArenaAPI/internal/types/enrollment"
	"fitArenaAPI/internal/types/leaderboard"
)

// breakableStreamStore delegates to the in-memory store but keeps hold of the
// stream's error hook so tests can snap the stream on demand.
type breakableStreamStore struct {
	*store.MemoryStore
	breakStream func(error)
}

func (s *breakableStreamStore) SubscribeCheckinChanges(ctx context.Context, challengeID uuid.UUID, onEvent func(), onError func(error)) (store.Unsubscribe, error) {
	s.breakStream = onError
	return s.MemoryStore.SubscribeCheckinChanges(ctx, challengeID, onEvent, onError)
}

func TestSubscribeDeliversInitialSnapshot(t *testing.T) {
	f := newFixture()
	c := f.addChallenge(challenge.StatusPublished)
	alice := f.addUser("alice")
	e := f.enroll(alice, c.ID, enrollment.PaymentPaid)
	f.addCheckin(e, "2025-03-01", 10)

	var snapshots []*leaderboard.ChallengeLeaderboard
	sub, err := f.service.SubscribeToChallengeLeaderboard(context.Background(), c.ID, func(b *leaderboard.ChallengeLeaderboard) {
		snapshots = append(snapshots, b)
	})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer sub.Stop()

	if len(snapshots) != 1 {
		t.Fatalf("Expected 1 initial snapshot, got %d", len(snapshots))
	}
	if snapshots[0] == nil || snapshots[0].TopScore != 10 {
		t.Errorf("Unexpected initial snapshot: %+v", snapshots[0])
	}
}

func TestSubscribeRebuildsOnCheckinChange(t *testing.T) {
	f := newFixture()
	c := f.addChallenge(challenge.StatusPublished)
	alice := f.addUser("alice")
	e := f.enroll(alice, c.ID, enrollment.PaymentPaid)
	f.addCheckin(e, "2025-03-01", 10)

	var snapshots []*leaderboard.ChallengeLeaderboard
	sub, err := f.service.SubscribeToChallengeLeaderboard(context.Background(), c.ID, func(b *leaderboard.ChallengeLeaderboard) {
		snapshots = append(snapshots, b)
	})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer sub.Stop()

	f.addCheckin(e, "2025-03-02", 25)

	if len(snapshots) != 2 {
		t.Fatalf("Expected 2 snapshots after insert, got %d", len(snapshots))
	}
	latest := snapshots[1]
	if latest == nil || latest.TopScore != 35 {
		t.Errorf("Expected recomputed top score 35, got %+v", latest)
	}
	if latest.Participants[0].CurrentStreak != 2 {
		t.Errorf("Expected streak 2 in live snapshot, got %d", latest.Participants[0].CurrentStreak)
	}
}

func TestSubscribeDeliversNilOnStreamError(t *testing.T) {
	f := newFixture()
	c := f.addChallenge(challenge.StatusPublished)
	alice := f.addUser("alice")
	e := f.enroll(alice, c.ID, enrollment.PaymentPaid)
	f.addCheckin(e, "2025-03-01", 10)

	st := &breakableStreamStore{MemoryStore: f.store}
	service := NewLeaderboardService(st)

	var snapshots []*leaderboard.ChallengeLeaderboard
	sub, err := service.SubscribeToChallengeLeaderboard(context.Background(), c.ID, func(b *leaderboard.ChallengeLeaderboard) {
		snapshots = append(snapshots, b)
	})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer sub.Stop()

	if len(snapshots) != 1 || snapshots[0] == nil {
		t.Fatalf("Expected a healthy initial snapshot, got %d snapshots", len(snapshots))
	}

	st.breakStream(errors.New("connection reset"))

	if len(snapshots) != 2 {
		t.Fatalf("Expected one error delivery after the stream broke, got %d snapshots", len(snapshots))
	}
	if snapshots[1] != nil {
		t.Errorf("Expected nil snapshot on stream error, got %+v", snapshots[1])
	}
}

func TestSubscribeStopEndsDeliveries(t *testing.T) {
	f := newFixture()
	c := f.addChallenge(challenge.StatusPublished)
	alice := f.addUser("alice")
	e := f.enroll(alice, c.ID, enrollment.PaymentPaid)

	deliveries := 0
	sub, err := f.service.SubscribeToChallengeLeaderboard(context.Background(), c.ID, func(*leaderboard.ChallengeLeaderboard) {
		deliveries++
	})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	sub.Stop()
	sub.Stop() // idempotent

	f.addCheckin(e, "2025-03-01", 10)

	if deliveries != 1 {
		t.Errorf("Expected only the initial delivery after Stop, got %d", deliveries)
	}
}
