package services

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"

	"fitArenaAPI/internal/store"
	"fitArenaAPI/internal/types/leaderboard"
)

// LeaderboardSubscription pushes a freshly built leaderboard to its callback
// every time a check-in on the challenge changes. There is no coalescing:
// each change triggers one full rebuild, which keeps the snapshot honest at
// the cost of redundant work during write bursts.
type LeaderboardSubscription struct {
	mu          sync.Mutex
	stopped     bool
	unsubscribe store.Unsubscribe
}

// Stop ends the subscription. Future deliveries cease; a rebuild already in
// flight is not interrupted and its callback is dropped.
func (s *LeaderboardSubscription) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

func (s *LeaderboardSubscription) active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.stopped
}

// SubscribeToChallengeLeaderboard opens a live view on a challenge
// leaderboard. The callback receives the current snapshot immediately, a new
// snapshot after every check-in change, and nil if the change stream breaks.
func (s *LeaderboardService) SubscribeToChallengeLeaderboard(ctx context.Context, challengeID uuid.UUID, callback func(*leaderboard.ChallengeLeaderboard)) (*LeaderboardSubscription, error) {
	sub := &LeaderboardSubscription{}

	deliver := func(board *leaderboard.ChallengeLeaderboard) {
		if !sub.active() {
			return
		}
		if board == nil {
			liveLeaderboardEvents.WithLabelValues("error").Inc()
		} else {
			liveLeaderboardEvents.WithLabelValues("snapshot").Inc()
		}
		callback(board)
	}

	onEvent := func() {
		deliver(s.GetChallengeLeaderboard(ctx, challengeID))
	}
	onError := func(err error) {
		log.Printf("Live leaderboard for challenge %s: stream error: %v", challengeID, err)
		deliver(nil)
	}

	unsubscribe, err := s.store.SubscribeCheckinChanges(ctx, challengeID, onEvent, onError)
	if err != nil {
		return nil, err
	}

	sub.mu.Lock()
	sub.unsubscribe = unsubscribe
	stopped := sub.stopped
	sub.mu.Unlock()
	if stopped {
		unsubscribe()
	}

	return sub, nil
}
