package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"fitArenaAPI/internal/types/challenge"
	"fitArenaAPI/internal/types/checkin"
	"fitArenaAPI/internal/types/enrollment"
	"fitArenaAPI/internal/types/user"
)

// MemoryStore is an in-process Store used by the test suite and for local
// development without a database. Writes fan change notifications out to
// subscribers the same way the Postgres listener does.
type MemoryStore struct {
	mu          sync.RWMutex
	challenges  map[uuid.UUID]*challenge.Challenge
	enrollments map[uuid.UUID]*enrollment.Enrollment
	checkins    map[uuid.UUID]*checkin.Checkin
	users       map[uuid.UUID]*user.Identity
	subscribers map[int]*memorySubscriber
	nextSubID   int
}

type memorySubscriber struct {
	challengeID uuid.UUID
	onEvent     func()
	stopped     bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		challenges:  make(map[uuid.UUID]*challenge.Challenge),
		enrollments: make(map[uuid.UUID]*enrollment.Enrollment),
		checkins:    make(map[uuid.UUID]*checkin.Checkin),
		users:       make(map[uuid.UUID]*user.Identity),
		subscribers: make(map[int]*memorySubscriber),
	}
}

func (s *MemoryStore) AddChallenge(c *challenge.Challenge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[c.ID] = c
}

func (s *MemoryStore) AddEnrollment(e *enrollment.Enrollment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enrollments[e.ID] = e
}

func (s *MemoryStore) AddUser(u *user.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.UserID] = u
}

// AddCheckin stores the record and notifies subscribers on its challenge.
func (s *MemoryStore) AddCheckin(c *checkin.Checkin) {
	s.mu.Lock()
	s.checkins[c.ID] = c

	notify := []*memorySubscriber{}
	for _, sub := range s.subscribers {
		if !sub.stopped && sub.challengeID == c.ChallengeID {
			notify = append(notify, sub)
		}
	}
	s.mu.Unlock()

	for _, sub := range notify {
		sub.onEvent()
	}
}

func (s *MemoryStore) GetChallenge(ctx context.Context, id uuid.UUID) (*challenge.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.challenges[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

func (s *MemoryStore) GetChallengesByStatus(ctx context.Context, status challenge.Status) ([]*challenge.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	challenges := []*challenge.Challenge{}
	for _, c := range s.challenges {
		if c.Status == status {
			challenges = append(challenges, c)
		}
	}
	sort.Slice(challenges, func(i, j int) bool {
		return challenges[i].CreatedAt.After(challenges[j].CreatedAt)
	})
	return challenges, nil
}

func (s *MemoryStore) GetEnrollments(ctx context.Context, challengeID uuid.UUID, status enrollment.PaymentStatus) ([]*enrollment.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	enrollments := []*enrollment.Enrollment{}
	for _, e := range s.enrollments {
		if e.ChallengeID == challengeID && e.PaymentStatus == status {
			enrollments = append(enrollments, e)
		}
	}
	sort.Slice(enrollments, func(i, j int) bool {
		return enrollments[i].JoinedAt.Before(enrollments[j].JoinedAt)
	})
	return enrollments, nil
}

func (s *MemoryStore) GetCheckinsByEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]*checkin.Checkin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	checkins := []*checkin.Checkin{}
	for _, c := range s.checkins {
		if c.EnrollmentID == enrollmentID {
			checkins = append(checkins, c)
		}
	}
	sort.Slice(checkins, func(i, j int) bool {
		return checkins[i].Date > checkins[j].Date
	})
	return checkins, nil
}

func (s *MemoryStore) GetCheckinsByChallenge(ctx context.Context, challengeID uuid.UUID) ([]*checkin.Checkin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	checkins := []*checkin.Checkin{}
	for _, c := range s.checkins {
		if c.ChallengeID == challengeID {
			checkins = append(checkins, c)
		}
	}
	sort.Slice(checkins, func(i, j int) bool {
		return checkins[i].Date < checkins[j].Date
	})
	return checkins, nil
}

func (s *MemoryStore) GetUserIdentity(ctx context.Context, userID uuid.UUID) (*user.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (s *MemoryStore) SubscribeCheckinChanges(ctx context.Context, challengeID uuid.UUID, onEvent func(), onError func(error)) (Unsubscribe, error) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	sub := &memorySubscriber{challengeID: challengeID, onEvent: onEvent}
	s.subscribers[id] = sub
	s.mu.Unlock()

	// Initial snapshot, same contract as the Postgres listener.
	onEvent()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		sub.stopped = true
		delete(s.subscribers, id)
	}, nil
}
