package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"fitArenaAPI/internal/store"
	"fitArenaAPI/internal/types/challenge"
	"fitArenaAPI/internal/types/checkin"
	"fitArenaAPI/internal/types/enrollment"
	"fitArenaAPI/internal/types/user"
)

// flakyStore delegates to the in-memory store but fails check-in reads for
// selected enrollments.
type flakyStore struct {
	*store.MemoryStore
	failEnrollments map[uuid.UUID]bool
}

func (s *flakyStore) GetCheckinsByEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]*checkin.Checkin, error) {
	if s.failEnrollments[enrollmentID] {
		return nil, errors.New("storage offline")
	}
	return s.MemoryStore.GetCheckinsByEnrollment(ctx, enrollmentID)
}

type fixture struct {
	store   *store.MemoryStore
	service *LeaderboardService
}

func newFixture() *fixture {
	st := store.NewMemoryStore()
	return &fixture{store: st, service: NewLeaderboardService(st)}
}

func (f *fixture) addChallenge(status challenge.Status) *challenge.Challenge {
	c := &challenge.Challenge{
		ID:     uuid.New(),
		Name:   "30-Day Shred",
		Status: status,
		Scoring: challenge.ScoringConfig{
			BasePoints:      10,
			WorkoutPoints:   5,
			NutritionPoints: 3,
			StepsBuckets:    []int{5000, 8000, 10000},
		},
		StartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Now(),
	}
	f.store.AddChallenge(c)
	return c
}

func (f *fixture) addUser(username string) uuid.UUID {
	id := uuid.New()
	f.store.AddUser(&user.Identity{UserID: id, Username: username})
	return id
}

func (f *fixture) enroll(userID, challengeID uuid.UUID, status enrollment.PaymentStatus) *enrollment.Enrollment {
	e := &enrollment.Enrollment{
		ID:            uuid.New(),
		UserID:        userID,
		ChallengeID:   challengeID,
		PaymentStatus: status,
		JoinedAt:      time.Now(),
	}
	f.store.AddEnrollment(e)
	return e
}

func (f *fixture) addCheckin(e *enrollment.Enrollment, date string, score int) {
	f.store.AddCheckin(&checkin.Checkin{
		ID:           uuid.New(),
		EnrollmentID: e.ID,
		ChallengeID:  e.ChallengeID,
		UserID:       e.UserID,
		Date:         date,
		AutoScore:    score,
		CreatedAt:    time.Now(),
	})
}

func TestGetChallengeLeaderboardUnknownChallenge(t *testing.T) {
	f := newFixture()
	if board := f.service.GetChallengeLeaderboard(context.Background(), uuid.New()); board != nil {
		t.Errorf("Expected nil for unknown challenge, got %+v", board)
	}
}

func TestGetChallengeLeaderboardNoPaidEnrollments(t *testing.T) {
	f := newFixture()
	c := f.addChallenge(challenge.StatusPublished)
	userID := f.addUser("freeloader")
	f.enroll(userID, c.ID, enrollment.PaymentPending)

	board := f.service.GetChallengeLeaderboard(context.Background(), c.ID)
	if board == nil {
		t.Fatal("Expected an empty leaderboard, got nil")
	}
	if len(board.Participants) != 0 || board.TotalParticipants != 0 {
		t.Errorf("Expected no participants, got %d", board.TotalParticipants)
	}
	if board.AverageScore != 0 || board.TopScore != 0 {
		t.Errorf("Expected zero stats, got avg=%d top=%d", board.AverageScore, board.TopScore)
	}
}

func TestGetChallengeLeaderboardAggregation(t *testing.T) {
	f := newFixture()
	c := f.addChallenge(challenge.StatusPublished)

	alice := f.addUser("alice")
	bob := f.addUser("bob")
	aliceEnr := f.enroll(alice, c.ID, enrollment.PaymentPaid)
	bobEnr := f.enroll(bob, c.ID, enrollment.PaymentPaid)

	f.addCheckin(aliceEnr, "2025-03-01", 20)
	f.addCheckin(aliceEnr, "2025-03-02", 25)
	f.addCheckin(aliceEnr, "2025-03-03", 15)
	f.addCheckin(bobEnr, "2025-03-01", 30)
	f.addCheckin(bobEnr, "2025-03-03", 10)

	board := f.service.GetChallengeLeaderboard(context.Background(), c.ID)
	if board == nil {
		t.Fatal("Expected a leaderboard, got nil")
	}
	if board.TotalParticipants != 2 {
		t.Fatalf("Expected 2 participants, got %d", board.TotalParticipants)
	}

	top := board.Participants[0]
	if top.Username != "alice" || top.TotalScore != 60 || top.Rank != 1 {
		t.Errorf("Unexpected top participant: %+v", top)
	}
	if top.CurrentStreak != 3 || top.LongestStreak != 3 {
		t.Errorf("Expected alice streak {3,3}, got {%d,%d}", top.CurrentStreak, top.LongestStreak)
	}
	if top.LastCheckin != "2025-03-03" {
		t.Errorf("Expected last check-in 2025-03-03, got %s", top.LastCheckin)
	}

	second := board.Participants[1]
	if second.Username != "bob" || second.TotalScore != 40 || second.Rank != 2 {
		t.Errorf("Unexpected second participant: %+v", second)
	}
	if second.CurrentStreak != 1 || second.LongestStreak != 1 {
		t.Errorf("Expected bob streak {1,1}, got {%d,%d}", second.CurrentStreak, second.LongestStreak)
	}

	if board.AverageScore != 50 {
		t.Errorf("Expected average 50, got %d", board.AverageScore)
	}
	if board.TopScore != 60 {
		t.Errorf("Expected top score 60, got %d", board.TopScore)
	}
}

func TestGetChallengeLeaderboardIgnoresRunningTotals(t *testing.T) {
	f := newFixture()
	c := f.addChallenge(challenge.StatusPublished)
	userID := f.addUser("carol")

	e := f.enroll(userID, c.ID, enrollment.PaymentPaid)
	e.TotalScore = 9999 // stale counter from the write path
	f.addCheckin(e, "2025-03-01", 12)

	board := f.service.GetChallengeLeaderboard(context.Background(), c.ID)
	if board == nil {
		t.Fatal("Expected a leaderboard, got nil")
	}
	if got := board.Participants[0].TotalScore; got != 12 {
		t.Errorf("Expected recomputed score 12, got %d", got)
	}
}

func TestGetChallengeLeaderboardTiedRanks(t *testing.T) {
	f := newFixture()
	c := f.addChallenge(challenge.StatusPublished)

	for i, score := range []int{100, 100, 90} {
		userID := f.addUser([]string{"first", "second", "third"}[i])
		e := f.enroll(userID, c.ID, enrollment.PaymentPaid)
		f.addCheckin(e, "2025-03-01", score)
	}

	board := f.service.GetChallengeLeaderboard(context.Background(), c.ID)
	if board == nil {
		t.Fatal("Expected a leaderboard, got nil")
	}

	ranks := []int{}
	for _, p := range board.Participants {
		ranks = append(ranks, p.Rank)
	}
	want := []int{1, 1, 3}
	for i := range want {
		if ranks[i] != want[i] {
			t.Fatalf("Expected ranks %v, got %v", want, ranks)
		}
	}
}

func TestGetGlobalLeaderboardFold(t *testing.T) {
	f := newFixture()
	spring := f.addChallenge(challenge.StatusPublished)
	summer := f.addChallenge(challenge.StatusPublished)
	draft := f.addChallenge(challenge.StatusDraft)

	alice := f.addUser("alice")
	bob := f.addUser("bob")

	aliceSpring := f.enroll(alice, spring.ID, enrollment.PaymentPaid)
	aliceSummer := f.enroll(alice, summer.ID, enrollment.PaymentPaid)
	bobSpring := f.enroll(bob, spring.ID, enrollment.PaymentPaid)
	bobDraft := f.enroll(bob, draft.ID, enrollment.PaymentPaid)

	f.addCheckin(aliceSpring, "2025-03-01", 40)
	f.addCheckin(aliceSummer, "2025-06-01", 20)
	f.addCheckin(bobSpring, "2025-03-02", 50)
	f.addCheckin(bobDraft, "2025-07-01", 500) // draft challenge must not count

	entries := f.service.GetGlobalLeaderboard(context.Background(), 10)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 global entries, got %d", len(entries))
	}

	top := entries[0]
	if top.Username != "alice" || top.TotalScore != 60 || top.Rank != 1 {
		t.Errorf("Unexpected top entry: %+v", top)
	}
	if top.ChallengesCount != 2 || top.TotalCheckins != 2 {
		t.Errorf("Expected alice in 2 challenges with 2 check-ins, got %+v", top)
	}
	if top.AverageScore != 30 {
		t.Errorf("Expected average 30, got %d", top.AverageScore)
	}
	if top.LastActivity != "2025-06-01" {
		t.Errorf("Expected last activity 2025-06-01, got %s", top.LastActivity)
	}

	second := entries[1]
	if second.Username != "bob" || second.TotalScore != 50 || second.Rank != 2 {
		t.Errorf("Unexpected second entry: %+v", second)
	}
}

func TestGetGlobalLeaderboardLimit(t *testing.T) {
	f := newFixture()
	c := f.addChallenge(challenge.StatusPublished)

	for _, name := range []string{"a", "b", "c", "d"} {
		userID := f.addUser(name)
		e := f.enroll(userID, c.ID, enrollment.PaymentPaid)
		f.addCheckin(e, "2025-03-01", len(name)*10)
	}

	entries := f.service.GetGlobalLeaderboard(context.Background(), 2)
	if len(entries) != 2 {
		t.Errorf("Expected leaderboard truncated to 2, got %d", len(entries))
	}
}

func TestGetGlobalLeaderboardSkipsFailedChallenge(t *testing.T) {
	f := newFixture()
	broken := f.addChallenge(challenge.StatusPublished)
	healthy := f.addChallenge(challenge.StatusPublished)

	alice := f.addUser("alice")
	bob := f.addUser("bob")

	aliceBroken := f.enroll(alice, broken.ID, enrollment.PaymentPaid)
	aliceHealthy := f.enroll(alice, healthy.ID, enrollment.PaymentPaid)
	bobHealthy := f.enroll(bob, healthy.ID, enrollment.PaymentPaid)

	f.addCheckin(aliceBroken, "2025-03-01", 500)
	f.addCheckin(aliceHealthy, "2025-03-02", 20)
	f.addCheckin(bobHealthy, "2025-03-02", 30)

	service := NewLeaderboardService(&flakyStore{
		MemoryStore:     f.store,
		failEnrollments: map[uuid.UUID]bool{aliceBroken.ID: true},
	})

	// The broken challenge's own build must fail...
	if board := service.GetChallengeLeaderboard(context.Background(), broken.ID); board != nil {
		t.Fatalf("Expected nil board for broken challenge, got %+v", board)
	}

	// ...while the global build carries on with the healthy one.
	entries := service.GetGlobalLeaderboard(context.Background(), 10)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries from the healthy challenge, got %d", len(entries))
	}

	top := entries[0]
	if top.Username != "bob" || top.TotalScore != 30 || top.Rank != 1 {
		t.Errorf("Unexpected top entry: %+v", top)
	}
	second := entries[1]
	if second.Username != "alice" || second.TotalScore != 20 || second.Rank != 2 {
		t.Errorf("Unexpected second entry: %+v", second)
	}
	if second.ChallengesCount != 1 {
		t.Errorf("Expected alice counted in 1 challenge, got %d", second.ChallengesCount)
	}
}

func TestGetGlobalLeaderboardNoChallenges(t *testing.T) {
	f := newFixture()
	entries := f.service.GetGlobalLeaderboard(context.Background(), 10)
	if entries == nil {
		t.Fatal("Expected empty slice, got nil")
	}
	if len(entries) != 0 {
		t.Errorf("Expected no entries, got %d", len(entries))
	}
}

func TestGetUserChallengeRank(t *testing.T) {
	f := newFixture()
	c := f.addChallenge(challenge.StatusPublished)
	alice := f.addUser("alice")
	bob := f.addUser("bob")
	aliceEnr := f.enroll(alice, c.ID, enrollment.PaymentPaid)
	bobEnr := f.enroll(bob, c.ID, enrollment.PaymentPaid)
	f.addCheckin(aliceEnr, "2025-03-01", 10)
	f.addCheckin(bobEnr, "2025-03-01", 30)

	rank, found := f.service.GetUserChallengeRank(context.Background(), alice, c.ID)
	if !found || rank != 2 {
		t.Errorf("Expected alice at rank 2, got rank=%d found=%v", rank, found)
	}

	if _, found := f.service.GetUserChallengeRank(context.Background(), uuid.New(), c.ID); found {
		t.Error("Expected unknown user to be unranked")
	}
	if _, found := f.service.GetUserChallengeRank(context.Background(), alice, uuid.New()); found {
		t.Error("Expected unknown challenge to yield no rank")
	}
}

func TestGetUserGlobalRank(t *testing.T) {
	f := newFixture()
	c := f.addChallenge(challenge.StatusPublished)
	alice := f.addUser("alice")
	e := f.enroll(alice, c.ID, enrollment.PaymentPaid)
	f.addCheckin(e, "2025-03-01", 10)

	rank, found := f.service.GetUserGlobalRank(context.Background(), alice)
	if !found || rank != 1 {
		t.Errorf("Expected global rank 1, got rank=%d found=%v", rank, found)
	}

	if _, found := f.service.GetUserGlobalRank(context.Background(), uuid.New()); found {
		t.Error("Expected unknown user to be unranked globally")
	}
}

func TestGetChallengeLeaderboardMissingIdentity(t *testing.T) {
	f := newFixture()
	c := f.addChallenge(challenge.StatusPublished)

	// Enrolled user with no identity row.
	ghost := uuid.New()
	e := f.enroll(ghost, c.ID, enrollment.PaymentPaid)
	f.addCheckin(e, "2025-03-01", 10)

	board := f.service.GetChallengeLeaderboard(context.Background(), c.ID)
	if board == nil {
		t.Fatal("Expected a leaderboard, got nil")
	}
	if board.Participants[0].Username != "Unknown" {
		t.Errorf("Expected placeholder username, got %q", board.Participants[0].Username)
	}
}
