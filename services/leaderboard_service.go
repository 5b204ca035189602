package services

import (
	"context"
	"errors"
	"log"
	"math"
	"sort"

	"github.com/google/uuid"

	"fitArenaAPI/internal/store"
	"fitArenaAPI/internal/types/challenge"
	"fitArenaAPI/internal/types/enrollment"
	"fitArenaAPI/internal/types/leaderboard"
	"fitArenaAPI/utils"
)

// globalRankSearchWidth caps how deep GetUserGlobalRank searches the global
// leaderboard before giving up.
const globalRankSearchWidth = 1000

// LeaderboardService builds challenge and cross-challenge leaderboards from
// the store. Every build is a fresh read-side aggregation: enrollment
// running totals are never trusted, scores are re-summed from check-in
// records, and ranks are derived on the way out. Failures are absorbed and
// surface as nil results.
type LeaderboardService struct {
	store store.Store
}

func NewLeaderboardService(st store.Store) *LeaderboardService {
	return &LeaderboardService{store: st}
}

// GetChallengeLeaderboard returns the ranked standings for one challenge, or
// nil when the challenge does not exist or the read fails. A challenge with
// no paid enrollments yields a valid empty leaderboard.
func (s *LeaderboardService) GetChallengeLeaderboard(ctx context.Context, challengeID uuid.UUID) *leaderboard.ChallengeLeaderboard {
	leaderboardBuilds.WithLabelValues("challenge").Inc()

	if _, err := s.store.GetChallenge(ctx, challengeID); err != nil {
		log.Printf("Leaderboard build: challenge %s unavailable: %v", challengeID, err)
		return nil
	}

	enrollments, err := s.store.GetEnrollments(ctx, challengeID, enrollment.PaymentPaid)
	if err != nil {
		log.Printf("Leaderboard build: failed to load enrollments for %s: %v", challengeID, err)
		return nil
	}

	participants := make([]*leaderboard.Participant, 0, len(enrollments))
	for _, e := range enrollments {
		checkins, err := s.store.GetCheckinsByEnrollment(ctx, e.ID)
		if err != nil {
			log.Printf("Leaderboard build: failed to load checkins for enrollment %s: %v", e.ID, err)
			return nil
		}

		p := &leaderboard.Participant{UserID: e.UserID}
		dates := make([]string, 0, len(checkins))
		for _, c := range checkins {
			p.TotalScore += c.AutoScore
			dates = append(dates, c.Date)
		}
		p.CheckinsCount = len(checkins)
		if len(checkins) > 0 {
			// Store returns newest day first.
			p.LastCheckin = checkins[0].Date
		}
		streak := utils.CalculateStreak(dates)
		p.CurrentStreak = streak.CurrentStreak
		p.LongestStreak = streak.LongestStreak

		participants = append(participants, p)
	}

	sort.SliceStable(participants, func(i, j int) bool {
		return participants[i].TotalScore > participants[j].TotalScore
	})

	scores := make([]int, len(participants))
	for i, p := range participants {
		scores[i] = p.TotalScore
	}
	for i, rank := range utils.AssignRanks(scores) {
		participants[i].Rank = rank
	}

	if !s.attachIdentities(ctx, participants) {
		return nil
	}

	board := &leaderboard.ChallengeLeaderboard{
		ChallengeID:       challengeID,
		Participants:      participants,
		TotalParticipants: len(participants),
	}
	if len(participants) > 0 {
		total := 0
		for _, p := range participants {
			total += p.TotalScore
		}
		board.AverageScore = int(math.Round(float64(total) / float64(len(participants))))
		board.TopScore = participants[0].TotalScore
	}

	return board
}

// attachIdentities resolves each unique user id once. A missing identity gets
// a placeholder; a read failure aborts the build.
func (s *LeaderboardService) attachIdentities(ctx context.Context, participants []*leaderboard.Participant) bool {
	resolved := make(map[uuid.UUID]*leaderboard.Participant, len(participants))
	for _, p := range participants {
		if prev, ok := resolved[p.UserID]; ok {
			p.Username = prev.Username
			p.ImageURL = prev.ImageURL
			continue
		}

		identity, err := s.store.GetUserIdentity(ctx, p.UserID)
		switch {
		case err == nil:
			p.Username = identity.Username
			p.ImageURL = identity.ImageURL
		case errors.Is(err, store.ErrNotFound):
			p.Username = "Unknown"
		default:
			log.Printf("Leaderboard build: failed to resolve identity %s: %v", p.UserID, err)
			return false
		}
		resolved[p.UserID] = p
	}
	return true
}

// GetGlobalLeaderboard folds every published challenge's leaderboard into one
// cross-challenge standing, truncated to limit. A challenge whose build fails
// is skipped so one broken challenge cannot take down the whole aggregation.
// Returns an empty slice, never nil.
func (s *LeaderboardService) GetGlobalLeaderboard(ctx context.Context, limit int) []*leaderboard.GlobalEntry {
	leaderboardBuilds.WithLabelValues("global").Inc()

	challenges, err := s.store.GetChallengesByStatus(ctx, challenge.StatusPublished)
	if err != nil {
		log.Printf("Global leaderboard: failed to load published challenges: %v", err)
		return []*leaderboard.GlobalEntry{}
	}

	totals := make(map[uuid.UUID]*leaderboard.GlobalEntry)
	for _, c := range challenges {
		board := s.GetChallengeLeaderboard(ctx, c.ID)
		if board == nil {
			log.Printf("Global leaderboard: skipping challenge %s (build failed)", c.ID)
			continue
		}

		for _, p := range board.Participants {
			entry, ok := totals[p.UserID]
			if !ok {
				entry = &leaderboard.GlobalEntry{
					UserID:   p.UserID,
					Username: p.Username,
					ImageURL: p.ImageURL,
				}
				totals[p.UserID] = entry
			}
			entry.TotalScore += p.TotalScore
			entry.ChallengesCount++
			entry.TotalCheckins += p.CheckinsCount
			if p.LastCheckin > entry.LastActivity {
				entry.LastActivity = p.LastCheckin
			}
		}
	}

	entries := make([]*leaderboard.GlobalEntry, 0, len(totals))
	for _, entry := range totals {
		entry.AverageScore = int(math.Round(float64(entry.TotalScore) / float64(entry.ChallengesCount)))
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalScore != entries[j].TotalScore {
			return entries[i].TotalScore > entries[j].TotalScore
		}
		return entries[i].Username < entries[j].Username
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	scores := make([]int, len(entries))
	for i, entry := range entries {
		scores[i] = entry.TotalScore
	}
	for i, rank := range utils.AssignRanks(scores) {
		entries[i].Rank = rank
	}

	return entries
}

// GetUserChallengeRank looks the user up in a freshly built challenge
// leaderboard. The second return is false when the challenge is unknown or
// the user is not on the board.
func (s *LeaderboardService) GetUserChallengeRank(ctx context.Context, userID, challengeID uuid.UUID) (int, bool) {
	board := s.GetChallengeLeaderboard(ctx, challengeID)
	if board == nil {
		return 0, false
	}
	for _, p := range board.Participants {
		if p.UserID == userID {
			return p.Rank, true
		}
	}
	return 0, false
}

// GetUserGlobalRank looks the user up in a freshly built global leaderboard.
func (s *LeaderboardService) GetUserGlobalRank(ctx context.Context, userID uuid.UUID) (int, bool) {
	for _, entry := range s.GetGlobalLeaderboard(ctx, globalRankSearchWidth) {
		if entry.UserID == userID {
			return entry.Rank, true
		}
	}
	return 0, false
}
