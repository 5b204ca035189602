package services

import (
	"context"
	"log"

	"github.com/google/uuid"

	"fitArenaAPI/internal/store"
	"fitArenaAPI/internal/types/leaderboard"
)

const distributionBuckets = 5

// AnalyticsService derives histograms and participation trends from built
// leaderboards.
type AnalyticsService struct {
	store        store.Store
	leaderboards *LeaderboardService
}

func NewAnalyticsService(st store.Store, leaderboards *LeaderboardService) *AnalyticsService {
	return &AnalyticsService{store: st, leaderboards: leaderboards}
}

// GetChallengeLeaderboardStats builds the leaderboard and summarizes it, or
// returns nil when the challenge is unknown or the reads fail.
func (s *AnalyticsService) GetChallengeLeaderboardStats(ctx context.Context, challengeID uuid.UUID) *leaderboard.ChallengeStats {
	board := s.leaderboards.GetChallengeLeaderboard(ctx, challengeID)
	if board == nil {
		return nil
	}

	checkins, err := s.store.GetCheckinsByChallenge(ctx, challengeID)
	if err != nil {
		log.Printf("Leaderboard stats: failed to load checkins for %s: %v", challengeID, err)
		return nil
	}

	trend := make(map[string]int, len(checkins))
	for _, c := range checkins {
		trend[c.Date]++
	}

	return &leaderboard.ChallengeStats{
		TotalParticipants:  board.TotalParticipants,
		AverageScore:       board.AverageScore,
		TopScore:           board.TopScore,
		ScoreDistribution:  ScoreDistribution(board.Participants),
		ParticipationTrend: trend,
	}
}

// ScoreDistribution splits the observed score range into five equal-width
// buckets and counts participants per bucket. Buckets are half-open except
// the last, which also includes the maximum so the top scorer is counted.
// When every score is identical the range collapses and all participants
// land in the first bucket.
func ScoreDistribution(participants []*leaderboard.Participant) []leaderboard.ScoreBucket {
	buckets := make([]leaderboard.ScoreBucket, distributionBuckets)
	if len(participants) == 0 {
		return buckets
	}

	min, max := participants[0].TotalScore, participants[0].TotalScore
	for _, p := range participants {
		if p.TotalScore < min {
			min = p.TotalScore
		}
		if p.TotalScore > max {
			max = p.TotalScore
		}
	}

	width := float64(max-min) / float64(distributionBuckets)
	for i := range buckets {
		buckets[i].Min = min + int(float64(i)*width)
		buckets[i].Max = min + int(float64(i+1)*width)
	}
	buckets[distributionBuckets-1].Max = max

	if max == min {
		buckets[0].Count = len(participants)
		return buckets
	}

	// Count against the integer bounds reported above, so a score always
	// lands in the bucket whose [Min, Max) range it displays in.
	for _, p := range participants {
		idx := distributionBuckets - 1
		for i := 0; i < distributionBuckets-1; i++ {
			if p.TotalScore < buckets[i].Max {
				idx = i
				break
			}
		}
		buckets[idx].Count++
	}

	return buckets
}
