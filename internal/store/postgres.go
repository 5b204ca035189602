package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fitArenaAPI/internal/types/challenge"
	"fitArenaAPI/internal/types/checkin"
	"fitArenaAPI/internal/types/enrollment"
	"fitArenaAPI/internal/types/user"
)

// checkinChannel is the LISTEN/NOTIFY channel written by the check-in
// submission path. The payload is the challenge id the check-in belongs to.
const checkinChannel = "checkin_changes"

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetChallenge(ctx context.Context, id uuid.UUID) (*challenge.Challenge, error) {
	query := `
	SELECT id, name, description, status, start_date, end_date,
	       base_points, workout_points, nutrition_points, steps_buckets,
	       consistency_bonus, streak_multiplier, created_at
	FROM challenges
	WHERE id = $1
	`

	c := &challenge.Challenge{}
	err := s.db.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.Status,
		&c.StartDate,
		&c.EndDate,
		&c.Scoring.BasePoints,
		&c.Scoring.WorkoutPoints,
		&c.Scoring.NutritionPoints,
		&c.Scoring.StepsBuckets,
		&c.Scoring.ConsistencyBonus,
		&c.Scoring.StreakMultiplier,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}

	return c, nil
}

func (s *PostgresStore) GetChallengesByStatus(ctx context.Context, status challenge.Status) ([]*challenge.Challenge, error) {
	query := `
	SELECT id, name, description, status, start_date, end_date,
	       base_points, workout_points, nutrition_points, steps_buckets,
	       consistency_bonus, streak_multiplier, created_at
	FROM challenges
	WHERE status = $1
	ORDER BY created_at DESC
	`

	rows, err := s.db.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to query challenges: %w", err)
	}
	defer rows.Close()

	challenges := []*challenge.Challenge{}
	for rows.Next() {
		c := &challenge.Challenge{}
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Description,
			&c.Status,
			&c.StartDate,
			&c.EndDate,
			&c.Scoring.BasePoints,
			&c.Scoring.WorkoutPoints,
			&c.Scoring.NutritionPoints,
			&c.Scoring.StepsBuckets,
			&c.Scoring.ConsistencyBonus,
			&c.Scoring.StreakMultiplier,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		challenges = append(challenges, c)
	}

	return challenges, rows.Err()
}

func (s *PostgresStore) GetEnrollments(ctx context.Context, challengeID uuid.UUID, status enrollment.PaymentStatus) ([]*enrollment.Enrollment, error) {
	query := `
	SELECT id, user_id, challenge_id, payment_status, total_score, joined_at
	FROM enrollments
	WHERE challenge_id = $1 AND payment_status = $2
	`

	rows, err := s.db.Query(ctx, query, challengeID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := []*enrollment.Enrollment{}
	for rows.Next() {
		e := &enrollment.Enrollment{}
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.ChallengeID,
			&e.PaymentStatus,
			&e.TotalScore,
			&e.JoinedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		enrollments = append(enrollments, e)
	}

	return enrollments, rows.Err()
}

func (s *PostgresStore) GetCheckinsByEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]*checkin.Checkin, error) {
	query := `
	SELECT id, enrollment_id, challenge_id, user_id, date,
	       steps, workouts, nutrition_score, sleep_hours, water_intake,
	       meditation_minutes, auto_score, created_at
	FROM checkins
	WHERE enrollment_id = $1
	ORDER BY date DESC
	`

	return s.queryCheckins(ctx, query, enrollmentID)
}

func (s *PostgresStore) GetCheckinsByChallenge(ctx context.Context, challengeID uuid.UUID) ([]*checkin.Checkin, error) {
	query := `
	SELECT id, enrollment_id, challenge_id, user_id, date,
	       steps, workouts, nutrition_score, sleep_hours, water_intake,
	       meditation_minutes, auto_score, created_at
	FROM checkins
	WHERE challenge_id = $1
	ORDER BY date ASC
	`

	return s.queryCheckins(ctx, query, challengeID)
}

func (s *PostgresStore) queryCheckins(ctx context.Context, query string, arg any) ([]*checkin.Checkin, error) {
	rows, err := s.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query checkins: %w", err)
	}
	defer rows.Close()

	checkins := []*checkin.Checkin{}
	for rows.Next() {
		c := &checkin.Checkin{}
		if err := rows.Scan(
			&c.ID,
			&c.EnrollmentID,
			&c.ChallengeID,
			&c.UserID,
			&c.Date,
			&c.Metrics.Steps,
			&c.Metrics.Workouts,
			&c.Metrics.NutritionScore,
			&c.Metrics.SleepHours,
			&c.Metrics.WaterIntake,
			&c.Metrics.MeditationMinutes,
			&c.AutoScore,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan checkin: %w", err)
		}
		checkins = append(checkins, c)
	}

	return checkins, rows.Err()
}

func (s *PostgresStore) GetUserIdentity(ctx context.Context, userID uuid.UUID) (*user.Identity, error) {
	query := `
	SELECT id, username, image_url
	FROM users
	WHERE id = $1
	`

	identity := &user.Identity{}
	err := s.db.QueryRow(ctx, query, userID).Scan(
		&identity.UserID,
		&identity.Username,
		&identity.ImageURL,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user identity: %w", err)
	}

	return identity, nil
}

// SubscribeCheckinChanges listens on the checkin_changes channel with a
// dedicated pool connection and forwards notifications for the given
// challenge. onEvent fires once up front for the initial snapshot.
func (s *PostgresStore) SubscribeCheckinChanges(ctx context.Context, challengeID uuid.UUID, onEvent func(), onError func(error)) (Unsubscribe, error) {
	conn, err := s.db.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire listener connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "LISTEN "+checkinChannel); err != nil {
		conn.Release()
		return nil, fmt.Errorf("failed to listen on %s: %w", checkinChannel, err)
	}

	listenCtx, cancel := context.WithCancel(ctx)

	var once sync.Once
	stop := func() {
		once.Do(func() {
			cancel()
		})
	}

	go func() {
		defer conn.Release()

		onEvent()

		for {
			notification, err := conn.Conn().WaitForNotification(listenCtx)
			if err != nil {
				if listenCtx.Err() != nil {
					// Unsubscribed; not an error.
					return
				}
				log.Printf("Checkin listener for challenge %s broke: %v", challengeID, err)
				onError(err)
				return
			}
			if notification.Payload != challengeID.String() {
				continue
			}
			onEvent()
		}
	}()

	return stop, nil
}
