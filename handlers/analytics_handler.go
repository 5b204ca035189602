package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"fitArenaAPI/internal/store"
	"fitArenaAPI/internal/types/challenge"
	"fitArenaAPI/internal/types/checkin"
	"fitArenaAPI/services"
	"fitArenaAPI/utils"
)

type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
	store            store.Store
}

func NewAnalyticsHandler(analyticsService *services.AnalyticsService, st store.Store) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		store:            st,
	}
}

func (h *AnalyticsHandler) GetChallengeStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	challengeID, ok := pathUUID(w, r, "challengeID")
	if !ok {
		return
	}

	stats := h.analyticsService.GetChallengeLeaderboardStats(ctx, challengeID)
	if stats == nil {
		respondWithError(w, http.StatusNotFound, "Challenge not found")
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

// GetChallengeProgress reports how far along the challenge window is, as a
// clamped 0-100 percentage.
func (h *AnalyticsHandler) GetChallengeProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	challengeID, ok := pathUUID(w, r, "challengeID")
	if !ok {
		return
	}

	c, err := h.store.GetChallenge(ctx, challengeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Challenge not found")
			return
		}
		log.Printf("Challenge progress: failed to load %s: %v", challengeID, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to load challenge")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"challenge_id": challengeID,
		"progress":     utils.ProgressPercentage(c.StartDate, c.EndDate),
	})
}

type scorePreviewRequest struct {
	Scoring       challenge.ScoringConfig `json:"scoring"`
	Metrics       checkin.Metrics         `json:"metrics"`
	CurrentStreak int                     `json:"current_streak"`
}

// PreviewScore exposes the pure score formula so clients can show a point
// value before a check-in is submitted.
func (h *AnalyticsHandler) PreviewScore(w http.ResponseWriter, r *http.Request) {
	var req scorePreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	breakdown := utils.CalculateCheckinScoreBreakdown(req.Scoring, req.Metrics, req.CurrentStreak)
	respondWithJSON(w, http.StatusOK, breakdown)
}
