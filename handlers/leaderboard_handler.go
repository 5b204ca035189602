package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"fitArenaAPI/internal/types/leaderboard"
	"fitArenaAPI/services"
)

const defaultGlobalLimit = 100

type LeaderboardHandler struct {
	leaderboardService *services.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
	}
}

func (h *LeaderboardHandler) GetChallengeLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	challengeID, ok := pathUUID(w, r, "challengeID")
	if !ok {
		return
	}

	board := h.leaderboardService.GetChallengeLeaderboard(ctx, challengeID)
	if board == nil {
		respondWithError(w, http.StatusNotFound, "Challenge not found")
		return
	}

	respondWithJSON(w, http.StatusOK, board)
}

func (h *LeaderboardHandler) GetGlobalLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	limit := defaultGlobalLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondWithError(w, http.StatusBadRequest, "Query parameter 'limit' must be a positive integer")
			return
		}
		limit = parsed
	}

	entries := h.leaderboardService.GetGlobalLeaderboard(ctx, limit)
	respondWithJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"total":   len(entries),
	})
}

func (h *LeaderboardHandler) GetUserChallengeRank(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	challengeID, ok := pathUUID(w, r, "challengeID")
	if !ok {
		return
	}
	userID, ok := queryUUID(w, r, "userId")
	if !ok {
		return
	}

	rank, found := h.leaderboardService.GetUserChallengeRank(ctx, userID, challengeID)
	if !found {
		respondWithError(w, http.StatusNotFound, "User not on this leaderboard")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"user_id":      userID,
		"challenge_id": challengeID,
		"rank":         rank,
	})
}

func (h *LeaderboardHandler) GetUserGlobalRank(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	userID, ok := queryUUID(w, r, "userId")
	if !ok {
		return
	}

	rank, found := h.leaderboardService.GetUserGlobalRank(ctx, userID)
	if !found {
		respondWithError(w, http.StatusNotFound, "User not on the global leaderboard")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"user_id": userID,
		"rank":    rank,
	})
}

// StreamChallengeLeaderboard serves the live leaderboard as server-sent
// events: one snapshot on connect, then one per check-in change until the
// client disconnects.
func (h *LeaderboardHandler) StreamChallengeLeaderboard(w http.ResponseWriter, r *http.Request) {
	challengeID, ok := pathUUID(w, r, "challengeID")
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	// Snapshots queue here so the store's notification goroutine never
	// writes to the response directly. A slow client drops intermediate
	// snapshots instead of blocking the listener.
	snapshots := make(chan []byte, 8)
	callback := func(board *leaderboard.ChallengeLeaderboard) {
		var payload []byte
		if board == nil {
			payload = []byte(`{"error": "leaderboard stream failed"}`)
		} else {
			var err error
			payload, err = json.Marshal(board)
			if err != nil {
				log.Printf("Live leaderboard: failed to marshal snapshot: %v", err)
				return
			}
		}
		select {
		case snapshots <- payload:
		default:
		}
	}

	sub, err := h.leaderboardService.SubscribeToChallengeLeaderboard(r.Context(), challengeID, callback)
	if err != nil {
		respondWithError(w, http.StatusServiceUnavailable, "Could not open leaderboard stream")
		return
	}
	defer sub.Stop()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	for {
		select {
		case <-r.Context().Done():
			return
		case payload := <-snapshots:
			if _, err := w.Write([]byte("data: ")); err != nil {
				return
			}
			if _, err := w.Write(payload); err != nil {
				return
			}
			if _, err := w.Write([]byte("\n\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func queryUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		respondWithError(w, http.StatusBadRequest, "Query parameter '"+name+"' is required")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Query parameter '"+name+"' must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
