package handlers

import (
	"context"
	"net/http"

	"geoQuestAPI/middleware"
	"geoQuestAPI/services"
)

type LeaderboardHandler struct {
	leaderboard *services.LeaderboardService
	finalPages  *services.FinalPageService
}

func NewLeaderboardHandler(leaderboard *services.LeaderboardService, finalPages *services.FinalPageService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: leaderboard, finalPages: finalPages}
}

// GetLeaderboard returns the global board, or one challenge's finishers with ?challengeId=.
// A challenge board is only shown to its creator and to users who completed it.
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if challengeID := r.URL.Query().Get("challengeId"); challengeID != "" {
		board, err := h.finalPages.ChallengeLeaderboard(ctx, userID, challengeID)
		if err != nil {
			respondWithServiceError(w, err, "Failed to fetch leaderboard")
			return
		}
		respondWithJSON(w, http.StatusOK, board)
		return
	}

	board, err := h.leaderboard.Global(ctx, userID)
	if err != nil {
		respondWithServiceError(w, err, "Failed to fetch leaderboard")
		return
	}

	respondWithJSON(w, http.StatusOK, board)
}
