package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"geoQuestAPI/internal/types/challenge"
	"geoQuestAPI/middleware"
	"geoQuestAPI/services"
)

type UserChallengeHandler struct {
	lifecycle *services.LifecycleService
	catalog   *services.CatalogService
}

func NewUserChallengeHandler(lifecycle *services.LifecycleService, catalog *services.CatalogService) *UserChallengeHandler {
	return &UserChallengeHandler{lifecycle: lifecycle, catalog: catalog}
}

func (h *UserChallengeHandler) ListMyChallenges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	states, err := h.lifecycle.ListForUser(ctx, userID)
	if err != nil {
		respondWithServiceError(w, err, "Failed to load your challenges")
		return
	}

	respondWithJSON(w, http.StatusOK, states)
}

func (h *UserChallengeHandler) GetMyChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	st, err := h.lifecycle.Get(ctx, userID, mux.Vars(r)["id"])
	if err != nil {
		respondWithServiceError(w, err, "Failed to load challenge progress")
		return
	}

	respondWithJSON(w, http.StatusOK, st)
}

func (h *UserChallengeHandler) AcceptChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	c, err := h.catalog.Get(ctx, mux.Vars(r)["id"])
	if err != nil {
		respondWithServiceError(w, err, saveProgressFailed)
		return
	}

	st, err := h.lifecycle.Accept(ctx, userID, c)
	if err != nil {
		respondWithServiceError(w, err, saveProgressFailed)
		return
	}

	zap.S().Infow("Challenge accepted", "user", userID, "challenge", c.ID)
	respondWithJSON(w, http.StatusOK, st)
}

func (h *UserChallengeHandler) DropChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	st, err := h.lifecycle.Drop(ctx, userID, mux.Vars(r)["id"])
	if err != nil {
		respondWithServiceError(w, err, saveProgressFailed)
		return
	}

	respondWithJSON(w, http.StatusOK, st)
}

// CompleteChallenge takes the caller's current position; the geofence check is
// done here against the target stored at accept time.
func (h *UserChallengeHandler) CompleteChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req challenge.CompleteChallengeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	position := challenge.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude}
	st, result, err := h.lifecycle.Complete(ctx, userID, mux.Vars(r)["id"], position)
	if errors.Is(err, services.ErrOutsideGeofence) {
		respondWithJSON(w, http.StatusForbidden, map[string]interface{}{
			"error":              err.Error(),
			"isWithinRadius":     result.IsWithinRadius,
			"calculatedDistance": result.DistanceMeters,
		})
		return
	}
	if err != nil {
		respondWithServiceError(w, err, saveProgressFailed)
		return
	}

	respondWithJSON(w, http.StatusOK, challenge.CompleteChallengeResponse{
		UserChallenge:   st,
		ProximityResult: result,
	})
}
