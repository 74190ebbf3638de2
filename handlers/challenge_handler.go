package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"geoQuestAPI/internal/types/challenge"
	"geoQuestAPI/middleware"
	"geoQuestAPI/services"
)

type ChallengeHandler struct {
	catalog   *services.CatalogService
	share     *services.ShareService
	lifecycle *services.LifecycleService
}

func NewChallengeHandler(catalog *services.CatalogService, share *services.ShareService, lifecycle *services.LifecycleService) *ChallengeHandler {
	return &ChallengeHandler{catalog: catalog, share: share, lifecycle: lifecycle}
}

// ListChallenges serves ?pageSize=&cursor=&userPreferences=
func (h *ChallengeHandler) ListChallenges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	q := r.URL.Query()
	params := services.ListParams{
		Cursor:          q.Get("cursor"),
		UserPreferences: q.Get("userPreferences"),
	}

	if raw := q.Get("pageSize"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			respondWithError(w, http.StatusBadRequest, "Query parameter 'pageSize' must be a positive integer")
			return
		}
		params.PageSize = size
	}

	resp, err := h.catalog.List(ctx, params)
	if err != nil {
		respondWithServiceError(w, err, "Failed to fetch challenges")
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

// GetChallenge is public. A signed-in caller also gets their own challengeStatus.
func (h *ChallengeHandler) GetChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	c, err := h.catalog.Get(ctx, mux.Vars(r)["id"])
	if err != nil {
		respondWithServiceError(w, err, "Failed to fetch challenge")
		return
	}

	resp := challenge.ChallengeDetailResponse{Challenge: c}
	if userID, ok := middleware.GetUserID(ctx); ok {
		st, err := h.lifecycle.Get(ctx, userID, c.ID)
		switch {
		case err == nil:
			resp.ChallengeStatus = st.Status
		case !errors.Is(err, services.ErrUserChallengeNotFound):
			respondWithServiceError(w, err, "Failed to fetch challenge")
			return
		}
	}

	respondWithJSON(w, http.StatusOK, resp)
}

func (h *ChallengeHandler) CreateChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req challenge.CreateChallengeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	c, err := h.catalog.Create(ctx, userID, req)
	if err != nil {
		respondWithServiceError(w, err, "Failed to create challenge")
		return
	}

	respondWithJSON(w, http.StatusCreated, c)
}

// GetCreatedChallenges lists the caller's own challenges for the admin panel.
func (h *ChallengeHandler) GetCreatedChallenges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	cs, err := h.catalog.ListByCreator(ctx, userID)
	if err != nil {
		respondWithServiceError(w, err, "Failed to fetch your challenges")
		return
	}

	respondWithJSON(w, http.StatusOK, cs)
}

func (h *ChallengeHandler) ShareChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	resp, err := h.share.Share(ctx, mux.Vars(r)["id"])
	if err != nil {
		respondWithServiceError(w, err, "Failed to generate share link")
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}
