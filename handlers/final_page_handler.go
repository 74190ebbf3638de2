package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"geoQuestAPI/internal/types/finalpage"
	"geoQuestAPI/middleware"
	"geoQuestAPI/services"
)

type FinalPageHandler struct {
	finalPages *services.FinalPageService
}

func NewFinalPageHandler(finalPages *services.FinalPageService) *FinalPageHandler {
	return &FinalPageHandler{finalPages: finalPages}
}

func (h *FinalPageHandler) GetFinalPage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	view, err := h.finalPages.Get(ctx, userID, mux.Vars(r)["challengeId"])
	if err != nil {
		respondWithServiceError(w, err, "Failed to fetch final page")
		return
	}

	respondWithJSON(w, http.StatusOK, view)
}

func (h *FinalPageHandler) UpsertFinalPage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req finalpage.UpsertFinalPageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	page, err := h.finalPages.Upsert(ctx, userID, mux.Vars(r)["challengeId"], req)
	if err != nil {
		respondWithServiceError(w, err, "Failed to save final page")
		return
	}

	respondWithJSON(w, http.StatusOK, page)
}

func (h *FinalPageHandler) AddPost(w http.ResponseWriter, r *http.Request) {
	h.addEntry(w, r, h.finalPages.AddPost)
}

func (h *FinalPageHandler) AddStory(w http.ResponseWriter, r *http.Request) {
	h.addEntry(w, r, h.finalPages.AddStory)
}

func (h *FinalPageHandler) RemovePost(w http.ResponseWriter, r *http.Request) {
	h.removeEntry(w, r, "postId", h.finalPages.RemovePost)
}

func (h *FinalPageHandler) RemoveStory(w http.ResponseWriter, r *http.Request) {
	h.removeEntry(w, r, "storyId", h.finalPages.RemoveStory)
}

type addEntryFunc func(ctx context.Context, userID, challengeID string, req finalpage.AddEntryRequest) (*finalpage.Post, error)

type removeEntryFunc func(ctx context.Context, userID, challengeID, entryID string) error

func (h *FinalPageHandler) addEntry(w http.ResponseWriter, r *http.Request, add addEntryFunc) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req finalpage.AddEntryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	entry, err := add(ctx, userID, mux.Vars(r)["challengeId"], req)
	if err != nil {
		respondWithServiceError(w, err, "Failed to save entry")
		return
	}

	respondWithJSON(w, http.StatusCreated, entry)
}

func (h *FinalPageHandler) removeEntry(w http.ResponseWriter, r *http.Request, idVar string, remove removeEntryFunc) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	vars := mux.Vars(r)
	if err := remove(ctx, userID, vars["challengeId"], vars[idVar]); err != nil {
		respondWithServiceError(w, err, "Failed to remove entry")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Entry removed"})
}
