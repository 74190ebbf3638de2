package handlers

import (
	"context"
	"net/http"
	"time"

	"geoQuestAPI/internal/types/challenge"
	"geoQuestAPI/services"
)

type DirectionsHandler struct {
	directions *services.DirectionsService
}

func NewDirectionsHandler(directions *services.DirectionsService) *DirectionsHandler {
	return &DirectionsHandler{directions: directions}
}

func (h *DirectionsHandler) GetDirections(w http.ResponseWriter, r *http.Request) {
	// LLM calls are slower than store reads.
	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()

	var req challenge.DirectionsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	start := challenge.Coordinate{Latitude: *req.StartLat, Longitude: *req.StartLon}
	end := challenge.Coordinate{Latitude: *req.EndLat, Longitude: *req.EndLon}

	resp, err := h.directions.Suggest(ctx, start, end)
	if err != nil {
		respondWithServiceError(w, err, "Failed to fetch directions")
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}
