package handlers

import (
	"net/http"

	"geoQuestAPI/internal/types/challenge"
	"geoQuestAPI/services"
)

type ProximityHandler struct {
	lifecycle *services.LifecycleService
}

func NewProximityHandler(lifecycle *services.LifecycleService) *ProximityHandler {
	return &ProximityHandler{lifecycle: lifecycle}
}

// CheckLocation reports the distance between a user and a challenge target and
// whether it is inside the geofence. It never writes anything.
func (h *ProximityHandler) CheckLocation(w http.ResponseWriter, r *http.Request) {
	var req challenge.CheckLocationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user := challenge.Coordinate{Latitude: *req.UserLatitude, Longitude: *req.UserLongitude}
	target := challenge.Coordinate{Latitude: *req.ChallengeLatitude, Longitude: *req.ChallengeLongitude}

	respondWithJSON(w, http.StatusOK, h.lifecycle.CheckProximity(user, target))
}
