package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"geoQuestAPI/services"
	"geoQuestAPI/utils"
)

const (
	requestTimeout = 5 * time.Second
	maxBodyBytes   = 1 << 20

	saveProgressFailed = "Failed to save challenge progress. Please try again."
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Error marshalling JSON"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// decodeAndValidate reads a JSON body into dst and checks its validate tags.
// It writes the 400 response itself and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			respondWithError(w, http.StatusBadRequest, "Request body is required")
		} else {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
		}
		return false
	}

	if err := utils.ValidateStruct(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request"
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Field '%s' is required", fe.Field())
	case "lat":
		return fmt.Sprintf("Field '%s' must be a latitude between -90 and 90", fe.Field())
	case "lng":
		return fmt.Sprintf("Field '%s' must be a longitude between -180 and 180", fe.Field())
	default:
		return fmt.Sprintf("Field '%s' is invalid", fe.Field())
	}
}

// respondWithServiceError maps service sentinels to status codes. Anything
// unrecognised is a store or dependency failure and is logged.
func respondWithServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrChallengeNotFound),
		errors.Is(err, services.ErrUserChallengeNotFound),
		errors.Is(err, services.ErrEntryNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidCursor),
		errors.Is(err, services.ErrInvalidChallenge),
		errors.Is(err, services.ErrInvalidEntry):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrFinalPageLocked),
		errors.Is(err, services.ErrNotChallengeCreator),
		errors.Is(err, services.ErrNotEntryAuthor),
		errors.Is(err, services.ErrOutsideGeofence):
		respondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrAlreadyCompleted),
		errors.Is(err, services.ErrTargetUnknown):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrRecommenderUnavailable):
		respondWithError(w, http.StatusServiceUnavailable, err.Error())
	default:
		zap.S().Errorf("%s: %v", fallback, err)
		respondWithError(w, http.StatusInternalServerError, fallback)
	}
}
