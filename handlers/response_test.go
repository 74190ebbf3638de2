package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"geoQuestAPI/services"
)

func TestRespondWithServiceError(t *testing.T) {
	tests := []struct {
		err  error
		code int
		msg  string
	}{
		{services.ErrChallengeNotFound, http.StatusNotFound, "challenge not found"},
		{fmt.Errorf("%w: cannot drop a completed challenge", services.ErrInvalidTransition), http.StatusConflict, "cannot drop"},
		{services.ErrOutsideGeofence, http.StatusForbidden, "outside"},
		{services.ErrFinalPageLocked, http.StatusForbidden, "locked"},
		{services.ErrInvalidCursor, http.StatusBadRequest, "cursor"},
		{services.ErrInvalidEntry, http.StatusBadRequest, "text is required"},
		{services.ErrRecommenderUnavailable, http.StatusServiceUnavailable, "not configured"},
		{errors.New("rpc error: code = Unavailable"), http.StatusInternalServerError, saveProgressFailed},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rr := httptest.NewRecorder()
			respondWithServiceError(rr, tt.err, saveProgressFailed)

			assert.Equal(t, tt.code, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.msg)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		})
	}
}
