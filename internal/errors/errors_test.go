package errors

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nsepulse/internal/breakout"
)

func TestAPIError(t *testing.T) {
	t.Run("implements error", func(t *testing.T) {
		err := New(http.StatusBadRequest, "INVALID_REQUEST", "bad input")
		assert.Equal(t, "bad input", err.Error())
	})

	t.Run("validation error carries field details", func(t *testing.T) {
		err := ErrValidation("date", "must be YYYY-MM-DD")
		require.IsType(t, ValidationError{}, err.Details)
		assert.Equal(t, "date", err.Details.(ValidationError).Field)
	})

	t.Run("invalid target error carries the date", func(t *testing.T) {
		err := InvalidTargetError("2024-01-01")
		assert.Equal(t, http.StatusUnprocessableEntity, err.StatusCode)
		assert.Equal(t, "INVALID_TARGET", err.ErrorCode)
		assert.Equal(t, "2024-01-01", err.Details)
	})
}

func TestErrorHandler(t *testing.T) {
	h := NewErrorHandler(nil)

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "engine invalid target maps to 422",
			err:            fmt.Errorf("target 2024-01-01: %w", breakout.ErrInvalidTarget),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   "INVALID_TARGET",
		},
		{
			name:           "api error passes through",
			err:            ErrValidation("date", "required"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_FAILED",
		},
		{
			name:           "unknown error becomes internal",
			err:            fmt.Errorf("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := h.toAPIError(tt.err)
			assert.Equal(t, tt.expectedStatus, got.StatusCode)
			assert.Equal(t, tt.expectedCode, got.ErrorCode)
		})
	}

	t.Run("writes structured response", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/analysis/prediction", nil)

		h.HandleError(w, r, breakout.ErrInvalidTarget)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_TARGET")
	})
}
