package adaptor

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"tour-booking/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    int
		wantMessage string
	}{
		{
			name:        "validation",
			err:         usecase.NewValidationError(map[string]string{"email": "Invalid email format"}),
			wantCode:    http.StatusBadRequest,
			wantMessage: "Validation failed",
		},
		{
			name:        "booking not found",
			err:         usecase.ErrBookingNotFound,
			wantCode:    http.StatusNotFound,
			wantMessage: "Booking not found",
		},
		{
			name:        "wrapped tour not found",
			err:         fmt.Errorf("submit: %w", usecase.ErrTourNotFound),
			wantCode:    http.StatusNotFound,
			wantMessage: "Tour not found",
		},
		{
			name:        "date conflict",
			err:         usecase.ErrDateUnavailable,
			wantCode:    http.StatusConflict,
			wantMessage: "Selected date is not available",
		},
		{
			name:        "concurrent write lost",
			err:         fmt.Errorf("update booking: %w", usecase.ErrBookingChanged),
			wantCode:    http.StatusConflict,
			wantMessage: "Booking was changed by another request, reload and try again",
		},
		{
			name:        "persistence is opaque",
			err:         fmt.Errorf("list bookings: %w: %w", usecase.ErrPersistence, errors.New("dial tcp: refused")),
			wantCode:    http.StatusInternalServerError,
			wantMessage: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleServiceError(zap.NewNop(), rec, tt.err, "test")

			assert.Equal(t, tt.wantCode, rec.Code)

			var body struct {
				Status  bool              `json:"status"`
				Message string            `json:"message"`
				Errors  map[string]string `json:"errors"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Status)
			assert.Equal(t, tt.wantMessage, body.Message)
			if tt.wantCode == http.StatusBadRequest {
				assert.Equal(t, "Invalid email format", body.Errors["email"])
			}
		})
	}
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Booking not found", capitalize("booking not found"))
	assert.Equal(t, "Already", capitalize("Already"))
	assert.Equal(t, "", capitalize(""))
}
