package adaptor

import (
	"errors"
	"net/http"

	"tour-booking/internal/usecase"
	"tour-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Booking      *BookingHandler
	Availability *AvailabilityHandler
	Reminder     *ReminderHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Booking:      NewBookingHandler(service.Booking, log),
		Availability: NewAvailabilityHandler(service.Availability, log),
		Reminder:     NewReminderHandler(service.Reminder, log),
	}
}

// handleServiceError maps usecase errors onto the response envelope.
// Anything unrecognised is a 500 with an opaque message.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	var verr *usecase.ValidationError

	switch {
	case errors.As(err, &verr):
		log.Warn(operation+" validation failed",
			zap.Any("errors", verr.Fields),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, "Validation failed", verr.Fields)

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, publicMessage(err))

	case errors.Is(err, usecase.ErrConflict):
		log.Warn(operation+" failed - conflict",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseConflict(w, publicMessage(err))

	default:
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// publicMessage prefers the client facing text of a usecase error over
// the full wrapped chain.
func publicMessage(err error) string {
	var public interface{ Public() string }
	if errors.As(err, &public) {
		return capitalize(public.Public())
	}
	return capitalize(err.Error())
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
