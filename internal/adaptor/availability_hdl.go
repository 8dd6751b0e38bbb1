package adaptor

import (
	"net/http"

	"tour-booking/internal/dto/response"
	"tour-booking/internal/usecase"
	"tour-booking/pkg/utils"

	"go.uber.org/zap"
)

type AvailabilityHandler struct {
	service usecase.AvailabilityService
	log     *zap.Logger
}

func NewAvailabilityHandler(service usecase.AvailabilityService, log *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log.With(zap.String("handler", "availability")),
	}
}

// CheckDate handles GET /api/bookings/availability?date=YYYY-MM-DD
func (h *AvailabilityHandler) CheckDate(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		utils.ResponseBadRequest(w, "Validation failed", map[string]string{"date": "This field is required"})
		return
	}
	date, err := utils.ParseDate(raw)
	if err != nil {
		utils.ResponseBadRequest(w, "Validation failed", map[string]string{"date": err.Error()})
		return
	}

	available, err := h.service.IsDateAvailable(r.Context(), date)
	if err != nil {
		handleServiceError(h.log, w, err, "check availability")
		return
	}

	utils.ResponseSuccess(w, "success", response.AvailabilityResponse{
		Date:      utils.FormatDate(date),
		Available: available,
	})
}

// UnavailableDates handles GET /api/bookings/unavailable-dates
func (h *AvailabilityHandler) UnavailableDates(w http.ResponseWriter, r *http.Request) {
	dates, err := h.service.ListUnavailableDates(r.Context())
	if err != nil {
		handleServiceError(h.log, w, err, "list unavailable dates")
		return
	}

	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, utils.FormatDate(d))
	}

	utils.ResponseSuccess(w, "success", out)
}
