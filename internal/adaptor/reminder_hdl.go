package adaptor

import (
	"net/http"

	"tour-booking/internal/usecase"
	"tour-booking/pkg/utils"

	"go.uber.org/zap"
)

type ReminderHandler struct {
	service usecase.ReminderService
	log     *zap.Logger
}

func NewReminderHandler(service usecase.ReminderService, log *zap.Logger) *ReminderHandler {
	return &ReminderHandler{
		service: service,
		log:     log.With(zap.String("handler", "reminder")),
	}
}

// SendReminders handles GET /api/bookings/reminders (cron secret)
func (h *ReminderHandler) SendReminders(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.SendTomorrowReminders(r.Context())
	if err != nil {
		handleServiceError(h.log, w, err, "send reminders")
		return
	}

	utils.ResponseSuccess(w, "Reminders processed", result)
}
