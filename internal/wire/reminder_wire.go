package wire

import (
	"tour-booking/internal/adaptor"
	"tour-booking/pkg/middleware"
	"tour-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReminder(r chi.Router, reminderHandler *adaptor.ReminderHandler, config *utils.Config, log *zap.Logger) {
	// ==================== CRON ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.CronAuth(config.Reminder, log))

		// GET /api/bookings/reminders - day-before reminder batch
		r.Get("/reminders", reminderHandler.SendReminders)
		r.Post("/reminders", reminderHandler.SendReminders)
	})
}
