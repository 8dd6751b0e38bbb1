package usecase

import (
	"tour-booking/internal/data/repository"
	"tour-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Booking      BookingService
	Availability AvailabilityService
	Reminder     ReminderService
}

func NewService(repo *repository.Repository, notifier Notifier, config *utils.Config, clock Clock, log *zap.Logger) *Service {
	availability := NewAvailabilityService(repo.Booking, clock, log)

	return &Service{
		Booking:      NewBookingService(repo, availability, notifier, clock, config.Booking.StrictDateLock, log),
		Availability: availability,
		Reminder:     NewReminderService(repo, notifier, clock, config.Reminder, log),
	}
}
