package usecase

import (
	"context"
	"fmt"
	"time"

	"tour-booking/internal/data/repository"
	"tour-booking/pkg/utils"

	"go.uber.org/zap"
)

type AvailabilityService interface {
	IsDateAvailable(ctx context.Context, date time.Time) (bool, error)
	// ListUnavailableDates returns occupied dates from today on, ascending.
	ListUnavailableDates(ctx context.Context) ([]time.Time, error)
}

type availabilityService struct {
	bookings repository.BookingRepository
	clock    Clock
	log      *zap.Logger
}

func NewAvailabilityService(bookings repository.BookingRepository, clock Clock, log *zap.Logger) AvailabilityService {
	return &availabilityService{
		bookings: bookings,
		clock:    clock,
		log:      log.With(zap.String("service", "availability")),
	}
}

func (s *availabilityService) IsDateAvailable(ctx context.Context, date time.Time) (bool, error) {
	occupied, err := s.bookings.IsDateOccupied(ctx, utils.NormalizeDate(date))
	if err != nil {
		return false, fmt.Errorf("check availability %s: %w", utils.FormatDate(date), err)
	}
	return !occupied, nil
}

func (s *availabilityService) ListUnavailableDates(ctx context.Context) ([]time.Time, error) {
	dates, err := s.bookings.ListOccupiedDates(ctx, s.clock.Today())
	if err != nil {
		return nil, fmt.Errorf("list unavailable dates: %w", err)
	}
	return dates, nil
}
