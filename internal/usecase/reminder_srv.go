package usecase

import (
	"context"
	"fmt"

	"tour-booking/internal/data/entity"
	"tour-booking/internal/data/repository"
	"tour-booking/internal/dto/response"
	"tour-booking/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

type ReminderService interface {
	// SendTomorrowReminders notifies every active booking dated tomorrow.
	// Cancelled bookings are counted as skipped. Per-booking failures are
	// counted, never returned.
	SendTomorrowReminders(ctx context.Context) (*response.ReminderResult, error)
}

type reminderService struct {
	repo        *repository.Repository
	notifier    Notifier
	clock       Clock
	concurrency int
	limiter     *rate.Limiter
	log         *zap.Logger
}

func NewReminderService(
	repo *repository.Repository,
	notifier Notifier,
	clock Clock,
	config utils.ReminderConfig,
	log *zap.Logger,
) ReminderService {
	concurrency := config.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	limit := rate.Inf
	if config.RatePerSec > 0 {
		limit = rate.Limit(config.RatePerSec)
	}

	return &reminderService{
		repo:        repo,
		notifier:    notifier,
		clock:       clock,
		concurrency: concurrency,
		limiter:     rate.NewLimiter(limit, 1),
		log:         log.With(zap.String("service", "reminder")),
	}
}

func (s *reminderService) SendTomorrowReminders(ctx context.Context) (*response.ReminderResult, error) {
	today := s.clock.Today()
	tomorrow := today.AddDate(0, 0, 1)

	bookings, err := s.repo.Booking.List(ctx, repository.BookingFilter{
		Today:     today,
		DateRange: &repository.DateRange{Start: tomorrow, End: tomorrow.AddDate(0, 0, 1)},
	})
	if err != nil {
		return nil, fmt.Errorf("list bookings for %s: %w", utils.FormatDate(tomorrow), err)
	}

	result := &response.ReminderResult{Total: len(bookings)}
	if len(bookings) == 0 {
		s.log.Info("No bookings for tomorrow", zap.String("date", utils.FormatDate(tomorrow)))
		return result, nil
	}

	result.Items = make([]response.ReminderItem, len(bookings))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, booking := range bookings {
		g.Go(func() error {
			result.Items[i] = s.remind(ctx, booking)
			return nil
		})
	}
	_ = g.Wait()

	for _, item := range result.Items {
		switch item.Outcome {
		case response.ReminderSent:
			result.Sent++
		case response.ReminderFailed:
			result.Failed++
		case response.ReminderSkippedNoTour, response.ReminderSkippedCancelled:
			result.Skipped++
		}
	}

	s.log.Info("Reminder batch finished",
		zap.String("date", utils.FormatDate(tomorrow)),
		zap.Int("total", result.Total),
		zap.Int("sent", result.Sent),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped),
	)

	return result, nil
}

func (s *reminderService) remind(ctx context.Context, booking *entity.Booking) response.ReminderItem {
	item := response.ReminderItem{BookingID: booking.ID.String()}
	log := s.log.With(zap.String("booking_id", item.BookingID), zap.String("tour_id", booking.TourID))

	if booking.Status == entity.BookingStatusCancelled {
		log.Debug("Reminder skipped, booking cancelled")
		item.Outcome = response.ReminderSkippedCancelled
		return item
	}

	tour, err := s.repo.Tour.FindByID(ctx, booking.TourID)
	if err != nil || tour == nil {
		log.Warn("Reminder skipped, tour not found", zap.Error(err))
		item.Outcome = response.ReminderSkippedNoTour
		item.Err = err
		return item
	}

	if err := s.limiter.Wait(ctx); err != nil {
		item.Outcome = response.ReminderFailed
		item.Err = err
		return item
	}

	if err := s.notifier.SendReminder(ctx, booking, tour); err != nil {
		nerr := &NotificationError{Kind: "reminder", BookingID: item.BookingID, Err: err}
		log.Error("Reminder failed", zap.Error(nerr))
		item.Outcome = response.ReminderFailed
		item.Err = nerr
		return item
	}

	item.Outcome = response.ReminderSent
	return item
}
