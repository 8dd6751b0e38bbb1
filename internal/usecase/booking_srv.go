package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"tour-booking/internal/data/entity"
	"tour-booking/internal/data/repository"
	"tour-booking/internal/dto/request"
	"tour-booking/internal/dto/response"
	"tour-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxMessageLength = 1000

type BookingService interface {
	SubmitBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	UpdateBooking(ctx context.Context, bookingID string, req *request.UpdateBookingRequest) (*response.BookingResponse, error)
	RemoveBooking(ctx context.Context, bookingID string) error
	GetBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	ListBookings(ctx context.Context, req *request.ListBookingsRequest) ([]*response.BookingResponse, error)

	// Wait blocks until in-flight notifications finish.
	Wait()
}

type bookingService struct {
	repo         *repository.Repository
	availability AvailabilityService
	notifier     Notifier
	clock        Clock
	strictDate   bool
	log          *zap.Logger

	// tracks in-flight notifications so shutdown can drain them
	pending sync.WaitGroup
}

func NewBookingService(
	repo *repository.Repository,
	availability AvailabilityService,
	notifier Notifier,
	clock Clock,
	strictDate bool,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		repo:         repo,
		availability: availability,
		notifier:     notifier,
		clock:        clock,
		strictDate:   strictDate,
		log:          log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) SubmitBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Submit booking validation failed", zap.Any("errors", errs))
		return nil, NewValidationError(errs)
	}

	date, err := utils.ParseDate(req.Date)
	if err != nil {
		return nil, fieldError("date", err.Error())
	}
	if date.Before(s.clock.Today()) {
		return nil, fieldError("date", "Date must be today or in the future")
	}

	tour, err := s.repo.Tour.FindByID(ctx, req.TourID)
	if err != nil {
		return nil, fmt.Errorf("find tour %s: %w", req.TourID, err)
	}
	if tour == nil {
		s.log.Warn("Submit booking for unknown tour", zap.String("tour_id", req.TourID))
		return nil, ErrTourNotFound
	}

	booking := &entity.Booking{
		ClientName:             strings.TrimSpace(req.Name),
		ClientEmail:            strings.TrimSpace(req.Email),
		ClientPhone:            strings.TrimSpace(req.PhoneNumber),
		ClientPhoneCountryCode: strings.TrimSpace(req.PhoneCountryCode),
		ClientCountry:          strings.TrimSpace(req.Country),
		ClientLanguage:         req.Language,
		ClientMessage:          utils.StringPtr(strings.TrimSpace(req.Message)),
		TourID:                 tour.ID,
		ClientSelectedDate:     date,
		Price:                  tour.Price,
		Status:                 entity.BookingStatusPending,
		PaymentStatus:          entity.PaymentStatusPending,
	}

	var created *entity.Booking
	if s.strictDate {
		created, err = s.repo.Booking.CreateExclusive(ctx, booking)
	} else {
		created, err = s.repo.Booking.Create(ctx, booking)
	}
	if errors.Is(err, repository.ErrDateTaken) {
		s.log.Info("Submit booking lost the date",
			zap.String("date", utils.FormatDate(date)),
			zap.String("tour_id", tour.ID),
		)
		return nil, ErrDateUnavailable
	}
	if err != nil {
		return nil, fmt.Errorf("submit booking: %w", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", created.ID.String()),
		zap.String("tour_id", created.TourID),
		zap.String("date", utils.FormatDate(created.ClientSelectedDate)),
	)

	s.notifyCreated(ctx, created, tour)

	return response.BookingToResponse(created), nil
}

// notifyCreated sends the client confirmation and the operator alert
// independently. Failures are logged and never touch the booking.
func (s *bookingService) notifyCreated(ctx context.Context, booking *entity.Booking, tour *entity.Tour) {
	if s.notifier == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)

	send := func(kind string, fn func(context.Context, *entity.Booking, *entity.Tour) error) {
		defer s.pending.Done()
		if err := fn(ctx, booking.Clone(), tour); err != nil {
			nerr := &NotificationError{Kind: kind, BookingID: booking.ID.String(), Err: err}
			s.log.Error("Notification failed", zap.Error(nerr))
		}
	}

	s.pending.Add(2)
	go send("confirmation", s.notifier.SendConfirmation)
	go send("operator alert", s.notifier.NotifyOperator)
}

func (s *bookingService) Wait() {
	s.pending.Wait()
}

func (s *bookingService) UpdateBooking(ctx context.Context, bookingID string, req *request.UpdateBookingRequest) (*response.BookingResponse, error) {
	patch, verr := s.buildPatch(req)
	if verr != nil {
		s.log.Warn("Update booking validation failed",
			zap.String("booking_id", bookingID),
			zap.Any("errors", verr.Fields),
		)
		return nil, verr
	}

	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, ErrBookingNotFound
	}

	current, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update booking %s: %w", bookingID, err)
	}
	if current == nil {
		return nil, ErrBookingNotFound
	}

	if verr := checkTransitions(current, patch); verr != nil {
		s.log.Warn("Update booking rejected transition",
			zap.String("booking_id", bookingID),
			zap.Any("errors", verr.Fields),
		)
		return nil, verr
	}
	// the write only lands on the state the transitions were checked against
	if patch.Status != nil {
		patch.ExpectStatus = &current.Status
	}
	if patch.PaymentStatus != nil {
		patch.ExpectPaymentStatus = &current.PaymentStatus
	}

	if patch.ClientSelectedDate != nil {
		if patch.ClientSelectedDate.Equal(current.ClientSelectedDate) {
			patch.ClientSelectedDate = nil
		} else {
			if patch.ClientSelectedDate.Before(s.clock.Today()) {
				return nil, fieldError("clientSelectedDate", "Date must be today or in the future")
			}
			available, err := s.availability.IsDateAvailable(ctx, *patch.ClientSelectedDate)
			if err != nil {
				return nil, fmt.Errorf("update booking %s: %w", bookingID, err)
			}
			if !available {
				s.log.Info("Update booking date conflict",
					zap.String("booking_id", bookingID),
					zap.String("date", utils.FormatDate(*patch.ClientSelectedDate)),
				)
				return nil, ErrDateUnavailable
			}
			patch.ExclusiveDate = s.strictDate
		}
	}

	updated, err := s.repo.Booking.Patch(ctx, id, patch)
	switch {
	case errors.Is(err, repository.ErrStaleBooking):
		s.log.Info("Update booking lost a concurrent write", zap.String("booking_id", bookingID))
		return nil, ErrBookingChanged
	case errors.Is(err, repository.ErrDateTaken):
		s.log.Info("Update booking lost the date",
			zap.String("booking_id", bookingID),
			zap.String("date", utils.FormatDate(*patch.ClientSelectedDate)),
		)
		return nil, ErrDateUnavailable
	case err != nil:
		return nil, fmt.Errorf("update booking %s: %w", bookingID, err)
	}
	if updated == nil {
		return nil, ErrBookingNotFound
	}

	s.log.Info("Booking updated",
		zap.String("booking_id", bookingID),
		zap.String("status", string(updated.Status)),
		zap.String("payment_status", string(updated.PaymentStatus)),
	)

	return response.BookingToResponse(updated), nil
}

func (s *bookingService) buildPatch(req *request.UpdateBookingRequest) (entity.BookingPatch, *ValidationError) {
	var patch entity.BookingPatch

	fields := utils.ValidateStruct(req)
	if fields == nil {
		fields = make(map[string]string)
	}

	if req.PaymentMethod.Set && req.PaymentMethod.Valid && !req.PaymentMethod.Value.Valid() {
		fields["paymentMethod"] = "Must be one of: bank_transfer, card, cash"
	}
	if req.ClientMessage.Valid && utf8.RuneCountInString(req.ClientMessage.Value) > maxMessageLength {
		fields["clientMessage"] = fmt.Sprintf("Maximum length is %d", maxMessageLength)
	}
	if len(fields) > 0 {
		return patch, NewValidationError(fields)
	}

	if req.Status != nil {
		status := entity.BookingStatus(*req.Status)
		patch.Status = &status
	}
	if req.PaymentStatus != nil {
		paymentStatus := entity.PaymentStatus(*req.PaymentStatus)
		patch.PaymentStatus = &paymentStatus
	}
	patch.PaymentMethod = req.PaymentMethod
	patch.Price = req.Price
	patch.ClientMessage = req.ClientMessage
	if req.ClientSelectedDate != nil {
		date, err := utils.ParseDate(*req.ClientSelectedDate)
		if err != nil {
			return patch, fieldError("clientSelectedDate", err.Error())
		}
		patch.ClientSelectedDate = &date
	}

	if patch.IsEmpty() {
		return patch, fieldError("body", "At least one field must be provided")
	}

	return patch, nil
}

func (s *bookingService) RemoveBooking(ctx context.Context, bookingID string) error {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return ErrBookingNotFound
	}

	deleted, err := s.repo.Booking.SoftDelete(ctx, id)
	if err != nil {
		return fmt.Errorf("remove booking %s: %w", bookingID, err)
	}
	if !deleted {
		return ErrBookingNotFound
	}

	return nil
}

func (s *bookingService) GetBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, ErrBookingNotFound
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking %s: %w", bookingID, err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	return response.BookingToResponse(booking), nil
}

func (s *bookingService) ListBookings(ctx context.Context, req *request.ListBookingsRequest) ([]*response.BookingResponse, error) {
	filter, verr := s.parseFilter(req)
	if verr != nil {
		return nil, verr
	}

	bookings, err := s.repo.Booking.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	return response.BookingsToResponse(bookings), nil
}

// parseFilter ignores unknown status values and non-literal booleans.
func (s *bookingService) parseFilter(req *request.ListBookingsRequest) (repository.BookingFilter, *ValidationError) {
	filter := repository.BookingFilter{Today: s.clock.Today()}
	if req == nil {
		return filter, nil
	}

	if status := entity.BookingStatus(req.Status); status.Valid() {
		filter.Status = &status
	}
	if paymentStatus := entity.PaymentStatus(req.PaymentStatus); paymentStatus.Valid() {
		filter.PaymentStatus = &paymentStatus
	}
	if future, ok := utils.ParseStrictBool(req.Future); ok {
		filter.Future = &future
	}
	if past, ok := utils.ParseStrictBool(req.Past); ok {
		filter.Past = &past
	}

	if req.Start == "" && req.End == "" {
		return filter, nil
	}
	if req.Start == "" || req.End == "" {
		return filter, fieldError("dateRange", "start and end must be provided together")
	}
	start, err := utils.ParseDate(req.Start)
	if err != nil {
		return filter, fieldError("start", err.Error())
	}
	end, err := utils.ParseDate(req.End)
	if err != nil {
		return filter, fieldError("end", err.Error())
	}
	filter.DateRange = &repository.DateRange{Start: start, End: end}

	return filter, nil
}
