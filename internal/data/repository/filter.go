package repository

import (
	"time"

	"tour-booking/internal/data/entity"
)

// DateRange is the half-open interval [Start, End) of calendar dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// BookingFilter narrows List. Nil fields are not applied. Today anchors the
// Future and Past flags and must be set when either is.
type BookingFilter struct {
	Status        *entity.BookingStatus
	PaymentStatus *entity.PaymentStatus
	Future        *bool
	Past          *bool
	DateRange     *DateRange
	Today         time.Time
}

// Matches evaluates the filter against an active booking.
func (f BookingFilter) Matches(b *entity.Booking) bool {
	if !b.IsActive() {
		return false
	}
	if f.Status != nil && b.Status != *f.Status {
		return false
	}
	if f.PaymentStatus != nil && b.PaymentStatus != *f.PaymentStatus {
		return false
	}
	date := b.ClientSelectedDate
	if f.Future != nil {
		upcoming := !date.Before(f.Today)
		if upcoming != *f.Future {
			return false
		}
	}
	if f.Past != nil {
		past := date.Before(f.Today)
		if past != *f.Past {
			return false
		}
	}
	if f.DateRange != nil {
		if date.Before(f.DateRange.Start) || !date.Before(f.DateRange.End) {
			return false
		}
	}
	return true
}

func occupyingStatusValues() []string {
	values := make([]string, 0, len(entity.OccupyingStatuses))
	for _, s := range entity.OccupyingStatuses {
		values = append(values, string(s))
	}
	return values
}
