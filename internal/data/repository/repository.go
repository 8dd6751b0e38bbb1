package repository

import (
	"errors"
	"time"

	"tour-booking/pkg/database"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrPersistence wraps every failure of the underlying store.
	ErrPersistence = errors.New("persistence failure")

	// ErrDateTaken is returned by CreateExclusive when the date is occupied.
	ErrDateTaken = errors.New("date already booked")

	// ErrStaleBooking is returned by Patch when the booking exists but no
	// longer has the status the patch expects.
	ErrStaleBooking = errors.New("booking changed since it was read")
)

type Repository struct {
	Booking BookingRepository
	Tour    TourRepository
}

// NewRepository builds the Postgres-backed repositories.
func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Booking: NewBookingRepository(db, log),
		Tour:    NewTourRepository(db, log),
	}
}

// NewGormRepository builds the repositories on top of a gorm connection (SQLite).
func NewGormRepository(db *gorm.DB, log *zap.Logger) *Repository {
	return &Repository{
		Booking: NewGormBookingRepository(db, log),
		Tour:    NewGormTourRepository(db, log),
	}
}

// NewMemoryRepository keeps everything in process. now drives createdAt and
// updatedAt; nil means time.Now.
func NewMemoryRepository(now func() time.Time) *Repository {
	store := newMemoryStore(now)
	return &Repository{
		Booking: &memoryBookingRepository{store: store},
		Tour:    &memoryTourRepository{store: store},
	}
}
