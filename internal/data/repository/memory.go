package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"tour-booking/internal/data/entity"
	"tour-booking/pkg/utils"

	"github.com/google/uuid"
)

type memoryStore struct {
	mu       sync.RWMutex
	now      func() time.Time
	bookings map[uuid.UUID]*entity.Booking
	order    []uuid.UUID
	tours    map[string]*entity.Tour
}

func newMemoryStore(now func() time.Time) *memoryStore {
	if now == nil {
		now = time.Now
	}
	return &memoryStore{
		now:      now,
		bookings: make(map[uuid.UUID]*entity.Booking),
		tours:    make(map[string]*entity.Tour),
	}
}

type memoryBookingRepository struct {
	store *memoryStore
}

// caller holds the write lock
func (s *memoryStore) insert(booking *entity.Booking) *entity.Booking {
	prepareNew(booking)
	now := s.now()

	stored := booking.Clone()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.bookings[stored.ID] = stored
	s.order = append(s.order, stored.ID)

	return stored.Clone()
}

// caller holds a lock
func (s *memoryStore) occupied(date time.Time, except uuid.UUID) bool {
	date = utils.NormalizeDate(date)
	for id, b := range s.bookings {
		if id != except && b.OccupiesDate() && b.ClientSelectedDate.Equal(date) {
			return true
		}
	}
	return false
}

func (r *memoryBookingRepository) Create(_ context.Context, booking *entity.Booking) (*entity.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.store.insert(booking), nil
}

func (r *memoryBookingRepository) CreateExclusive(_ context.Context, booking *entity.Booking) (*entity.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.occupied(booking.ClientSelectedDate, uuid.Nil) {
		return nil, ErrDateTaken
	}
	return r.store.insert(booking), nil
}

func (r *memoryBookingRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	b, ok := r.store.bookings[id]
	if !ok || !b.IsActive() {
		return nil, nil
	}
	return b.Clone(), nil
}

func (r *memoryBookingRepository) List(_ context.Context, filter BookingFilter) ([]*entity.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	bookings := make([]*entity.Booking, 0)
	// newest insertion first so equal timestamps keep a stable order
	for i := len(r.store.order) - 1; i >= 0; i-- {
		b := r.store.bookings[r.store.order[i]]
		if filter.Matches(b) {
			bookings = append(bookings, b.Clone())
		}
	}
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})

	return bookings, nil
}

func (r *memoryBookingRepository) Patch(_ context.Context, id uuid.UUID, patch entity.BookingPatch) (*entity.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	b, ok := r.store.bookings[id]
	if !ok || !b.IsActive() {
		return nil, nil
	}
	if !patch.Holds(b) {
		return nil, ErrStaleBooking
	}
	if patch.ExclusiveDate && patch.ClientSelectedDate != nil && r.store.occupied(*patch.ClientSelectedDate, id) {
		return nil, ErrDateTaken
	}

	patch.Apply(b)
	b.ClientSelectedDate = utils.NormalizeDate(b.ClientSelectedDate)
	b.UpdatedAt = r.store.now()

	return b.Clone(), nil
}

func (r *memoryBookingRepository) SoftDelete(_ context.Context, id uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	b, ok := r.store.bookings[id]
	if !ok || !b.IsActive() {
		return false, nil
	}

	now := r.store.now()
	b.DeletedAt = &now
	return true, nil
}

func (r *memoryBookingRepository) IsDateOccupied(_ context.Context, date time.Time) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.store.occupied(date, uuid.Nil), nil
}

func (r *memoryBookingRepository) ListOccupiedDates(_ context.Context, from time.Time) ([]time.Time, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	from = utils.NormalizeDate(from)
	seen := make(map[time.Time]struct{})
	dates := make([]time.Time, 0)
	for _, b := range r.store.bookings {
		if !b.OccupiesDate() || b.ClientSelectedDate.Before(from) {
			continue
		}
		if _, dup := seen[b.ClientSelectedDate]; dup {
			continue
		}
		seen[b.ClientSelectedDate] = struct{}{}
		dates = append(dates, b.ClientSelectedDate)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	return dates, nil
}

type memoryTourRepository struct {
	store *memoryStore
}

func (r *memoryTourRepository) FindByID(_ context.Context, id string) (*entity.Tour, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	t, ok := r.store.tours[id]
	if !ok {
		return nil, nil
	}
	c := *t
	return &c, nil
}

func (r *memoryTourRepository) Upsert(_ context.Context, tour *entity.Tour) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := r.store.now()
	stored := *tour
	if existing, ok := r.store.tours[tour.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	r.store.tours[tour.ID] = &stored

	tour.CreatedAt = stored.CreatedAt
	tour.UpdatedAt = stored.UpdatedAt
	return nil
}
