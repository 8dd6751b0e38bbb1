package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tour-booking/internal/data/entity"
	"tour-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BookingRecord is the gorm row of a booking. Dates are kept as YYYY-MM-DD
// text so SQLite compares them lexically in calendar order.
type BookingRecord struct {
	ID                     string  `gorm:"primaryKey;type:varchar(36)"`
	ClientName             string  `gorm:"not null"`
	ClientEmail            string  `gorm:"not null"`
	ClientPhone            string  `gorm:"not null"`
	ClientPhoneCountryCode string  `gorm:"not null"`
	ClientCountry          string  `gorm:"not null"`
	ClientLanguage         string  `gorm:"not null"`
	ClientMessage          *string `gorm:"type:text"`
	TourID                 string  `gorm:"index;not null"`
	ClientSelectedDate     string  `gorm:"type:varchar(10);index;not null"`
	Price                  float64 `gorm:"not null"`
	Status                 string  `gorm:"type:varchar(20);index;not null"`
	PaymentStatus          string  `gorm:"type:varchar(20);not null"`
	PaymentMethod          *string `gorm:"type:varchar(20)"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
	DeletedAt              gorm.DeletedAt `gorm:"index"`
}

func (BookingRecord) TableName() string {
	return "bookings"
}

func newBookingRecord(b *entity.Booking) *BookingRecord {
	rec := &BookingRecord{
		ID:                     b.ID.String(),
		ClientName:             b.ClientName,
		ClientEmail:            b.ClientEmail,
		ClientPhone:            b.ClientPhone,
		ClientPhoneCountryCode: b.ClientPhoneCountryCode,
		ClientCountry:          b.ClientCountry,
		ClientLanguage:         b.ClientLanguage,
		ClientMessage:          b.ClientMessage,
		TourID:                 b.TourID,
		ClientSelectedDate:     utils.FormatDate(b.ClientSelectedDate),
		Price:                  b.Price,
		Status:                 string(b.Status),
		PaymentStatus:          string(b.PaymentStatus),
	}
	if b.PaymentMethod != nil {
		pm := string(*b.PaymentMethod)
		rec.PaymentMethod = &pm
	}
	return rec
}

func (rec *BookingRecord) toEntity() (*entity.Booking, error) {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return nil, fmt.Errorf("parse booking id %q: %w", rec.ID, err)
	}
	date, err := time.Parse(utils.DateLayout, rec.ClientSelectedDate)
	if err != nil {
		return nil, fmt.Errorf("parse booking date %q: %w", rec.ClientSelectedDate, err)
	}

	b := &entity.Booking{
		Base: entity.Base{
			ID:        id,
			CreatedAt: rec.CreatedAt,
			UpdatedAt: rec.UpdatedAt,
		},
		ClientName:             rec.ClientName,
		ClientEmail:            rec.ClientEmail,
		ClientPhone:            rec.ClientPhone,
		ClientPhoneCountryCode: rec.ClientPhoneCountryCode,
		ClientCountry:          rec.ClientCountry,
		ClientLanguage:         rec.ClientLanguage,
		ClientMessage:          rec.ClientMessage,
		TourID:                 rec.TourID,
		ClientSelectedDate:     date,
		Price:                  rec.Price,
		Status:                 entity.BookingStatus(rec.Status),
		PaymentStatus:          entity.PaymentStatus(rec.PaymentStatus),
	}
	if rec.PaymentMethod != nil {
		pm := entity.PaymentMethod(*rec.PaymentMethod)
		b.PaymentMethod = &pm
	}
	if rec.DeletedAt.Valid {
		at := rec.DeletedAt.Time
		b.DeletedAt = &at
	}
	return b, nil
}

type gormBookingRepository struct {
	db  *gorm.DB
	log *zap.Logger

	// SQLite has no advisory locks; exclusive creates and date moves queue here.
	dateMu sync.Mutex
}

func NewGormBookingRepository(db *gorm.DB, log *zap.Logger) BookingRepository {
	return &gormBookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

// occupying scopes a query to records that hold their date.
// gorm adds the deleted_at IS NULL predicate on its own.
func occupying(db *gorm.DB) *gorm.DB {
	return db.Where("status IN ?", occupyingStatusValues())
}

func (r *gormBookingRepository) create(tx *gorm.DB, booking *entity.Booking) (*entity.Booking, error) {
	prepareNew(booking)

	rec := newBookingRecord(booking)
	if err := tx.Create(rec).Error; err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("tour_id", booking.TourID),
		)
		return nil, fmt.Errorf("create booking %s: %w: %w", booking.ID, ErrPersistence, err)
	}

	return rec.toEntity()
}

func (r *gormBookingRepository) Create(ctx context.Context, booking *entity.Booking) (*entity.Booking, error) {
	return r.create(r.db.WithContext(ctx), booking)
}

func (r *gormBookingRepository) CreateExclusive(ctx context.Context, booking *entity.Booking) (*entity.Booking, error) {
	r.dateMu.Lock()
	defer r.dateMu.Unlock()

	var created *entity.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&BookingRecord{}).
			Scopes(occupying).
			Where("client_selected_date = ?", utils.FormatDate(booking.ClientSelectedDate)).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("check date: %w: %w", ErrPersistence, err)
		}
		if count > 0 {
			return ErrDateTaken
		}

		created, err = r.create(tx, booking)
		return err
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (r *gormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return r.find(r.db.WithContext(ctx), id)
}

func (r *gormBookingRepository) find(tx *gorm.DB, id uuid.UUID) (*entity.Booking, error) {
	var rec BookingRecord
	err := tx.First(&rec, "id = ?", id.String()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w: %w", id, ErrPersistence, err)
	}

	return rec.toEntity()
}

func (r *gormBookingRepository) List(ctx context.Context, filter BookingFilter) ([]*entity.Booking, error) {
	query := r.db.WithContext(ctx).Model(&BookingRecord{})

	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.PaymentStatus != nil {
		query = query.Where("payment_status = ?", string(*filter.PaymentStatus))
	}
	today := utils.FormatDate(filter.Today)
	if filter.Future != nil {
		if *filter.Future {
			query = query.Where("client_selected_date >= ?", today)
		} else {
			query = query.Where("client_selected_date < ?", today)
		}
	}
	if filter.Past != nil {
		if *filter.Past {
			query = query.Where("client_selected_date < ?", today)
		} else {
			query = query.Where("client_selected_date >= ?", today)
		}
	}
	if filter.DateRange != nil {
		query = query.Where("client_selected_date >= ? AND client_selected_date < ?",
			utils.FormatDate(filter.DateRange.Start),
			utils.FormatDate(filter.DateRange.End),
		)
	}

	var records []BookingRecord
	if err := query.Order("created_at DESC").Find(&records).Error; err != nil {
		r.log.Error("Failed to list bookings", zap.Error(err))
		return nil, fmt.Errorf("list bookings: %w: %w", ErrPersistence, err)
	}

	bookings := make([]*entity.Booking, 0, len(records))
	for i := range records {
		b, err := records[i].toEntity()
		if err != nil {
			return nil, fmt.Errorf("decode booking: %w: %w", ErrPersistence, err)
		}
		bookings = append(bookings, b)
	}

	return bookings, nil
}

func (r *gormBookingRepository) Patch(ctx context.Context, id uuid.UUID, patch entity.BookingPatch) (*entity.Booking, error) {
	if !patch.ExclusiveDate || patch.ClientSelectedDate == nil {
		return r.patch(r.db.WithContext(ctx), id, patch)
	}

	r.dateMu.Lock()
	defer r.dateMu.Unlock()

	var updated *entity.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&BookingRecord{}).
			Scopes(occupying).
			Where("client_selected_date = ? AND id <> ?", utils.FormatDate(*patch.ClientSelectedDate), id.String()).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("check date: %w: %w", ErrPersistence, err)
		}
		if count > 0 {
			return ErrDateTaken
		}

		updated, err = r.patch(tx, id, patch)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *gormBookingRepository) patch(tx *gorm.DB, id uuid.UUID, patch entity.BookingPatch) (*entity.Booking, error) {
	updates := map[string]any{
		"updated_at": tx.NowFunc(),
	}
	if patch.Status != nil {
		updates["status"] = string(*patch.Status)
	}
	if patch.PaymentStatus != nil {
		updates["payment_status"] = string(*patch.PaymentStatus)
	}
	if patch.PaymentMethod.Set {
		if patch.PaymentMethod.Valid {
			updates["payment_method"] = string(patch.PaymentMethod.Value)
		} else {
			updates["payment_method"] = gorm.Expr("NULL")
		}
	}
	if patch.Price != nil {
		updates["price"] = *patch.Price
	}
	if patch.ClientMessage.Set {
		if patch.ClientMessage.Valid {
			updates["client_message"] = patch.ClientMessage.Value
		} else {
			updates["client_message"] = gorm.Expr("NULL")
		}
	}
	if patch.ClientSelectedDate != nil {
		updates["client_selected_date"] = utils.FormatDate(*patch.ClientSelectedDate)
	}

	query := tx.Model(&BookingRecord{}).Where("id = ?", id.String())
	if patch.ExpectStatus != nil {
		query = query.Where("status = ?", string(*patch.ExpectStatus))
	}
	if patch.ExpectPaymentStatus != nil {
		query = query.Where("payment_status = ?", string(*patch.ExpectPaymentStatus))
	}

	result := query.Updates(updates)
	if result.Error != nil {
		r.log.Error("Failed to patch booking",
			zap.Error(result.Error),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("patch booking %s: %w: %w", id, ErrPersistence, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, r.missOrStale(tx, id)
	}

	return r.find(tx, id)
}

// missOrStale tells an absent booking (nil) from one whose state moved on.
func (r *gormBookingRepository) missOrStale(tx *gorm.DB, id uuid.UUID) error {
	var count int64
	if err := tx.Model(&BookingRecord{}).Where("id = ?", id.String()).Count(&count).Error; err != nil {
		return fmt.Errorf("recheck booking %s: %w: %w", id, ErrPersistence, err)
	}
	if count > 0 {
		return ErrStaleBooking
	}
	return nil
}

func (r *gormBookingRepository) SoftDelete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&BookingRecord{})
	if result.Error != nil {
		r.log.Error("Failed to delete booking",
			zap.Error(result.Error),
			zap.String("booking_id", id.String()),
		)
		return false, fmt.Errorf("delete booking %s: %w: %w", id, ErrPersistence, result.Error)
	}

	if result.RowsAffected == 0 {
		return false, nil
	}

	r.log.Info("Booking deleted", zap.String("booking_id", id.String()))
	return true, nil
}

func (r *gormBookingRepository) IsDateOccupied(ctx context.Context, date time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&BookingRecord{}).
		Scopes(occupying).
		Where("client_selected_date = ?", utils.FormatDate(date)).
		Count(&count).Error
	if err != nil {
		r.log.Error("Failed to check date availability",
			zap.Error(err),
			zap.String("date", utils.FormatDate(date)),
		)
		return false, fmt.Errorf("check date %s: %w: %w", utils.FormatDate(date), ErrPersistence, err)
	}
	return count > 0, nil
}

func (r *gormBookingRepository) ListOccupiedDates(ctx context.Context, from time.Time) ([]time.Time, error) {
	var raw []string
	err := r.db.WithContext(ctx).
		Model(&BookingRecord{}).
		Scopes(occupying).
		Where("client_selected_date >= ?", utils.FormatDate(from)).
		Distinct().
		Order("client_selected_date").
		Pluck("client_selected_date", &raw).Error
	if err != nil {
		r.log.Error("Failed to list occupied dates", zap.Error(err))
		return nil, fmt.Errorf("list occupied dates: %w: %w", ErrPersistence, err)
	}

	dates := make([]time.Time, 0, len(raw))
	for _, value := range raw {
		date, err := time.Parse(utils.DateLayout, value)
		if err != nil {
			return nil, fmt.Errorf("parse occupied date %q: %w: %w", value, ErrPersistence, err)
		}
		dates = append(dates, date)
	}

	return dates, nil
}
