package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tour-booking/internal/data/entity"
	"tour-booking/pkg/database"
	"tour-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) (*entity.Booking, error)
	// CreateExclusive inserts only if no occupying booking holds the date.
	CreateExclusive(ctx context.Context, booking *entity.Booking) (*entity.Booking, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]*entity.Booking, error)
	Patch(ctx context.Context, id uuid.UUID, patch entity.BookingPatch) (*entity.Booking, error)
	SoftDelete(ctx context.Context, id uuid.UUID) (bool, error)

	// Availability queries
	IsDateOccupied(ctx context.Context, date time.Time) (bool, error)
	ListOccupiedDates(ctx context.Context, from time.Time) ([]time.Time, error)
}

const (
	bookingColumns = `id, client_name, client_email, client_phone, client_phone_country_code,
		client_country, client_language, client_message, tour_id, client_selected_date,
		price, status, payment_status, payment_method, created_at, updated_at, deleted_at`

	// every read path goes through this predicate
	activeBooking = "deleted_at IS NULL"
)

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var (
		booking       entity.Booking
		status        string
		paymentStatus string
		paymentMethod *string
	)
	err := row.Scan(
		&booking.ID,
		&booking.ClientName,
		&booking.ClientEmail,
		&booking.ClientPhone,
		&booking.ClientPhoneCountryCode,
		&booking.ClientCountry,
		&booking.ClientLanguage,
		&booking.ClientMessage,
		&booking.TourID,
		&booking.ClientSelectedDate,
		&booking.Price,
		&status,
		&paymentStatus,
		&paymentMethod,
		&booking.CreatedAt,
		&booking.UpdatedAt,
		&booking.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.Status = entity.BookingStatus(status)
	booking.PaymentStatus = entity.PaymentStatus(paymentStatus)
	if paymentMethod != nil {
		pm := entity.PaymentMethod(*paymentMethod)
		booking.PaymentMethod = &pm
	}
	booking.ClientSelectedDate = utils.NormalizeDate(booking.ClientSelectedDate)

	return &booking, nil
}

func prepareNew(booking *entity.Booking) {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	if booking.Status == "" {
		booking.Status = entity.BookingStatusPending
	}
	if booking.PaymentStatus == "" {
		booking.PaymentStatus = entity.PaymentStatusPending
	}
	booking.ClientSelectedDate = utils.NormalizeDate(booking.ClientSelectedDate)
	booking.DeletedAt = nil
}

func insertBooking(ctx context.Context, q queryRower, booking *entity.Booking) (*entity.Booking, error) {
	query := `
		INSERT INTO bookings (id, client_name, client_email, client_phone, client_phone_country_code,
			client_country, client_language, client_message, tour_id, client_selected_date,
			price, status, payment_status, payment_method, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		RETURNING ` + bookingColumns

	var paymentMethod *string
	if booking.PaymentMethod != nil {
		pm := string(*booking.PaymentMethod)
		paymentMethod = &pm
	}

	return scanBooking(q.QueryRow(ctx, query,
		booking.ID,
		booking.ClientName,
		booking.ClientEmail,
		booking.ClientPhone,
		booking.ClientPhoneCountryCode,
		booking.ClientCountry,
		booking.ClientLanguage,
		booking.ClientMessage,
		booking.TourID,
		booking.ClientSelectedDate,
		booking.Price,
		string(booking.Status),
		string(booking.PaymentStatus),
		paymentMethod,
	))
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) (*entity.Booking, error) {
	prepareNew(booking)

	created, err := insertBooking(ctx, r.db, booking)
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("tour_id", booking.TourID),
		)
		return nil, fmt.Errorf("create booking %s: %w: %w", booking.ID, ErrPersistence, err)
	}

	return created, nil
}

func (r *bookingRepository) CreateExclusive(ctx context.Context, booking *entity.Booking) (*entity.Booking, error) {
	prepareNew(booking)
	date := utils.FormatDate(booking.ClientSelectedDate)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create booking tx: %w: %w", ErrPersistence, err)
	}
	defer tx.Rollback(ctx)

	if err := r.lockDate(ctx, tx, date); err != nil {
		return nil, err
	}

	occupied, err := isDateOccupied(ctx, tx, booking.ClientSelectedDate, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("check date %s: %w: %w", date, ErrPersistence, err)
	}
	if occupied {
		return nil, ErrDateTaken
	}

	created, err := insertBooking(ctx, tx, booking)
	if err != nil {
		r.log.Error("Failed to create booking", zap.Error(err), zap.String("booking_id", booking.ID.String()))
		return nil, fmt.Errorf("create booking %s: %w: %w", booking.ID, ErrPersistence, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit booking %s: %w: %w", booking.ID, ErrPersistence, err)
	}

	return created, nil
}

// lockDate serialises writers of the same date until the transaction ends.
func (r *bookingRepository) lockDate(ctx context.Context, tx pgx.Tx, date string) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "booking-date:"+date); err != nil {
		r.log.Error("Failed to lock booking date", zap.Error(err), zap.String("date", date))
		return fmt.Errorf("lock date %s: %w: %w", date, ErrPersistence, err)
	}
	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 AND ` + activeBooking

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w: %w", id, ErrPersistence, err)
	}

	return booking, nil
}

func (r *bookingRepository) List(ctx context.Context, filter BookingFilter) ([]*entity.Booking, error) {
	conditions := []string{activeBooking}
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != nil {
		conditions = append(conditions, "status = "+arg(string(*filter.Status)))
	}
	if filter.PaymentStatus != nil {
		conditions = append(conditions, "payment_status = "+arg(string(*filter.PaymentStatus)))
	}
	if filter.Future != nil {
		if *filter.Future {
			conditions = append(conditions, "client_selected_date >= "+arg(filter.Today))
		} else {
			conditions = append(conditions, "client_selected_date < "+arg(filter.Today))
		}
	}
	if filter.Past != nil {
		if *filter.Past {
			conditions = append(conditions, "client_selected_date < "+arg(filter.Today))
		} else {
			conditions = append(conditions, "client_selected_date >= "+arg(filter.Today))
		}
	}
	if filter.DateRange != nil {
		conditions = append(conditions,
			"client_selected_date >= "+arg(filter.DateRange.Start),
			"client_selected_date < "+arg(filter.DateRange.End),
		)
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list bookings", zap.Error(err))
		return nil, fmt.Errorf("list bookings: %w: %w", ErrPersistence, err)
	}
	defer rows.Close()

	bookings := make([]*entity.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w: %w", ErrPersistence, err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w: %w", ErrPersistence, err)
	}

	return bookings, nil
}

func (r *bookingRepository) Patch(ctx context.Context, id uuid.UUID, patch entity.BookingPatch) (*entity.Booking, error) {
	if !patch.ExclusiveDate || patch.ClientSelectedDate == nil {
		return r.patch(ctx, r.db, id, patch)
	}

	date := utils.FormatDate(*patch.ClientSelectedDate)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin patch booking tx: %w: %w", ErrPersistence, err)
	}
	defer tx.Rollback(ctx)

	if err := r.lockDate(ctx, tx, date); err != nil {
		return nil, err
	}

	occupied, err := isDateOccupied(ctx, tx, *patch.ClientSelectedDate, id)
	if err != nil {
		return nil, fmt.Errorf("check date %s: %w: %w", date, ErrPersistence, err)
	}
	if occupied {
		return nil, ErrDateTaken
	}

	updated, err := r.patch(ctx, tx, id, patch)
	if err != nil || updated == nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit patch booking %s: %w: %w", id, ErrPersistence, err)
	}

	return updated, nil
}

func (r *bookingRepository) patch(ctx context.Context, q queryRower, id uuid.UUID, patch entity.BookingPatch) (*entity.Booking, error) {
	var (
		sets  []string
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if patch.Status != nil {
		sets = append(sets, "status = "+arg(string(*patch.Status)))
	}
	if patch.PaymentStatus != nil {
		sets = append(sets, "payment_status = "+arg(string(*patch.PaymentStatus)))
	}
	if patch.PaymentMethod.Set {
		var pm *string
		if patch.PaymentMethod.Valid {
			v := string(patch.PaymentMethod.Value)
			pm = &v
		}
		sets = append(sets, "payment_method = "+arg(pm))
	}
	if patch.Price != nil {
		sets = append(sets, "price = "+arg(*patch.Price))
	}
	if patch.ClientMessage.Set {
		sets = append(sets, "client_message = "+arg(patch.ClientMessage.Ptr()))
	}
	if patch.ClientSelectedDate != nil {
		sets = append(sets, "client_selected_date = "+arg(utils.NormalizeDate(*patch.ClientSelectedDate)))
	}
	sets = append(sets, "updated_at = NOW()")

	conds = append(conds, "id = "+arg(id), activeBooking)
	if patch.ExpectStatus != nil {
		conds = append(conds, "status = "+arg(string(*patch.ExpectStatus)))
	}
	if patch.ExpectPaymentStatus != nil {
		conds = append(conds, "payment_status = "+arg(string(*patch.ExpectPaymentStatus)))
	}

	query := `UPDATE bookings SET ` + strings.Join(sets, ", ") +
		` WHERE ` + strings.Join(conds, " AND ") +
		` RETURNING ` + bookingColumns

	booking, err := scanBooking(q.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.missOrStale(ctx, q, id)
	}
	if err != nil {
		r.log.Error("Failed to patch booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("patch booking %s: %w: %w", id, ErrPersistence, err)
	}

	return booking, nil
}

// missOrStale tells an absent booking (nil) from one whose state moved on.
func (r *bookingRepository) missOrStale(ctx context.Context, q queryRower, id uuid.UUID) error {
	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE id = $1 AND `+activeBooking+`)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("recheck booking %s: %w: %w", id, ErrPersistence, err)
	}
	if exists {
		return ErrStaleBooking
	}
	return nil
}

func (r *bookingRepository) SoftDelete(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `UPDATE bookings SET deleted_at = NOW() WHERE id = $1 AND ` + activeBooking

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return false, fmt.Errorf("delete booking %s: %w: %w", id, ErrPersistence, err)
	}

	if result.RowsAffected() == 0 {
		return false, nil
	}

	r.log.Info("Booking deleted", zap.String("booking_id", id.String()))
	return true, nil
}

// isDateOccupied ignores the booking with id except.
func isDateOccupied(ctx context.Context, q queryRower, date time.Time, except uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE client_selected_date = $1 AND status = ANY($2) AND id <> $3 AND ` + activeBooking + `
		)`

	var occupied bool
	err := q.QueryRow(ctx, query, utils.NormalizeDate(date), occupyingStatusValues(), except).Scan(&occupied)
	return occupied, err
}

func (r *bookingRepository) IsDateOccupied(ctx context.Context, date time.Time) (bool, error) {
	occupied, err := isDateOccupied(ctx, r.db, date, uuid.Nil)
	if err != nil {
		r.log.Error("Failed to check date availability",
			zap.Error(err),
			zap.String("date", utils.FormatDate(date)),
		)
		return false, fmt.Errorf("check date %s: %w: %w", utils.FormatDate(date), ErrPersistence, err)
	}
	return occupied, nil
}

func (r *bookingRepository) ListOccupiedDates(ctx context.Context, from time.Time) ([]time.Time, error) {
	query := `
		SELECT DISTINCT client_selected_date
		FROM bookings
		WHERE client_selected_date >= $1 AND status = ANY($2) AND ` + activeBooking + `
		ORDER BY client_selected_date`

	rows, err := r.db.Query(ctx, query, utils.NormalizeDate(from), occupyingStatusValues())
	if err != nil {
		r.log.Error("Failed to list occupied dates", zap.Error(err))
		return nil, fmt.Errorf("list occupied dates: %w: %w", ErrPersistence, err)
	}
	defer rows.Close()

	dates := make([]time.Time, 0)
	for rows.Next() {
		var date time.Time
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("scan occupied date: %w: %w", ErrPersistence, err)
		}
		dates = append(dates, utils.NormalizeDate(date))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate occupied dates: %w: %w", ErrPersistence, err)
	}

	return dates, nil
}
