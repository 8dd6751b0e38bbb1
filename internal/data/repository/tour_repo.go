package repository

import (
	"context"
	"errors"
	"fmt"

	"tour-booking/internal/data/entity"
	"tour-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TourRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Tour, error)
	// Upsert inserts or refreshes a tour synced from the CMS.
	Upsert(ctx context.Context, tour *entity.Tour) error
}

type tourRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTourRepository(db database.PgxIface, log *zap.Logger) TourRepository {
	return &tourRepository{
		db:  db,
		log: log.With(zap.String("repository", "tour")),
	}
}

func (r *tourRepository) FindByID(ctx context.Context, id string) (*entity.Tour, error) {
	query := `
		SELECT id, title, description, duration, price, created_at, updated_at
		FROM tours
		WHERE id = $1
	`

	var tour entity.Tour
	err := r.db.QueryRow(ctx, query, id).Scan(
		&tour.ID,
		&tour.Title,
		&tour.Description,
		&tour.Duration,
		&tour.Price,
		&tour.CreatedAt,
		&tour.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find tour by ID",
			zap.Error(err),
			zap.String("tour_id", id),
		)
		return nil, fmt.Errorf("find tour by ID %s: %w: %w", id, ErrPersistence, err)
	}

	return &tour, nil
}

func (r *tourRepository) Upsert(ctx context.Context, tour *entity.Tour) error {
	query := `
		INSERT INTO tours (id, title, description, duration, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title,
		    description = EXCLUDED.description,
		    duration = EXCLUDED.duration,
		    price = EXCLUDED.price,
		    updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		tour.ID,
		tour.Title,
		tour.Description,
		tour.Duration,
		tour.Price,
	).Scan(&tour.CreatedAt, &tour.UpdatedAt)

	if err != nil {
		r.log.Error("Failed to upsert tour",
			zap.Error(err),
			zap.String("tour_id", tour.ID),
		)
		return fmt.Errorf("upsert tour %s: %w: %w", tour.ID, ErrPersistence, err)
	}

	return nil
}
