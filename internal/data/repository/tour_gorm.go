package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tour-booking/internal/data/entity"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TourRecord struct {
	ID          string  `gorm:"primaryKey"`
	Title       string  `gorm:"not null"`
	Description string  `gorm:"type:text"`
	Duration    string
	Price       float64 `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (TourRecord) TableName() string {
	return "tours"
}

type gormTourRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewGormTourRepository(db *gorm.DB, log *zap.Logger) TourRepository {
	return &gormTourRepository{
		db:  db,
		log: log.With(zap.String("repository", "tour")),
	}
}

func (r *gormTourRepository) FindByID(ctx context.Context, id string) (*entity.Tour, error) {
	var rec TourRecord
	err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find tour by ID", zap.Error(err), zap.String("tour_id", id))
		return nil, fmt.Errorf("find tour by ID %s: %w: %w", id, ErrPersistence, err)
	}

	return &entity.Tour{
		ID:          rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		Duration:    rec.Duration,
		Price:       rec.Price,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}, nil
}

func (r *gormTourRepository) Upsert(ctx context.Context, tour *entity.Tour) error {
	rec := TourRecord{
		ID:          tour.ID,
		Title:       tour.Title,
		Description: tour.Description,
		Duration:    tour.Duration,
		Price:       tour.Price,
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "description", "duration", "price", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		r.log.Error("Failed to upsert tour", zap.Error(err), zap.String("tour_id", tour.ID))
		return fmt.Errorf("upsert tour %s: %w: %w", tour.ID, ErrPersistence, err)
	}

	tour.CreatedAt = rec.CreatedAt
	tour.UpdatedAt = rec.UpdatedAt
	return nil
}
