package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"tour-booking/internal/data/entity"
	"tour-booking/internal/data/repository"
	"tour-booking/pkg/database"
	"tour-booking/pkg/utils"

	"go.uber.org/zap"
)

// OpenRepository connects the configured store. The returned func releases it.
func OpenRepository(config utils.DatabaseConfig, logger *zap.Logger) (*repository.Repository, func(), error) {
	switch config.Driver {
	case "sqlite":
		db, err := database.InitSQLite(config.SQLitePath, logger, &repository.BookingRecord{}, &repository.TourRecord{})
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite handle: %w", err)
		}
		return repository.NewGormRepository(db, logger), func() { _ = sqlDB.Close() }, nil

	default:
		if config.AutoMigrate {
			if err := database.Migrate(config, logger); err != nil {
				return nil, nil, fmt.Errorf("migrate: %w", err)
			}
		}
		db, err := database.InitDB(config)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Database connected successfully")
		return repository.NewRepository(db, logger), db.Close, nil
	}
}

type tourSeed struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Duration    string  `json:"duration"`
	Price       float64 `json:"price"`
}

// SeedTours upserts the tour catalogue from a JSON array file.
func SeedTours(ctx context.Context, tours repository.TourRepository, path string, logger *zap.Logger) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read tours file: %w", err)
	}

	var seeds []tourSeed
	if err := json.Unmarshal(raw, &seeds); err != nil {
		return fmt.Errorf("decode tours file %s: %w", path, err)
	}

	for _, s := range seeds {
		if s.ID == "" || s.Price <= 0 {
			return fmt.Errorf("tour %q: id and positive price are required", s.ID)
		}
		tour := &entity.Tour{
			ID:          s.ID,
			Title:       s.Title,
			Description: s.Description,
			Duration:    s.Duration,
			Price:       s.Price,
		}
		if err := tours.Upsert(ctx, tour); err != nil {
			return fmt.Errorf("upsert tour %s: %w", s.ID, err)
		}
	}

	logger.Info("Tour catalogue synced", zap.Int("tours", len(seeds)), zap.String("file", path))
	return nil
}
