package main

import (
	"context"
	"log"
	"time"

	"tour-booking/cmd"
	"tour-booking/internal/usecase"
	"tour-booking/internal/wire"
	"tour-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("db_driver", config.Database.Driver),
		zap.Bool("strict_date_lock", config.Booking.StrictDateLock),
		zap.Bool("debug", config.App.Debug),
	)

	loc, err := config.App.Location()
	if err != nil {
		logger.Fatal("Invalid APP_TIMEZONE", zap.String("timezone", config.App.Timezone), zap.Error(err))
	}

	repo, closeStore, err := cmd.OpenRepository(config.Database, logger)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}
	defer closeStore()

	if config.App.ToursFile != "" {
		if err := cmd.SeedTours(context.Background(), repo.Tour, config.App.ToursFile, logger); err != nil {
			logger.Fatal("Failed to seed tours", zap.Error(err))
		}
	}

	notifier, err := wire.NewNotifier(config, logger)
	if err != nil {
		logger.Fatal("Failed to set up notifications", zap.Error(err))
	}

	if config.Reminder.Secret == "" && config.Reminder.SecretHash == "" {
		logger.Warn("CRON_SECRET is not set, the reminder endpoint is open")
	}

	clock := usecase.Clock{Now: time.Now, Location: loc}
	app := wire.Wiring(repo, notifier, clock, config, logger)

	if err := cmd.APIServer(app, config, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}
}
