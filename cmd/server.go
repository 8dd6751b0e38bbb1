package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"tour-booking/internal/scheduler"
	"tour-booking/internal/wire"
	"tour-booking/pkg/utils"

	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

// APIServer serves app until SIGINT/SIGTERM, then drains requests, the
// optional reminder scheduler and in-flight notifications.
func APIServer(app *wire.App, config *utils.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", config.App.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	var background sync.WaitGroup
	if config.Reminder.Cron != "" {
		loc, err := config.App.Location()
		if err != nil {
			return fmt.Errorf("load timezone: %w", err)
		}
		sched, err := scheduler.New(app.Service.Reminder, config.Reminder.Cron, loc, logger)
		if err != nil {
			return err
		}
		background.Add(1)
		go func() {
			defer background.Done()
			sched.Start(ctx)
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errCh:
		stop()
		background.Wait()
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	logger.Info("HTTP server stopped")

	background.Wait()
	app.Service.Booking.Wait()
	logger.Info("Pending notifications drained")

	return nil
}
