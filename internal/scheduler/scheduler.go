package scheduler

import (
	"context"
	"fmt"
	"time"

	"tour-booking/internal/dto/response"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type reminderSender interface {
	SendTomorrowReminders(ctx context.Context) (*response.ReminderResult, error)
}

// Scheduler runs the reminder batch in process on a cron expression, for
// deployments without an external cron hitting the reminder endpoint.
type Scheduler struct {
	cron      *cron.Cron
	reminders reminderSender
	spec      string
	log       *zap.Logger
}

func New(reminders reminderSender, spec string, loc *time.Location, log *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		reminders: reminders,
		spec:      spec,
		log:       log.With(zap.String("component", "scheduler")),
	}

	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("parse REMINDER_CRON %q: %w", spec, err)
	}

	return s, nil
}

// Start blocks until ctx is done, then waits for a running batch to finish.
func (s *Scheduler) Start(ctx context.Context) {
	if _, err := s.cron.AddFunc(s.spec, func() { s.tick(ctx) }); err != nil {
		s.log.Error("Failed to schedule reminders", zap.Error(err))
		return
	}
	s.cron.Start()
	s.log.Info("Scheduler started", zap.String("spec", s.spec))

	<-ctx.Done()

	<-s.cron.Stop().Done()
	s.log.Info("Scheduler stopped")
}

func (s *Scheduler) tick(ctx context.Context) {
	result, err := s.reminders.SendTomorrowReminders(ctx)
	if err != nil {
		s.log.Error("Reminder batch failed", zap.Error(err))
		return
	}

	s.log.Info("Reminder batch done",
		zap.Int("total", result.Total),
		zap.Int("sent", result.Sent),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped),
	)
}
