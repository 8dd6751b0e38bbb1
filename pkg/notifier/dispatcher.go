package notifier

import (
	"context"
	"errors"

	"tour-booking/internal/data/entity"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ClientChannel reaches the person who booked.
type ClientChannel interface {
	SendConfirmation(ctx context.Context, booking *entity.Booking, tour *entity.Tour) error
	SendReminder(ctx context.Context, booking *entity.Booking, tour *entity.Tour) error
}

// OperatorChannel reaches the people running the tours.
type OperatorChannel interface {
	SendOperatorAlert(ctx context.Context, booking *entity.Booking, tour *entity.Tour) error
}

// Dispatcher fans booking events out to the configured channels.
type Dispatcher struct {
	client    ClientChannel
	operators []OperatorChannel
	log       *zap.Logger
}

func NewDispatcher(client ClientChannel, operators []OperatorChannel, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		client:    client,
		operators: operators,
		log:       log.With(zap.String("notifier", "dispatcher")),
	}
}

func (d *Dispatcher) SendConfirmation(ctx context.Context, booking *entity.Booking, tour *entity.Tour) error {
	return d.client.SendConfirmation(ctx, booking, tour)
}

func (d *Dispatcher) SendReminder(ctx context.Context, booking *entity.Booking, tour *entity.Tour) error {
	return d.client.SendReminder(ctx, booking, tour)
}

// NotifyOperator tries every operator channel; one failing does not stop the others.
func (d *Dispatcher) NotifyOperator(ctx context.Context, booking *entity.Booking, tour *entity.Tour) error {
	errs := make([]error, len(d.operators))

	var g errgroup.Group
	for i, op := range d.operators {
		g.Go(func() error {
			errs[i] = op.SendOperatorAlert(ctx, booking, tour)
			return nil
		})
	}
	_ = g.Wait()

	err := errors.Join(errs...)
	if err == nil {
		d.log.Debug("Operator alerted",
			zap.String("booking_id", booking.ID.String()),
			zap.Int("channels", len(d.operators)),
		)
	}
	return err
}
