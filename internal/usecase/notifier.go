package usecase

import (
	"context"

	"tour-booking/internal/data/entity"
)

// Notifier delivers booking messages. Implementations live in pkg/notifier.
type Notifier interface {
	SendConfirmation(ctx context.Context, booking *entity.Booking, tour *entity.Tour) error
	NotifyOperator(ctx context.Context, booking *entity.Booking, tour *entity.Tour) error
	SendReminder(ctx context.Context, booking *entity.Booking, tour *entity.Tour) error
}
