package usecase

import (
	"fmt"

	"tour-booking/internal/data/entity"
)

var statusTransitions = map[entity.BookingStatus][]entity.BookingStatus{
	entity.BookingStatusPending:   {entity.BookingStatusConfirmed, entity.BookingStatusCancelled},
	entity.BookingStatusConfirmed: {entity.BookingStatusCancelled},
	entity.BookingStatusCancelled: {},
}

var paymentTransitions = map[entity.PaymentStatus][]entity.PaymentStatus{
	entity.PaymentStatusPending: {entity.PaymentStatusPaid, entity.PaymentStatusFailed},
	entity.PaymentStatusFailed:  {entity.PaymentStatusPending, entity.PaymentStatusPaid},
	entity.PaymentStatusPaid:    {},
}

func canTransition[S comparable](table map[S][]S, from, to S) bool {
	if from == to {
		return true
	}
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}

// checkTransitions rejects status or payment moves outside the allowed tables.
func checkTransitions(current *entity.Booking, patch entity.BookingPatch) *ValidationError {
	fields := make(map[string]string)

	if patch.Status != nil && !canTransition(statusTransitions, current.Status, *patch.Status) {
		fields["status"] = fmt.Sprintf("cannot change status from %s to %s", current.Status, *patch.Status)
	}
	if patch.PaymentStatus != nil && !canTransition(paymentTransitions, current.PaymentStatus, *patch.PaymentStatus) {
		fields["paymentStatus"] = fmt.Sprintf("cannot change payment status from %s to %s", current.PaymentStatus, *patch.PaymentStatus)
	}

	if len(fields) > 0 {
		return NewValidationError(fields)
	}
	return nil
}
