package entity

import (
	"bytes"
	"encoding/json"
	"time"
)

// Nullable distinguishes an absent field from an explicit null.
type Nullable[T any] struct {
	Set   bool
	Valid bool
	Value T
}

func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Valid: true, Value: v}
}

func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Valid = false
		var zero T
		n.Value = zero
		return nil
	}
	if err := json.Unmarshal(data, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// Ptr returns nil for an explicit null.
func (n Nullable[T]) Ptr() *T {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

// BookingPatch holds only the fields a caller asked to change.
type BookingPatch struct {
	Status             *BookingStatus
	PaymentStatus      *PaymentStatus
	PaymentMethod      Nullable[PaymentMethod]
	Price              *float64
	ClientMessage      Nullable[string]
	ClientSelectedDate *time.Time

	// ExpectStatus and ExpectPaymentStatus make the write conditional on
	// the state the caller validated against.
	ExpectStatus        *BookingStatus
	ExpectPaymentStatus *PaymentStatus

	// ExclusiveDate moves the booking only if no other booking holds the
	// new date, checked under the store's date lock.
	ExclusiveDate bool
}

func (p BookingPatch) IsEmpty() bool {
	return p.Status == nil &&
		p.PaymentStatus == nil &&
		!p.PaymentMethod.Set &&
		p.Price == nil &&
		!p.ClientMessage.Set &&
		p.ClientSelectedDate == nil
}

// Holds reports whether b is still in the state the patch expects.
func (p BookingPatch) Holds(b *Booking) bool {
	if p.ExpectStatus != nil && b.Status != *p.ExpectStatus {
		return false
	}
	if p.ExpectPaymentStatus != nil && b.PaymentStatus != *p.ExpectPaymentStatus {
		return false
	}
	return true
}

// Apply writes the present fields onto b. Timestamps are left to the store.
func (p BookingPatch) Apply(b *Booking) {
	if p.Status != nil {
		b.Status = *p.Status
	}
	if p.PaymentStatus != nil {
		b.PaymentStatus = *p.PaymentStatus
	}
	if p.PaymentMethod.Set {
		b.PaymentMethod = p.PaymentMethod.Ptr()
	}
	if p.Price != nil {
		b.Price = *p.Price
	}
	if p.ClientMessage.Set {
		b.ClientMessage = p.ClientMessage.Ptr()
	}
	if p.ClientSelectedDate != nil {
		b.ClientSelectedDate = *p.ClientSelectedDate
	}
}
