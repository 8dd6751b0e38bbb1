package entity

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodCash         PaymentMethod = "cash"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodBankTransfer, PaymentMethodCard, PaymentMethodCash:
		return true
	}
	return false
}

// OccupyingStatuses are the statuses that hold a calendar date.
var OccupyingStatuses = []BookingStatus{BookingStatusPending, BookingStatusConfirmed}

type Booking struct {
	Base
	ClientName             string         `db:"client_name"`
	ClientEmail            string         `db:"client_email"`
	ClientPhone            string         `db:"client_phone"`
	ClientPhoneCountryCode string         `db:"client_phone_country_code"`
	ClientCountry          string         `db:"client_country"`
	ClientLanguage         string         `db:"client_language"`
	ClientMessage          *string        `db:"client_message"`
	TourID                 string         `db:"tour_id"`
	ClientSelectedDate     time.Time      `db:"client_selected_date"` // date only, midnight UTC
	Price                  float64        `db:"price"`
	Status                 BookingStatus  `db:"status"`
	PaymentStatus          PaymentStatus  `db:"payment_status"`
	PaymentMethod          *PaymentMethod `db:"payment_method"`
}

func (b *Booking) IsActive() bool {
	return b != nil && !b.IsDeleted()
}

// OccupiesDate reports whether the booking blocks its selected date for others.
func (b *Booking) OccupiesDate() bool {
	if !b.IsActive() {
		return false
	}
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

// Clone returns a deep copy so stores never share pointers with callers.
func (b *Booking) Clone() *Booking {
	if b == nil {
		return nil
	}
	c := *b
	if b.ClientMessage != nil {
		msg := *b.ClientMessage
		c.ClientMessage = &msg
	}
	if b.PaymentMethod != nil {
		pm := *b.PaymentMethod
		c.PaymentMethod = &pm
	}
	if b.DeletedAt != nil {
		at := *b.DeletedAt
		c.DeletedAt = &at
	}
	return &c
}
