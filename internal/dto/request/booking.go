package request

import (
	"tour-booking/internal/data/entity"
)

// CreateBookingRequest is the public booking form.
type CreateBookingRequest struct {
	Name             string `json:"name" validate:"required,min=2,max=100,personname"`
	Email            string `json:"email" validate:"required,email"`
	PhoneCountryCode string `json:"phonePhoneCountryCode" validate:"required"`
	PhoneNumber      string `json:"phoneNumber" validate:"required,phonedigits"`
	Country          string `json:"country" validate:"required,min=2,max=100"`
	Language         string `json:"language" validate:"required"`
	TourID           string `json:"tourId" validate:"required"`
	Date             string `json:"date" validate:"required,isodate"`
	Message          string `json:"message" validate:"max=1000"`
}

// UpdateBookingRequest is decoded strictly; unknown keys are rejected.
// paymentMethod and clientMessage accept an explicit null to clear them.
type UpdateBookingRequest struct {
	Status             *string                               `json:"status" validate:"omitempty,oneof=pending confirmed cancelled"`
	PaymentStatus      *string                               `json:"paymentStatus" validate:"omitempty,oneof=pending paid failed"`
	PaymentMethod      entity.Nullable[entity.PaymentMethod] `json:"paymentMethod"`
	Price              *float64                              `json:"price" validate:"omitempty,gt=0"`
	ClientMessage      entity.Nullable[string]               `json:"clientMessage"`
	ClientSelectedDate *string                               `json:"clientSelectedDate" validate:"omitempty,isodate"`
}

// ListBookingsRequest holds the raw query string filters.
type ListBookingsRequest struct {
	Status        string
	PaymentStatus string
	Future        string
	Past          string
	Start         string
	End           string
}
