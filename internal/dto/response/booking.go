package response

import (
	"time"

	"tour-booking/internal/data/entity"
	"tour-booking/pkg/utils"
)

type BookingResponse struct {
	ID                     string                `json:"id"`
	ClientName             string                `json:"clientName"`
	ClientEmail            string                `json:"clientEmail"`
	ClientPhone            string                `json:"clientPhone"`
	ClientPhoneCountryCode string                `json:"clientPhoneCountryCode"`
	ClientCountry          string                `json:"clientCountry"`
	ClientLanguage         string                `json:"clientLanguage"`
	ClientSelectedDate     string                `json:"clientSelectedDate"`
	ClientMessage          *string               `json:"clientMessage"`
	TourID                 string                `json:"tourId"`
	Price                  float64               `json:"price"`
	Status                 entity.BookingStatus  `json:"status"`
	PaymentStatus          entity.PaymentStatus  `json:"paymentStatus"`
	PaymentMethod          *entity.PaymentMethod `json:"paymentMethod"`
	CreatedAt              time.Time             `json:"createdAt"`
	UpdatedAt              time.Time             `json:"updatedAt"`
	DeletedAt              *time.Time            `json:"deletedAt"`
}

type AvailabilityResponse struct {
	Date      string `json:"date"`
	Available bool   `json:"available"`
}

// Helper converters
func BookingToResponse(b *entity.Booking) *BookingResponse {
	return &BookingResponse{
		ID:                     b.ID.String(),
		ClientName:             b.ClientName,
		ClientEmail:            b.ClientEmail,
		ClientPhone:            b.ClientPhone,
		ClientPhoneCountryCode: b.ClientPhoneCountryCode,
		ClientCountry:          b.ClientCountry,
		ClientLanguage:         b.ClientLanguage,
		ClientSelectedDate:     utils.FormatDate(b.ClientSelectedDate),
		ClientMessage:          b.ClientMessage,
		TourID:                 b.TourID,
		Price:                  b.Price,
		Status:                 b.Status,
		PaymentStatus:          b.PaymentStatus,
		PaymentMethod:          b.PaymentMethod,
		CreatedAt:              b.CreatedAt,
		UpdatedAt:              b.UpdatedAt,
		DeletedAt:              b.DeletedAt,
	}
}

func BookingsToResponse(bookings []*entity.Booking) []*BookingResponse {
	out := make([]*BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, BookingToResponse(b))
	}
	return out
}
