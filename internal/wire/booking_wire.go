package wire

import (
	"tour-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireBooking mounts the booking CRUD under /api/bookings.
func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler) {
	// ==================== PUBLIC ROUTES ====================
	// POST /api/bookings - booking form submission
	r.Post("/", bookingHandler.CreateBooking)

	// ==================== ADMIN ROUTES ====================
	// Admin auth lives in front of the service (CMS / reverse proxy).
	r.Get("/", bookingHandler.ListBookings)
	r.Get("/{id}", bookingHandler.GetBooking)
	r.Patch("/{id}", bookingHandler.UpdateBooking)
	r.Delete("/{id}", bookingHandler.DeleteBooking)
}

func wireAvailability(r chi.Router, availabilityHandler *adaptor.AvailabilityHandler) {
	// GET /api/bookings/availability?date=YYYY-MM-DD
	r.Get("/availability", availabilityHandler.CheckDate)

	// GET /api/bookings/unavailable-dates - date picker blackout list
	r.Get("/unavailable-dates", availabilityHandler.UnavailableDates)
}
