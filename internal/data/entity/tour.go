package entity

import "time"

// Tour mirrors the CMS tour record the booking flow needs.
type Tour struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Duration    string    `db:"duration"`
	Price       float64   `db:"price"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
