package domain

import "time"

// Departure is a scheduled tour run. The seat pool lives directly on the
// row: SeatsAvailable is decremented on booking and restored on
// cancellation, always inside the same transaction as the booking write.
type Departure struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	TourName  string    `json:"tour_name" validate:"required"`
	StartsAt  time.Time `json:"starts_at"`
	DurationH int       `json:"duration_hours"`

	SeatsTotal     int `json:"seats_total" validate:"required,gt=0"`
	SeatsAvailable int `json:"seats_available"`

	AdultPrice float64 `json:"adult_price" validate:"gte=0"`
	ChildPrice float64 `json:"child_price" validate:"gte=0"`
	Currency   string  `json:"currency" gorm:"size:3"`

	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
