package domain

import "time"

type Room struct {
	ID          int64  `json:"id" gorm:"primaryKey"`
	PropertyID  int64  `json:"property_id" gorm:"index"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty" gorm:"type:text"`

	// Units is the number of identical sellable units behind this room
	// entry. A single homestay room has 1; a dorm-style room may have more.
	Units         int `json:"units" validate:"required,gt=0"`
	MaxGuests     int `json:"max_guests" validate:"required,gt=0"`
	BaseOccupancy int `json:"base_occupancy" validate:"required,gt=0"`

	NightlyRate   float64 `json:"nightly_rate" validate:"required,gte=0"`
	ExtraGuestFee float64 `json:"extra_guest_fee" validate:"gte=0"`
	Currency      string  `json:"currency" gorm:"size:3"`

	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Property struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" validate:"required"`
	City      string    `json:"city,omitempty"`
	Address   string    `json:"address,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
