package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

type BookingType string

const (
	BookingStay BookingType = "stay"
	BookingTour BookingType = "tour"
)

type BookingChannel string

const (
	ChannelWeb     BookingChannel = "web"
	ChannelPartner BookingChannel = "partner"
	ChannelAdmin   BookingChannel = "admin"
)

// statusTransitions is the closed transition table for booking statuses.
// Anything not listed here is rejected, including no-op transitions.
var statusTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCancelled, BookingCompleted},
	BookingCancelled: {BookingPending, BookingConfirmed},
	BookingCompleted: {},
}

// CanTransitionTo reports whether moving from s to next is a legal
// status change.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ConsumesCapacity reports whether a booking in this status holds
// inventory. Completed bookings keep their capacity consumed so that
// historical occupancy stays accurate.
func (s BookingStatus) ConsumesCapacity() bool {
	return s == BookingPending || s == BookingConfirmed || s == BookingCompleted
}

type Booking struct {
	ID        int64          `json:"id" gorm:"primaryKey"`
	Reference string         `json:"reference" gorm:"uniqueIndex:idx_booking_reference;size:32"`
	Type      BookingType    `json:"type" gorm:"size:8"`
	Status    BookingStatus  `json:"status" gorm:"size:16;index"`
	Channel   BookingChannel `json:"channel" gorm:"size:16"`

	// ChannelReference carries the partner-side identifier when the
	// booking originated outside our own site. Audit only.
	ChannelReference string `json:"channel_reference,omitempty" gorm:"size:64"`

	PropertyID  int64  `json:"property_id" gorm:"index"`
	RoomID      *int64 `json:"room_id,omitempty" gorm:"index"`
	DepartureID *int64 `json:"departure_id,omitempty" gorm:"index"`
	CustomerID  int64  `json:"customer_id" gorm:"index"`

	// CheckIn/CheckOut are set for stays only, normalized to midnight UTC.
	// The stay occupies the nights in [CheckIn, CheckOut).
	CheckIn  *time.Time `json:"check_in,omitempty"`
	CheckOut *time.Time `json:"check_out,omitempty"`

	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`

	TotalAmount float64 `json:"total_amount"`
	Currency    string  `json:"currency" gorm:"size:3"`

	SpecialRequests string `json:"special_requests,omitempty" gorm:"type:text"`
	AdminNotes      string `json:"admin_notes,omitempty" gorm:"type:text"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	Customer  *Customer  `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Room      *Room      `json:"room,omitempty" gorm:"foreignKey:RoomID"`
	Departure *Departure `json:"departure,omitempty" gorm:"foreignKey:DepartureID"`
}

// SeatCount is the number of tour seats this booking consumes.
// Infants travel on a lap and do not take a seat.
func (b *Booking) SeatCount() int {
	return b.Adults + b.Children
}

// Nights returns the number of nights a stay booking occupies.
func (b *Booking) Nights() int {
	if b.CheckIn == nil || b.CheckOut == nil {
		return 0
	}
	return int(b.CheckOut.Sub(*b.CheckIn).Hours() / 24)
}
