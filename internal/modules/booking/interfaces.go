package booking

import (
	"context"
	"time"

	"tourstay/internal/domain"
	"tourstay/internal/repository"
)

// ReservationStore runs the atomic booking workflows against the
// durable store. Every method is all-or-nothing.
type ReservationStore interface {
	ReserveStay(ctx context.Context, room *domain.Room, customer *domain.Customer, booking *domain.Booking) error
	ReserveSeats(ctx context.Context, departureID int64, customer *domain.Customer, booking *domain.Booking) error
	Transition(ctx context.Context, bookingID int64, next domain.BookingStatus, adminNotes string) (*domain.Booking, error)
}

// BookingReader covers the read side of booking records.
type BookingReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByReference(ctx context.Context, reference string) (*domain.Booking, error)
	List(ctx context.Context, f repository.BookingFilters) ([]domain.Booking, int64, error)
}

type RoomRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
}

type DepartureRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Departure, error)
}

// Ledger is the advisory availability check. The authoritative check
// runs inside the store transaction.
type Ledger interface {
	CheckAvailability(ctx context.Context, room *domain.Room, checkIn, checkOut time.Time) (bool, error)
}

type NotificationSender interface {
	BookingCreated(ctx context.Context, b *domain.Booking) error
	BookingStatusChanged(ctx context.Context, b *domain.Booking, previous domain.BookingStatus) error
}

// AvailabilityCache is the optional redis fast-fail layer. The service
// tolerates a nil cache.
type AvailabilityCache interface {
	StayKnownFull(ctx context.Context, roomID int64, checkIn, checkOut string) bool
	MarkStayFull(ctx context.Context, roomID int64, checkIn, checkOut string)
	InvalidateRoom(ctx context.Context, roomID int64)
	InvalidateDeparture(ctx context.Context, departureID int64)
}
