package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"tourstay/internal/domain"
	"tourstay/internal/modules/pricing"
	"tourstay/internal/pkg/reference"
	"tourstay/internal/repository"
)

const (
	dateLayout = "2006-01-02"

	// maxReferenceRetries bounds regeneration after a reference
	// collision. Collisions should be effectively unreachable given the
	// timestamp+random composition.
	maxReferenceRetries = 3
)

// Service is the reservation coordinator: it validates a booking
// request, resolves pricing, drives the atomic reserve through the
// store, and emits best-effort notifications after commit. Status
// transitions on existing bookings run through TransitionStatus.
type Service struct {
	store      ReservationStore
	bookings   BookingReader
	rooms      RoomRepository
	departures DepartureRepository
	ledger     Ledger
	notifs     NotificationSender
	cache      AvailabilityCache
}

func NewService(
	store ReservationStore,
	bookings BookingReader,
	rooms RoomRepository,
	departures DepartureRepository,
	ledger Ledger,
	notifs NotificationSender,
	cache AvailabilityCache,
) *Service {
	return &Service{
		store:      store,
		bookings:   bookings,
		rooms:      rooms,
		departures: departures,
		ledger:     ledger,
		notifs:     notifs,
		cache:      cache,
	}
}

// CreateBooking handles one booking request end to end. The channel
// decides the initial status: admin-entered bookings start confirmed,
// everything else starts pending.
func (s *Service) CreateBooking(ctx context.Context, req CreateBookingRequest, channel domain.BookingChannel) (*domain.Booking, error) {
	if err := validateGuests(req); err != nil {
		return nil, err
	}

	switch {
	case req.RoomID != nil && req.DepartureID != nil:
		return nil, invalidField("room_id", "set either room_id or departure_id, not both")
	case req.RoomID != nil:
		return s.createStay(ctx, req, channel)
	case req.DepartureID != nil:
		return s.createTour(ctx, req, channel)
	default:
		return nil, invalidField("room_id", "one of room_id or departure_id is required")
	}
}

func (s *Service) createStay(ctx context.Context, req CreateBookingRequest, channel domain.BookingChannel) (*domain.Booking, error) {
	checkIn, checkOut, err := parseStayDates(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	room, err := s.rooms.GetByID(ctx, *req.RoomID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalidField("room_id", "unknown room")
		}
		return nil, err
	}
	if !room.IsActive {
		return nil, invalidField("room_id", "room is not bookable")
	}
	if req.Adults+req.Children > room.MaxGuests {
		return nil, invalidField("guests", "exceeds room capacity")
	}

	// Advisory fast-fail: a recent identical rejection, or a visibly
	// full calendar, spares a doomed transaction. Never authoritative.
	if s.cache != nil && s.cache.StayKnownFull(ctx, room.ID, req.CheckIn, req.CheckOut) {
		return nil, ErrCapacityExceeded
	}
	available, err := s.ledger.CheckAvailability(ctx, room, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	if !available {
		s.markStayFull(ctx, room.ID, req.CheckIn, req.CheckOut)
		return nil, ErrCapacityExceeded
	}

	quote := pricing.StayQuote(room, checkIn, checkOut, req.Adults, req.Children)

	b := &domain.Booking{
		Type:             domain.BookingStay,
		Status:           initialStatus(channel),
		Channel:          channel,
		ChannelReference: req.ChannelReference,
		PropertyID:       room.PropertyID,
		RoomID:           &room.ID,
		CheckIn:          &checkIn,
		CheckOut:         &checkOut,
		Adults:           req.Adults,
		Children:         req.Children,
		Infants:          req.Infants,
		TotalAmount:      quote.Total,
		Currency:         quote.Currency,
		SpecialRequests:  req.SpecialRequests,
	}

	customer := customerFromInput(req.Customer)
	err = s.withReferenceRetry(reference.PrefixStay, b, func() error {
		return s.store.ReserveStay(ctx, room, customer, b)
	})
	if err != nil {
		if errors.Is(err, ErrCapacityExceeded) {
			s.markStayFull(ctx, room.ID, req.CheckIn, req.CheckOut)
		}
		return nil, err
	}

	s.emitCreated(ctx, b)
	return b, nil
}

func (s *Service) createTour(ctx context.Context, req CreateBookingRequest, channel domain.BookingChannel) (*domain.Booking, error) {
	if req.CheckIn != "" || req.CheckOut != "" {
		return nil, invalidField("check_in", "dates are not accepted for tour bookings")
	}

	dep, err := s.departures.GetByID(ctx, *req.DepartureID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalidField("departure_id", "unknown departure")
		}
		return nil, err
	}
	if !dep.IsActive {
		return nil, invalidField("departure_id", "departure is not bookable")
	}
	if !dep.StartsAt.After(time.Now()) {
		return nil, invalidField("departure_id", "departure has already started")
	}

	quote := pricing.TourQuote(dep, req.Adults, req.Children)

	b := &domain.Booking{
		Type:             domain.BookingTour,
		Status:           initialStatus(channel),
		Channel:          channel,
		ChannelReference: req.ChannelReference,
		DepartureID:      &dep.ID,
		Adults:           req.Adults,
		Children:         req.Children,
		Infants:          req.Infants,
		TotalAmount:      quote.Total,
		Currency:         quote.Currency,
		SpecialRequests:  req.SpecialRequests,
	}

	// Fast-fail on the seat count visible outside the transaction; the
	// store re-checks under lock.
	if dep.SeatsAvailable < b.SeatCount() {
		return nil, ErrCapacityExceeded
	}

	customer := customerFromInput(req.Customer)
	err = s.withReferenceRetry(reference.PrefixTour, b, func() error {
		return s.store.ReserveSeats(ctx, dep.ID, customer, b)
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.InvalidateDeparture(ctx, dep.ID)
	}
	s.emitCreated(ctx, b)
	return b, nil
}

// withReferenceRetry assigns a fresh reference and runs the reserve,
// regenerating on a collision with the unique index. Any other error is
// mapped to the module's taxonomy and returned as-is.
func (s *Service) withReferenceRetry(prefix string, b *domain.Booking, reserve func() error) error {
	var err error
	for attempt := 0; attempt < maxReferenceRetries; attempt++ {
		b.Reference = reference.New(prefix)
		err = reserve()
		if err == nil {
			return nil
		}
		if errors.Is(err, repository.ErrDuplicateReference) {
			continue
		}
		break
	}

	switch {
	case errors.Is(err, repository.ErrDuplicateReference):
		return ErrDuplicateReference
	case errors.Is(err, repository.ErrCapacityExceeded):
		return ErrCapacityExceeded
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	default:
		return err
	}
}

// TransitionStatus applies an admin status change. Capacity is released
// or re-reserved inside the store transaction; on a failed reinstatement
// the record stays cancelled.
func (s *Service) TransitionStatus(ctx context.Context, bookingID int64, status string, adminNotes string) (*domain.Booking, error) {
	next := domain.BookingStatus(status)
	switch next {
	case domain.BookingPending, domain.BookingConfirmed, domain.BookingCancelled, domain.BookingCompleted:
	default:
		return nil, invalidField("status", "unknown status")
	}

	previous, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updated, err := s.store.Transition(ctx, bookingID, next, adminNotes)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidTransition):
			return nil, ErrInvalidTransition
		case errors.Is(err, repository.ErrCapacityExceeded):
			return nil, ErrCapacityExceeded
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	s.invalidateFor(ctx, updated)
	if s.notifs != nil {
		if err := s.notifs.BookingStatusChanged(ctx, updated, previous.Status); err != nil {
			log.Printf("notify_failed event=status_changed reference=%s error=%q", updated.Reference, err)
		}
	}
	return updated, nil
}

func (s *Service) GetByReference(ctx context.Context, ref string) (*domain.Booking, error) {
	b, err := s.bookings.GetByReference(ctx, ref)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *Service) ListBookings(ctx context.Context, f repository.BookingFilters) ([]domain.Booking, int64, error) {
	return s.bookings.List(ctx, f)
}

func (s *Service) emitCreated(ctx context.Context, b *domain.Booking) {
	if s.notifs == nil {
		return
	}
	if err := s.notifs.BookingCreated(ctx, b); err != nil {
		log.Printf("notify_failed event=created reference=%s error=%q", b.Reference, err)
	}
}

func (s *Service) invalidateFor(ctx context.Context, b *domain.Booking) {
	if s.cache == nil {
		return
	}
	switch b.Type {
	case domain.BookingStay:
		if b.RoomID != nil {
			s.cache.InvalidateRoom(ctx, *b.RoomID)
		}
	case domain.BookingTour:
		if b.DepartureID != nil {
			s.cache.InvalidateDeparture(ctx, *b.DepartureID)
		}
	}
}

func (s *Service) markStayFull(ctx context.Context, roomID int64, checkIn, checkOut string) {
	if s.cache != nil {
		s.cache.MarkStayFull(ctx, roomID, checkIn, checkOut)
	}
}

func initialStatus(channel domain.BookingChannel) domain.BookingStatus {
	if channel == domain.ChannelAdmin {
		return domain.BookingConfirmed
	}
	return domain.BookingPending
}

func customerFromInput(in CustomerInput) *domain.Customer {
	return &domain.Customer{
		Name:  in.Name,
		Email: in.Email,
		Phone: in.Phone,
	}
}

func validateGuests(req CreateBookingRequest) error {
	fields := make(map[string]string)
	if req.Adults < 1 {
		fields["adults"] = "at least one adult is required"
	}
	if req.Children < 0 {
		fields["children"] = "must not be negative"
	}
	if req.Infants < 0 {
		fields["infants"] = "must not be negative"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func parseStayDates(checkInStr, checkOutStr string) (time.Time, time.Time, error) {
	if checkInStr == "" || checkOutStr == "" {
		return time.Time{}, time.Time{}, invalidField("check_in", "check_in and check_out are required for stays")
	}

	checkIn, err := time.Parse(dateLayout, checkInStr)
	if err != nil {
		return time.Time{}, time.Time{}, invalidField("check_in", "must be formatted as YYYY-MM-DD")
	}
	checkOut, err := time.Parse(dateLayout, checkOutStr)
	if err != nil {
		return time.Time{}, time.Time{}, invalidField("check_out", "must be formatted as YYYY-MM-DD")
	}

	checkIn = domain.Midnight(checkIn)
	checkOut = domain.Midnight(checkOut)

	if !checkOut.After(checkIn) {
		return time.Time{}, time.Time{}, invalidField("check_out", "must be after check_in")
	}
	if checkIn.Before(domain.Midnight(time.Now())) {
		return time.Time{}, time.Time{}, invalidField("check_in", "must not be in the past")
	}
	return checkIn, checkOut, nil
}
