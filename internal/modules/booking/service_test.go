package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tourstay/internal/domain"
	"tourstay/internal/repository"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) ReserveStay(ctx context.Context, room *domain.Room, customer *domain.Customer, b *domain.Booking) error {
	args := m.Called(ctx, room, customer, b)
	return args.Error(0)
}

func (m *mockStore) ReserveSeats(ctx context.Context, departureID int64, customer *domain.Customer, b *domain.Booking) error {
	args := m.Called(ctx, departureID, customer, b)
	return args.Error(0)
}

func (m *mockStore) Transition(ctx context.Context, bookingID int64, next domain.BookingStatus, adminNotes string) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, next, adminNotes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type mockReader struct {
	mock.Mock
}

func (m *mockReader) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockReader) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockReader) List(ctx context.Context, f repository.BookingFilters) ([]domain.Booking, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Booking), args.Get(1).(int64), args.Error(2)
}

type mockRoomRepo struct {
	mock.Mock
}

func (m *mockRoomRepo) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}

type mockDepartureRepo struct {
	mock.Mock
}

func (m *mockDepartureRepo) GetByID(ctx context.Context, id int64) (*domain.Departure, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Departure), args.Error(1)
}

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) CheckAvailability(ctx context.Context, room *domain.Room, checkIn, checkOut time.Time) (bool, error) {
	args := m.Called(ctx, room, checkIn, checkOut)
	return args.Bool(0), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) BookingCreated(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *mockNotifier) BookingStatusChanged(ctx context.Context, b *domain.Booking, previous domain.BookingStatus) error {
	args := m.Called(ctx, b, previous)
	return args.Error(0)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) StayKnownFull(ctx context.Context, roomID int64, checkIn, checkOut string) bool {
	args := m.Called(ctx, roomID, checkIn, checkOut)
	return args.Bool(0)
}

func (m *mockCache) MarkStayFull(ctx context.Context, roomID int64, checkIn, checkOut string) {
	m.Called(ctx, roomID, checkIn, checkOut)
}

func (m *mockCache) InvalidateRoom(ctx context.Context, roomID int64) {
	m.Called(ctx, roomID)
}

func (m *mockCache) InvalidateDeparture(ctx context.Context, departureID int64) {
	m.Called(ctx, departureID)
}

type fixture struct {
	store      *mockStore
	reader     *mockReader
	rooms      *mockRoomRepo
	departures *mockDepartureRepo
	ledger     *mockLedger
	notifs     *mockNotifier
	svc        *Service
}

// newFixture wires the service with a nil cache; cache behavior has its
// own tests.
func newFixture() *fixture {
	f := &fixture{
		store:      new(mockStore),
		reader:     new(mockReader),
		rooms:      new(mockRoomRepo),
		departures: new(mockDepartureRepo),
		ledger:     new(mockLedger),
		notifs:     new(mockNotifier),
	}
	f.svc = NewService(f.store, f.reader, f.rooms, f.departures, f.ledger, f.notifs, nil)
	return f
}

func testRoom() *domain.Room {
	return &domain.Room{
		ID:            1,
		PropertyID:    1,
		Name:          "Garden View",
		Units:         3,
		MaxGuests:     4,
		BaseOccupancy: 2,
		NightlyRate:   120,
		ExtraGuestFee: 15,
		Currency:      "USD",
		IsActive:      true,
	}
}

func testDeparture(seats int) *domain.Departure {
	return &domain.Departure{
		ID:             9,
		TourName:       "Island Hopper",
		StartsAt:       time.Now().Add(72 * time.Hour),
		SeatsTotal:     20,
		SeatsAvailable: seats,
		AdultPrice:     50,
		ChildPrice:     25,
		Currency:       "USD",
		IsActive:       true,
	}
}

func stayRequest() CreateBookingRequest {
	roomID := int64(1)
	in := time.Now().AddDate(0, 0, 7).Format(dateLayout)
	out := time.Now().AddDate(0, 0, 10).Format(dateLayout)
	return CreateBookingRequest{
		RoomID:   &roomID,
		CheckIn:  in,
		CheckOut: out,
		Adults:   2,
		Children: 1,
		Customer: CustomerInput{Name: "Dana Reed", Email: "dana@example.com", Phone: "+100200300"},
	}
}

func tourRequest() CreateBookingRequest {
	depID := int64(9)
	return CreateBookingRequest{
		DepartureID: &depID,
		Adults:      2,
		Children:    2,
		Infants:     1,
		Customer:    CustomerInput{Name: "Dana Reed", Email: "dana@example.com"},
	}
}

func TestCreateBooking_StaySuccess(t *testing.T) {
	f := newFixture()
	room := testRoom()

	f.rooms.On("GetByID", mock.Anything, int64(1)).Return(room, nil)
	f.ledger.On("CheckAvailability", mock.Anything, room, mock.Anything, mock.Anything).Return(true, nil)
	f.store.On("ReserveStay", mock.Anything, room, mock.Anything, mock.Anything).Return(nil)
	f.notifs.On("BookingCreated", mock.Anything, mock.Anything).Return(nil)

	b, err := f.svc.CreateBooking(context.Background(), stayRequest(), domain.ChannelWeb)

	require.NoError(t, err)
	assert.Equal(t, domain.BookingStay, b.Type)
	assert.Equal(t, domain.BookingPending, b.Status)
	assert.Regexp(t, `^HS-\d{8}T\d{6}-[A-Z2-9]{4}$`, b.Reference)
	// 3 nights at 120 plus one extra guest over base occupancy at 15
	assert.InDelta(t, 3*120+3*15, b.TotalAmount, 0.001)
	f.store.AssertExpectations(t)
	f.notifs.AssertExpectations(t)
}

func TestCreateBooking_AdminChannelStartsConfirmed(t *testing.T) {
	f := newFixture()
	room := testRoom()

	f.rooms.On("GetByID", mock.Anything, int64(1)).Return(room, nil)
	f.ledger.On("CheckAvailability", mock.Anything, room, mock.Anything, mock.Anything).Return(true, nil)
	f.store.On("ReserveStay", mock.Anything, room, mock.Anything, mock.Anything).Return(nil)
	f.notifs.On("BookingCreated", mock.Anything, mock.Anything).Return(nil)

	b, err := f.svc.CreateBooking(context.Background(), stayRequest(), domain.ChannelAdmin)

	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, b.Status)
}

func TestCreateBooking_StayCapacityExceeded(t *testing.T) {
	f := newFixture()
	room := testRoom()

	f.rooms.On("GetByID", mock.Anything, int64(1)).Return(room, nil)
	f.ledger.On("CheckAvailability", mock.Anything, room, mock.Anything, mock.Anything).Return(true, nil)
	f.store.On("ReserveStay", mock.Anything, room, mock.Anything, mock.Anything).
		Return(repository.ErrCapacityExceeded)

	_, err := f.svc.CreateBooking(context.Background(), stayRequest(), domain.ChannelWeb)

	assert.ErrorIs(t, err, ErrCapacityExceeded)
	f.notifs.AssertNotCalled(t, "BookingCreated", mock.Anything, mock.Anything)
}

func TestCreateBooking_AdvisoryCheckRejects(t *testing.T) {
	f := newFixture()
	room := testRoom()

	f.rooms.On("GetByID", mock.Anything, int64(1)).Return(room, nil)
	f.ledger.On("CheckAvailability", mock.Anything, room, mock.Anything, mock.Anything).Return(false, nil)

	_, err := f.svc.CreateBooking(context.Background(), stayRequest(), domain.ChannelWeb)

	assert.ErrorIs(t, err, ErrCapacityExceeded)
	f.store.AssertNotCalled(t, "ReserveStay", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateBooking_CacheFastFail(t *testing.T) {
	f := newFixture()
	cache := new(mockCache)
	f.svc = NewService(f.store, f.reader, f.rooms, f.departures, f.ledger, f.notifs, cache)
	room := testRoom()
	req := stayRequest()

	f.rooms.On("GetByID", mock.Anything, int64(1)).Return(room, nil)
	cache.On("StayKnownFull", mock.Anything, int64(1), req.CheckIn, req.CheckOut).Return(true)

	_, err := f.svc.CreateBooking(context.Background(), req, domain.ChannelWeb)

	assert.ErrorIs(t, err, ErrCapacityExceeded)
	f.ledger.AssertNotCalled(t, "CheckAvailability", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.store.AssertNotCalled(t, "ReserveStay", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateBooking_ReferenceRetry(t *testing.T) {
	f := newFixture()
	room := testRoom()

	f.rooms.On("GetByID", mock.Anything, int64(1)).Return(room, nil)
	f.ledger.On("CheckAvailability", mock.Anything, room, mock.Anything, mock.Anything).Return(true, nil)
	f.store.On("ReserveStay", mock.Anything, room, mock.Anything, mock.Anything).
		Return(repository.ErrDuplicateReference).Once()
	f.store.On("ReserveStay", mock.Anything, room, mock.Anything, mock.Anything).
		Return(nil).Once()
	f.notifs.On("BookingCreated", mock.Anything, mock.Anything).Return(nil)

	b, err := f.svc.CreateBooking(context.Background(), stayRequest(), domain.ChannelWeb)

	require.NoError(t, err)
	assert.NotEmpty(t, b.Reference)
	f.store.AssertNumberOfCalls(t, "ReserveStay", 2)
}

func TestCreateBooking_ValidationFailures(t *testing.T) {
	f := newFixture()

	cases := []struct {
		name   string
		mutate func(*CreateBookingRequest)
	}{
		{"no target", func(r *CreateBookingRequest) { r.RoomID = nil; r.DepartureID = nil }},
		{"both targets", func(r *CreateBookingRequest) {
			depID := int64(9)
			r.DepartureID = &depID
		}},
		{"no adults", func(r *CreateBookingRequest) { r.Adults = 0 }},
		{"bad date format", func(r *CreateBookingRequest) { r.CheckIn = "next tuesday" }},
		{"checkout before checkin", func(r *CreateBookingRequest) {
			r.CheckIn, r.CheckOut = r.CheckOut, r.CheckIn
		}},
		{"past checkin", func(r *CreateBookingRequest) {
			r.CheckIn = "2020-01-01"
			r.CheckOut = "2020-01-05"
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := stayRequest()
			tc.mutate(&req)
			_, err := f.svc.CreateBooking(context.Background(), req, domain.ChannelWeb)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
	f.store.AssertNotCalled(t, "ReserveStay", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateBooking_GuestsOverRoomCapacity(t *testing.T) {
	f := newFixture()
	room := testRoom() // MaxGuests 4

	f.rooms.On("GetByID", mock.Anything, int64(1)).Return(room, nil)

	req := stayRequest()
	req.Adults = 3
	req.Children = 2
	_, err := f.svc.CreateBooking(context.Background(), req, domain.ChannelWeb)

	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateBooking_TourSuccess(t *testing.T) {
	f := newFixture()
	dep := testDeparture(10)

	f.departures.On("GetByID", mock.Anything, int64(9)).Return(dep, nil)
	f.store.On("ReserveSeats", mock.Anything, int64(9), mock.Anything, mock.Anything).Return(nil)
	f.notifs.On("BookingCreated", mock.Anything, mock.Anything).Return(nil)

	b, err := f.svc.CreateBooking(context.Background(), tourRequest(), domain.ChannelWeb)

	require.NoError(t, err)
	assert.Equal(t, domain.BookingTour, b.Type)
	assert.Regexp(t, `^TR-`, b.Reference)
	// infants ride free: 2 adults and 2 children pay, the infant does not
	assert.Equal(t, 4, b.SeatCount())
	assert.InDelta(t, 2*50+2*25, b.TotalAmount, 0.001)
}

func TestCreateBooking_TourNotEnoughSeats(t *testing.T) {
	f := newFixture()
	dep := testDeparture(3) // request needs 4 seats

	f.departures.On("GetByID", mock.Anything, int64(9)).Return(dep, nil)

	_, err := f.svc.CreateBooking(context.Background(), tourRequest(), domain.ChannelWeb)

	assert.ErrorIs(t, err, ErrCapacityExceeded)
	f.store.AssertNotCalled(t, "ReserveSeats", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateBooking_TourRejectsDates(t *testing.T) {
	f := newFixture()

	req := tourRequest()
	req.CheckIn = "2026-10-01"
	_, err := f.svc.CreateBooking(context.Background(), req, domain.ChannelWeb)

	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateBooking_DepartureAlreadyStarted(t *testing.T) {
	f := newFixture()
	dep := testDeparture(10)
	dep.StartsAt = time.Now().Add(-time.Hour)

	f.departures.On("GetByID", mock.Anything, int64(9)).Return(dep, nil)

	_, err := f.svc.CreateBooking(context.Background(), tourRequest(), domain.ChannelWeb)

	assert.ErrorIs(t, err, ErrValidation)
}

func TestTransitionStatus_Cancel(t *testing.T) {
	f := newFixture()
	roomID := int64(1)
	before := &domain.Booking{ID: 42, Status: domain.BookingConfirmed, Type: domain.BookingStay, RoomID: &roomID}
	after := &domain.Booking{ID: 42, Status: domain.BookingCancelled, Type: domain.BookingStay, RoomID: &roomID}

	f.reader.On("GetByID", mock.Anything, int64(42)).Return(before, nil)
	f.store.On("Transition", mock.Anything, int64(42), domain.BookingCancelled, "guest no-show").Return(after, nil)
	f.notifs.On("BookingStatusChanged", mock.Anything, after, domain.BookingConfirmed).Return(nil)

	b, err := f.svc.TransitionStatus(context.Background(), 42, "cancelled", "guest no-show")

	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, b.Status)
	f.notifs.AssertExpectations(t)
}

func TestTransitionStatus_InvalidTransition(t *testing.T) {
	f := newFixture()
	before := &domain.Booking{ID: 42, Status: domain.BookingCompleted}

	f.reader.On("GetByID", mock.Anything, int64(42)).Return(before, nil)
	f.store.On("Transition", mock.Anything, int64(42), domain.BookingCancelled, "").
		Return(nil, repository.ErrInvalidTransition)

	_, err := f.svc.TransitionStatus(context.Background(), 42, "cancelled", "")

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransitionStatus_ReinstateWithoutCapacity(t *testing.T) {
	f := newFixture()
	before := &domain.Booking{ID: 42, Status: domain.BookingCancelled}

	f.reader.On("GetByID", mock.Anything, int64(42)).Return(before, nil)
	f.store.On("Transition", mock.Anything, int64(42), domain.BookingConfirmed, "").
		Return(nil, repository.ErrCapacityExceeded)

	_, err := f.svc.TransitionStatus(context.Background(), 42, "confirmed", "")

	assert.ErrorIs(t, err, ErrCapacityExceeded)
	f.notifs.AssertNotCalled(t, "BookingStatusChanged", mock.Anything, mock.Anything, mock.Anything)
}

func TestTransitionStatus_UnknownStatus(t *testing.T) {
	f := newFixture()

	_, err := f.svc.TransitionStatus(context.Background(), 42, "archived", "")

	assert.ErrorIs(t, err, ErrValidation)
	f.reader.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestTransitionStatus_NotificationFailureDoesNotFail(t *testing.T) {
	f := newFixture()
	roomID := int64(1)
	before := &domain.Booking{ID: 42, Status: domain.BookingPending, Type: domain.BookingStay, RoomID: &roomID}
	after := &domain.Booking{ID: 42, Status: domain.BookingConfirmed, Type: domain.BookingStay, RoomID: &roomID}

	f.reader.On("GetByID", mock.Anything, int64(42)).Return(before, nil)
	f.store.On("Transition", mock.Anything, int64(42), domain.BookingConfirmed, "").Return(after, nil)
	f.notifs.On("BookingStatusChanged", mock.Anything, after, domain.BookingPending).
		Return(assert.AnError)

	b, err := f.svc.TransitionStatus(context.Background(), 42, "confirmed", "")

	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, b.Status)
}

func TestGetByReference_NotFound(t *testing.T) {
	f := newFixture()

	f.reader.On("GetByReference", mock.Anything, "HS-NOPE").Return(nil, repository.ErrNotFound)

	_, err := f.svc.GetByReference(context.Background(), "HS-NOPE")

	assert.ErrorIs(t, err, ErrNotFound)
}
