package catalog

import (
	"context"
	"time"

	"tourstay/internal/cache"
	"tourstay/internal/domain"
	"tourstay/internal/repository"
)

const dateLayout = "2006-01-02"

type Service struct {
	rooms      *repository.RoomRepository
	departures *repository.DepartureRepository
	ledger     *repository.CapacityLedger
	cache      *cache.AvailabilityCache
}

func NewService(
	rooms *repository.RoomRepository,
	departures *repository.DepartureRepository,
	ledger *repository.CapacityLedger,
	availCache *cache.AvailabilityCache,
) *Service {
	return &Service{
		rooms:      rooms,
		departures: departures,
		ledger:     ledger,
		cache:      availCache,
	}
}

func (s *Service) ListRooms(ctx context.Context) ([]domain.Room, error) {
	return s.rooms.ListActive(ctx)
}

func (s *Service) ListDepartures(ctx context.Context) ([]domain.Departure, error) {
	return s.departures.ListUpcoming(ctx, time.Now())
}

// GetDeparture reads the departure, preferring the cached seat snapshot
// so the catalog page does not hammer the seat pool row.
func (s *Service) GetDeparture(ctx context.Context, id int64) (*domain.Departure, error) {
	dep, err := s.departures.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if seats, ok := s.cache.CachedSeats(ctx, id); ok {
			dep.SeatsAvailable = seats
		} else {
			s.cache.CacheSeats(ctx, id, dep.SeatsAvailable)
		}
	}
	return dep, nil
}

// RoomAvailability renders the calendar for [from, to). Dates without a
// ledger row are implicitly open with the room's full unit count.
func (s *Service) RoomAvailability(ctx context.Context, roomID int64, from, to time.Time) (*AvailabilityResponse, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	days, err := s.ledger.DaysForRoom(ctx, roomID, from, to)
	if err != nil {
		return nil, err
	}

	byDate := make(map[time.Time]domain.CapacityDay, len(days))
	for _, d := range days {
		byDate[domain.Midnight(d.Date)] = d
	}

	resp := &AvailabilityResponse{
		RoomID: roomID,
		From:   domain.Midnight(from).Format(dateLayout),
		To:     domain.Midnight(to).Format(dateLayout),
	}

	for _, night := range domain.NightsBetween(from, to) {
		day, ok := byDate[night]
		if !ok {
			day = domain.CapacityDay{
				Date:       night,
				TotalUnits: room.Units,
				State:      domain.DayOpen,
			}
		}
		resp.Days = append(resp.Days, DayView{
			Date:          night.Format(dateLayout),
			State:         string(day.State),
			TotalUnits:    day.TotalUnits,
			ReservedUnits: day.ReservedUnits,
			Available:     day.Sellable(),
		})
	}
	return resp, nil
}

// SetDays is the admin calendar-management path: open, close or block a
// span of days and adjust unit counts. Reserved counts are untouched.
func (s *Service) SetDays(ctx context.Context, roomID int64, from, to time.Time, state domain.DayState, totalUnits int) error {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return err
	}

	if err := s.ledger.SetDays(ctx, room, from, to, state, totalUnits); err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.InvalidateRoom(ctx, roomID)
	}
	return nil
}
