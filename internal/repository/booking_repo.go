package repository

import (
	"context"
	"errors"

	"tourstay/internal/domain"

	"gorm.io/gorm"
)

// BookingRepository covers the read side of booking records. All writes
// go through ReservationStore.
type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).Preload("Customer").First(&b, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).Preload("Customer").Where("reference = ?", reference).First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

type BookingFilters struct {
	Status      string
	Type        string
	RoomID      int64
	DepartureID int64
	Limit       int
	Offset      int
}

func (r *BookingRepository) List(ctx context.Context, f BookingFilters) ([]domain.Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Booking{})

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.RoomID > 0 {
		q = q.Where("room_id = ?", f.RoomID)
	}
	if f.DepartureID > 0 {
		q = q.Where("departure_id = ?", f.DepartureID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var bookings []domain.Booking
	err := q.Preload("Customer").
		Order("created_at DESC").
		Limit(limit).Offset(f.Offset).
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// CountActiveForNight counts non-cancelled stay bookings covering the
// given room night. Used by tests to assert the conservation invariant
// against the ledger's reserved count.
func (r *BookingRepository) CountActiveForNight(ctx context.Context, roomID int64, night domain.CapacityDay) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("room_id = ? AND status <> ? AND check_in <= ? AND check_out > ?",
			roomID, domain.BookingCancelled, night.Date, night.Date).
		Count(&cnt).Error
	return cnt, err
}
