package repository

import (
	"context"
	"errors"
	"time"

	"tourstay/internal/domain"

	"gorm.io/gorm"
)

// CapacityLedger owns the per-room, per-night inventory rows. Every
// mutation runs against a transaction handle supplied by the caller so
// that the capacity change and the booking write commit or roll back
// together. Capacity is tracked for every night of a stay, not just the
// arrival date.
type CapacityLedger struct {
	db *gorm.DB
}

func NewCapacityLedger(db *gorm.DB) *CapacityLedger {
	return &CapacityLedger{db: db}
}

// CheckAvailability is the advisory, out-of-transaction check: true when
// every night in [checkIn, checkOut) is open and has a free unit. A
// missing row counts as fully open. The authoritative check is repeated
// inside ReserveTx.
func (l *CapacityLedger) CheckAvailability(ctx context.Context, room *domain.Room, checkIn, checkOut time.Time) (bool, error) {
	days, err := l.DaysForRoom(ctx, room.ID, checkIn, checkOut)
	if err != nil {
		return false, err
	}

	byDate := make(map[time.Time]domain.CapacityDay, len(days))
	for _, d := range days {
		byDate[domain.Midnight(d.Date)] = d
	}

	for _, night := range domain.NightsBetween(checkIn, checkOut) {
		day, ok := byDate[night]
		if !ok {
			continue // implicitly open with full capacity
		}
		if !day.Sellable() {
			return false, nil
		}
	}
	return true, nil
}

// DaysForRoom returns the materialized ledger rows for a room in
// [from, to), ordered by date. Absent dates have no row.
func (l *CapacityLedger) DaysForRoom(ctx context.Context, roomID int64, from, to time.Time) ([]domain.CapacityDay, error) {
	var days []domain.CapacityDay
	err := l.db.WithContext(ctx).
		Where("room_id = ? AND date >= ? AND date < ?", roomID, domain.Midnight(from), domain.Midnight(to)).
		Order("date").
		Find(&days).Error
	return days, err
}

// ReserveTx reserves one unit for every night in [checkIn, checkOut)
// inside tx. Rows are locked before checking so that a competing
// transaction either waits or sees the incremented count. Missing rows
// are created with the room's unit count. Returns ErrCapacityExceeded
// when any night is closed, blocked or full.
func (l *CapacityLedger) ReserveTx(tx *gorm.DB, room *domain.Room, checkIn, checkOut time.Time) error {
	for _, night := range domain.NightsBetween(checkIn, checkOut) {
		day, err := l.lockOrCreateDay(tx, room, night)
		if err != nil {
			return err
		}
		if !day.Sellable() {
			return ErrCapacityExceeded
		}

		res := tx.Model(&domain.CapacityDay{}).
			Where("id = ? AND reserved_units < total_units", day.ID).
			UpdateColumn("reserved_units", gorm.Expr("reserved_units + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost a race that the lock did not cover (sqlite path).
			return ErrCapacityExceeded
		}
	}
	return nil
}

// ReleaseTx gives back one unit for every night in [checkIn, checkOut)
// inside tx. The decrement is floored at zero in SQL, so a duplicated
// release degrades to a no-op instead of driving the count negative.
func (l *CapacityLedger) ReleaseTx(tx *gorm.DB, roomID int64, checkIn, checkOut time.Time) error {
	for _, night := range domain.NightsBetween(checkIn, checkOut) {
		err := tx.Model(&domain.CapacityDay{}).
			Where("room_id = ? AND date = ? AND reserved_units > 0", roomID, night).
			UpdateColumn("reserved_units", gorm.Expr("reserved_units - 1")).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// lockOrCreateDay loads the ledger row for (room, night) under a row
// lock, creating it on first touch. A create race resolves through the
// (room_id, date) unique index: the loser re-reads the winner's row.
func (l *CapacityLedger) lockOrCreateDay(tx *gorm.DB, room *domain.Room, night time.Time) (*domain.CapacityDay, error) {
	var day domain.CapacityDay
	err := lockForUpdate(tx).Where("room_id = ? AND date = ?", room.ID, night).First(&day).Error
	if err == nil {
		return &day, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	day = domain.CapacityDay{
		RoomID:     room.ID,
		PropertyID: room.PropertyID,
		Date:       night,
		TotalUnits: room.Units,
		State:      domain.DayOpen,
	}
	if err := tx.Create(&day).Error; err != nil {
		if isUniqueViolation(err, "idx_room_date") {
			err = lockForUpdate(tx).Where("room_id = ? AND date = ?", room.ID, night).First(&day).Error
			if err != nil {
				return nil, err
			}
			return &day, nil
		}
		return nil, err
	}
	return &day, nil
}

// SetDays upserts ledger rows for every date in [from, to], setting the
// day state and total unit count. Used by calendar management, never by
// the booking flow. Reserved counts are preserved; totals are not
// allowed below the currently reserved count.
func (l *CapacityLedger) SetDays(ctx context.Context, room *domain.Room, from, to time.Time, state domain.DayState, totalUnits int) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for d := domain.Midnight(from); !d.After(domain.Midnight(to)); d = d.AddDate(0, 0, 1) {
			day, err := l.lockOrCreateDay(tx, room, d)
			if err != nil {
				return err
			}

			units := totalUnits
			if units < day.ReservedUnits {
				units = day.ReservedUnits
			}
			err = tx.Model(&domain.CapacityDay{}).Where("id = ?", day.ID).
				Updates(map[string]any{"state": state, "total_units": units}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
