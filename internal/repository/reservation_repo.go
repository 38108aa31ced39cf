package repository

import (
	"context"
	"errors"
	"time"

	"tourstay/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReservationStore runs the atomic booking workflows. Each public method
// opens exactly one transaction spanning the capacity check, the
// customer upsert, the booking write and the capacity mutation, so a
// booking row without its reservation (or the reverse) is never
// observable.
type ReservationStore struct {
	db     *gorm.DB
	ledger *CapacityLedger
}

func NewReservationStore(db *gorm.DB, ledger *CapacityLedger) *ReservationStore {
	return &ReservationStore{db: db, ledger: ledger}
}

// ReserveStay books a room for [CheckIn, CheckOut), reserving one unit
// per night. The booking must arrive with Reference, dates, guest
// counts, amounts and initial Status already populated.
func (s *ReservationStore) ReserveStay(ctx context.Context, room *domain.Room, customer *domain.Customer, booking *domain.Booking) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ledger.ReserveTx(tx, room, *booking.CheckIn, *booking.CheckOut); err != nil {
			return err
		}
		return s.insertBookingTx(tx, customer, booking)
	})
}

// ReserveSeats books seats on a tour departure. The departure row is the
// seat pool: it is locked, re-checked and decremented in the same
// transaction as the booking insert.
func (s *ReservationStore) ReserveSeats(ctx context.Context, departureID int64, customer *domain.Customer, booking *domain.Booking) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := takeSeatsTx(tx, departureID, booking.SeatCount()); err != nil {
			return err
		}
		return s.insertBookingTx(tx, customer, booking)
	})
}

// Transition applies a status change from the transition table and the
// matching capacity adjustment in one transaction. Reinstating a
// cancelled booking re-runs the availability check and fails with
// ErrCapacityExceeded when the slot has been taken in the interim,
// leaving the record cancelled.
func (s *ReservationStore) Transition(ctx context.Context, bookingID int64, next domain.BookingStatus, adminNotes string) (*domain.Booking, error) {
	var booking domain.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		current := booking.Status
		if !current.CanTransitionTo(next) {
			return ErrInvalidTransition
		}

		switch {
		case current.ConsumesCapacity() && next == domain.BookingCancelled:
			if err := s.releaseTx(tx, &booking); err != nil {
				return err
			}
		case current == domain.BookingCancelled && next.ConsumesCapacity():
			if err := s.reReserveTx(tx, &booking); err != nil {
				return err
			}
		}

		updates := map[string]any{"status": next}
		if next == domain.BookingCancelled {
			now := time.Now().UTC()
			updates["cancelled_at"] = &now
		} else {
			updates["cancelled_at"] = nil
		}
		if adminNotes != "" {
			updates["admin_notes"] = adminNotes
		}

		if err := tx.Model(&booking).Updates(updates).Error; err != nil {
			return err
		}
		booking.Status = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (s *ReservationStore) releaseTx(tx *gorm.DB, b *domain.Booking) error {
	switch b.Type {
	case domain.BookingStay:
		return s.ledger.ReleaseTx(tx, *b.RoomID, *b.CheckIn, *b.CheckOut)
	case domain.BookingTour:
		return returnSeatsTx(tx, *b.DepartureID, b.SeatCount())
	}
	return nil
}

func (s *ReservationStore) reReserveTx(tx *gorm.DB, b *domain.Booking) error {
	switch b.Type {
	case domain.BookingStay:
		var room domain.Room
		if err := tx.First(&room, *b.RoomID).Error; err != nil {
			return err
		}
		return s.ledger.ReserveTx(tx, &room, *b.CheckIn, *b.CheckOut)
	case domain.BookingTour:
		return takeSeatsTx(tx, *b.DepartureID, b.SeatCount())
	}
	return nil
}

// insertBookingTx upserts the customer by email and writes the booking
// row. A collision on the reference unique index maps to
// ErrDuplicateReference so the coordinator can regenerate and retry.
func (s *ReservationStore) insertBookingTx(tx *gorm.DB, customer *domain.Customer, booking *domain.Booking) error {
	if err := upsertCustomerTx(tx, customer); err != nil {
		return err
	}
	booking.CustomerID = customer.ID

	if err := tx.Create(booking).Error; err != nil {
		if isUniqueViolation(err, "idx_booking_reference") {
			return ErrDuplicateReference
		}
		return err
	}
	return nil
}

// upsertCustomerTx resolves the customer idempotently by email: repeat
// guests keep one record, with name and phone refreshed from the latest
// booking.
func upsertCustomerTx(tx *gorm.DB, c *domain.Customer) error {
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "phone", "updated_at"}),
	}).Create(c).Error
	if err != nil {
		return err
	}
	if c.ID != 0 {
		return nil
	}
	// Some drivers do not report the id back on conflict-update.
	return tx.Where("email = ?", c.Email).First(c).Error
}

// takeSeatsTx decrements the seat pool after re-checking it under lock.
func takeSeatsTx(tx *gorm.DB, departureID int64, count int) error {
	var dep domain.Departure
	if err := lockForUpdate(tx).First(&dep, departureID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if dep.SeatsAvailable < count {
		return ErrCapacityExceeded
	}

	res := tx.Model(&domain.Departure{}).
		Where("id = ? AND seats_available >= ?", departureID, count).
		UpdateColumn("seats_available", gorm.Expr("seats_available - ?", count))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCapacityExceeded
	}
	return nil
}

// returnSeatsTx restores seats to the pool, ceilinged at seats_total so
// a duplicated release cannot overfill the departure.
func returnSeatsTx(tx *gorm.DB, departureID int64, count int) error {
	var dep domain.Departure
	if err := lockForUpdate(tx).First(&dep, departureID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	restored := dep.SeatsAvailable + count
	if restored > dep.SeatsTotal {
		restored = dep.SeatsTotal
	}
	return tx.Model(&domain.Departure{}).
		Where("id = ?", departureID).
		UpdateColumn("seats_available", restored).Error
}
