package domain

import "time"

type DayState string

const (
	DayOpen    DayState = "open"
	DayClosed  DayState = "closed"
	DayBlocked DayState = "blocked"
)

// CapacityDay is the per-room, per-calendar-date inventory row. A row
// that does not exist yet is implicitly open with the room's full unit
// count; the ledger materializes it on first touch.
type CapacityDay struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	RoomID     int64     `json:"room_id" gorm:"uniqueIndex:idx_room_date"`
	PropertyID int64     `json:"property_id" gorm:"index"`
	Date       time.Time `json:"date" gorm:"uniqueIndex:idx_room_date"`

	TotalUnits    int      `json:"total_units"`
	ReservedUnits int      `json:"reserved_units"`
	State         DayState `json:"state" gorm:"size:8"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Sellable reports whether one more unit can be reserved on this day.
func (d *CapacityDay) Sellable() bool {
	return d.State == DayOpen && d.ReservedUnits < d.TotalUnits
}

// Midnight normalizes t to 00:00 UTC, the granularity the ledger keys on.
func Midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NightsBetween lists every night in [checkIn, checkOut), normalized
// to midnight UTC.
func NightsBetween(checkIn, checkOut time.Time) []time.Time {
	var nights []time.Time
	for d := Midnight(checkIn); d.Before(Midnight(checkOut)); d = d.AddDate(0, 0, 1) {
		nights = append(nights, d)
	}
	return nights
}
