// Package pricing computes booking totals. Everything here is pure:
// the same inputs always produce the same quote and nothing is read
// from or written to the store.
package pricing

import (
	"math"
	"time"

	"tourstay/internal/domain"
)

type Quote struct {
	Nights        int     `json:"nights,omitempty"`
	NightlyRate   float64 `json:"nightly_rate,omitempty"`
	ExtraGuestFee float64 `json:"extra_guest_fee,omitempty"`
	SeatTotal     float64 `json:"seat_total,omitempty"`
	Total         float64 `json:"total"`
	Currency      string  `json:"currency"`
}

// StayQuote prices a room stay: nightly rate times nights, plus the
// per-night extra-guest fee for every counted guest above the room's
// base occupancy. Infants are not counted.
func StayQuote(room *domain.Room, checkIn, checkOut time.Time, adults, children int) Quote {
	nights := len(domain.NightsBetween(checkIn, checkOut))

	extraGuests := adults + children - room.BaseOccupancy
	if extraGuests < 0 {
		extraGuests = 0
	}

	extra := float64(extraGuests) * room.ExtraGuestFee * float64(nights)
	total := room.NightlyRate*float64(nights) + extra

	return Quote{
		Nights:        nights,
		NightlyRate:   room.NightlyRate,
		ExtraGuestFee: room.ExtraGuestFee,
		Total:         round2(total),
		Currency:      room.Currency,
	}
}

// TourQuote prices seats on a departure: adults at the adult rate,
// children at the child rate, infants free.
func TourQuote(dep *domain.Departure, adults, children int) Quote {
	total := float64(adults)*dep.AdultPrice + float64(children)*dep.ChildPrice

	return Quote{
		SeatTotal: float64(adults + children),
		Total:     round2(total),
		Currency:  dep.Currency,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
