// Package reference generates human-facing booking references. The
// format is PREFIX-YYYYMMDDTHHMMSS-XXXX where the suffix is 4 random
// base32 characters. Collisions are astronomically unlikely but still
// possible under load; the unique index on bookings.reference is the
// backstop and callers retry with a fresh value.
package reference

import (
	"crypto/rand"
	"fmt"
	"time"
)

const suffixAlphabet = "ABCDEFGHJKMNPQRSTVWXYZ23456789" // no 0/O, 1/I/L

const (
	PrefixStay = "HS"
	PrefixTour = "TR"
)

func New(prefix string) string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	suffix := make([]byte, 4)
	for i, b := range buf {
		suffix[i] = suffixAlphabet[int(b)%len(suffixAlphabet)]
	}
	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().UTC().Format("20060102T150405"), suffix)
}
