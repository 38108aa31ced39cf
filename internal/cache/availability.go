// Package cache is the advisory fast-fail layer in front of the
// inventory engine. It only ever answers "definitely full right now";
// the authoritative availability check always happens inside the
// booking transaction, so a stale or missing key can never corrupt
// inventory, only cost one extra database round trip.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const fullTTL = 30 * time.Second

type AvailabilityCache struct {
	client *redis.Client
}

func NewAvailabilityCache(client *redis.Client) *AvailabilityCache {
	return &AvailabilityCache{client: client}
}

func stayKey(roomID int64, checkIn, checkOut string) string {
	return fmt.Sprintf("full:room:%d:%s:%s", roomID, checkIn, checkOut)
}

func departureKey(departureID int64) string {
	return fmt.Sprintf("seats:departure:%d", departureID)
}

// StayKnownFull reports whether an identical request recently failed the
// authoritative check. Errors degrade to "not known full" so a Redis
// outage never blocks bookings.
func (c *AvailabilityCache) StayKnownFull(ctx context.Context, roomID int64, checkIn, checkOut string) bool {
	_, err := c.client.Get(ctx, stayKey(roomID, checkIn, checkOut)).Result()
	return err == nil
}

// MarkStayFull remembers a capacity rejection for a short window.
func (c *AvailabilityCache) MarkStayFull(ctx context.Context, roomID int64, checkIn, checkOut string) {
	_ = c.client.Set(ctx, stayKey(roomID, checkIn, checkOut), "1", fullTTL).Err()
}

// InvalidateRoom drops every cached full-marker for the room after a
// cancellation or calendar change frees capacity.
func (c *AvailabilityCache) InvalidateRoom(ctx context.Context, roomID int64) {
	pattern := fmt.Sprintf("full:room:%d:*", roomID)
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil && !errors.Is(err, redis.Nil) {
		return
	}
	if len(keys) > 0 {
		_ = c.client.Del(ctx, keys...).Err()
	}
}

// InvalidateDeparture drops the cached seat snapshot for a departure
// after any seat-count change.
func (c *AvailabilityCache) InvalidateDeparture(ctx context.Context, departureID int64) {
	_ = c.client.Del(ctx, departureKey(departureID)).Err()
}

// CacheSeats stores a short-lived seats-available snapshot for the
// catalog read side.
func (c *AvailabilityCache) CacheSeats(ctx context.Context, departureID int64, seats int) {
	_ = c.client.Set(ctx, departureKey(departureID), seats, fullTTL).Err()
}

// CachedSeats returns the snapshot and whether one was present.
func (c *AvailabilityCache) CachedSeats(ctx context.Context, departureID int64) (int, bool) {
	v, err := c.client.Get(ctx, departureKey(departureID)).Int()
	if err != nil {
		return 0, false
	}
	return v, true
}
