// Package livecache implements the live position cache on Redis.
// Positions are stored per driver with a TTL, so entries for silent devices
// expire on their own and never serve stale coordinates to polling clients.
package livecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/go-redis/redis/v8"
	"github.com/mmcloughlin/geohash"
)

const keyPrefix = "driver:pos:"

// positionPayload is the cached wire form of a driver position. The geohash
// is stored alongside the raw coordinates so dashboard clients can group
// nearby drivers without recomputing it.
type positionPayload struct {
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	Geohash    string    `json:"geohash"`
	ReportedAt time.Time `json:"reported_at"`
}

// RedisLiveLocationCache implements LiveLocationCache on a Redis client.
type RedisLiveLocationCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLiveLocationCache creates a cache with the given entry lifetime.
// Entries older than the TTL are treated as unknown positions.
func NewRedisLiveLocationCache(client *redis.Client, ttl time.Duration) *RedisLiveLocationCache {
	return &RedisLiveLocationCache{
		client: client,
		ttl:    ttl,
	}
}

// SetPosition stores the driver's latest position, refreshing the TTL.
func (c *RedisLiveLocationCache) SetPosition(ctx context.Context, position ports.DriverPosition) error {
	if err := position.DriverID.Validate(); err != nil {
		return err
	}
	if err := position.Point.Validate(); err != nil {
		return err
	}

	payload := positionPayload{
		Lat:        position.Point.Latitude(),
		Lng:        position.Point.Longitude(),
		Geohash:    geohash.Encode(position.Point.Latitude(), position.Point.Longitude()),
		ReportedAt: position.ReportedAt,
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, key(position.DriverID), raw, c.ttl).Err(); err != nil {
		return errs.NewUpstreamUnavailableErrorWithCause("redis", err)
	}
	return nil
}

// GetPosition retrieves the cached position of a driver.
// Returns nil without error when no fresh position is cached.
func (c *RedisLiveLocationCache) GetPosition(ctx context.Context, driverID kernel.ID) (*ports.DriverPosition, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}

	raw, err := c.client.Get(ctx, key(driverID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errs.NewUpstreamUnavailableErrorWithCause("redis", err)
	}

	position, err := decode(driverID, raw)
	if err != nil {
		return nil, err
	}
	return &position, nil
}

// GetPositions retrieves the cached positions for the given drivers in one
// round trip. Drivers without a fresh cached position are absent from the
// result.
func (c *RedisLiveLocationCache) GetPositions(
	ctx context.Context,
	driverIDs []kernel.ID,
) (map[int64]ports.DriverPosition, error) {
	positions := make(map[int64]ports.DriverPosition, len(driverIDs))
	if len(driverIDs) == 0 {
		return positions, nil
	}

	keys := make([]string, 0, len(driverIDs))
	for _, driverID := range driverIDs {
		if err := driverID.Validate(); err != nil {
			return nil, err
		}
		keys = append(keys, key(driverID))
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errs.NewUpstreamUnavailableErrorWithCause("redis", err)
	}

	for i, value := range values {
		if value == nil {
			continue
		}

		raw, ok := value.(string)
		if !ok {
			continue
		}

		position, decodeErr := decode(driverIDs[i], []byte(raw))
		if decodeErr != nil {
			return nil, decodeErr
		}
		positions[driverIDs[i].Value()] = position
	}

	return positions, nil
}

// RemovePosition drops the cached position of a driver.
func (c *RedisLiveLocationCache) RemovePosition(ctx context.Context, driverID kernel.ID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	if err := c.client.Del(ctx, key(driverID)).Err(); err != nil {
		return errs.NewUpstreamUnavailableErrorWithCause("redis", err)
	}
	return nil
}

func key(driverID kernel.ID) string {
	return fmt.Sprintf("%s%d", keyPrefix, driverID.Value())
}

func decode(driverID kernel.ID, raw []byte) (ports.DriverPosition, error) {
	var payload positionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ports.DriverPosition{}, err
	}

	point, err := kernel.NewGeoPoint(payload.Lat, payload.Lng)
	if err != nil {
		return ports.DriverPosition{}, err
	}

	return ports.DriverPosition{
		DriverID:   driverID,
		Point:      point,
		ReportedAt: payload.ReportedAt,
	}, nil
}
