package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hos-trip-planner/internal/domain"
	"hos-trip-planner/internal/platform/obs"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "route:"

type redisRoute struct {
	Miles float64      `json:"miles"`
	Shape [][2]float64 `json:"shape"`
}

// RedisRouteCache keeps routes in Redis as JSON values with a TTL,
// so a fleet of servers can share lookups.
type RedisRouteCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisRouteCache(client *redis.Client, ttl time.Duration) *RedisRouteCache {
	return &RedisRouteCache{Client: client, TTL: ttl}
}

func redisKey(origin, destination string) string {
	return redisKeyPrefix + origin + "|" + destination
}

func (r *RedisRouteCache) Get(
	ctx context.Context,
	origin string,
	destination string,
) (_ domain.Route, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.redis.Get")(&err)

	if r.Client == nil {
		return domain.Route{}, false, errors.New("route cache: redis client is nil")
	}

	raw, err := r.Client.Get(ctx, redisKey(origin, destination)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Route{}, false, nil
	}
	if err != nil {
		return domain.Route{}, false, fmt.Errorf("get redis route cache: %w", err)
	}

	var cached redisRoute
	if err := json.Unmarshal(raw, &cached); err != nil {
		return domain.Route{}, false, fmt.Errorf("get redis route cache: decode %q -> %q: %w", origin, destination, err)
	}

	shape := make([]domain.Coordinates, 0, len(cached.Shape))
	for _, p := range cached.Shape {
		shape = append(shape, domain.Coordinates{Lat: p[0], Lng: p[1]})
	}

	return domain.Route{DistanceMiles: cached.Miles, Shape: shape}, true, nil
}

func (r *RedisRouteCache) Put(
	ctx context.Context,
	origin string,
	destination string,
	route domain.Route,
) error {
	if r.Client == nil {
		return errors.New("route cache: redis client is nil")
	}

	cached := redisRoute{
		Miles: route.DistanceMiles,
		Shape: make([][2]float64, 0, len(route.Shape)),
	}
	for _, c := range route.Shape {
		cached.Shape = append(cached.Shape, c.LatLng())
	}

	b, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("insert redis route cache: encode: %w", err)
	}

	if err := r.Client.Set(ctx, redisKey(origin, destination), b, r.TTL).Err(); err != nil {
		return fmt.Errorf("insert redis route cache %q -> %q: %w", origin, destination, err)
	}

	return nil
}
