package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hos-trip-planner/internal/domain"
	"hos-trip-planner/internal/platform/obs"
)

// SQLite backed cache for origin->destination routes.
// Keys are expected to be consistent (e.g., already normalized)
// by the caller.
type SqliteRouteCache struct {
	DB *sql.DB
}

func NewSqliteRouteCache(db *sql.DB) *SqliteRouteCache {
	return &SqliteRouteCache{DB: db}
}

// Fetch the cached route for one origin/destination pair.
func (s *SqliteRouteCache) Get(
	ctx context.Context,
	origin string,
	destination string,
) (_ domain.Route, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.sqlite.Get")(&err)

	if s.DB == nil {
		return domain.Route{}, false, errors.New("route cache: db is nil")
	}

	if origin == "" || destination == "" {
		return domain.Route{}, false, errors.New("get route cache: origin and destination must not be empty")
	}

	q := `
	SELECT
		distance_miles,
		shape_json
	FROM route_cache
	WHERE origin = ?
		AND destination = ?;
	`

	var miles float64
	var rawShape string
	err = s.DB.QueryRowContext(ctx, q, origin, destination).Scan(&miles, &rawShape)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Route{}, false, nil
	}
	if err != nil {
		return domain.Route{}, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	shape, err := decodeShape(rawShape)
	if err != nil {
		return domain.Route{}, false, fmt.Errorf("get route cache %q -> %q: %w", origin, destination, err)
	}

	return domain.Route{DistanceMiles: miles, Shape: shape}, true, nil
}

// Store a route for an origin/destination pair, replacing any previous entry.
func (s *SqliteRouteCache) Put(
	ctx context.Context,
	origin string,
	destination string,
	route domain.Route,
) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	if origin == "" || destination == "" {
		return errors.New("insert route cache: origin and destination must not be empty")
	}

	rawShape, err := encodeShape(route.Shape)
	if err != nil {
		return fmt.Errorf("insert route cache: %w", err)
	}

	q := `
	INSERT OR REPLACE INTO route_cache (
		origin,
		destination,
		distance_miles,
		shape_json
	)
	VALUES (?, ?, ?, ?);
	`
	if _, err := s.DB.ExecContext(ctx, q, origin, destination, route.DistanceMiles, rawShape); err != nil {
		return fmt.Errorf("insert route cache %q -> %q: %w", origin, destination, err)
	}

	return nil
}
