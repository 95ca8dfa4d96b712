package ports

import (
	"context"
	"hos-trip-planner/internal/domain"
)

// Port: persistent storage for previously fetched routes.
// Keys are expected to be normalized by the caller.
type RouteCache interface {
	// Return the cached route and whether it was found.
	Get(ctx context.Context, origin string, destination string) (domain.Route, bool, error)
	// Store or replace the route for an origin/destination pair.
	Put(ctx context.Context, origin string, destination string, route domain.Route) error
}
