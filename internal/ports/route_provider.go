package ports

import (
	"context"
	"hos-trip-planner/internal/domain"
)

// Contract for looking up a driving route between two named locations.
type RouteProvider interface {
	// Return the route distance in miles and its polyline.
	GetRoute(ctx context.Context, origin string, destination string) (domain.Route, error)
}
