package ports

import (
	"context"
	"errors"
	"hos-trip-planner/internal/domain"

	"github.com/google/uuid"
)

var ErrTripNotFound = errors.New("trip not found")

// Port: a boundary for persisting planned trips.
type TripRepository interface {
	// Store a planned trip together with its duty log.
	SaveTrip(ctx context.Context, trip *domain.TripPlan) error
	// Retrieve one trip; returns ErrTripNotFound when absent.
	GetTrip(ctx context.Context, id uuid.UUID) (*domain.TripPlan, error)
	// Retrieve the most recent trips, newest first.
	ListTrips(ctx context.Context, limit int) ([]*domain.TripPlan, error)
}
