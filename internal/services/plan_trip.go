package services

import (
	"context"
	"errors"
	"fmt"
	"hos-trip-planner/internal/domain"
	"hos-trip-planner/internal/ports"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ErrRouting marks failures of the routing provider.
var ErrRouting = errors.New("routing failed")

// MidTripStopLocation names break and fuel stops, whose real locations are not tracked.
const MidTripStopLocation = "Mid-trip Stop"

type PlanTripRequest struct {
	CurrentLocation string
	PickupLocation  string
	DropoffLocation string
	CycleHoursUsed  float64
	MaxSteps        int
}

// PlanTrip looks up both legs of the trip, simulates the duty log and assembles
// the map data. The plan is persisted when repo is non-nil.
//
// Both legs are fetched concurrently; the first failure cancels the other lookup.
func PlanTrip(
	ctx context.Context,
	req PlanTripRequest,
	provider ports.RouteProvider,
	repo ports.TripRepository,
) (*domain.TripPlan, error) {
	current := strings.TrimSpace(req.CurrentLocation)
	pickup := strings.TrimSpace(req.PickupLocation)
	dropoff := strings.TrimSpace(req.DropoffLocation)

	for _, f := range []struct{ name, value string }{
		{"currentLocation", current},
		{"pickupLocation", pickup},
		{"dropoffLocation", dropoff},
	} {
		if f.value == "" {
			return nil, fmt.Errorf("plan trip: %s must be non-empty: %w", f.name, domain.ErrInvalidInput)
		}
	}

	if provider == nil {
		return nil, errors.New("plan trip: route provider must be non-nil")
	}

	var toPickup, toDropoff domain.Route

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := provider.GetRoute(gctx, current, pickup)
		if err != nil {
			return fmt.Errorf("plan trip: route %q -> %q: %w: %w", current, pickup, ErrRouting, err)
		}
		toPickup = r
		return nil
	})
	g.Go(func() error {
		r, err := provider.GetRoute(gctx, pickup, dropoff)
		if err != nil {
			return fmt.Errorf("plan trip: route %q -> %q: %w: %w", pickup, dropoff, ErrRouting, err)
		}
		toDropoff = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	params := domain.TripParameters{
		TotalDistance:         toPickup.DistanceMiles + toDropoff.DistanceMiles,
		PickupLegDistance:     toPickup.DistanceMiles,
		InitialCycleHoursUsed: req.CycleHoursUsed,
	}

	events, err := NewSimulator(req.MaxSteps).Run(params)
	if err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	plan := &domain.TripPlan{
		ID:              uuid.New(),
		CreatedAt:       time.Now().UTC(),
		CurrentLocation: current,
		PickupLocation:  pickup,
		DropoffLocation: dropoff,
		Params:          params,
		Events:          events,
		RoutePath:       RoutePath(toPickup, toDropoff),
		Stops:           TripStops(pickup, dropoff, events),
	}

	if repo != nil {
		if err := repo.SaveTrip(ctx, plan); err != nil {
			return nil, fmt.Errorf("plan trip: save trip %s: %w", plan.ID, err)
		}
	}

	return plan, nil
}

// TripStops lists the pickup and dropoff followed by one placeholder stop for
// every break or fueling event, in log order.
func TripStops(pickup, dropoff string, events []domain.DutyEvent) []domain.Stop {
	stops := []domain.Stop{
		{Location: pickup, Reason: domain.ReasonPickup},
		{Location: dropoff, Reason: domain.ReasonDropoff},
	}

	for _, e := range events {
		if e.Reason == domain.ReasonBreak || e.Reason == domain.ReasonFueling {
			stops = append(stops, domain.Stop{Location: MidTripStopLocation, Reason: e.Reason})
		}
	}

	return stops
}

// RoutePath concatenates leg polylines into [lat, lng] pairs.
func RoutePath(legs ...domain.Route) [][2]float64 {
	n := 0
	for _, l := range legs {
		n += len(l.Shape)
	}

	path := make([][2]float64, 0, n)
	for _, l := range legs {
		for _, c := range l.Shape {
			path = append(path, c.LatLng())
		}
	}
	return path
}
