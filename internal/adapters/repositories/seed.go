package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"hos-trip-planner/internal/domain"
	"hos-trip-planner/internal/ports"
	"os"
	"strings"
)

type RouteSeed struct {
	Origin        string       `json:"origin"`
	Destination   string       `json:"destination"`
	DistanceMiles float64      `json:"distance_miles"`
	Shape         [][2]float64 `json:"shape"`
}

// Populate the route cache from a JSON file so trips between the seeded
// locations can be planned without calling the routing API.
func SeedRoutesFromJSON(ctx context.Context, cache ports.RouteCache, jsonPath string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed routes: read %q: %w", jsonPath, err)
	}

	var data []RouteSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed routes: parse json: %w", err)
	}

	for i, item := range data {
		origin := strings.Join(strings.Fields(item.Origin), " ")
		dest := strings.Join(strings.Fields(item.Destination), " ")
		if origin == "" || dest == "" {
			return i, fmt.Errorf("seed routes: item at index %d: origin and destination cannot be empty", i+1)
		}
		if item.DistanceMiles < 0 {
			return i, fmt.Errorf("seed routes: item at index %d: negative distance %v", i+1, item.DistanceMiles)
		}

		shape := make([]domain.Coordinates, 0, len(item.Shape))
		for _, p := range item.Shape {
			shape = append(shape, domain.Coordinates{Lat: p[0], Lng: p[1]})
		}

		route := domain.Route{DistanceMiles: item.DistanceMiles, Shape: shape}
		if err := cache.Put(ctx, origin, dest, route); err != nil {
			return i, fmt.Errorf("seed routes: insert %q -> %q: %w", origin, dest, err)
		}
	}

	return len(data), nil
}
