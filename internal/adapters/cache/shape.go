package cache

import (
	"encoding/json"
	"fmt"
	"hos-trip-planner/internal/domain"
)

// Shapes are stored as a JSON array of [lat, lng] pairs.
func encodeShape(shape []domain.Coordinates) (string, error) {
	pairs := make([][2]float64, 0, len(shape))
	for _, c := range shape {
		pairs = append(pairs, c.LatLng())
	}

	b, err := json.Marshal(pairs)
	if err != nil {
		return "", fmt.Errorf("encode shape: %w", err)
	}
	return string(b), nil
}

func decodeShape(raw string) ([]domain.Coordinates, error) {
	var pairs [][2]float64
	if err := json.Unmarshal([]byte(raw), &pairs); err != nil {
		return nil, fmt.Errorf("decode shape: %w", err)
	}

	shape := make([]domain.Coordinates, 0, len(pairs))
	for _, p := range pairs {
		shape = append(shape, domain.Coordinates{Lat: p[0], Lng: p[1]})
	}
	return shape, nil
}
