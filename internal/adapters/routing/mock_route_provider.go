package routing

import (
	"context"
	"fmt"
	"hos-trip-planner/internal/domain"
)

type MockPair struct {
	From, To string
	Miles    float64
	Shape    []domain.Coordinates
}

type MockRouteProvider struct {
	m map[string]domain.Route
}

func NewMockRouteProvider(pairs []MockPair) *MockRouteProvider {
	m := make(map[string]domain.Route, len(pairs))
	for _, p := range pairs {
		m[p.From+"|"+p.To] = domain.Route{DistanceMiles: p.Miles, Shape: p.Shape}
	}
	return &MockRouteProvider{m: m}
}

func (p *MockRouteProvider) GetRoute(ctx context.Context, origin, destination string) (domain.Route, error) {
	if err := ctx.Err(); err != nil {
		return domain.Route{}, err
	}

	r, ok := p.m[origin+"|"+destination]
	if !ok {
		return domain.Route{}, fmt.Errorf("missing pair %q -> %q: %w", origin, destination, ErrRouteNotFound)
	}

	return r, nil
}
