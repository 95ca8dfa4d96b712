package cache

import (
	"context"
	"errors"
	"fmt"
	"hos-trip-planner/internal/domain"
	"hos-trip-planner/internal/ports"
	"log"
)

// TieredRouteCache checks caches fastest first and back-fills the faster
// tiers when a slower one hits. A failing tier is logged and skipped.
type TieredRouteCache struct {
	tiers []ports.RouteCache
}

func NewTieredRouteCache(tiers ...ports.RouteCache) *TieredRouteCache {
	t := &TieredRouteCache{}
	for _, c := range tiers {
		if c != nil {
			t.tiers = append(t.tiers, c)
		}
	}
	return t
}

func (t *TieredRouteCache) Get(ctx context.Context, origin, destination string) (domain.Route, bool, error) {
	for i, c := range t.tiers {
		route, ok, err := c.Get(ctx, origin, destination)
		if err != nil {
			log.Printf("route cache tier %d get failed: %v", i, err)
			continue
		}
		if !ok {
			continue
		}

		for j := 0; j < i; j++ {
			if err := t.tiers[j].Put(ctx, origin, destination, route); err != nil {
				log.Printf("route cache tier %d backfill failed: %v", j, err)
			}
		}
		return route, true, nil
	}

	return domain.Route{}, false, nil
}

func (t *TieredRouteCache) Put(ctx context.Context, origin, destination string, route domain.Route) error {
	var errs []error
	for i, c := range t.tiers {
		if err := c.Put(ctx, origin, destination, route); err != nil {
			errs = append(errs, fmt.Errorf("tier %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
