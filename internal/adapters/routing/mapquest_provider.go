package routing

import (
	"context"
	"errors"
	"fmt"
	"hos-trip-planner/internal/domain"
	"hos-trip-planner/internal/platform/obs"
	"hos-trip-planner/internal/ports"
	"log"
	"net/http"
	"strings"
	"time"
)

// ErrRouteNotFound is returned when MapQuest answers but cannot route between the locations.
var ErrRouteNotFound = errors.New("route not found")

const DefaultMapQuestBaseURL = "https://www.mapquestapi.com"

// MapQuestProvider implements RouteProvider using the MapQuest directions API.
//
// It coordinates:
//   - Address normalization
//   - Persistent route caching
//   - External API calls with retry/backoff
//
// The provider is safe for concurrent use.
type MapQuestProvider struct {
	session   *http.Client
	apiKey    string
	baseURL   string
	routeType string
	backoff   time.Duration
	cache     ports.RouteCache
}

func NewMapQuestProvider(
	apiKey string,
	baseURL string,
	cache ports.RouteCache,
) (*MapQuestProvider, error) {
	if apiKey == "" {
		return nil, errors.New("MapQuest api key is empty")
	}

	if baseURL == "" {
		baseURL = DefaultMapQuestBaseURL
	}

	provider := &MapQuestProvider{
		session:   &http.Client{Timeout: 10 * time.Second},
		apiKey:    apiKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		routeType: "fastest",
		backoff:   200 * time.Millisecond,
		cache:     cache,
	}

	return provider, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func (m *MapQuestProvider) normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// GetRoute returns the driving route between two locations, consulting the
// cache before calling MapQuest. Cache write failures are logged, not returned.
func (m *MapQuestProvider) GetRoute(
	ctx context.Context,
	origin string,
	destination string,
) (_ domain.Route, err error) {
	defer obs.Time(ctx, "mapquest.GetRoute")(&err)

	normOrigin := m.normalize(origin)
	if normOrigin == "" {
		return domain.Route{}, errors.New("get MapQuest route: origin must be non-empty")
	}

	normDestination := m.normalize(destination)
	if normDestination == "" {
		return domain.Route{}, errors.New("get MapQuest route: destination must be non-empty")
	}

	if m.cache != nil {
		cached, ok, err := m.cache.Get(ctx, normOrigin, normDestination)
		if err != nil {
			return domain.Route{}, fmt.Errorf("get MapQuest route cache: %w", err)
		}
		if ok {
			return cached, nil
		}
	}

	route, err := m.fetchRoute(ctx, normOrigin, normDestination)
	if err != nil {
		return domain.Route{}, fmt.Errorf("get route %q -> %q: %w", normOrigin, normDestination, err)
	}

	if m.cache != nil {
		if err := m.cache.Put(ctx, normOrigin, normDestination, route); err != nil {
			log.Printf("route cache write failed: %v", err)
		}
	}

	return route, nil
}
