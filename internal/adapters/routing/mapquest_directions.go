package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"hos-trip-planner/internal/domain"
	"hos-trip-planner/internal/platform/obs"
	"net/http"
	"strings"
)

type directionsResponse struct {
	Route struct {
		Distance float64 `json:"distance"`
		Shape    struct {
			ShapePoints []float64 `json:"shapePoints"`
		} `json:"shape"`
	} `json:"route"`
	Info struct {
		StatusCode int      `json:"statuscode"`
		Messages   []string `json:"messages"`
	} `json:"info"`
}

// fetchRoute calls the MapQuest directions endpoint (/directions/v2/route)
// for a single origin/destination pair.
func (m *MapQuestProvider) fetchRoute(
	ctx context.Context,
	origin string,
	destination string,
) (_ domain.Route, err error) {
	defer obs.Time(ctx, "mapquest.fetchRoute")(&err)

	endpoint := m.baseURL + "/directions/v2/route"

	resp, err := m.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := m.newRequest(ctx, http.MethodGet, endpoint)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("key", m.apiKey)
		q.Set("from", origin)
		q.Set("to", destination)
		q.Set("outFormat", "json")
		q.Set("routeType", m.routeType)
		q.Set("fullShape", "true")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Route{}, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Route{}, fmt.Errorf("decode directions response: %w", err)
	}

	if decoded.Info.StatusCode != 0 {
		return domain.Route{}, fmt.Errorf(
			"could not find a route from %q to %q (statuscode=%d %s): %w",
			origin, destination, decoded.Info.StatusCode,
			strings.Join(decoded.Info.Messages, "; "), ErrRouteNotFound,
		)
	}

	points := decoded.Route.Shape.ShapePoints
	if len(points)%2 != 0 {
		return domain.Route{}, fmt.Errorf("invalid shape for %q -> %q: odd number of values (%d)", origin, destination, len(points))
	}

	shape := make([]domain.Coordinates, 0, len(points)/2)
	for i := 0; i < len(points); i += 2 {
		shape = append(shape, domain.Coordinates{Lat: points[i], Lng: points[i+1]})
	}

	return domain.Route{
		DistanceMiles: decoded.Route.Distance,
		Shape:         shape,
	}, nil
}
