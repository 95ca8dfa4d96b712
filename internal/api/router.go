package api

import (
	"hos-trip-planner/internal/api/handlers"
	"hos-trip-planner/internal/ports"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type RouterOptions struct {
	AllowedOrigins []string
	MaxSteps       int
}

var routeMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(repo ports.TripRepository, provider ports.RouteProvider, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		handlers.MethodNotAllowed(allowedMethods(r, req.URL.Path))(w, req)
	})

	tripHandler := &handlers.TripHandler{
		Provider: provider,
		Repo:     repo,
		MaxSteps: opts.MaxSteps,
	}

	r.Get("/health", handlers.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/plan-trip", tripHandler.PlanTrip)
		r.Post("/simulate", tripHandler.Simulate)
		r.Get("/trips", tripHandler.ListTrips)
		r.Get("/trips/{id}", tripHandler.GetTrip)
	})

	return r
}

// allowedMethods lists the methods registered for path, for the Allow header.
func allowedMethods(routes chi.Routes, path string) string {
	var allowed []string
	for _, m := range routeMethods {
		if routes.Match(chi.NewRouteContext(), m, path) {
			allowed = append(allowed, m)
		}
	}
	return strings.Join(allowed, ", ")
}
