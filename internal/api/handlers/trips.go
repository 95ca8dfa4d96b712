package handlers

import (
	"errors"
	"hos-trip-planner/internal/api/dto"
	"hos-trip-planner/internal/domain"
	"hos-trip-planner/internal/ports"
	"hos-trip-planner/internal/services"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type TripHandler struct {
	Provider ports.RouteProvider
	Repo     ports.TripRepository
	MaxSteps int
}

// PlanTrip routes both legs, simulates the duty log and stores the result.
func (h *TripHandler) PlanTrip(w http.ResponseWriter, r *http.Request) {
	var req dto.PlanTripRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	for _, f := range []struct{ name, value string }{
		{"currentLocation", req.CurrentLocation},
		{"pickupLocation", req.PickupLocation},
		{"dropoffLocation", req.DropoffLocation},
	} {
		if strings.TrimSpace(f.value) == "" {
			writeError(w, r, http.StatusBadRequest, "Missing required field: "+f.name)
			return
		}
	}

	cycle := 0.0
	if req.CycleHoursUsed != nil {
		cycle = *req.CycleHoursUsed
	}

	plan, err := services.PlanTrip(r.Context(), services.PlanTripRequest{
		CurrentLocation: req.CurrentLocation,
		PickupLocation:  req.PickupLocation,
		DropoffLocation: req.DropoffLocation,
		CycleHoursUsed:  cycle,
		MaxSteps:        h.MaxSteps,
	}, h.Provider, h.Repo)
	if err != nil {
		writeServiceError(w, r, "plan trip", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewTripResponse(plan, services.FormatDailyLogs(plan.Events)))
}

// Simulate runs the duty-cycle simulator on raw distances, without routing or persistence.
func (h *TripHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req dto.SimulateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if req.TotalDistance == nil {
		writeError(w, r, http.StatusBadRequest, "Missing required field: totalDistance")
		return
	}

	events, err := services.NewSimulator(h.MaxSteps).Run(domain.TripParameters{
		TotalDistance:         *req.TotalDistance,
		PickupLegDistance:     req.PickupLegDistance,
		InitialCycleHoursUsed: req.CycleHoursUsed,
	})
	if err != nil {
		writeServiceError(w, r, "simulate", err)
		return
	}

	total := 0.0
	if len(events) > 0 {
		total = events[len(events)-1].End()
	}

	writeJSON(w, r, http.StatusOK, dto.SimulateResponse{
		TotalHours: total,
		Events:     dto.NewEvents(events),
		DailyLogs:  dto.NewDailyLogs(services.FormatDailyLogs(events)),
	})
}

// ListTrips returns summaries of the most recently planned trips.
func (h *TripHandler) ListTrips(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxListLimit {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	trips, err := h.Repo.ListTrips(r.Context(), limit)
	if err != nil {
		log.Printf("list trips failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListTripsResponse{Trips: make([]dto.TripSummaryResponse, 0, len(trips))}
	for _, t := range trips {
		res.Trips = append(res.Trips, dto.NewTripSummary(t))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// GetTrip returns one stored trip with its daily logs rebuilt from the duty log.
func (h *TripHandler) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid trip id")
		return
	}

	trip, err := h.Repo.GetTrip(r.Context(), id)
	if errors.Is(err, ports.ErrTripNotFound) {
		writeError(w, r, http.StatusNotFound, "trip not found")
		return
	}
	if err != nil {
		log.Printf("get trip failed: id=%s err=%v", id, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewTripResponse(trip, services.FormatDailyLogs(trip.Events)))
}

func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrRouting):
		log.Printf("%s failed: %v", op, err)
		writeError(w, r, http.StatusBadGateway, "Failed to get route")
	default:
		log.Printf("%s failed: %v", op, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
