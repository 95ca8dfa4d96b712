package dto

import (
	"hos-trip-planner/internal/domain"
	"time"
)

// Field names follow the JSON the trip-planner frontend already consumes.

type PlanTripRequest struct {
	CurrentLocation string   `json:"currentLocation"`
	PickupLocation  string   `json:"pickupLocation"`
	DropoffLocation string   `json:"dropoffLocation"`
	CycleHoursUsed  *float64 `json:"cycleHoursUsed"`
}

type SimulateRequest struct {
	TotalDistance     *float64 `json:"totalDistance"`
	PickupLegDistance float64  `json:"pickupLegDistance"`
	CycleHoursUsed    float64  `json:"cycleHoursUsed"`
}

type StopResponse struct {
	Location string `json:"location"`
	Reason   string `json:"reason"`
}

type LogEntryResponse struct {
	Status    string `json:"status"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Reason    string `json:"reason"`
}

type DailyLogResponse struct {
	Day    int                `json:"day"`
	Date   string             `json:"date"`
	Events []LogEntryResponse `json:"events"`
}

type EventResponse struct {
	Day      int     `json:"day"`
	Status   string  `json:"status"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Reason   string  `json:"reason"`
}

type TripResponse struct {
	ID                string             `json:"id"`
	CreatedAt         time.Time          `json:"createdAt"`
	CurrentLocation   string             `json:"currentLocation"`
	PickupLocation    string             `json:"pickupLocation"`
	DropoffLocation   string             `json:"dropoffLocation"`
	TotalDistance     float64            `json:"totalDistance"`
	PickupLegDistance float64            `json:"pickupLegDistance"`
	CycleHoursUsed    float64            `json:"cycleHoursUsed"`
	TotalHours        float64            `json:"totalHours"`
	RoutePath         [][2]float64       `json:"routePath"`
	Stops             []StopResponse     `json:"stops"`
	DailyLogs         []DailyLogResponse `json:"dailyLogs"`
}

type TripSummaryResponse struct {
	ID              string    `json:"id"`
	CreatedAt       time.Time `json:"createdAt"`
	CurrentLocation string    `json:"currentLocation"`
	PickupLocation  string    `json:"pickupLocation"`
	DropoffLocation string    `json:"dropoffLocation"`
	TotalDistance   float64   `json:"totalDistance"`
	CycleHoursUsed  float64   `json:"cycleHoursUsed"`
	TotalHours      float64   `json:"totalHours"`
}

type ListTripsResponse struct {
	Trips []TripSummaryResponse `json:"trips"`
}

type SimulateResponse struct {
	TotalHours float64            `json:"totalHours"`
	Events     []EventResponse    `json:"events"`
	DailyLogs  []DailyLogResponse `json:"dailyLogs"`
}

func NewDailyLogs(logs []domain.DailyLog) []DailyLogResponse {
	out := make([]DailyLogResponse, 0, len(logs))
	for _, l := range logs {
		entries := make([]LogEntryResponse, 0, len(l.Entries))
		for _, e := range l.Entries {
			entries = append(entries, LogEntryResponse{
				Status:    e.Status.String(),
				StartTime: e.StartTime,
				EndTime:   e.EndTime,
				Reason:    string(e.Reason),
			})
		}
		out = append(out, DailyLogResponse{Day: l.Day, Date: l.Date, Events: entries})
	}
	return out
}

func NewEvents(events []domain.DutyEvent) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, EventResponse{
			Day:      e.Day,
			Status:   e.Status.String(),
			Start:    e.Start,
			Duration: e.Duration,
			Reason:   string(e.Reason),
		})
	}
	return out
}

// NewTripResponse renders a plan; logs are the plan's events already grouped by day.
func NewTripResponse(p *domain.TripPlan, logs []domain.DailyLog) TripResponse {
	stops := make([]StopResponse, 0, len(p.Stops))
	for _, s := range p.Stops {
		stops = append(stops, StopResponse{Location: s.Location, Reason: string(s.Reason)})
	}

	path := p.RoutePath
	if path == nil {
		path = [][2]float64{}
	}

	return TripResponse{
		ID:                p.ID.String(),
		CreatedAt:         p.CreatedAt,
		CurrentLocation:   p.CurrentLocation,
		PickupLocation:    p.PickupLocation,
		DropoffLocation:   p.DropoffLocation,
		TotalDistance:     p.Params.TotalDistance,
		PickupLegDistance: p.Params.PickupLegDistance,
		CycleHoursUsed:    p.Params.InitialCycleHoursUsed,
		TotalHours:        p.TotalHours(),
		RoutePath:         path,
		Stops:             stops,
		DailyLogs:         NewDailyLogs(logs),
	}
}

func NewTripSummary(p *domain.TripPlan) TripSummaryResponse {
	return TripSummaryResponse{
		ID:              p.ID.String(),
		CreatedAt:       p.CreatedAt,
		CurrentLocation: p.CurrentLocation,
		PickupLocation:  p.PickupLocation,
		DropoffLocation: p.DropoffLocation,
		TotalDistance:   p.Params.TotalDistance,
		CycleHoursUsed:  p.Params.InitialCycleHoursUsed,
		TotalHours:      p.TotalHours(),
	}
}
