package domain

import (
	"time"

	"github.com/google/uuid"
)

// Route is a single driving leg returned by a routing provider.
// Shape is the ordered polyline of the leg.
type Route struct {
	DistanceMiles float64
	Shape         []Coordinates
}

// Stop is a point of interest shown alongside a planned trip.
// Break and fuel stops have no known location and use a placeholder name.
type Stop struct {
	Location string
	Reason   DutyReason
}

// TripPlan is the persisted result of planning a trip: the inputs, the
// simulated duty log and the data needed to draw the route on a map.
type TripPlan struct {
	ID              uuid.UUID
	CreatedAt       time.Time
	CurrentLocation string
	PickupLocation  string
	DropoffLocation string
	Params          TripParameters
	Events          []DutyEvent
	RoutePath       [][2]float64
	Stops           []Stop
}

// TotalHours returns the elapsed time covered by the duty log.
func (p *TripPlan) TotalHours() float64 {
	if len(p.Events) == 0 {
		return 0
	}
	return p.Events[len(p.Events)-1].End()
}
