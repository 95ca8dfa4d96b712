package domain

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidInput marks trip parameters the simulator refuses to run.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNonTermination marks a simulation that exceeded its step bound
	// or stopped making forward progress.
	ErrNonTermination = errors.New("simulation did not terminate")
)

// TripParameters describe a single two-leg trip: current location -> pickup -> dropoff.
// Distances are in miles, hours in hours.
type TripParameters struct {
	TotalDistance         float64
	PickupLegDistance     float64
	InitialCycleHoursUsed float64
}

// DropoffLegDistance is the distance driven after the pickup stop.
func (p TripParameters) DropoffLegDistance() float64 {
	return p.TotalDistance - p.PickupLegDistance
}

// Validate rejects parameters that would start a run with negative budgets
// or distances the segment driver could never cover.
func (p TripParameters) Validate() error {
	if !finiteNonNegative(p.TotalDistance) {
		return fmt.Errorf("validate trip: total distance %v: %w", p.TotalDistance, ErrInvalidInput)
	}
	if !finiteNonNegative(p.PickupLegDistance) {
		return fmt.Errorf("validate trip: pickup leg distance %v: %w", p.PickupLegDistance, ErrInvalidInput)
	}
	if p.PickupLegDistance > p.TotalDistance {
		return fmt.Errorf(
			"validate trip: pickup leg distance %v exceeds total distance %v: %w",
			p.PickupLegDistance, p.TotalDistance, ErrInvalidInput,
		)
	}
	if !finiteNonNegative(p.InitialCycleHoursUsed) || p.InitialCycleHoursUsed > CycleLimitHours {
		return fmt.Errorf(
			"validate trip: cycle hours used %v must be between 0 and %v: %w",
			p.InitialCycleHoursUsed, CycleLimitHours, ErrInvalidInput,
		)
	}
	return nil
}

func finiteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
