package services

import (
	"fmt"
	"hos-trip-planner/internal/domain"
	"math"
)

const (
	// DefaultMaxSteps bounds the rule evaluations of a single run. A 10 000 mile
	// trip needs well under 5 000.
	DefaultMaxSteps = 100_000

	// Rest actions always leave the state able to drive within two more passes
	// (reset, then restart), so anything beyond this is a stuck run.
	maxConsecutiveRests = 3
)

// Observer receives every appended event together with the state after it.
type Observer func(event domain.DutyEvent, state domain.TimerState)

// Simulator turns trip parameters into an HOS-compliant duty log.
//
// A Simulator holds configuration only; each Run owns its own timer state and
// event log, so one Simulator can serve concurrent runs.
type Simulator struct {
	MaxSteps int
	Observer Observer
}

func NewSimulator(maxSteps int) *Simulator {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	return &Simulator{MaxSteps: maxSteps}
}

// SimulateTrip runs the default simulator.
func SimulateTrip(params domain.TripParameters) ([]domain.DutyEvent, error) {
	return NewSimulator(DefaultMaxSteps).Run(params)
}

// Run simulates the trip: drive to pickup, one hour on duty for the pickup,
// drive to dropoff, one hour on duty for the dropoff.
//
// Invalid parameters fail with domain.ErrInvalidInput before anything is
// simulated. A run that exceeds MaxSteps or stops making progress fails with
// domain.ErrNonTermination and no partial log is returned.
func (s *Simulator) Run(params domain.TripParameters) ([]domain.DutyEvent, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("simulate trip: %w", err)
	}

	maxSteps := s.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	run := &simulation{
		state:    domain.NewTimerState(params.InitialCycleHoursUsed),
		events:   make([]domain.DutyEvent, 0, 64),
		maxSteps: maxSteps,
		observer: s.Observer,
	}

	if err := run.driveSegment(params.PickupLegDistance); err != nil {
		return nil, fmt.Errorf("simulate trip: drive to pickup: %w", err)
	}
	run.emit(domain.OnDutyNotDriving, domain.StopHours, domain.ReasonPickup, nil)

	if err := run.driveSegment(params.DropoffLegDistance()); err != nil {
		return nil, fmt.Errorf("simulate trip: drive to dropoff: %w", err)
	}
	run.emit(domain.OnDutyNotDriving, domain.StopHours, domain.ReasonDropoff, nil)

	return run.events, nil
}

// simulation is the mutable state of one Run.
type simulation struct {
	state    domain.TimerState
	events   []domain.DutyEvent
	steps    int
	maxSteps int
	observer Observer
}

// emit appends an event starting at the current clock, advances the clock and
// budgets, then applies the event's own transition (if any).
func (r *simulation) emit(
	status domain.DutyStatus,
	duration float64,
	reason domain.DutyReason,
	apply func(domain.TimerState) domain.TimerState,
) {
	event := domain.DutyEvent{
		Day:      r.state.Day,
		Status:   status,
		Start:    r.state.Elapsed,
		Duration: duration,
		Reason:   reason,
	}
	r.events = append(r.events, event)

	r.state = r.state.Record(status, duration)
	if apply != nil {
		r.state = apply(r.state)
	}

	if r.observer != nil {
		r.observer(event, r.state)
	}
}

// driveSegment covers distance miles in fixed increments, inserting rests and
// fuel stops whenever a rule requires one.
func (r *simulation) driveSegment(distance float64) error {
	remaining := distance
	rests := 0

	for remaining > 0 {
		r.steps++
		if r.steps > r.maxSteps {
			return fmt.Errorf(
				"drive segment: exceeded %d steps with %.2f miles remaining: %w",
				r.maxSteps, remaining, domain.ErrNonTermination,
			)
		}

		action := NextAction(r.state)
		if action != ActionDrive {
			rests++
			if rests > maxConsecutiveRests {
				return fmt.Errorf(
					"drive segment: no progress after %d consecutive %s actions: %w",
					rests, action, domain.ErrNonTermination,
				)
			}
		}

		switch action {
		case ActionTenHourReset:
			r.emit(domain.OffDuty, domain.TenHourResetHours, domain.ReasonTenHourReset, domain.TimerState.AfterTenHourReset)

		case ActionRestart:
			r.emit(domain.OffDuty, domain.RestartHours, domain.ReasonThirtyFourReset, domain.TimerState.AfterRestart)

		case ActionBreak:
			r.emit(domain.OffDuty, domain.BreakHours, domain.ReasonBreak, domain.TimerState.AfterBreak)

		case ActionDrive:
			rests = 0

			miles := math.Min(domain.AverageSpeedMPH*domain.IncrementHours, remaining)
			if miles <= 0 {
				return fmt.Errorf("drive segment: increment covers no distance: %w", domain.ErrNonTermination)
			}
			hours := miles / domain.AverageSpeedMPH

			r.emit(domain.Driving, hours, domain.ReasonNone, func(s domain.TimerState) domain.TimerState {
				return s.AfterDrive(miles, hours)
			})

			// The last increment takes exactly what is left, so no float residue
			// can keep the loop alive.
			if miles >= remaining {
				remaining = 0
			} else {
				remaining -= miles
			}

			if r.state.NeedsFuel() {
				r.emit(domain.OnDutyNotDriving, domain.FuelingHours, domain.ReasonFueling, domain.TimerState.AfterFueling)
			}

		default:
			return fmt.Errorf("drive segment: unhandled action %d", action)
		}
	}

	return nil
}
