package domain

import "fmt"

// DutyStatus is the duty-status line an event is drawn on in a driver's log.
type DutyStatus uint8

const (
	Driving DutyStatus = iota + 1
	OnDutyNotDriving
	OffDuty
)

// String returns the label used on log sheets.
func (s DutyStatus) String() string {
	switch s {
	case Driving:
		return "Driving"
	case OnDutyNotDriving:
		return "On Duty (Not Driving)"
	case OffDuty:
		return "Off Duty"
	default:
		return fmt.Sprintf("DutyStatus(%d)", uint8(s))
	}
}

// OnDuty reports whether time spent in this status counts against the
// cycle and window budgets.
func (s DutyStatus) OnDuty() bool {
	return s == Driving || s == OnDutyNotDriving
}

// ParseDutyStatus is the inverse of DutyStatus.String.
func ParseDutyStatus(label string) (DutyStatus, error) {
	switch label {
	case "Driving":
		return Driving, nil
	case "On Duty (Not Driving)":
		return OnDutyNotDriving, nil
	case "Off Duty":
		return OffDuty, nil
	}
	return 0, fmt.Errorf("parse duty status: unknown label %q", label)
}

// DutyReason tags why a non-driving event was inserted. Plain driving has no reason.
type DutyReason string

const (
	ReasonNone            DutyReason = ""
	ReasonPickup          DutyReason = "Pickup"
	ReasonDropoff         DutyReason = "Dropoff"
	ReasonFueling         DutyReason = "Fueling"
	ReasonBreak           DutyReason = "30-Min Break"
	ReasonTenHourReset    DutyReason = "10-Hour Reset"
	ReasonThirtyFourReset DutyReason = "34-Hour Restart"
)

// DutyEvent is one contiguous interval of the simulated duty log.
// Start and Duration are hours measured from the start of the trip.
type DutyEvent struct {
	Day      int
	Status   DutyStatus
	Start    float64
	Duration float64
	Reason   DutyReason
}

// End returns the elapsed hour at which the event finishes.
func (e DutyEvent) End() float64 { return e.Start + e.Duration }
