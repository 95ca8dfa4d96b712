package domain

import "math"

// Hours-of-service limits for a property-carrying driver on the 70-hour/8-day cycle.
const (
	CycleLimitHours        = 70.0
	WindowLimitHours       = 14.0
	DriveLimitHours        = 11.0
	BreakAfterDrivingHours = 8.0
	FuelIntervalMiles      = 1000.0

	TenHourResetHours = 10.0
	RestartHours      = 34.0
	BreakHours        = 0.5
	FuelingHours      = 0.5
	StopHours         = 1.0

	AverageSpeedMPH = 55.0
	IncrementHours  = 0.25

	hoursPerDay = 24.0
)

// TimerState is the set of HOS counters for one simulation run.
//
// It is a plain value: every transition returns the next state and leaves the
// receiver untouched, so a run's history can be replayed or inspected step by step.
type TimerState struct {
	CycleHoursRemaining float64
	WindowTimeRemaining float64
	DriveTimeRemaining  float64
	DriveSinceBreak     float64
	DistanceSinceFuel   float64
	TotalDistance       float64
	Elapsed             float64
	Day                 int
}

// NewTimerState returns the state at the start of a trip for a driver who has
// already used cycleHoursUsed of the 70-hour cycle.
func NewTimerState(cycleHoursUsed float64) TimerState {
	return TimerState{
		CycleHoursRemaining: CycleLimitHours - cycleHoursUsed,
		WindowTimeRemaining: WindowLimitHours,
		DriveTimeRemaining:  DriveLimitHours,
		Day:                 1,
	}
}

// Record advances the clock by an event of the given status and duration.
// On-duty time (driving or not) is charged to both the cycle and the window.
func (s TimerState) Record(status DutyStatus, duration float64) TimerState {
	s.Elapsed += duration
	if status.OnDuty() {
		s.CycleHoursRemaining = nonNegative(s.CycleHoursRemaining - duration)
		s.WindowTimeRemaining = nonNegative(s.WindowTimeRemaining - duration)
	}
	s.Day = DayAt(s.Elapsed)
	return s
}

// AfterTenHourReset restores the window and drive budgets and clears the break counter.
func (s TimerState) AfterTenHourReset() TimerState {
	s.WindowTimeRemaining = WindowLimitHours
	s.DriveTimeRemaining = DriveLimitHours
	s.DriveSinceBreak = 0
	return s
}

// AfterRestart restores the cycle budget only.
func (s TimerState) AfterRestart() TimerState {
	s.CycleHoursRemaining = CycleLimitHours
	return s
}

// AfterBreak clears the driving-since-break counter only.
func (s TimerState) AfterBreak() TimerState {
	s.DriveSinceBreak = 0
	return s
}

// AfterDrive charges a driving increment to the driving counters.
// The clock and the on-duty budgets are advanced separately by Record.
func (s TimerState) AfterDrive(miles, hours float64) TimerState {
	s.DriveTimeRemaining = nonNegative(s.DriveTimeRemaining - hours)
	s.DriveSinceBreak += hours
	s.DistanceSinceFuel += miles
	s.TotalDistance += miles
	return s
}

// NeedsFuel reports whether the fueling interval has been reached.
func (s TimerState) NeedsFuel() bool {
	return s.DistanceSinceFuel >= FuelIntervalMiles
}

// AfterFueling zeroes the distance since the last fuel stop.
func (s TimerState) AfterFueling() TimerState {
	s.DistanceSinceFuel = 0
	return s
}

// DayAt returns the 1-based log day containing the given elapsed hour.
// An event long enough to cross several midnights moves the day by all of them.
func DayAt(elapsed float64) int {
	return int(math.Floor(elapsed/hoursPerDay)) + 1
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
