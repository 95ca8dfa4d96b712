package services

import (
	"errors"
	"hos-trip-planner/internal/domain"
	"math"
	"reflect"
	"sync"
	"testing"
)

const eps = 1e-9

func countReason(events []domain.DutyEvent, reason domain.DutyReason) int {
	n := 0
	for _, e := range events {
		if e.Reason == reason {
			n++
		}
	}
	return n
}

func drivingHours(events []domain.DutyEvent) float64 {
	total := 0.0
	for _, e := range events {
		if e.Status == domain.Driving {
			total += e.Duration
		}
	}
	return total
}

func TestSimulateTripShortTrip(t *testing.T) {
	events, err := SimulateTrip(domain.TripParameters{TotalDistance: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, last := events[0], events[len(events)-1]
	if first.Status != domain.OnDutyNotDriving || first.Reason != domain.ReasonPickup || first.Duration != 1.0 {
		t.Fatalf("first event = %+v, want 1h on-duty pickup", first)
	}
	if last.Status != domain.OnDutyNotDriving || last.Reason != domain.ReasonDropoff || last.Duration != 1.0 {
		t.Fatalf("last event = %+v, want 1h on-duty dropoff", last)
	}

	for _, e := range events[1 : len(events)-1] {
		if e.Status != domain.Driving || e.Reason != domain.ReasonNone {
			t.Fatalf("unexpected non-driving event %+v", e)
		}
	}

	if got, want := drivingHours(events), 100.0/55.0; math.Abs(got-want) > eps {
		t.Fatalf("driving hours = %v, want %v", got, want)
	}
	if len(events) != 10 {
		t.Fatalf("expected 10 events (pickup, 8 drives, dropoff), got %d", len(events))
	}
	for _, e := range events {
		if e.Day != 1 {
			t.Fatalf("event %+v not on day 1", e)
		}
	}
}

func TestSimulateTripBreakAndReset(t *testing.T) {
	events, err := SimulateTrip(domain.TripParameters{TotalDistance: 700})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n := countReason(events, domain.ReasonBreak); n != 1 {
		t.Fatalf("breaks = %d, want 1", n)
	}
	if n := countReason(events, domain.ReasonTenHourReset); n < 1 {
		t.Fatalf("resets = %d, want at least 1", n)
	}
	if n := countReason(events, domain.ReasonThirtyFourReset); n != 0 {
		t.Fatalf("restarts = %d, want 0", n)
	}
	if events[len(events)-1].Reason != domain.ReasonDropoff {
		t.Fatalf("last event = %+v, want dropoff", events[len(events)-1])
	}

	if got, want := drivingHours(events), 700.0/55.0; math.Abs(got-want) > eps {
		t.Fatalf("driving hours = %v, want %v", got, want)
	}
}

func TestSimulateTripCycleExhausted(t *testing.T) {
	events, err := SimulateTrip(domain.TripParameters{TotalDistance: 50, InitialCycleHoursUsed: 69})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n := countReason(events, domain.ReasonThirtyFourReset); n != 1 {
		t.Fatalf("restarts = %d, want 1", n)
	}

	restart := events[1]
	if restart.Reason != domain.ReasonThirtyFourReset || restart.Status != domain.OffDuty || restart.Duration != 34 {
		t.Fatalf("events[1] = %+v, want 34h off-duty restart", restart)
	}
	if restart.Start != 1.0 {
		t.Fatalf("restart start = %v, want 1.0", restart.Start)
	}

	for _, e := range events[2:] {
		if e.Day != 2 {
			t.Fatalf("event %+v after restart should be on day 2", e)
		}
	}

	if got, want := drivingHours(events), 50.0/55.0; math.Abs(got-want) > eps {
		t.Fatalf("driving hours = %v, want %v", got, want)
	}
}

func TestSimulateTripZeroPickupLeg(t *testing.T) {
	events, err := SimulateTrip(domain.TripParameters{TotalDistance: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if events[0].Reason != domain.ReasonPickup || events[0].Start != 0 {
		t.Fatalf("events[0] = %+v, want pickup at 0", events[0])
	}
}

func TestSimulateTripDrivesToPickupFirst(t *testing.T) {
	events, err := SimulateTrip(domain.TripParameters{TotalDistance: 100, PickupLegDistance: 30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pickupIdx := -1
	for i, e := range events {
		if e.Reason == domain.ReasonPickup {
			pickupIdx = i
			break
		}
	}
	if pickupIdx < 0 {
		t.Fatal("no pickup event")
	}

	if got, want := drivingHours(events[:pickupIdx]), 30.0/55.0; math.Abs(got-want) > eps {
		t.Fatalf("hours before pickup = %v, want %v", got, want)
	}
	if got, want := drivingHours(events[pickupIdx:]), 70.0/55.0; math.Abs(got-want) > eps {
		t.Fatalf("hours after pickup = %v, want %v", got, want)
	}
}

func TestSimulateTripEmptyTrip(t *testing.T) {
	events, err := SimulateTrip(domain.TripParameters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("expected pickup and dropoff only, got %d events", len(events))
	}
	if events[1].Start != 1.0 {
		t.Fatalf("dropoff start = %v, want 1.0", events[1].Start)
	}
}

func TestSimulateTripRestartCrossesTwoDays(t *testing.T) {
	// 12h of cycle left: pickup, 8h drive, break, 3h drive, then a reset and
	// a restart back to back starting at hour 12.5.
	events, err := SimulateTrip(domain.TripParameters{TotalDistance: 700, InitialCycleHoursUsed: 58})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	idx := -1
	for i, e := range events {
		if e.Reason == domain.ReasonThirtyFourReset {
			idx = i
			break
		}
	}
	if idx < 1 || idx+1 >= len(events) {
		t.Fatalf("restart not found in the middle of the log (idx=%d)", idx)
	}

	if prev := events[idx-1]; prev.Reason != domain.ReasonTenHourReset {
		t.Fatalf("event before restart = %+v, want 10-hour reset", prev)
	}

	restart, next := events[idx], events[idx+1]
	if restart.Start != 22.5 || restart.Day != 1 {
		t.Fatalf("restart = %+v, want start 22.5 on day 1", restart)
	}
	if next.Day != 3 {
		t.Fatalf("event after restart on day %d, want 3", next.Day)
	}
}

func TestSimulateTripFuelingEveryThousandMiles(t *testing.T) {
	events, err := SimulateTrip(domain.TripParameters{TotalDistance: 2500})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n := countReason(events, domain.ReasonFueling); n != 2 {
		t.Fatalf("fueling stops = %d, want 2", n)
	}

	for i, e := range events {
		if e.Reason != domain.ReasonFueling {
			continue
		}
		if e.Status != domain.OnDutyNotDriving || e.Duration != domain.FuelingHours {
			t.Fatalf("fueling event = %+v", e)
		}
		if events[i-1].Status != domain.Driving {
			t.Fatalf("fueling at %d not preceded by driving: %+v", i, events[i-1])
		}
	}
}

func TestSimulateTripInvariants(t *testing.T) {
	cases := []domain.TripParameters{
		{TotalDistance: 100},
		{TotalDistance: 700},
		{TotalDistance: 50, InitialCycleHoursUsed: 69},
		{TotalDistance: 2500, PickupLegDistance: 310},
		{TotalDistance: 3200.7, PickupLegDistance: 1234.5, InitialCycleHoursUsed: 45.25},
		{TotalDistance: 900, PickupLegDistance: 900, InitialCycleHoursUsed: 70},
	}

	for _, params := range cases {
		prev := domain.NewTimerState(params.InitialCycleHoursUsed)
		var observed []domain.DutyEvent
		pendingFuel := false

		sim := NewSimulator(0)
		sim.Observer = func(e domain.DutyEvent, s domain.TimerState) {
			observed = append(observed, e)

			if pendingFuel && e.Reason != domain.ReasonFueling {
				t.Errorf("%+v: fuel threshold reached but next event is %+v", params, e)
			}
			pendingFuel = e.Status == domain.Driving && s.DistanceSinceFuel >= domain.FuelIntervalMiles

			if s.CycleHoursRemaining > domain.CycleLimitHours {
				t.Errorf("%+v: cycle %v exceeds limit", params, s.CycleHoursRemaining)
			}
			if s.CycleHoursRemaining > prev.CycleHoursRemaining && e.Reason != domain.ReasonThirtyFourReset {
				t.Errorf("%+v: cycle restored by %+v", params, e)
			}
			if s.WindowTimeRemaining > prev.WindowTimeRemaining && e.Reason != domain.ReasonTenHourReset {
				t.Errorf("%+v: window restored by %+v", params, e)
			}
			if s.DriveTimeRemaining > prev.DriveTimeRemaining && e.Reason != domain.ReasonTenHourReset {
				t.Errorf("%+v: drive budget restored by %+v", params, e)
			}
			if e.Status == domain.Driving && prev.DriveSinceBreak >= domain.BreakAfterDrivingHours {
				t.Errorf("%+v: driving started %v hours after last break", params, prev.DriveSinceBreak)
			}
			if e.Duration <= 0 {
				t.Errorf("%+v: non-positive duration %+v", params, e)
			}
			if e.Day != domain.DayAt(prev.Elapsed) {
				t.Errorf("%+v: event %+v has day %d, want %d", params, e, e.Day, domain.DayAt(prev.Elapsed))
			}

			prev = s
		}

		events, err := sim.Run(params)
		if err != nil {
			t.Fatalf("%+v: unexpected error: %v", params, err)
		}
		if !reflect.DeepEqual(events, observed) {
			t.Fatalf("%+v: observer saw a different log than Run returned", params)
		}

		sum := 0.0
		for i, e := range events {
			sum += e.Duration
			if i+1 < len(events) && e.End() != events[i+1].Start {
				t.Fatalf("%+v: gap between %+v and %+v", params, e, events[i+1])
			}
		}
		if sum != prev.Elapsed {
			t.Fatalf("%+v: sum of durations %v != elapsed %v", params, sum, prev.Elapsed)
		}
		if math.Abs(prev.TotalDistance-params.TotalDistance) > 1e-6 {
			t.Fatalf("%+v: drove %v miles", params, prev.TotalDistance)
		}
	}
}

func TestSimulateTripIsDeterministic(t *testing.T) {
	params := domain.TripParameters{TotalDistance: 2750, PickupLegDistance: 400, InitialCycleHoursUsed: 33}

	want, err := SimulateTrip(params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sim := NewSimulator(0)
	var wg sync.WaitGroup
	results := make([][]domain.DutyEvent, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := sim.Run(params)
			if err != nil {
				t.Errorf("run %d: %v", i, err)
				return
			}
			results[i] = got
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("run %d produced a different log", i)
		}
	}
}

func TestSimulateTripRejectsInvalidInput(t *testing.T) {
	cases := []domain.TripParameters{
		{TotalDistance: -5},
		{TotalDistance: math.NaN()},
		{TotalDistance: 10, PickupLegDistance: 20},
		{TotalDistance: 10, InitialCycleHoursUsed: 71},
	}

	for _, params := range cases {
		events, err := SimulateTrip(params)
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("%+v: err = %v, want ErrInvalidInput", params, err)
		}
		if events != nil {
			t.Fatalf("%+v: expected no events, got %d", params, len(events))
		}
	}
}

func TestSimulatorStepBound(t *testing.T) {
	events, err := NewSimulator(10).Run(domain.TripParameters{TotalDistance: 700})
	if !errors.Is(err, domain.ErrNonTermination) {
		t.Fatalf("err = %v, want ErrNonTermination", err)
	}
	if events != nil {
		t.Fatalf("expected no partial log, got %d events", len(events))
	}
}

func TestNextActionPriority(t *testing.T) {
	fresh := domain.NewTimerState(0)

	tests := []struct {
		name  string
		state func(domain.TimerState) domain.TimerState
		want  Action
	}{
		{"fresh", func(s domain.TimerState) domain.TimerState { return s }, ActionDrive},
		{"drive budget spent", func(s domain.TimerState) domain.TimerState {
			s.DriveTimeRemaining = 0
			return s
		}, ActionTenHourReset},
		{"window within one increment", func(s domain.TimerState) domain.TimerState {
			s.WindowTimeRemaining = 0.25
			return s
		}, ActionTenHourReset},
		{"window just above increment", func(s domain.TimerState) domain.TimerState {
			s.WindowTimeRemaining = 0.3
			return s
		}, ActionDrive},
		{"cycle below increment", func(s domain.TimerState) domain.TimerState {
			s.CycleHoursRemaining = 0.2
			return s
		}, ActionRestart},
		{"cycle exactly one increment", func(s domain.TimerState) domain.TimerState {
			s.CycleHoursRemaining = 0.25
			return s
		}, ActionDrive},
		{"break due", func(s domain.TimerState) domain.TimerState {
			s.DriveSinceBreak = 8
			return s
		}, ActionBreak},
		{"reset beats restart and break", func(s domain.TimerState) domain.TimerState {
			s.DriveTimeRemaining = 0
			s.CycleHoursRemaining = 0
			s.DriveSinceBreak = 9
			return s
		}, ActionTenHourReset},
		{"restart beats break", func(s domain.TimerState) domain.TimerState {
			s.CycleHoursRemaining = 0
			s.DriveSinceBreak = 9
			return s
		}, ActionRestart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextAction(tt.state(fresh)); got != tt.want {
				t.Fatalf("NextAction = %v, want %v", got, tt.want)
			}
		})
	}
}
