package services

import "hos-trip-planner/internal/domain"

// Action is what the segment driver must do before it may drive the next increment.
type Action uint8

const (
	ActionDrive Action = iota
	ActionTenHourReset
	ActionRestart
	ActionBreak
)

func (a Action) String() string {
	switch a {
	case ActionDrive:
		return "drive"
	case ActionTenHourReset:
		return "10-hour reset"
	case ActionRestart:
		return "34-hour restart"
	case ActionBreak:
		return "30-minute break"
	default:
		return "unknown"
	}
}

// NextAction evaluates the HOS checks in priority order and returns the first
// one that applies, or ActionDrive when none does.
//
// The order is reset, restart, break, drive. When several limits are hit at
// once the earlier rule is the one treated as binding.
func NextAction(s domain.TimerState) Action {
	// The window check fires one increment early so it never runs out mid-increment.
	if s.DriveTimeRemaining <= 0 || s.WindowTimeRemaining <= domain.IncrementHours {
		return ActionTenHourReset
	}
	if s.CycleHoursRemaining < domain.IncrementHours {
		return ActionRestart
	}
	if s.DriveSinceBreak >= domain.BreakAfterDrivingHours {
		return ActionBreak
	}
	return ActionDrive
}
