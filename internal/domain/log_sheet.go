package domain

// LogEntry is one line on a daily log sheet, with wall-clock HH:MM times.
type LogEntry struct {
	Status    DutyStatus
	StartTime string
	EndTime   string
	Reason    DutyReason
}

// DailyLog groups the log entries that start on the same trip day.
type DailyLog struct {
	Day     int
	Date    string
	Entries []LogEntry
}
