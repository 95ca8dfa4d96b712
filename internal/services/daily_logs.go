package services

import (
	"fmt"
	"hos-trip-planner/internal/domain"
	"math"
)

// FormatDailyLogs groups a duty log into per-day log sheets.
//
// Days appear in the order they are first seen. Each entry's start and end are
// converted from elapsed hours to a wall-clock HH:MM on a 24-hour dial, so an
// entry ending exactly at midnight reads "00:00".
func FormatDailyLogs(events []domain.DutyEvent) []domain.DailyLog {
	logs := make([]domain.DailyLog, 0, 4)
	index := make(map[int]int)

	for _, e := range events {
		i, ok := index[e.Day]
		if !ok {
			logs = append(logs, domain.DailyLog{
				Day:     e.Day,
				Date:    fmt.Sprintf("Day %d", e.Day),
				Entries: []domain.LogEntry{},
			})
			i = len(logs) - 1
			index[e.Day] = i
		}

		logs[i].Entries = append(logs[i].Entries, domain.LogEntry{
			Status:    e.Status,
			StartTime: clockTime(e.Start),
			EndTime:   clockTime(e.End()),
			Reason:    e.Reason,
		})
	}

	return logs
}

// clockTime renders elapsed hours as HH:MM, truncating partial minutes.
func clockTime(hours float64) string {
	h := int(math.Mod(hours, 24))
	m := int(math.Mod(hours*60, 60))
	return fmt.Sprintf("%02d:%02d", h, m)
}
