package main

import (
	"bytes"
	"encoding/json"
	"hos-trip-planner/internal/api/dto"
	"testing"
)

func TestRunPrintsEvents(t *testing.T) {
	var out, errBuf bytes.Buffer

	code := run([]string{"-total", "100"}, &out, &errBuf)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr=%s", code, errBuf.String())
	}

	var events []dto.EventResponse
	if err := json.Unmarshal(out.Bytes(), &events); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(events) != 10 || events[0].Reason != "Pickup" || events[9].Reason != "Dropoff" {
		t.Fatalf("events = %+v", events)
	}
}

func TestRunPrintsDailyLogs(t *testing.T) {
	var out, errBuf bytes.Buffer

	code := run([]string{"-total", "700", "-logs"}, &out, &errBuf)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr=%s", code, errBuf.String())
	}

	var logs []dto.DailyLogResponse
	if err := json.Unmarshal(out.Bytes(), &logs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(logs) < 2 || logs[0].Date != "Day 1" {
		t.Fatalf("logs = %+v", logs)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"bad flag", []string{"-bogus"}, 2},
		{"stray argument", []string{"-total", "10", "extra"}, 2},
		{"pickup beyond total", []string{"-total", "10", "-pickup", "20"}, 2},
		{"cycle over limit", []string{"-total", "10", "-cycle-used", "71"}, 2},
		{"step bound", []string{"-total", "5000", "-max-steps", "10"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errBuf bytes.Buffer
			if code := run(tt.args, &out, &errBuf); code != tt.code {
				t.Fatalf("exit code = %d, want %d (stderr=%s)", code, tt.code, errBuf.String())
			}
			if out.Len() != 0 {
				t.Fatalf("unexpected output: %s", out.String())
			}
		})
	}
}
