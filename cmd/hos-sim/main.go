package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"hos-trip-planner/internal/api/dto"
	"hos-trip-planner/internal/domain"
	"hos-trip-planner/internal/services"
	"io"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run simulates one trip offline and prints the duty log as JSON.
// Exit codes: 0 ok, 1 simulation failure, 2 usage error.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("hos-sim", flag.ContinueOnError)
	fs.SetOutput(stderr)

	total := fs.Float64("total", 0, "total trip distance in miles")
	pickup := fs.Float64("pickup", 0, "miles driven before the pickup")
	cycleUsed := fs.Float64("cycle-used", 0, "on-duty hours already used in the 70-hour cycle")
	maxSteps := fs.Int("max-steps", services.DefaultMaxSteps, "rule evaluation limit")
	logs := fs.Bool("logs", false, "print daily log sheets instead of raw events")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "hos-sim: unexpected arguments: %v\n", fs.Args())
		return 2
	}

	events, err := services.NewSimulator(*maxSteps).Run(domain.TripParameters{
		TotalDistance:         *total,
		PickupLegDistance:     *pickup,
		InitialCycleHoursUsed: *cycleUsed,
	})
	if err != nil {
		fmt.Fprintf(stderr, "hos-sim: %v\n", err)
		if errors.Is(err, domain.ErrInvalidInput) {
			return 2
		}
		return 1
	}

	var out any = dto.NewEvents(events)
	if *logs {
		out = dto.NewDailyLogs(services.FormatDailyLogs(events))
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(stderr, "hos-sim: write output: %v\n", err)
		return 1
	}
	return 0
}
