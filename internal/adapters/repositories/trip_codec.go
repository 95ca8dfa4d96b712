package repositories

import (
	"encoding/json"
	"fmt"
	"hos-trip-planner/internal/domain"
)

// Fixed-width so text timestamps sort chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type stopRecord struct {
	Location string `json:"location"`
	Reason   string `json:"reason"`
}

func encodeStops(stops []domain.Stop) ([]byte, error) {
	records := make([]stopRecord, 0, len(stops))
	for _, s := range stops {
		records = append(records, stopRecord{Location: s.Location, Reason: string(s.Reason)})
	}

	b, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode stops: %w", err)
	}
	return b, nil
}

func decodeStops(raw []byte) ([]domain.Stop, error) {
	var records []stopRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode stops: %w", err)
	}

	stops := make([]domain.Stop, 0, len(records))
	for _, r := range records {
		stops = append(stops, domain.Stop{Location: r.Location, Reason: domain.DutyReason(r.Reason)})
	}
	return stops, nil
}

func encodeRoutePath(path [][2]float64) ([]byte, error) {
	if path == nil {
		path = [][2]float64{}
	}

	b, err := json.Marshal(path)
	if err != nil {
		return nil, fmt.Errorf("encode route path: %w", err)
	}
	return b, nil
}

func decodeRoutePath(raw []byte) ([][2]float64, error) {
	path := [][2]float64{}
	if err := json.Unmarshal(raw, &path); err != nil {
		return nil, fmt.Errorf("decode route path: %w", err)
	}
	return path, nil
}
