package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hos-trip-planner/internal/domain"
	"hos-trip-planner/internal/platform/obs"
	"hos-trip-planner/internal/ports"
	"time"

	"github.com/google/uuid"
)

// SQLite-backed implementation of the TripRepository port.
type SqliteTripRepository struct{ DB *sql.DB }

func NewSqliteTripRepository(db *sql.DB) *SqliteTripRepository {
	return &SqliteTripRepository{DB: db}
}

// Store a trip and its duty log in a single transaction.
func (s *SqliteTripRepository) SaveTrip(ctx context.Context, trip *domain.TripPlan) (err error) {
	defer obs.Time(ctx, "trips.sqlite.SaveTrip")(&err)

	if s.DB == nil {
		return errors.New("sqlite trip repository: DB is nil")
	}
	if trip == nil {
		return errors.New("save trip: trip is nil")
	}

	path, err := encodeRoutePath(trip.RoutePath)
	if err != nil {
		return fmt.Errorf("save trip: %w", err)
	}
	stops, err := encodeStops(trip.Stops)
	if err != nil {
		return fmt.Errorf("save trip: %w", err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save trip: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insertTrip := `
	INSERT INTO trips (
		id,
		created_at,
		current_location,
		pickup_location,
		dropoff_location,
		total_distance,
		pickup_leg_distance,
		cycle_hours_used,
		route_path_json,
		stops_json
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	_, err = tx.ExecContext(ctx, insertTrip,
		trip.ID.String(),
		trip.CreatedAt.UTC().Format(timeLayout),
		trip.CurrentLocation,
		trip.PickupLocation,
		trip.DropoffLocation,
		trip.Params.TotalDistance,
		trip.Params.PickupLegDistance,
		trip.Params.InitialCycleHoursUsed,
		string(path),
		string(stops),
	)
	if err != nil {
		return fmt.Errorf("save trip: insert trip %s: %w", trip.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO trip_events (
		trip_id,
		seq,
		day,
		status,
		start_hours,
		duration_hours,
		reason
	)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("save trip: prepare event insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range trip.Events {
		if _, err := stmt.ExecContext(ctx, trip.ID.String(), i, e.Day, e.Status.String(), e.Start, e.Duration, string(e.Reason)); err != nil {
			return fmt.Errorf("save trip: insert event #%d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save trip: commit tx: %w", err)
	}

	return nil
}

// Return one trip with its duty log.
func (s *SqliteTripRepository) GetTrip(ctx context.Context, id uuid.UUID) (_ *domain.TripPlan, err error) {
	defer obs.Time(ctx, "trips.sqlite.GetTrip")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite trip repository: DB is nil")
	}

	query := tripSelect + `
	WHERE id = ?;
	`
	trip, err := scanTrip(s.DB.QueryRowContext(ctx, query, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get trip %s: %w", id, ports.ErrTripNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get trip %s: %w", id, err)
	}

	if trip.Events, err = s.listEvents(ctx, id); err != nil {
		return nil, fmt.Errorf("get trip %s: %w", id, err)
	}

	return trip, nil
}

// Return the most recent trips, newest first.
func (s *SqliteTripRepository) ListTrips(ctx context.Context, limit int) (_ []*domain.TripPlan, err error) {
	defer obs.Time(ctx, "trips.sqlite.ListTrips")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite trip repository: DB is nil")
	}
	if limit <= 0 {
		limit = 20
	}

	query := tripSelect + `
	ORDER BY created_at DESC
	LIMIT ?;
	`
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list trips: query trips table: %w", err)
	}
	defer rows.Close()

	trips := make([]*domain.TripPlan, 0, limit)
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("list trips: scan row: %w", err)
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list trips: row iteration: %w", err)
	}

	for _, trip := range trips {
		if trip.Events, err = s.listEvents(ctx, trip.ID); err != nil {
			return nil, fmt.Errorf("list trips: %w", err)
		}
	}

	return trips, nil
}

const tripSelect = `
	SELECT
		id,
		created_at,
		current_location,
		pickup_location,
		dropoff_location,
		total_distance,
		pickup_leg_distance,
		cycle_hours_used,
		route_path_json,
		stops_json
	FROM trips`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (*domain.TripPlan, error) {
	var (
		rawID, createdAt, path, stops string
		trip                          domain.TripPlan
	)

	err := row.Scan(
		&rawID,
		&createdAt,
		&trip.CurrentLocation,
		&trip.PickupLocation,
		&trip.DropoffLocation,
		&trip.Params.TotalDistance,
		&trip.Params.PickupLegDistance,
		&trip.Params.InitialCycleHoursUsed,
		&path,
		&stops,
	)
	if err != nil {
		return nil, err
	}

	if trip.ID, err = uuid.Parse(rawID); err != nil {
		return nil, fmt.Errorf("parse trip id %q: %w", rawID, err)
	}
	if trip.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	if trip.RoutePath, err = decodeRoutePath([]byte(path)); err != nil {
		return nil, err
	}
	if trip.Stops, err = decodeStops([]byte(stops)); err != nil {
		return nil, err
	}

	return &trip, nil
}

func (s *SqliteTripRepository) listEvents(ctx context.Context, id uuid.UUID) ([]domain.DutyEvent, error) {
	query := `
	SELECT
		day,
		status,
		start_hours,
		duration_hours,
		reason
	FROM trip_events
	WHERE trip_id = ?
	ORDER BY seq;
	`
	rows, err := s.DB.QueryContext(ctx, query, id.String())
	if err != nil {
		return nil, fmt.Errorf("list events: query trip_events table: %w", err)
	}
	defer rows.Close()

	events := make([]domain.DutyEvent, 0, 64)
	for rows.Next() {
		var (
			e      domain.DutyEvent
			status string
			reason string
		)
		if err := rows.Scan(&e.Day, &status, &e.Start, &e.Duration, &reason); err != nil {
			return nil, fmt.Errorf("list events: scan row: %w", err)
		}
		if e.Status, err = domain.ParseDutyStatus(status); err != nil {
			return nil, fmt.Errorf("list events: %w", err)
		}
		e.Reason = domain.DutyReason(reason)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: row iteration: %w", err)
	}

	return events, nil
}
