package repositories

import (
	"context"
	"errors"
	"fmt"
	"hos-trip-planner/internal/domain"
	"hos-trip-planner/internal/platform/obs"
	"hos-trip-planner/internal/ports"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres-backed implementation of the TripRepository port using a native pgx pool.
type PostgresTripRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresTripRepository(pool *pgxpool.Pool) *PostgresTripRepository {
	return &PostgresTripRepository{pool: pool}
}

// Store a trip and bulk-copy its duty log in a single transaction.
func (r *PostgresTripRepository) SaveTrip(ctx context.Context, trip *domain.TripPlan) (err error) {
	defer obs.Time(ctx, "trips.postgres.SaveTrip")(&err)

	if r.pool == nil {
		return errors.New("postgres trip repository: pool is nil")
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

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("save trip: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO trips (
			id, created_at, current_location, pickup_location, dropoff_location,
			total_distance, pickup_leg_distance, cycle_hours_used, route_path, stops
		)
		VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9::jsonb, $10::jsonb)
	`,
		trip.ID.String(),
		trip.CreatedAt.UTC(),
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

	rows := make([][]any, 0, len(trip.Events))
	for i, e := range trip.Events {
		rows = append(rows, []any{trip.ID, i, e.Day, e.Status.String(), e.Start, e.Duration, string(e.Reason)})
	}

	_, err = tx.CopyFrom(
		ctx,
		pgx.Identifier{"trip_events"},
		[]string{"trip_id", "seq", "day", "status", "start_hours", "duration_hours", "reason"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("save trip: copy %d events: %w", len(rows), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("save trip: commit tx: %w", err)
	}

	return nil
}

func (r *PostgresTripRepository) GetTrip(ctx context.Context, id uuid.UUID) (_ *domain.TripPlan, err error) {
	defer obs.Time(ctx, "trips.postgres.GetTrip")(&err)

	if r.pool == nil {
		return nil, errors.New("postgres trip repository: pool is nil")
	}

	trip, err := scanPostgresTrip(r.pool.QueryRow(ctx, postgresTripSelect+` WHERE id = $1::uuid`, id.String()))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get trip %s: %w", id, ports.ErrTripNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get trip %s: %w", id, err)
	}

	if trip.Events, err = r.listEvents(ctx, id); err != nil {
		return nil, fmt.Errorf("get trip %s: %w", id, err)
	}

	return trip, nil
}

func (r *PostgresTripRepository) ListTrips(ctx context.Context, limit int) (_ []*domain.TripPlan, err error) {
	defer obs.Time(ctx, "trips.postgres.ListTrips")(&err)

	if r.pool == nil {
		return nil, errors.New("postgres trip repository: pool is nil")
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.pool.Query(ctx, postgresTripSelect+` ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list trips: query trips table: %w", err)
	}
	defer rows.Close()

	trips := make([]*domain.TripPlan, 0, limit)
	for rows.Next() {
		trip, err := scanPostgresTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("list trips: scan row: %w", err)
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list trips: row iteration: %w", err)
	}

	for _, trip := range trips {
		if trip.Events, err = r.listEvents(ctx, trip.ID); err != nil {
			return nil, fmt.Errorf("list trips: %w", err)
		}
	}

	return trips, nil
}

const postgresTripSelect = `
	SELECT
		id::text,
		created_at,
		current_location,
		pickup_location,
		dropoff_location,
		total_distance,
		pickup_leg_distance,
		cycle_hours_used,
		route_path::text,
		stops::text
	FROM trips`

func scanPostgresTrip(row pgx.Row) (*domain.TripPlan, error) {
	var (
		rawID, path, stops string
		createdAt          time.Time
		trip               domain.TripPlan
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
	trip.CreatedAt = createdAt.UTC()
	if trip.RoutePath, err = decodeRoutePath([]byte(path)); err != nil {
		return nil, err
	}
	if trip.Stops, err = decodeStops([]byte(stops)); err != nil {
		return nil, err
	}

	return &trip, nil
}

func (r *PostgresTripRepository) listEvents(ctx context.Context, id uuid.UUID) ([]domain.DutyEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT day, status, start_hours, duration_hours, reason
		FROM trip_events
		WHERE trip_id = $1::uuid
		ORDER BY seq
	`, id.String())
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
