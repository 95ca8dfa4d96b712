package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres database schema.
func InitPostgresSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init postgres schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init postgres schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`
		CREATE TABLE IF NOT EXISTS trips (
			id UUID PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL,
			current_location TEXT NOT NULL,
			pickup_location TEXT NOT NULL,
			dropoff_location TEXT NOT NULL,
			total_distance DOUBLE PRECISION NOT NULL,
			pickup_leg_distance DOUBLE PRECISION NOT NULL,
			cycle_hours_used DOUBLE PRECISION NOT NULL,
			route_path JSONB NOT NULL,
			stops JSONB NOT NULL
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS trip_events (
			trip_id UUID NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			day INTEGER NOT NULL,
			status TEXT NOT NULL,
			start_hours DOUBLE PRECISION NOT NULL,
			duration_hours DOUBLE PRECISION NOT NULL,
			reason TEXT NOT NULL,
			PRIMARY KEY (trip_id, seq)
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS route_cache (
			origin TEXT NOT NULL,
			destination TEXT NOT NULL,
			distance_miles DOUBLE PRECISION NOT NULL,
			shape_json TEXT NOT NULL,
			PRIMARY KEY (origin, destination)
		);
		`,
		`CREATE INDEX IF NOT EXISTS idx_trips_created_at ON trips(created_at DESC);`,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init postgres schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init postgres schema: commit tx: %w", err)
	}

	return nil
}
