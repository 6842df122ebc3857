package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a state or well does not exist.
var ErrNotFound = errors.New("not found")

// Store wraps database access helpers.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store backed by a pgx pool.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Pool exposes the underlying pool for batch writers.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Schema creates the aquavision tables when missing.
const Schema = `
CREATE SCHEMA IF NOT EXISTS aquavision;

CREATE TABLE IF NOT EXISTS aquavision.states (
    state_code     TEXT PRIMARY KEY,
    name           TEXT NOT NULL,
    map_lat        DOUBLE PRECISION NOT NULL,
    map_lng        DOUBLE PRECISION NOT NULL,
    zoom_level     INTEGER NOT NULL DEFAULT 8,
    dominant_soil  TEXT,
    geology_note   TEXT,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS aquavision.wells (
    well_id        TEXT PRIMARY KEY,
    state_code     TEXT NOT NULL REFERENCES aquavision.states(state_code),
    district       TEXT NOT NULL,
    block          TEXT,
    lat            DOUBLE PRECISION NOT NULL,
    lng            DOUBLE PRECISION NOT NULL,
    soil_profile   TEXT[] NOT NULL DEFAULT ARRAY['Topsoil','Sand','Clay'],
    critical_depth DOUBLE PRECISION NOT NULL DEFAULT 40 CHECK (critical_depth > 0),
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS wells_state_district_idx ON aquavision.wells (state_code, district);

CREATE TABLE IF NOT EXISTS aquavision.readings (
    seq            BIGSERIAL PRIMARY KEY,
    well_id        TEXT NOT NULL REFERENCES aquavision.wells(well_id) ON DELETE CASCADE,
    reading_date   DATE NOT NULL,
    depth_mbgl     DOUBLE PRECISION NOT NULL CHECK (depth_mbgl >= 0)
);

CREATE INDEX IF NOT EXISTS readings_well_date_idx ON aquavision.readings (well_id, reading_date);
`

// Migrate applies Schema.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func notFound(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}
