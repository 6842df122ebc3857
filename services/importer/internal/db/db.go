package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harshraj001/AquaVision/services/api/simulation"
	"github.com/harshraj001/AquaVision/services/importer/internal/models"
)

// UpsertStates inserts/updates state configuration records.
func UpsertStates(ctx context.Context, pool *pgxpool.Pool, states []models.State) error {
	if len(states) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `INSERT INTO aquavision.states (state_code, name, map_lat, map_lng, zoom_level, dominant_soil, geology_note, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,NOW(),NOW())
ON CONFLICT (state_code) DO UPDATE
SET name = EXCLUDED.name,
    map_lat = EXCLUDED.map_lat,
    map_lng = EXCLUDED.map_lng,
    zoom_level = EXCLUDED.zoom_level,
    dominant_soil = EXCLUDED.dominant_soil,
    geology_note = EXCLUDED.geology_note,
    updated_at = NOW()`

	for _, s := range states {
		var soil, note *string
		if s.Geology != nil {
			soil, note = nullable(s.Geology.DominantSoil), nullable(s.Geology.Description)
		}
		batch.Queue(query, s.StateCode, s.Name, s.MapCenter.Lat, s.MapCenter.Lng, s.ZoomLevel, soil, note)
	}

	res := pool.SendBatch(ctx, batch)
	defer res.Close()

	for _, s := range states {
		if _, err := res.Exec(); err != nil {
			return fmt.Errorf("upsert state %s: %w", s.StateCode, err)
		}
	}

	return nil
}

// UpsertWells inserts/updates wells and replaces the readings of each one.
func UpsertWells(ctx context.Context, pool *pgxpool.Pool, wells []simulation.Well) error {
	if len(wells) == 0 {
		return nil
	}
	return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		return writeWells(ctx, tx, wells)
	})
}

// ReplaceStateWells deletes every well of stateCode and writes wells in its
// place, all in one transaction. Readings go with their wells via cascade.
func ReplaceStateWells(ctx context.Context, pool *pgxpool.Pool, stateCode string, wells []simulation.Well) (int64, error) {
	var removed int64
	err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM aquavision.wells WHERE state_code = $1`, stateCode)
		if err != nil {
			return fmt.Errorf("delete wells of %s: %w", stateCode, err)
		}
		removed = tag.RowsAffected()
		return writeWells(ctx, tx, wells)
	})
	return removed, err
}

const upsertWellSQL = `INSERT INTO aquavision.wells (well_id, state_code, district, block, lat, lng, soil_profile, critical_depth, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW(),NOW())
ON CONFLICT (well_id) DO UPDATE
SET state_code = EXCLUDED.state_code,
    district = EXCLUDED.district,
    block = EXCLUDED.block,
    lat = EXCLUDED.lat,
    lng = EXCLUDED.lng,
    soil_profile = EXCLUDED.soil_profile,
    critical_depth = EXCLUDED.critical_depth,
    updated_at = NOW()`

// writeWells queues well upserts, clears their old readings and inserts the
// new ones in input order so that seq preserves it.
func writeWells(ctx context.Context, tx pgx.Tx, wells []simulation.Well) error {
	if len(wells) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	ids := make([]string, 0, len(wells))
	for _, w := range wells {
		batch.Queue(upsertWellSQL, w.ID, w.StateCode, w.District, nullable(w.Block), w.Coordinates.Lat, w.Coordinates.Lng, w.SoilProfile, w.CriticalDepth)
		ids = append(ids, w.ID)
	}
	batch.Queue(`DELETE FROM aquavision.readings WHERE well_id = ANY($1)`, ids)

	readings := 0
	for _, w := range wells {
		for _, r := range w.Readings {
			batch.Queue(`INSERT INTO aquavision.readings (well_id, reading_date, depth_mbgl) VALUES ($1,$2,$3)`, w.ID, r.Date.Time, r.Depth)
			readings++
		}
	}

	res := tx.SendBatch(ctx, batch)
	defer res.Close()

	for i := 0; i < len(wells)+1+readings; i++ {
		if _, err := res.Exec(); err != nil {
			return fmt.Errorf("write wells (statement %d): %w", i, err)
		}
	}

	return res.Close()
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
