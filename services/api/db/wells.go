package db

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/harshraj001/AquaVision/services/api/simulation"
)

// WellQuery holds filters for retrieving wells.
type WellQuery struct {
	StateCode string
	District  string
	Block     string
}

// DateRange is the span of reading dates within a state.
type DateRange struct {
	WellCount int              `json:"-"`
	Min       *simulation.Date `json:"minDate"`
	Max       *simulation.Date `json:"maxDate"`
}

const wellColumns = `w.well_id, w.state_code, w.district, w.block, w.lat, w.lng, w.soil_profile, w.critical_depth`

func buildWellQuery(q WellQuery) (string, []any) {
	conditions := []string{"w.state_code = $1"}
	args := []any{q.StateCode}

	if q.District != "" {
		args = append(args, q.District)
		conditions = append(conditions, "w.district = $"+strconv.Itoa(len(args)))
	}
	if q.Block != "" {
		args = append(args, q.Block)
		conditions = append(conditions, "w.block = $"+strconv.Itoa(len(args)))
	}

	sql := strings.Builder{}
	sql.WriteString("SELECT " + wellColumns + " ")
	sql.WriteString("FROM aquavision.wells w ")
	sql.WriteString("WHERE " + strings.Join(conditions, " AND ") + " ")
	sql.WriteString("ORDER BY w.district, w.well_id")
	return sql.String(), args
}

// ListWells returns well metadata without readings.
func (s *Store) ListWells(ctx context.Context, q WellQuery) ([]simulation.Well, error) {
	sql, args := buildWellQuery(q)
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	wells := make([]simulation.Well, 0)
	for rows.Next() {
		w, err := scanWell(rows)
		if err != nil {
			return nil, err
		}
		wells = append(wells, w)
	}
	return wells, rows.Err()
}

// FindWells returns matching wells with their readings populated.
func (s *Store) FindWells(ctx context.Context, q WellQuery) ([]simulation.Well, error) {
	wells, err := s.ListWells(ctx, q)
	if err != nil || len(wells) == 0 {
		return wells, err
	}

	ids := make([]string, 0, len(wells))
	for _, w := range wells {
		ids = append(ids, w.ID)
	}
	readings, err := s.readingsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range wells {
		wells[i].Readings = readings[wells[i].ID]
	}
	return wells, nil
}

const getWellSQL = `
    SELECT ` + wellColumns + `
    FROM aquavision.wells w
    WHERE w.state_code = $1 AND w.well_id = $2
`

// GetWell returns one well with readings, or ErrNotFound.
func (s *Store) GetWell(ctx context.Context, stateCode, wellID string) (*simulation.Well, error) {
	w, err := scanWell(s.pool.QueryRow(ctx, getWellSQL, stateCode, wellID))
	if err != nil {
		return nil, notFound(err, "well "+wellID)
	}

	readings, err := s.readingsFor(ctx, []string{w.ID})
	if err != nil {
		return nil, err
	}
	w.Readings = readings[w.ID]
	return &w, nil
}

// Readings keep insertion order (seq) within a date so the interpolator's
// later-wins tie-break sees the same order as the source data.
const readingsSQL = `
    SELECT well_id, reading_date, depth_mbgl
    FROM aquavision.readings
    WHERE well_id = ANY($1)
    ORDER BY well_id, reading_date, seq
`

func (s *Store) readingsFor(ctx context.Context, wellIDs []string) (map[string][]simulation.Observation, error) {
	rows, err := s.pool.Query(ctx, readingsSQL, wellIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]simulation.Observation, len(wellIDs))
	for rows.Next() {
		var wellID string
		var date time.Time
		var depth float64
		if err := rows.Scan(&wellID, &date, &depth); err != nil {
			return nil, err
		}
		out[wellID] = append(out[wellID], simulation.Observation{
			Date:  simulation.DateOf(date),
			Depth: depth,
		})
	}
	return out, rows.Err()
}

const dateRangeSQL = `
    SELECT COUNT(DISTINCT w.well_id), MIN(r.reading_date), MAX(r.reading_date)
    FROM aquavision.wells w
    LEFT JOIN aquavision.readings r ON r.well_id = w.well_id
    WHERE w.state_code = $1
`

// ReadingDateRange returns the earliest and latest reading date of a state.
func (s *Store) ReadingDateRange(ctx context.Context, stateCode string) (DateRange, error) {
	var out DateRange
	var minDate, maxDate *time.Time
	if err := s.pool.QueryRow(ctx, dateRangeSQL, stateCode).Scan(&out.WellCount, &minDate, &maxDate); err != nil {
		return DateRange{}, err
	}
	if minDate != nil {
		d := simulation.DateOf(*minDate)
		out.Min = &d
	}
	if maxDate != nil {
		d := simulation.DateOf(*maxDate)
		out.Max = &d
	}
	return out, nil
}

func scanWell(row rowScanner) (simulation.Well, error) {
	var w simulation.Well
	var block *string
	if err := row.Scan(
		&w.ID,
		&w.StateCode,
		&w.District,
		&block,
		&w.Coordinates.Lat,
		&w.Coordinates.Lng,
		&w.SoilProfile,
		&w.CriticalDepth,
	); err != nil {
		return simulation.Well{}, err
	}
	w.Block = deref(block)
	return w, nil
}
