package db

import (
	"context"

	"github.com/harshraj001/AquaVision/services/api/simulation"
)

// State is the configuration of one state partition.
type State struct {
	StateCode string                 `json:"stateCode"`
	Name      string                 `json:"name"`
	MapCenter simulation.Coordinates `json:"mapCenter"`
	ZoomLevel int                    `json:"zoomLevel"`
	Geology   *Geology               `json:"geology,omitempty"`
}

// Geology describes the dominant aquifer setting of a state.
type Geology struct {
	DominantSoil string `json:"dominantSoil,omitempty"`
	Description  string `json:"description,omitempty"`
}

// DistrictBlocks lists the distinct blocks of one district.
type DistrictBlocks struct {
	District string   `json:"district"`
	Blocks   []string `json:"blocks"`
}

const stateColumns = `state_code, name, map_lat, map_lng, zoom_level, dominant_soil, geology_note`

const listStatesSQL = `
    SELECT ` + stateColumns + `
    FROM aquavision.states
    ORDER BY name
`

// ListStates returns all configured states.
func (s *Store) ListStates(ctx context.Context) ([]State, error) {
	rows, err := s.pool.Query(ctx, listStatesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	states := make([]State, 0)
	for rows.Next() {
		st, err := scanState(rows)
		if err != nil {
			return nil, err
		}
		states = append(states, st)
	}
	return states, rows.Err()
}

const getStateSQL = `
    SELECT ` + stateColumns + `
    FROM aquavision.states
    WHERE state_code = $1
`

// GetState returns one state or ErrNotFound.
func (s *Store) GetState(ctx context.Context, stateCode string) (*State, error) {
	st, err := scanState(s.pool.QueryRow(ctx, getStateSQL, stateCode))
	if err != nil {
		return nil, notFound(err, "state "+stateCode)
	}
	return &st, nil
}

const districtBlocksSQL = `
    SELECT district,
           COALESCE(array_agg(DISTINCT block ORDER BY block) FILTER (WHERE block IS NOT NULL AND block <> ''), '{}')
    FROM aquavision.wells
    WHERE state_code = $1
    GROUP BY district
    ORDER BY district
`

// ListDistrictBlocks returns every district of a state with its blocks.
func (s *Store) ListDistrictBlocks(ctx context.Context, stateCode string) ([]DistrictBlocks, error) {
	rows, err := s.pool.Query(ctx, districtBlocksSQL, stateCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]DistrictBlocks, 0)
	for rows.Next() {
		var d DistrictBlocks
		if err := rows.Scan(&d.District, &d.Blocks); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanState(row rowScanner) (State, error) {
	var st State
	var soil, note *string
	if err := row.Scan(
		&st.StateCode,
		&st.Name,
		&st.MapCenter.Lat,
		&st.MapCenter.Lng,
		&st.ZoomLevel,
		&soil,
		&note,
	); err != nil {
		return State{}, err
	}
	if soil != nil || note != nil {
		st.Geology = &Geology{DominantSoil: deref(soil), Description: deref(note)}
	}
	return st, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
