package simulation

import (
	"math"
	"sort"
)

// Observation is a single dated depth reading in meters below ground level.
type Observation struct {
	Date  Date    `json:"date" yaml:"date"`
	Depth float64 `json:"depth" yaml:"depth"`
}

// Interpolate estimates the depth at target from a set of readings.
//
// Readings may be unsorted. Between two readings the depth is linear in time;
// outside the observed range the nearest reading is carried flat. When several
// readings share a date the one appearing later in the input wins. The result
// is rounded to two decimals, or nil when there are no readings.
func Interpolate(readings []Observation, target Date) *float64 {
	if len(readings) == 0 {
		return nil
	}

	sorted := sortedByDate(readings)

	var before, after *Observation
	for i := range sorted {
		obs := &sorted[i]
		if !obs.Date.After(target) {
			before = obs
		}
		if !obs.Date.Before(target) {
			if after == nil || obs.Date.Equal(after.Date) {
				after = obs
			}
		}
	}

	switch {
	case before == nil && after == nil:
		return nil
	case before == nil:
		return ptr(after.Depth)
	case after == nil:
		return ptr(before.Depth)
	}

	if before.Date.Equal(after.Date) || before.Date.Equal(target) {
		return ptr(before.Depth)
	}
	if after.Date.Equal(target) {
		return ptr(after.Depth)
	}

	ratio := target.DaysSince(before.Date) / after.Date.DaysSince(before.Date)
	depth := before.Depth + ratio*(after.Depth-before.Depth)
	return ptr(Round2(depth))
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func sortedByDate(readings []Observation) []Observation {
	out := make([]Observation, len(readings))
	copy(out, readings)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

func ptr(v float64) *float64 {
	return &v
}
