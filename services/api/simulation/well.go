// Package simulation estimates well depths on arbitrary dates from sparse
// readings and derives the classifications and district statistics shown on
// the dashboard.
package simulation

// Coordinates is a WGS84 position.
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Well is a monitoring well with its static metadata and readings.
type Well struct {
	ID            string        `json:"wellId" yaml:"wellId"`
	StateCode     string        `json:"stateCode" yaml:"stateCode"`
	District      string        `json:"district" yaml:"district"`
	Block         string        `json:"block,omitempty" yaml:"block"`
	Coordinates   Coordinates   `json:"coordinates" yaml:"coordinates"`
	SoilProfile   []string      `json:"soilProfile" yaml:"soilProfile"`
	CriticalDepth float64       `json:"criticalDepth" yaml:"criticalDepth"`
	Readings      []Observation `json:"readings,omitempty" yaml:"readings"`
}

// Estimate is the derived depth of one well on one day.
type Estimate struct {
	WellID   string   `json:"wellId"`
	District string   `json:"district"`
	Date     Date     `json:"date"`
	Depth    *float64 `json:"depth"`
	Classification
}

// Estimate interpolates and classifies the well's depth on date.
func (w Well) Estimate(date Date) Estimate {
	depth := Interpolate(w.Readings, date)
	return Estimate{
		WellID:         w.ID,
		District:       w.District,
		Date:           date,
		Depth:          depth,
		Classification: Classify(depth, w.CriticalDepth),
	}
}

// EstimateAll estimates every well on the same date, preserving order.
func EstimateAll(wells []Well, date Date) []Estimate {
	out := make([]Estimate, 0, len(wells))
	for _, w := range wells {
		out = append(out, w.Estimate(date))
	}
	return out
}
