package simulation

import (
	"iter"
	"math"
)

// District-average series use between minSamples and maxSamples dates, one
// per daysPerSample days of range.
const (
	minSamples    = 4
	maxSamples    = 8
	daysPerSample = 30
)

// Point is one entry of a hydrograph.
type Point struct {
	Date  Date     `json:"date"`
	Depth *float64 `json:"depth"`
	Classification
}

// WellSeries yields the well's estimate for every day from start to end
// inclusive. Nothing is yielded when end is before start.
func WellSeries(w Well, start, end Date) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for d := start; !d.After(end); d = d.AddDays(1) {
			e := w.Estimate(d)
			if !yield(Point{Date: d, Depth: e.Depth, Classification: e.Classification}) {
				return
			}
		}
	}
}

// DistrictSeries yields the mean depth of wells at each of SampleDates(start, end).
// The status of a point follows the district rule used by Aggregate; its
// color uses DefaultCriticalDepth. Points without any known depth are unknown.
func DistrictSeries(wells []Well, start, end Date) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for _, d := range SampleDates(start, end) {
			if !yield(districtPoint(wells, d)) {
				return
			}
		}
	}
}

func districtPoint(wells []Well, d Date) Point {
	estimates := EstimateAll(wells, d)
	avg := meanDepth(estimates)
	if avg == nil {
		return Point{Date: d, Classification: Classify(nil, DefaultCriticalDepth)}
	}

	var critical int
	for _, e := range estimates {
		if e.Status == StatusCritical {
			critical++
		}
	}
	return Point{
		Date:  d,
		Depth: avg,
		Classification: Classification{
			Color:  colorFor(*avg, DefaultCriticalDepth),
			Status: districtStatus(critical, avg),
		},
	}
}

// SampleDates spreads clamp(ceil(days/30), 4, 8) dates evenly from start to
// end inclusive. Results are strictly ascending; dates that collapse onto the
// same day over short ranges are emitted once.
func SampleDates(start, end Date) []Date {
	if end.Before(start) {
		return nil
	}
	totalDays := int(math.Round(end.DaysSince(start)))
	if totalDays == 0 {
		return []Date{start}
	}

	n := int(math.Ceil(float64(totalDays) / daysPerSample))
	n = max(minSamples, min(maxSamples, n))

	out := make([]Date, 0, n)
	for i := 0; i < n; i++ {
		d := start.AddDays(i * totalDays / (n - 1))
		if len(out) > 0 && !d.After(out[len(out)-1]) {
			continue
		}
		out = append(out, d)
	}
	return out
}
