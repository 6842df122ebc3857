package simulation

// DistrictSummary holds the statistics of one district on one date.
type DistrictSummary struct {
	District      string   `json:"district"`
	WellCount     int      `json:"wellCount"`
	AvgDepth      *float64 `json:"avgDepth"`
	CriticalCount int      `json:"criticalCount"`
	Status        Status   `json:"status"`
}

// Summary counts wells across a whole snapshot.
type Summary struct {
	TotalWells    int `json:"totalWells"`
	CriticalWells int `json:"criticalWells"`
	SafeWells     int `json:"safeWells"`
}

// Aggregate groups estimates by district. Districts appear in the order they
// are first seen in estimates. An empty input yields an empty, non-nil slice.
func Aggregate(estimates []Estimate) []DistrictSummary {
	order := make([]string, 0)
	groups := make(map[string][]Estimate)
	for _, e := range estimates {
		if _, seen := groups[e.District]; !seen {
			order = append(order, e.District)
		}
		groups[e.District] = append(groups[e.District], e)
	}

	out := make([]DistrictSummary, 0, len(order))
	for _, name := range order {
		out = append(out, summarizeDistrict(name, groups[name]))
	}
	return out
}

func summarizeDistrict(name string, group []Estimate) DistrictSummary {
	s := DistrictSummary{
		District:  name,
		WellCount: len(group),
		AvgDepth:  meanDepth(group),
	}
	for _, e := range group {
		if e.Status == StatusCritical {
			s.CriticalCount++
		}
	}
	s.Status = districtStatus(s.CriticalCount, s.AvgDepth)
	return s
}

// districtStatus compares the mean directly against the warning breakpoint
// because critical thresholds can differ between wells of one district.
func districtStatus(criticalCount int, avgDepth *float64) Status {
	switch {
	case criticalCount > 0:
		return StatusCritical
	case avgDepth != nil && *avgDepth > warningFromDepth:
		return StatusWarning
	default:
		return StatusSafe
	}
}

// meanDepth averages non-nil depths, rounded to two decimals.
func meanDepth(estimates []Estimate) *float64 {
	var sum float64
	var n int
	for _, e := range estimates {
		if e.Depth == nil {
			continue
		}
		sum += *e.Depth
		n++
	}
	if n == 0 {
		return nil
	}
	return ptr(Round2(sum / float64(n)))
}

// Summarize counts total, critical and safe wells.
func Summarize(estimates []Estimate) Summary {
	s := Summary{TotalWells: len(estimates)}
	for _, e := range estimates {
		switch e.Status {
		case StatusCritical:
			s.CriticalWells++
		case StatusSafe:
			s.SafeWells++
		}
	}
	return s
}
