package utils

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/harshraj001/AquaVision/services/api/simulation"
	"github.com/harshraj001/AquaVision/services/importer/internal/models"
)

// jitterSpan is the full width in degrees of the box wells are spread over
// around their district centre (about 15 km either way).
const jitterSpan = 0.3

var titleCaser = cases.Title(language.English)

// TitleCase normalises yearbook district names ("FATEHGARH SAHIB" -> "Fatehgarh Sahib").
func TitleCase(s string) string {
	return titleCaser.String(strings.ToLower(strings.Join(strings.Fields(s), " ")))
}

// WellID builds "<PB>-<DIS>-<NNN>" from a state code like "IN-PB", the
// district and a one-based row number.
func WellID(stateCode, district string, row int) string {
	state := stateCode
	if i := strings.LastIndex(stateCode, "-"); i >= 0 {
		state = stateCode[i+1:]
	}
	abbr := strings.ToUpper(strings.ReplaceAll(district, " ", ""))
	if len(abbr) > 3 {
		abbr = abbr[:3]
	}
	return fmt.Sprintf("%s-%s-%03d", strings.ToUpper(state), abbr, row)
}

// CriticalDepth is 1.5 times the mean reading rounded to whole metres, and
// never shallower than the default critical depth.
func CriticalDepth(readings []simulation.Observation) float64 {
	if len(readings) == 0 {
		return simulation.DefaultCriticalDepth
	}
	var sum float64
	for _, r := range readings {
		sum += r.Depth
	}
	return max(simulation.DefaultCriticalDepth, math.Round(sum/float64(len(readings))*1.5))
}

// Jitter offsets center uniformly within the jitter box.
func Jitter(center simulation.Coordinates, rng *rand.Rand) simulation.Coordinates {
	return simulation.Coordinates{
		Lat: center.Lat + (rng.Float64()-0.5)*jitterSpan,
		Lng: center.Lng + (rng.Float64()-0.5)*jitterSpan,
	}
}

// BuildWells converts yearbook rows into wells of stateCode. Rows without any
// reading are skipped and returned by well name.
func BuildWells(records []models.CSVRecord, stateCode string, rng *rand.Rand) ([]simulation.Well, []string) {
	wells := make([]simulation.Well, 0, len(records))
	var skipped []string
	for _, rec := range records {
		if len(rec.Readings) == 0 {
			skipped = append(skipped, rec.WellName)
			continue
		}
		district := strings.ToUpper(strings.Join(strings.Fields(rec.District), " "))
		wells = append(wells, simulation.Well{
			ID:            WellID(stateCode, district, rec.Row),
			StateCode:     stateCode,
			District:      TitleCase(district),
			Block:         rec.WellName,
			Coordinates:   Jitter(DistrictCenter(district), rng),
			SoilProfile:   SoilProfile(district),
			CriticalDepth: CriticalDepth(rec.Readings),
			Readings:      rec.Readings,
		})
	}
	return wells, skipped
}

// Districts returns the distinct districts of wells in first-seen order.
func Districts(wells []simulation.Well) []string {
	seen := make(map[string]bool)
	var out []string
	for _, w := range wells {
		if !seen[w.District] {
			seen[w.District] = true
			out = append(out, w.District)
		}
	}
	return out
}

// ReadingCount sums the readings of wells for logging.
func ReadingCount(wells []simulation.Well) int {
	var n int
	for _, w := range wells {
		n += len(w.Readings)
	}
	return n
}
