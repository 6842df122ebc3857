package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/harshraj001/AquaVision/services/api/simulation"
)

var csvHeader = []string{
	"Well ID",
	"State",
	"District",
	"Block",
	"Latitude",
	"Longitude",
	"Critical Depth (m)",
	"Soil Profile",
	"Reading Dates",
	"Depth Readings (m)",
}

// WriteCSV writes one row per well with its raw readings.
func WriteCSV(w io.Writer, stateCode string, wells []simulation.Well) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, well := range wells {
		if err := cw.Write(csvRow(stateCode, well)); err != nil {
			return fmt.Errorf("write well %s: %w", well.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func csvRow(stateCode string, well simulation.Well) []string {
	dates := make([]string, 0, len(well.Readings))
	depths := make([]string, 0, len(well.Readings))
	for _, r := range well.Readings {
		dates = append(dates, r.Date.String())
		depths = append(depths, formatFloat(r.Depth))
	}

	critical := well.CriticalDepth
	if critical <= 0 {
		critical = simulation.DefaultCriticalDepth
	}

	return []string{
		well.ID,
		stateCode,
		well.District,
		well.Block,
		optionalCoordinate(well.Coordinates.Lat),
		optionalCoordinate(well.Coordinates.Lng),
		formatFloat(critical),
		strings.Join(well.SoilProfile, " > "),
		strings.Join(dates, "; "),
		strings.Join(depths, "; "),
	}
}

func optionalCoordinate(v float64) string {
	if v == 0 {
		return ""
	}
	return formatFloat(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var whitespace = regexp.MustCompile(`\s+`)

// Filename names the download for a state and optional district.
func Filename(stateCode, district string) string {
	if district == "" {
		return fmt.Sprintf("aquavision_%s_all_districts.csv", stateCode)
	}
	return fmt.Sprintf("aquavision_%s_%s.csv", stateCode, whitespace.ReplaceAllString(district, "_"))
}
