package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/harshraj001/AquaVision/services/api/simulation"
	"github.com/harshraj001/AquaVision/services/importer/internal/models"
)

// readingColumn matches yearbook headers such as "Nov, 2023 (m bgl)".
var readingColumn = regexp.MustCompile(`^([A-Za-z]{3}),\s*(\d{4})\s*\(m bgl\)$`)

type dateColumn struct {
	index int
	date  simulation.Date
}

// ReadCGWB parses a CGWB yearbook CSV. Every "<Mon>, <YYYY> (m bgl)" column
// becomes a reading dated the first of that month; blank or non-numeric cells
// are skipped. Rows without a district or well name are dropped.
func ReadCGWB(r io.Reader) ([]models.CSVRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	districtIdx, wellIdx := -1, -1
	var dates []dateColumn
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		switch {
		case strings.EqualFold(name, "District"):
			districtIdx = i
		case strings.EqualFold(name, "Well Name"):
			wellIdx = i
		default:
			if d, ok := parseReadingColumn(name); ok {
				dates = append(dates, dateColumn{index: i, date: d})
			}
		}
	}
	if districtIdx < 0 || wellIdx < 0 {
		return nil, errors.New(`header must contain "District" and "Well Name"`)
	}
	if len(dates) == 0 {
		return nil, errors.New(`header has no "<Mon>, <YYYY> (m bgl)" reading columns`)
	}
	sort.SliceStable(dates, func(i, j int) bool { return dates[i].date.Before(dates[j].date) })

	var records []models.CSVRecord
	for row := 1; ; row++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		rec := models.CSVRecord{
			Row:      row,
			District: cell(fields, districtIdx),
			WellName: cell(fields, wellIdx),
		}
		if rec.District == "" || rec.WellName == "" {
			continue
		}
		for _, col := range dates {
			depth, err := strconv.ParseFloat(cell(fields, col.index), 64)
			if err != nil || depth < 0 {
				continue
			}
			rec.Readings = append(rec.Readings, simulation.Observation{Date: col.date, Depth: depth})
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseReadingColumn(name string) (simulation.Date, bool) {
	m := readingColumn.FindStringSubmatch(name)
	if m == nil {
		return simulation.Date{}, false
	}
	t, err := time.Parse("Jan 2006", m[1]+" "+m[2])
	if err != nil {
		return simulation.Date{}, false
	}
	return simulation.DateOf(t), true
}

func cell(fields []string, i int) string {
	if i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}
