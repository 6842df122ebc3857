package utils

import (
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshraj001/AquaVision/services/api/simulation"
	"github.com/harshraj001/AquaVision/services/importer/internal/models"
)

const yearbookCSV = `S.No,State,District,Block,Well Name,"Jun, 2023 (m bgl)","Aug, 2023 (m bgl)","Nov, 2023 (m bgl)","Jan, 2024 (m bgl)"
1,PUNJAB,LUDHIANA,Khanna,Khanna-1,22.5,18.2,20.1,23
2,PUNJAB,FATEHGARH SAHIB,Sirhind,Sirhind,,, ,
3,PUNJAB,,Somewhere,Orphan,10,11,12,13
4,PUNJAB,BATHINDA,Rampura,Rampura Phul,35.4,n/a,36,
`

func TestReadCGWB(t *testing.T) {
	records, err := ReadCGWB(strings.NewReader(yearbookCSV))
	require.NoError(t, err)
	require.Len(t, records, 3, "row without district is dropped")

	lud := records[0]
	assert.Equal(t, 1, lud.Row)
	assert.Equal(t, "LUDHIANA", lud.District)
	assert.Equal(t, "Khanna-1", lud.WellName)
	require.Len(t, lud.Readings, 4)
	assert.Equal(t, "2023-06-01", lud.Readings[0].Date.String())
	assert.Equal(t, 22.5, lud.Readings[0].Depth)
	assert.Equal(t, "2024-01-01", lud.Readings[3].Date.String())

	assert.Empty(t, records[1].Readings)

	bat := records[2]
	assert.Equal(t, 4, bat.Row)
	require.Len(t, bat.Readings, 2, "non-numeric and blank cells are skipped")
	assert.Equal(t, "2023-11-01", bat.Readings[1].Date.String())
}

func TestReadCGWB_ColumnsOutOfOrder(t *testing.T) {
	csv := "District,Well Name,\"Nov, 2023 (m bgl)\",\"Jun, 2023 (m bgl)\"\nMOGA,Moga-1,30,25\n"
	records, err := ReadCGWB(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 25.0, records[0].Readings[0].Depth)
	assert.Equal(t, 30.0, records[0].Readings[1].Depth)
}

func TestReadCGWB_BadHeader(t *testing.T) {
	_, err := ReadCGWB(strings.NewReader("District,Block\nMOGA,Moga\n"))
	assert.ErrorContains(t, err, "Well Name")

	_, err = ReadCGWB(strings.NewReader("District,Well Name,Depth\nMOGA,Moga,3\n"))
	assert.ErrorContains(t, err, "reading columns")
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Fatehgarh Sahib", TitleCase("FATEHGARH SAHIB"))
	assert.Equal(t, "Sas Nagar", TitleCase("SAS  NAGAR"))
	assert.Equal(t, "Ludhiana", TitleCase("ludhiana"))
}

func TestWellID(t *testing.T) {
	assert.Equal(t, "PB-LUD-001", WellID("IN-PB", "LUDHIANA", 1))
	assert.Equal(t, "PB-SAS-042", WellID("IN-PB", "SAS NAGAR", 42))
	assert.Equal(t, "RJ-AJ-120", WellID("in-rj", "Aj", 120))
}

func TestCriticalDepth(t *testing.T) {
	obs := func(depths ...float64) []simulation.Observation {
		out := make([]simulation.Observation, len(depths))
		for i, d := range depths {
			out[i] = simulation.Observation{Date: simulation.NewDate(2023, time.June, 1).AddDays(i), Depth: d}
		}
		return out
	}

	assert.Equal(t, 40.0, CriticalDepth(nil))
	assert.Equal(t, 40.0, CriticalDepth(obs(10, 12)), "shallow wells keep the default")
	assert.Equal(t, 54.0, CriticalDepth(obs(35, 37)))
	assert.Equal(t, 53.0, CriticalDepth(obs(35.2)), "52.8 rounds to 53")
}

func TestJitterStaysInBox(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	center := simulation.Coordinates{Lat: 30.9, Lng: 75.85}
	for range 200 {
		c := Jitter(center, rng)
		assert.InDelta(t, center.Lat, c.Lat, jitterSpan/2)
		assert.InDelta(t, center.Lng, c.Lng, jitterSpan/2)
	}
}

func TestBuildWells(t *testing.T) {
	records, err := ReadCGWB(strings.NewReader(yearbookCSV))
	require.NoError(t, err)

	wells, skipped := BuildWells(records, "IN-PB", rand.New(rand.NewPCG(1, 2)))
	assert.Equal(t, []string{"Sirhind"}, skipped)
	require.Len(t, wells, 2)

	lud := wells[0]
	assert.Equal(t, "PB-LUD-001", lud.ID)
	assert.Equal(t, "IN-PB", lud.StateCode)
	assert.Equal(t, "Ludhiana", lud.District)
	assert.Equal(t, "Khanna-1", lud.Block)
	assert.Equal(t, defaultSoilProfile, lud.SoilProfile)
	assert.Equal(t, 40.0, lud.CriticalDepth)
	assert.InDelta(t, 30.9010, lud.Coordinates.Lat, jitterSpan/2)

	bat := wells[1]
	assert.Equal(t, "PB-BAT-004", bat.ID)
	assert.Equal(t, []string{"Topsoil", "Fine Sand", "Coarse Sand", "Clay"}, bat.SoilProfile)
	assert.Equal(t, 54.0, bat.CriticalDepth, "mean 35.7 * 1.5 = 53.55")

	assert.Equal(t, []string{"Ludhiana", "Bathinda"}, Districts(wells))
	assert.Equal(t, 6, ReadingCount(wells))
}

func TestBuildWells_DeterministicForSeed(t *testing.T) {
	records := []models.CSVRecord{{Row: 1, District: "MOGA", WellName: "Moga-1", Readings: []simulation.Observation{{Depth: 12}}}}
	a, _ := BuildWells(records, "IN-PB", rand.New(rand.NewPCG(9, 9)))
	b, _ := BuildWells(records, "IN-PB", rand.New(rand.NewPCG(9, 9)))
	assert.Equal(t, a[0].Coordinates, b[0].Coordinates)
}

func TestRegions(t *testing.T) {
	assert.Equal(t, simulation.Coordinates{Lat: 30.6454, Lng: 76.3919}, DistrictCenter("Fatehgarh Sahib"))
	assert.Equal(t, fallbackCenter, DistrictCenter("Atlantis"))

	p := SoilProfile("Pathankot")
	assert.Equal(t, []string{"Topsoil", "Boulders", "Gravel", "Sand"}, p)
	p[0] = "mutated"
	assert.Equal(t, "Topsoil", SoilProfile("Pathankot")[0])

	st, ok := KnownState("IN-PB")
	require.True(t, ok)
	assert.Equal(t, "Punjab", st.Name)
	_, ok = KnownState("IN-XX")
	assert.False(t, ok)
}
