package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshraj001/AquaVision/services/api/config"
)

func TestSnapshot(t *testing.T) {
	ts := newTestServer(t, punjabFixture())
	w := ts.get("/api/simulation/IN-PB?date=2023-06-01")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		StateName string `json:"stateName"`
		Date      string `json:"date"`
		Geology   map[string]string
		Wells     []struct {
			WellID string   `json:"wellId"`
			Depth  *float64 `json:"depth"`
			Color  string   `json:"color"`
			Status string   `json:"status"`
		} `json:"wells"`
		DistrictStats []struct {
			District      string   `json:"district"`
			WellCount     int      `json:"wellCount"`
			AvgDepth      *float64 `json:"avgDepth"`
			CriticalCount int      `json:"criticalCount"`
			Status        string   `json:"status"`
		} `json:"districtStats"`
		Summary struct {
			TotalWells    int `json:"totalWells"`
			CriticalWells int `json:"criticalWells"`
			SafeWells     int `json:"safeWells"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, "Punjab", body.StateName)
	assert.Equal(t, "2023-06-01", body.Date)
	assert.Equal(t, "Alluvial", body.Geology["dominantSoil"])

	require.Len(t, body.Wells, 3)
	assert.Equal(t, 20.0, *body.Wells[0].Depth)
	assert.Equal(t, "amber", body.Wells[0].Color)
	assert.Equal(t, "safe", body.Wells[0].Status)
	assert.Equal(t, "red", body.Wells[1].Color)
	assert.Equal(t, "critical", body.Wells[1].Status)
	assert.Nil(t, body.Wells[2].Depth)
	assert.Equal(t, "gray", body.Wells[2].Color)
	assert.Equal(t, "unknown", body.Wells[2].Status)

	require.Len(t, body.DistrictStats, 2)
	lud := body.DistrictStats[0]
	assert.Equal(t, "Ludhiana", lud.District)
	assert.Equal(t, 2, lud.WellCount)
	assert.Equal(t, 32.5, *lud.AvgDepth)
	assert.Equal(t, 1, lud.CriticalCount)
	assert.Equal(t, "critical", lud.Status)
	amr := body.DistrictStats[1]
	assert.Nil(t, amr.AvgDepth)
	assert.Equal(t, "safe", amr.Status)

	assert.Equal(t, 3, body.Summary.TotalWells)
	assert.Equal(t, 1, body.Summary.CriticalWells)
	assert.Equal(t, 1, body.Summary.SafeWells)

	assert.Equal(t, 3.0, testutil.ToFloat64(ts.registry.WellsEstimated))
}

func TestSnapshot_WellsOmitReadings(t *testing.T) {
	ts := newTestServer(t, punjabFixture())
	w := ts.get("/api/simulation/IN-PB?date=2023-06-01")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Wells []map[string]any `json:"wells"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotContains(t, body.Wells[0], "readings")
	assert.Contains(t, body.Wells[0], "soilProfile")
	assert.Contains(t, body.Wells[0], "criticalDepth")
}

func TestSnapshot_DistrictFilter(t *testing.T) {
	ts := newTestServer(t, punjabFixture())
	w := ts.get("/api/simulation/IN-PB?date=2023-06-01&district=Amritsar")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w.Body.Bytes())
	assert.Len(t, body["wells"], 1)
	assert.Len(t, body["districtStats"], 1)
}

func TestSnapshot_Errors(t *testing.T) {
	ts := newTestServer(t, punjabFixture())

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"missing date", "/api/simulation/IN-PB", http.StatusBadRequest},
		{"malformed date", "/api/simulation/IN-PB?date=01-06-2023", http.StatusBadRequest},
		{"impossible date", "/api/simulation/IN-PB?date=2023-02-30", http.StatusBadRequest},
		{"unknown state", "/api/simulation/IN-XX?date=2023-06-01", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.get(tt.target)
			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, decode(t, w.Body.Bytes())["error"])
		})
	}
}

func TestSnapshot_StateWithoutWells(t *testing.T) {
	ts := newTestServer(t, punjabFixture())
	w := ts.get("/api/simulation/IN-RJ?date=2023-06-01")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w.Body.Bytes())
	assert.Equal(t, []any{}, body["wells"])
	assert.Equal(t, []any{}, body["districtStats"])
}

func TestWell_SingleDate(t *testing.T) {
	ts := newTestServer(t, punjabFixture())
	w := ts.get("/api/simulation/IN-PB/IN-PB-LUD-001?date=2023-08-16")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w.Body.Bytes())
	assert.Equal(t, "IN-PB-LUD-001", body["wellId"])
	assert.Equal(t, "2023-08-16", body["date"])
	assert.Equal(t, 29.93, body["depth"])
	assert.Equal(t, "amber", body["color"])
	assert.Equal(t, "safe", body["status"])
	assert.Len(t, body["readings"], 2)
}

func TestWell_SingleDateNoReadings(t *testing.T) {
	ts := newTestServer(t, punjabFixture())
	w := ts.get("/api/simulation/IN-PB/IN-PB-AMR-001?date=2023-08-16")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w.Body.Bytes())
	assert.Nil(t, body["depth"])
	assert.Equal(t, "unknown", body["status"])
	assert.Equal(t, []any{}, body["readings"])
}

func TestWell_Series(t *testing.T) {
	ts := newTestServer(t, punjabFixture())
	w := ts.get("/api/simulation/IN-PB/IN-PB-LUD-001?startDate=2023-05-31&endDate=2023-06-02")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		WellID     string `json:"wellId"`
		Readings   []any  `json:"readings"`
		TimeSeries []struct {
			Date   string   `json:"date"`
			Depth  *float64 `json:"depth"`
			Status string   `json:"status"`
		} `json:"timeSeries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, "IN-PB-LUD-001", body.WellID)
	assert.Nil(t, body.Readings)
	require.Len(t, body.TimeSeries, 3)
	assert.Equal(t, "2023-05-31", body.TimeSeries[0].Date)
	assert.Equal(t, 20.0, *body.TimeSeries[0].Depth)
	assert.Equal(t, "2023-06-02", body.TimeSeries[2].Date)

	assert.Equal(t, 3.0, testutil.ToFloat64(ts.registry.SeriesPoints.WithLabelValues("well")))
}

func TestWell_Errors(t *testing.T) {
	ts := newTestServer(t, punjabFixture(), func(c *config.Config) { c.MaxSeriesDays = 10 })

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"no parameters", "/api/simulation/IN-PB/IN-PB-LUD-001", http.StatusBadRequest},
		{"only start", "/api/simulation/IN-PB/IN-PB-LUD-001?startDate=2023-06-01", http.StatusBadRequest},
		{"bad date", "/api/simulation/IN-PB/IN-PB-LUD-001?date=2023-13-01", http.StatusBadRequest},
		{"reversed range", "/api/simulation/IN-PB/IN-PB-LUD-001?startDate=2023-06-05&endDate=2023-06-01", http.StatusBadRequest},
		{"range too long", "/api/simulation/IN-PB/IN-PB-LUD-001?startDate=2023-06-01&endDate=2023-06-11", http.StatusBadRequest},
		{"unknown well", "/api/simulation/IN-PB/IN-PB-XXX-001?date=2023-06-01", http.StatusNotFound},
		{"well of another state", "/api/simulation/IN-RJ/IN-PB-LUD-001?date=2023-06-01", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, ts.get(tt.target).Code)
		})
	}

	assert.Equal(t, http.StatusOK, ts.get("/api/simulation/IN-PB/IN-PB-LUD-001?startDate=2023-06-01&endDate=2023-06-10").Code)
}

func TestDateRange(t *testing.T) {
	ts := newTestServer(t, punjabFixture())

	w := ts.get("/api/simulation/IN-PB/daterange")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w.Body.Bytes())
	assert.Equal(t, "IN-PB", body["stateCode"])
	assert.Equal(t, "2023-06-01", body["minDate"])
	assert.Equal(t, "2023-11-01", body["maxDate"])

	assert.Equal(t, http.StatusNotFound, ts.get("/api/simulation/IN-RJ/daterange").Code)
}

func TestDistrictSeries_DefaultsToStateRange(t *testing.T) {
	ts := newTestServer(t, punjabFixture())
	w := ts.get("/api/simulation/IN-PB/timeseries?district=Ludhiana")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		StartDate  string `json:"startDate"`
		EndDate    string `json:"endDate"`
		WellCount  int    `json:"wellCount"`
		TimeSeries []struct {
			Date   string   `json:"date"`
			Depth  *float64 `json:"depth"`
			Color  string   `json:"color"`
			Status string   `json:"status"`
		} `json:"timeSeries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, "2023-06-01", body.StartDate)
	assert.Equal(t, "2023-11-01", body.EndDate)
	assert.Equal(t, 2, body.WellCount)
	require.Len(t, body.TimeSeries, 6)

	first := body.TimeSeries[0]
	assert.Equal(t, "2023-06-01", first.Date)
	assert.Equal(t, 32.5, *first.Depth)
	assert.Equal(t, "amber", first.Color)
	assert.Equal(t, "critical", first.Status)

	last := body.TimeSeries[5]
	assert.Equal(t, "2023-11-01", last.Date)
	assert.Equal(t, 42.5, *last.Depth)
	assert.Equal(t, "red", last.Color)
}

func TestDistrictSeries_ExplicitRange(t *testing.T) {
	ts := newTestServer(t, punjabFixture())
	w := ts.get("/api/simulation/IN-PB/timeseries?startDate=2023-06-01&endDate=2023-06-03&district=Amritsar")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		TimeSeries []map[string]any `json:"timeSeries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.TimeSeries, 3)
	for _, p := range body.TimeSeries {
		assert.Nil(t, p["depth"])
		assert.Equal(t, "unknown", p["status"])
	}
}

func TestDistrictSeries_Errors(t *testing.T) {
	ts := newTestServer(t, punjabFixture())

	assert.Equal(t, http.StatusNotFound, ts.get("/api/simulation/IN-XX/timeseries").Code)
	assert.Equal(t, http.StatusNotFound, ts.get("/api/simulation/IN-RJ/timeseries").Code)
	assert.Equal(t, http.StatusBadRequest, ts.get("/api/simulation/IN-PB/timeseries?startDate=2023-06-05&endDate=2023-06-01").Code)
	assert.Equal(t, http.StatusBadRequest, ts.get("/api/simulation/IN-PB/timeseries?startDate=june").Code)
}
