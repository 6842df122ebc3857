package http

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harshraj001/AquaVision/services/api/db"
	"github.com/harshraj001/AquaVision/services/api/simulation"
)

type snapshotQuery struct {
	Date     string `form:"date"`
	District string `form:"district"`
}

type seriesQuery struct {
	Date      string `form:"date"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	District  string `form:"district"`
}

// wellEstimate is a well's metadata with its estimate for the requested day.
type wellEstimate struct {
	simulation.Well
	Depth *float64 `json:"depth"`
	simulation.Classification
}

type snapshotResponse struct {
	StateCode     string                       `json:"stateCode"`
	StateName     string                       `json:"stateName"`
	MapCenter     simulation.Coordinates       `json:"mapCenter"`
	ZoomLevel     int                          `json:"zoomLevel"`
	Geology       *db.Geology                  `json:"geology"`
	Date          simulation.Date              `json:"date"`
	Wells         []wellEstimate               `json:"wells"`
	DistrictStats []simulation.DistrictSummary `json:"districtStats"`
	Summary       simulation.Summary           `json:"summary"`
}

type wellDateResponse struct {
	simulation.Well
	Date  simulation.Date `json:"date"`
	Depth *float64        `json:"depth"`
	simulation.Classification
	Readings []simulation.Observation `json:"readings"`
}

type wellSeriesResponse struct {
	simulation.Well
	TimeSeries []simulation.Point `json:"timeSeries"`
}

type districtSeriesResponse struct {
	StateCode  string             `json:"stateCode"`
	District   string             `json:"district,omitempty"`
	StartDate  simulation.Date    `json:"startDate"`
	EndDate    simulation.Date    `json:"endDate"`
	WellCount  int                `json:"wellCount"`
	TimeSeries []simulation.Point `json:"timeSeries"`
}

// handleSnapshot estimates every well of a state on one day
// GET /api/simulation/:stateCode?date=YYYY-MM-DD&district=
func (s *Server) handleSnapshot(c *gin.Context) {
	var q snapshotQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if q.Date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date parameter is required (YYYY-MM-DD)"})
		return
	}
	date, err := simulation.ParseDate(q.Date)
	if err != nil {
		s.abortWithError(c, err, "")
		return
	}

	stateCode := c.Param("stateCode")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	state, err := s.store.GetState(ctx, stateCode)
	if err != nil {
		s.abortWithError(c, err, "failed to load state")
		return
	}

	wells, err := s.store.FindWells(ctx, db.WellQuery{StateCode: stateCode, District: q.District})
	if err != nil {
		s.abortWithError(c, err, "failed to load wells")
		return
	}

	estimates := simulation.EstimateAll(wells, date)
	s.metrics.WellsEstimated.Add(float64(len(estimates)))

	items := make([]wellEstimate, len(wells))
	for i, w := range wells {
		w.Readings = nil
		items[i] = wellEstimate{
			Well:           w,
			Depth:          estimates[i].Depth,
			Classification: estimates[i].Classification,
		}
	}

	c.JSON(http.StatusOK, snapshotResponse{
		StateCode:     stateCode,
		StateName:     state.Name,
		MapCenter:     state.MapCenter,
		ZoomLevel:     state.ZoomLevel,
		Geology:       state.Geology,
		Date:          date,
		Wells:         items,
		DistrictStats: simulation.Aggregate(estimates),
		Summary:       simulation.Summarize(estimates),
	})
}

// handleWell returns one well's estimate on a day, or its daily series over a range
// GET /api/simulation/:stateCode/:wellId?date=YYYY-MM-DD
// GET /api/simulation/:stateCode/:wellId?startDate=YYYY-MM-DD&endDate=YYYY-MM-DD
func (s *Server) handleWell(c *gin.Context) {
	var q seriesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ranged := q.StartDate != "" || q.EndDate != ""
	if ranged && (q.StartDate == "" || q.EndDate == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "startDate and endDate must be given together"})
		return
	}
	if !ranged && q.Date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date parameter is required (YYYY-MM-DD)"})
		return
	}

	var date, start, end simulation.Date
	var err error
	if ranged {
		start, end, err = s.parseRange(q.StartDate, q.EndDate)
	} else {
		date, err = simulation.ParseDate(q.Date)
	}
	if err != nil {
		s.abortWithError(c, err, "")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	well, err := s.store.GetWell(ctx, c.Param("stateCode"), c.Param("wellId"))
	if err != nil {
		s.abortWithError(c, err, "failed to load well")
		return
	}

	if ranged {
		points := slices.Collect(simulation.WellSeries(*well, start, end))
		s.metrics.SeriesPoints.WithLabelValues("well").Add(float64(len(points)))

		meta := *well
		meta.Readings = nil
		c.JSON(http.StatusOK, wellSeriesResponse{Well: meta, TimeSeries: points})
		return
	}

	estimate := well.Estimate(date)
	s.metrics.WellsEstimated.Inc()

	readings := well.Readings
	if readings == nil {
		readings = []simulation.Observation{}
	}
	c.JSON(http.StatusOK, wellDateResponse{
		Well:           *well,
		Date:           date,
		Depth:          estimate.Depth,
		Classification: estimate.Classification,
		Readings:       readings,
	})
}

// handleDateRange returns the earliest and latest reading dates of a state
// GET /api/simulation/:stateCode/daterange
func (s *Server) handleDateRange(c *gin.Context) {
	stateCode := c.Param("stateCode")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	dr, err := s.store.ReadingDateRange(ctx, stateCode)
	if err != nil {
		s.abortWithError(c, err, "failed to load date range")
		return
	}
	if dr.WellCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no wells found for this state"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stateCode": stateCode,
		"minDate":   dr.Min,
		"maxDate":   dr.Max,
	})
}

// handleDistrictSeries returns the district-average hydrograph over a range,
// defaulting to the state's full reading range
// GET /api/simulation/:stateCode/timeseries?startDate=&endDate=&district=
func (s *Server) handleDistrictSeries(c *gin.Context) {
	var q seriesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stateCode := c.Param("stateCode")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	if _, err := s.store.GetState(ctx, stateCode); err != nil {
		s.abortWithError(c, err, "failed to load state")
		return
	}

	startRaw, endRaw := q.StartDate, q.EndDate
	if startRaw == "" || endRaw == "" {
		dr, err := s.store.ReadingDateRange(ctx, stateCode)
		if err != nil {
			s.abortWithError(c, err, "failed to load date range")
			return
		}
		if dr.Min == nil || dr.Max == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no readings found for this state"})
			return
		}
		if startRaw == "" {
			startRaw = dr.Min.String()
		}
		if endRaw == "" {
			endRaw = dr.Max.String()
		}
	}

	start, err := simulation.ParseDate(startRaw)
	if err != nil {
		s.abortWithError(c, err, "")
		return
	}
	end, err := simulation.ParseDate(endRaw)
	if err != nil {
		s.abortWithError(c, err, "")
		return
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endDate must not be before startDate"})
		return
	}

	wells, err := s.store.FindWells(ctx, db.WellQuery{StateCode: stateCode, District: q.District})
	if err != nil {
		s.abortWithError(c, err, "failed to load wells")
		return
	}

	points := slices.Collect(simulation.DistrictSeries(wells, start, end))
	s.metrics.SeriesPoints.WithLabelValues("district").Add(float64(len(points)))

	c.JSON(http.StatusOK, districtSeriesResponse{
		StateCode:  stateCode,
		District:   q.District,
		StartDate:  start,
		EndDate:    end,
		WellCount:  len(wells),
		TimeSeries: points,
	})
}

// parseRange validates a daily series range against the configured cap.
func (s *Server) parseRange(startRaw, endRaw string) (simulation.Date, simulation.Date, error) {
	start, err := simulation.ParseDate(startRaw)
	if err != nil {
		return start, start, err
	}
	end, err := simulation.ParseDate(endRaw)
	if err != nil {
		return start, end, err
	}
	if end.Before(start) {
		return start, end, fmt.Errorf("%w: endDate %s is before startDate %s", simulation.ErrInvalidDate, end, start)
	}
	if limit := s.cfg.MaxSeriesDays; limit > 0 && int(end.DaysSince(start))+1 > limit {
		return start, end, fmt.Errorf("%w: range spans more than %d days", simulation.ErrInvalidDate, limit)
	}
	return start, end, nil
}
