package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harshraj001/AquaVision/services/api/db"
)

type stateDetail struct {
	db.State
	Districts      []string            `json:"districts"`
	DistrictBlocks map[string][]string `json:"districtBlocks"`
}

// handleHealth reports liveness in the public API namespace
// GET /api/health
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"message":   "AquaVision API is running",
		"timestamp": s.clock.Now().UTC().Format(time.RFC3339),
	})
}

// handleListStates returns every configured state
// GET /api/states
func (s *Server) handleListStates(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	states, err := s.store.ListStates(ctx)
	if err != nil {
		s.abortWithError(c, err, "failed to list states")
		return
	}

	for i := range states {
		states[i].Geology = nil
	}
	c.JSON(http.StatusOK, states)
}

// handleGetState returns a state's configuration with its districts and blocks
// GET /api/states/:stateCode
func (s *Server) handleGetState(c *gin.Context) {
	stateCode := c.Param("stateCode")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	state, err := s.store.GetState(ctx, stateCode)
	if err != nil {
		s.abortWithError(c, err, "failed to load state")
		return
	}

	groups, err := s.store.ListDistrictBlocks(ctx, stateCode)
	if err != nil {
		s.abortWithError(c, err, "failed to list districts")
		return
	}

	detail := stateDetail{
		State:          *state,
		Districts:      make([]string, 0, len(groups)),
		DistrictBlocks: make(map[string][]string, len(groups)),
	}
	for _, g := range groups {
		detail.Districts = append(detail.Districts, g.District)
		blocks := g.Blocks
		if blocks == nil {
			blocks = []string{}
		}
		detail.DistrictBlocks[g.District] = blocks
	}

	c.JSON(http.StatusOK, detail)
}

type stateWellsQuery struct {
	District string `form:"district"`
	Block    string `form:"block"`
}

// handleListStateWells returns well metadata for a state
// GET /api/states/:stateCode/wells?district=
func (s *Server) handleListStateWells(c *gin.Context) {
	var q stateWellsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	wells, err := s.store.ListWells(ctx, db.WellQuery{
		StateCode: c.Param("stateCode"),
		District:  q.District,
		Block:     q.Block,
	})
	if err != nil {
		s.abortWithError(c, err, "failed to list wells")
		return
	}

	c.JSON(http.StatusOK, wells)
}
