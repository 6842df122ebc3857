package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harshraj001/AquaVision/services/api/db"
	"github.com/harshraj001/AquaVision/services/api/export"
)

type exportRequestBody struct {
	StateCode string `json:"stateCode"`
	District  string `json:"district"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

type exportStatusResponse struct {
	Valid     bool       `json:"valid"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	Message   string     `json:"message,omitempty"`
}

// handleExportRequest parks an export behind a token and mails the link
// POST /api/export/request
func (s *Server) handleExportRequest(c *gin.Context) {
	var body exportRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.metrics.ExportRequests.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	body.StateCode = strings.TrimSpace(body.StateCode)
	body.District = strings.TrimSpace(body.District)
	body.Name = strings.TrimSpace(body.Name)
	body.Email = strings.TrimSpace(body.Email)

	if body.StateCode == "" || body.Name == "" || body.Email == "" {
		s.metrics.ExportRequests.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "stateCode, name and email are required"})
		return
	}
	if !export.ValidEmail(body.Email) {
		s.metrics.ExportRequests.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email format"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	state, err := s.store.GetState(ctx, body.StateCode)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.metrics.ExportRequests.WithLabelValues("not_found").Inc()
		}
		s.abortWithError(c, err, "failed to load state")
		return
	}

	token, req := s.exports.Issue(export.Request{
		StateCode: body.StateCode,
		StateName: state.Name,
		District:  body.District,
		Name:      body.Name,
		Email:     body.Email,
	})
	s.metrics.ExportTokensActive.Set(float64(s.exports.Len()))

	err = s.mailer.SendExportLink(ctx, export.Link{
		To:        req.Email,
		Name:      req.Name,
		URL:       s.downloadURL(token),
		StateName: req.StateName,
		District:  req.District,
		ExpiresIn: req.ExpiresAt.Sub(req.CreatedAt),
		Generated: req.CreatedAt,
	})
	if err != nil {
		s.exports.Revoke(token)
		s.metrics.ExportTokensActive.Set(float64(s.exports.Len()))
		s.metrics.ExportRequests.WithLabelValues("mail_error").Inc()
		s.logger.Error("export mail failed", "state", req.StateCode, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process export request, please try again"})
		return
	}

	s.metrics.ExportRequests.WithLabelValues("accepted").Inc()
	s.logger.Info("export requested", "state", req.StateCode, "district", req.District, "expires_at", req.ExpiresAt)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Export request received. Check your email for the download link.",
	})
}

// handleExportDownload streams the CSV behind a token
// GET /api/export/download/:token
func (s *Server) handleExportDownload(c *gin.Context) {
	req, err := s.exports.Lookup(c.Param("token"))
	switch {
	case errors.Is(err, export.ErrTokenNotFound):
		s.metrics.ExportDownloads.WithLabelValues("not_found").Inc()
		c.JSON(http.StatusNotFound, gin.H{"error": "export not found or link expired"})
		return
	case errors.Is(err, export.ErrTokenExpired):
		s.metrics.ExportDownloads.WithLabelValues("expired").Inc()
		c.JSON(http.StatusGone, gin.H{"error": "export link has expired, please request a new export"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	wells, err := s.store.FindWells(ctx, db.WellQuery{StateCode: req.StateCode, District: req.District})
	if err != nil {
		s.abortWithError(c, err, "failed to generate export")
		return
	}
	if len(wells) == 0 {
		s.metrics.ExportDownloads.WithLabelValues("empty").Inc()
		c.JSON(http.StatusNotFound, gin.H{"error": "no data found for the specified criteria"})
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, req.StateCode, wells); err != nil {
		s.abortWithError(c, err, "failed to generate export")
		return
	}

	s.metrics.ExportDownloads.WithLabelValues("ok").Inc()
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(req.StateCode, req.District)))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// handleExportStatus reports whether a token can still be downloaded
// GET /api/export/status/:token
func (s *Server) handleExportStatus(c *gin.Context) {
	req, err := s.exports.Lookup(c.Param("token"))
	switch {
	case errors.Is(err, export.ErrTokenNotFound):
		c.JSON(http.StatusOK, exportStatusResponse{Message: "export not found"})
	case errors.Is(err, export.ErrTokenExpired):
		c.JSON(http.StatusOK, exportStatusResponse{Message: "export expired"})
	default:
		c.JSON(http.StatusOK, exportStatusResponse{Valid: true, ExpiresAt: &req.ExpiresAt})
	}
}

func (s *Server) downloadURL(token string) string {
	return strings.TrimRight(s.cfg.BaseURL, "/") + "/api/export/download/" + token
}
