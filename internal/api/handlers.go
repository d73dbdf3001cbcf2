package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/triagestack/triage-engine/internal/engine"
	"github.com/triagestack/triage-engine/internal/models"
	"github.com/triagestack/triage-engine/internal/storage"
	"github.com/triagestack/triage-engine/internal/utils"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "triage-engine",
	})
}

func (s *Server) handleReady(c *gin.Context) {
	if err := s.service.StoreHealthy(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req engine.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if s.cfg.MaxBatchSize > 0 && len(req.Logs) > s.cfg.MaxBatchSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": "batch exceeds configured maximum",
			"max":   s.cfg.MaxBatchSize,
		})
		return
	}

	report, err := s.service.Analyze(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ReportError{
			Error:     "analysis failed: " + err.Error(),
			Timestamp: time.Now().UTC(),
		})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleAnalyzeFromStore(c *gin.Context) {
	if !s.service.HasLogSource() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "log store not configured"})
		return
	}

	since := time.Now().Add(-time.Hour).UTC()
	if v := c.Query("since"); v != "" {
		parsed, err := utils.ParseRFC3339(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid since parameter"})
			return
		}
		since = parsed
	}

	limit := s.cfg.MaxBatchSize
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit parameter"})
			return
		}
		limit = parsed
	}
	if s.cfg.MaxBatchSize > 0 && limit > s.cfg.MaxBatchSize {
		limit = s.cfg.MaxBatchSize
	}

	report, err := s.service.AnalyzeFromStore(c.Request.Context(), since, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ReportError{
			Error:     "analysis failed: " + err.Error(),
			Timestamp: time.Now().UTC(),
		})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleGetReport(c *gin.Context) {
	if !s.requireStore(c) {
		return
	}

	report, err := s.service.Report(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load report"})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleListReports(c *gin.Context) {
	if !s.requireStore(c) {
		return
	}

	req := models.ListReportsRequest{
		IncidentType: models.IncidentType(c.Query("incident_type")),
		Priority:     models.Priority(c.Query("priority")),
	}
	if v := c.Query("since"); v != "" {
		since, err := utils.ParseRFC3339(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid since parameter"})
			return
		}
		req.Since = since
	}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit parameter"})
			return
		}
		req.Limit = limit
	}

	summaries, err := s.service.Reports(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reports"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reports": summaries,
		"count":   len(summaries),
	})
}

func (s *Server) handleFeedback(c *gin.Context) {
	if !s.requireStore(c) {
		return
	}

	var fb models.Feedback
	if err := c.ShouldBindJSON(&fb); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if fb.ReportID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "report_id is required"})
		return
	}
	if fb.EffectivenessScore < 0 || fb.EffectivenessScore > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "effectiveness_score must be between 0 and 100"})
		return
	}
	if fb.SubmittedAt.IsZero() {
		fb.SubmittedAt = time.Now().UTC()
	}

	if err := s.service.SubmitFeedback(c.Request.Context(), fb); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record feedback"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "recorded"})
}

func (s *Server) handleSignatures(c *gin.Context) {
	if !s.requireStore(c) {
		return
	}

	since := time.Now().Add(-30 * 24 * time.Hour).UTC()
	if v := c.Query("since"); v != "" {
		parsed, err := utils.ParseRFC3339(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid since parameter"})
			return
		}
		since = parsed
	}

	mined, err := s.service.Signatures(c.Request.Context(), since, 500)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mine signatures"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"signatures": mined,
		"count":      len(mined),
	})
}

func (s *Server) requireStore(c *gin.Context) bool {
	if s.service.HasStore() {
		return true
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "report storage not configured"})
	return false
}
