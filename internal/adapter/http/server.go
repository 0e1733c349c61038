// Package http exposes the service's REST API plus health, readiness,
// and metrics endpoints.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/disaster-alert-service/internal/analysis"
	"github.com/couchcryptid/disaster-alert-service/internal/domain"
)

// Enqueuer submits reports for background analysis and reports pool
// readiness.
type Enqueuer interface {
	Enqueue(reportID string) (<-chan analysis.Outcome, error)
	CheckReadiness(ctx context.Context) error
}

// Server exposes the report and alert API over HTTP.
type Server struct {
	httpServer *http.Server
	reports    domain.ReportStore
	alerts     domain.AlertStore
	queue      Enqueuer
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the API routes mounted.
func NewServer(addr string, reports domain.ReportStore, alerts domain.AlertStore, queue Enqueuer, logger *slog.Logger) *Server {
	s := &Server{
		reports: reports,
		alerts:  alerts,
		queue:   queue,
		logger:  logger,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", s.handleHealth)
	router.GET("/readyz", s.handleReady)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.POST("/reports", s.handleCreateReport)
		api.GET("/reports", s.handleListReports)
		api.GET("/reports/:id", s.handleGetReport)
		api.POST("/reports/:id/analyze", s.handleAnalyzeReport)
		api.GET("/alerts", s.handleListAlerts)
		api.GET("/alerts/:id", s.handleGetAlert)
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) handleReady(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.queue.CheckReadiness(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

type createReportRequest struct {
	Text   string   `json:"text" binding:"required"`
	Lat    *float64 `json:"lat" binding:"required"`
	Lon    *float64 `json:"lon" binding:"required"`
	Source string   `json:"source"`
}

// handleCreateReport persists the report and queues it for analysis. The
// response is 202: analysis completes in the background and the alert
// appears under /api/v1/alerts once done.
func (s *Server) handleCreateReport(c *gin.Context) {
	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if *req.Lat < -90 || *req.Lat > 90 || *req.Lon < -180 || *req.Lon > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "coordinates out of range"})
		return
	}

	report, err := s.reports.CreateReport(c.Request.Context(), req.Text, *req.Lat, *req.Lon, req.Source)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store report"})
		return
	}

	queued := true
	if _, err := s.queue.Enqueue(report.ID); err != nil {
		// The report is stored either way; the sweep job picks up
		// anything the queue could not take.
		s.logger.Warn("enqueue failed, deferring to sweep", "report_id", report.ID, "error", err)
		queued = false
	}

	c.JSON(http.StatusAccepted, gin.H{"report": report, "queued": queued})
}

func (s *Server) handleListReports(c *gin.Context) {
	reports, err := s.reports.ListReports(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reports"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports, "count": len(reports)})
}

func (s *Server) handleGetReport(c *gin.Context) {
	report, err := s.reports.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrReportNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load report"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// handleAnalyzeReport re-queues an existing report, waits for the outcome,
// and returns the resulting alert. Unlike submission this endpoint is
// synchronous, for operators re-running an analysis by hand.
func (s *Server) handleAnalyzeReport(c *gin.Context) {
	id := c.Param("id")
	if _, err := s.reports.GetReport(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrReportNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load report"})
		return
	}

	done, err := s.queue.Enqueue(id)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analysis queue is full, try again later"})
		return
	}

	select {
	case outcome := <-done:
		if outcome.Err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
			return
		}
		c.JSON(http.StatusOK, outcome.Alert)
	case <-c.Request.Context().Done():
		c.Status(http.StatusRequestTimeout)
	}
}

func (s *Server) handleListAlerts(c *gin.Context) {
	filter, err := parseAlertFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	alerts, err := s.alerts.ListAlerts(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list alerts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts, "count": len(alerts)})
}

func (s *Server) handleGetAlert(c *gin.Context) {
	alert, err := s.alerts.GetAlert(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrAlertNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load alert"})
		return
	}
	c.JSON(http.StatusOK, alert)
}

func parseAlertFilter(c *gin.Context) (domain.AlertFilter, error) {
	var filter domain.AlertFilter

	if raw := c.Query("type"); raw != "" {
		dt := domain.DisasterType(raw)
		if !dt.Valid() {
			return filter, errors.New("unknown disaster type: " + raw)
		}
		filter.Type = dt
	}
	if raw := c.Query("min_severity"); raw != "" {
		min, err := strconv.Atoi(raw)
		if err != nil || min < 0 || min > 100 {
			return filter, errors.New("min_severity must be an integer between 0 and 100")
		}
		filter.MinSeverity = min
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return filter, errors.New("limit must be a positive integer")
		}
		filter.Limit = limit
	}
	return filter, nil
}
