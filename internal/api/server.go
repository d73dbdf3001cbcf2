package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/triagestack/triage-engine/internal/config"
)

// Server wires the HTTP router around a TriageService.
type Server struct {
	logger  *slog.Logger
	service *TriageService
	cfg     config.ServerConfig
}

// NewServer constructs the HTTP server facade.
func NewServer(logger *slog.Logger, service *TriageService, cfg config.ServerConfig) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{logger: logger, service: service, cfg: cfg}
}

// Router builds the gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/health", s.handleHealth)
	router.GET("/ready", s.handleReady)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/analyze", s.handleAnalyze)
		v1.POST("/analyze/store", s.handleAnalyzeFromStore)
		v1.GET("/reports", s.handleListReports)
		v1.GET("/reports/:id", s.handleGetReport)
		v1.POST("/feedback", s.handleFeedback)
		v1.GET("/signatures", s.handleSignatures)
	}
	return router
}

// HTTPServer returns a configured http.Server for the router.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.Address,
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Debug("http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	}
}
