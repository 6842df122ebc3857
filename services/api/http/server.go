package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/harshraj001/AquaVision/services/api/config"
	"github.com/harshraj001/AquaVision/services/api/db"
	"github.com/harshraj001/AquaVision/services/api/export"
	"github.com/harshraj001/AquaVision/services/api/observability"
	"github.com/harshraj001/AquaVision/services/api/simulation"
)

// Store is the read side of the database used by the handlers.
type Store interface {
	Ping(ctx context.Context) error
	ListStates(ctx context.Context) ([]db.State, error)
	GetState(ctx context.Context, stateCode string) (*db.State, error)
	ListDistrictBlocks(ctx context.Context, stateCode string) ([]db.DistrictBlocks, error)
	ListWells(ctx context.Context, q db.WellQuery) ([]simulation.Well, error)
	FindWells(ctx context.Context, q db.WellQuery) ([]simulation.Well, error)
	GetWell(ctx context.Context, stateCode, wellID string) (*simulation.Well, error)
	ReadingDateRange(ctx context.Context, stateCode string) (db.DateRange, error)
}

// Dependencies are the collaborators of the server. Nil fields get defaults
// except Store, which is required.
type Dependencies struct {
	Store   Store
	Exports *export.TokenStore
	Mailer  export.Mailer
	Metrics *observability.Metrics
	Logger  *slog.Logger
	Clock   clockwork.Clock
}

// Server bundles router and dependencies for the REST API.
type Server struct {
	cfg     config.Config
	store   Store
	exports *export.TokenStore
	mailer  export.Mailer
	metrics *observability.Metrics
	logger  *slog.Logger
	clock   clockwork.Clock
	engine  *gin.Engine
}

// New constructs a server with routes and middleware.
func New(cfg config.Config, deps Dependencies) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.Metrics == nil {
		deps.Metrics = observability.NewMetricsForTesting()
	}
	if deps.Exports == nil {
		deps.Exports = export.NewTokenStore(cfg.ExportTTL, deps.Clock)
	}
	if deps.Mailer == nil {
		deps.Mailer = export.LogMailer{Logger: deps.Logger}
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	// ClientIP keys the export limiter, so forwarded headers are only
	// believed from configured proxies.
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		deps.Logger.Warn("ignoring TRUSTED_PROXIES", "error", err)
		_ = engine.SetTrustedProxies(nil)
	}
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(deps.Logger))
	engine.Use(metricsMiddleware(deps.Metrics))
	engine.Use(corsMiddleware())

	server := &Server{
		cfg:     cfg,
		store:   deps.Store,
		exports: deps.Exports,
		mailer:  deps.Mailer,
		metrics: deps.Metrics,
		logger:  deps.Logger,
		clock:   deps.Clock,
		engine:  engine,
	}
	server.registerRoutes()
	return server
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeout := s.cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleReadyz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func metricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func bearerAuthMiddleware(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if token != expected {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.LogAttrs(c.Request.Context(), level, "http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}

func metricsMiddleware(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// abortWithError maps domain errors to status codes. Unexpected errors are
// logged and reported as 500 with a generic message.
func (s *Server) abortWithError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, simulation.ErrInvalidDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, db.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		s.logger.Warn("request timed out", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "request timed out"})
	default:
		s.logger.Error(fallback, "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
