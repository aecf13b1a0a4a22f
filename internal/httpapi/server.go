// Package httpapi exposes the consciousness agent over HTTP.
//
// The surface is small: submit interactions and memories, read the
// current state, trigger evolution, inspect growth. Write endpoints
// share one rate limiter so a chatty client cannot monopolize the
// single pipeline writer.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/lialabs/liad/internal/agent"
	"github.com/lialabs/liad/internal/events"
	"github.com/lialabs/liad/internal/growth"
	"github.com/lialabs/liad/internal/memory"
)

// Consciousness is the slice of the agent surface the API serves.
type Consciousness interface {
	ID() string
	Name() string
	ProcessInteraction(ctx context.Context, in agent.Interaction) (*agent.Response, error)
	ProcessMemory(ctx context.Context, exp agent.Experience) error
	Evolve(ctx context.Context) error
	CurrentState() agent.ConsciousnessState
}

// MemorySearcher recalls stored memories by similarity.
type MemorySearcher interface {
	Search(ctx context.Context, kind memory.Kind, query string, limit int) ([]memory.Record, error)
}

// GrowthSource reports accumulated response statistics.
type GrowthSource interface {
	Snapshot() growth.Snapshot
}

// DriftSource reports dimensional drift from the evolution loop.
type DriftSource interface {
	Drift() growth.Drift
	History() []agent.DimensionalShift
}

// Config holds HTTP server configuration.
type Config struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// RateLimit caps write requests per second; RateBurst is the burst
	// allowance. Zero disables limiting.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`
}

// NewDefaultConfig returns server defaults.
func NewDefaultConfig() Config {
	return Config{
		Host:            "localhost",
		Port:            8090,
		ShutdownTimeout: 10 * time.Second,
		RateLimit:       25,
		RateBurst:       50,
	}
}

// Server provides the HTTP endpoints for one agent.
type Server struct {
	echo      *echo.Echo
	config    Config
	mind      Consciousness
	memories  MemorySearcher
	growth    GrowthSource
	drift     DriftSource
	publisher events.Publisher
	limiter   *rate.Limiter
	logger    *zap.Logger
}

// Option configures optional server dependencies.
type Option func(*Server)

// WithMemorySearcher wires the recall endpoint.
func WithMemorySearcher(m MemorySearcher) Option {
	return func(s *Server) { s.memories = m }
}

// WithGrowth wires the growth endpoint.
func WithGrowth(g GrowthSource) Option {
	return func(s *Server) { s.growth = g }
}

// WithDrift wires drift reporting into the growth endpoint.
func WithDrift(d DriftSource) Option {
	return func(s *Server) { s.drift = d }
}

// WithPublisher wires lifecycle event publishing.
func WithPublisher(p events.Publisher) Option {
	return func(s *Server) { s.publisher = p }
}

// NewServer creates the HTTP server.
func NewServer(cfg Config, mind Consciousness, logger *zap.Logger, opts ...Option) (*Server, error) {
	if mind == nil {
		return nil, fmt.Errorf("consciousness is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 8090
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))
	e.Use(NewHTTPMetrics(logger).Middleware())

	s := &Server{
		echo:      e,
		config:    cfg,
		mind:      mind,
		publisher: events.Noop{},
		logger:    logger,
	}
	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}

	for _, opt := range opts {
		opt(s)
	}

	s.registerRoutes()
	return s, nil
}

// requestLogger logs one line per request.
func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	}
}

// rateLimit rejects writes beyond the configured sustained rate.
func (s *Server) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.limiter != nil && !s.limiter.Allow() {
			return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
		}
		return next(c)
	}
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/v1")
	v1.GET("/state", s.handleState)
	v1.GET("/growth", s.handleGrowth)
	v1.GET("/memories/search", s.handleMemorySearch)
	v1.POST("/interactions", s.handleInteraction, s.rateLimit)
	v1.POST("/memories", s.handleMemory, s.rateLimit)
	v1.POST("/evolve", s.handleEvolve, s.rateLimit)
}

// Start runs the server and blocks until the context is cancelled, then
// shuts down gracefully. Returns http.ErrServerClosed on clean shutdown.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))

	errCh := make(chan error, 1)
	go func() {
		if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server start: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return http.ErrServerClosed
	}
}

// Echo returns the underlying router, mainly for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
