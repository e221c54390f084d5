package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/custodia-labs/failcast/internal/core/domain"
	"github.com/custodia-labs/failcast/internal/logger"
)

// DefaultBodyLimit caps the size of an uploaded CSV.
const DefaultBodyLimit = "32M"

const shutdownTimeout = 5 * time.Second

// Config tunes the web server.
type Config struct {
	// Threshold is the high-risk percentage pre-filled in the upload form.
	Threshold float64

	// BodyLimit caps request bodies, e.g. "32M".
	BodyLimit string
}

// Server is the failcast web UI.
type Server struct {
	ports  *Ports
	config Config
	echo   *echo.Echo
}

// NewServer creates a web server with its routes registered.
func NewServer(ports *Ports, config Config) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}
	if config.Threshold <= 0 {
		config.Threshold = domain.DefaultRiskThreshold
	}
	if config.BodyLimit == "" {
		config.BodyLimit = DefaultBodyLimit
	}

	r, err := newRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = r
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(config.BodyLimit))
	e.Use(requestLogger)

	s := &Server{ports: ports, config: config, echo: e}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/", s.handleIndex)
	s.echo.POST("/predict", s.handleUpload)
	s.echo.GET("/results/:id", s.handleResults)
	s.echo.GET("/results/:id/download", s.handleDownload)
	s.echo.GET("/results/:id/chart.png", s.handleChart)
	s.echo.GET("/about", s.handleAbout)

	s.echo.GET("/api/model", s.handleModel)
	s.echo.POST("/api/predict", s.handleAPIPredict)
	s.echo.GET("/metrics", s.handleMetrics)
	s.echo.GET("/healthz", s.handleHealth)
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}

func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		logger.Debug("%s %s -> %d (%s)", c.Request().Method, c.Request().URL.Path,
			c.Response().Status, time.Since(start).Round(time.Microsecond))
		return err
	}
}
