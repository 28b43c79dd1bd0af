// Package preview serves a built site over HTTP for local authoring.
package preview

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/rationaleemotions/sitegen/internal/logging"
)

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = "localhost:8080"

const shutdownTimeout = 5 * time.Second

// Server serves the output directory. Files are read per request, so a
// rebuild that swaps the directory is picked up without a restart.
type Server struct {
	echo   *echo.Echo
	addr   string
	logger *slog.Logger
}

// New creates a preview server for root listening on addr.
func New(root, addr string, logger *slog.Logger) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.With(logging.Component("preview"))

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Debug("request",
				"method", v.Method, "uri", v.URI, "status", v.Status, logging.Duration(v.Latency))
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(noStore)
	e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
		Root:  root,
		Index: "index.html",
	}))

	return &Server{echo: e, addr: addr, logger: logger}
}

// Handler exposes the HTTP handler (for tests).
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("preview server listening", "addr", "http://"+s.addr)
		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// noStore disables browser caching so every reload shows the latest build.
func noStore(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Cache-Control", "no-store")
		return next(c)
	}
}
