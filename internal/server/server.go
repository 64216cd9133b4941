package server

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/bselic/newsbrief/internal/apperr"
	mw "github.com/bselic/newsbrief/pkg/middleware"
	pkgserver "github.com/bselic/newsbrief/pkg/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/net/context"
)

const (
	GracefulShutdownTimeout = 10 * time.Second
)

type Server struct {
	Echo *echo.Echo

	cfg *Config
}

func NewServer(cfg *Config) *Server {
	e := echo.New()
	e.HideBanner = true
	e.DisableHTTP2 = !cfg.UseHttp2

	s := &Server{
		Echo: e,
		cfg:  cfg,
	}

	s.setupMiddlewares()
	s.Echo.HTTPErrorHandler = apperr.GlobalErrorHandler()

	return s
}

func (s *Server) setupMiddlewares() {
	s.Echo.Use(mw.Logger())
	s.Echo.Use(middleware.Recover())
	s.Echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.cfg.CorsOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
	}))
}

func (s *Server) SetupHealthChecks(path string, hc pkgserver.HealthChecker) *Server {
	s.Echo.GET(path, func(c echo.Context) error {
		if !hc.Healthy(c.Request().Context()) {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	return s
}

func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		if err := s.Echo.Start(":" + s.cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Echo.Logger.Fatal("shutting down the server")
		}
	}()

	<-ctx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), GracefulShutdownTimeout)
	defer cancel()

	if err := s.Echo.Shutdown(ctx); err != nil {
		s.Echo.Logger.Fatal(err)
		return err
	}
	return nil
}
