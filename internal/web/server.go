package web

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"sambo-academy/internal/models/config"
	"sambo-academy/internal/service"
)

type Deps struct {
	Access        service.AccessChecker
	Groups        service.GroupService
	Attendance    service.AttendanceService
	Subscriptions service.SubscriptionService
	Payments      service.PaymentService
	Schedule      service.ScheduleService
}

type Server struct {
	cfg    config.HTTPConfig
	app    *echo.Echo
	logger *zap.Logger
}

type appValidator struct {
	validate *validator.Validate
}

func (v appValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func NewServer(cfg config.HTTPConfig, deps Deps, logger *zap.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		app:    echo.New(),
		logger: logger,
	}
	s.app.HideBanner = true
	s.app.HidePort = true
	s.app.Debug = cfg.Debug
	s.app.Validator = appValidator{validate: validator.New()}
	s.app.HTTPErrorHandler = newHTTPErrorHandler(logger)

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(requestLogger(logger))
	if !cfg.Debug {
		s.app.Use(middleware.Recover())
	}

	s.app.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	v1 := s.app.Group("/v1", trainerMiddleware)
	NewHandler(deps).Register(v1)
	return s
}

// Start blocks until the server stops. http.ErrServerClosed is not an error.
func (s *Server) Start() error {
	s.logger.Info("http server listening", zap.String("address", s.cfg.Address))
	if err := s.app.Start(s.cfg.Address); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.app.ServeHTTP(w, r)
}
