package web

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const (
	trainerHeader     = "X-Trainer-ID"
	contextTrainerKey = "trainer_id"
)

// trainerMiddleware resolves the acting trainer. Authentication happens in front of this service.
func trainerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		trainerID, err := uuid.Parse(c.Request().Header.Get(trainerHeader))
		if err != nil {
			return errMissingTrainer
		}
		c.Set(contextTrainerKey, trainerID)
		return next(c)
	}
}

func contextTrainer(c echo.Context) uuid.UUID {
	id, _ := c.Get(contextTrainerKey).(uuid.UUID)
	return id
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			logger.Info("request", fields...)
			return nil
		},
	})
}
