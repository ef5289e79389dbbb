package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-ops/pkg/logger"
	"github.com/jhoicas/warehouse-ops/pkg/metrics"
)

// RequestLogger registra cada request con zerolog.
func RequestLogger(log *logger.Logger) fiber.Handler {
	log = log.Named("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("user_id", GetUserID(c)).
			Msg("request")
		return err
	}
}

// MetricsMiddleware cuenta requests y latencia por ruta registrada (no por path concreto).
func MetricsMiddleware(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		path := c.Path()
		if r := c.Route(); r != nil && r.Path != "" {
			path = r.Path
		}
		m.RecordHTTPRequest(c.Method(), path, c.Response().StatusCode(), time.Since(start))
		return err
	}
}
