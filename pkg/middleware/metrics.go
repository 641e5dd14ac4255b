package middleware

import (
	"strconv"

	"github.com/DedS3t/cashflow-backend/platform/metrics"
	"github.com/gofiber/fiber/v2"
)

// Metrics counts every request by method, matched route and status.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		metrics.HTTPRequests.WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(status)).Inc()
		return err
	}
}
