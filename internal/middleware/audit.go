package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// RequestIDHeader carries the per-request identifier in both directions.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// RequestContext tags every request with an ID and records slow or failed requests.
func RequestContext(slowAfter time.Duration) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		// Capture request data BEFORE handler execution (Fiber reuses context objects)
		id := c.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}
		method := c.Method()
		path := c.Path()
		ip := c.IP()

		c.Locals(requestIDKey, id)
		c.Set(RequestIDHeader, id)

		err := c.Next()

		status := c.Response().StatusCode()
		elapsed := time.Since(start)
		attrs := []any{
			"request_id", id,
			"method", method,
			"path", path,
			"status", status,
			"ip", ip,
			"duration_ms", elapsed.Milliseconds(),
		}
		switch {
		case err != nil || status >= fiber.StatusInternalServerError:
			slog.Error("request failed", append(attrs, "error", err)...)
		case slowAfter > 0 && elapsed > slowAfter:
			slog.Warn("slow request", attrs...)
		}

		return err
	}
}

// GetRequestID returns the ID assigned by RequestContext, or "" outside it.
func GetRequestID(c fiber.Ctx) string {
	id, _ := c.Locals(requestIDKey).(string)
	return id
}
