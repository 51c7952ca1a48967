package middleware

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// AuditWriter defines how audit records are persisted.
type AuditWriter interface {
	WriteAudit(action, resource, details, ip, userAgent string) error
}

// AuditMiddleware tags each request with an id and records it for the
// audit view.
func AuditMiddleware(writer AuditWriter) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		requestID := uuid.NewString()
		c.Set("X-Request-ID", requestID)

		// Capture request data before handler execution (Fiber reuses
		// context objects).
		method := c.Method()
		path := c.Path()
		ip := c.IP()
		userAgent := c.Get("User-Agent")

		err := c.Next()

		statusCode := c.Response().StatusCode()
		details := map[string]interface{}{
			"request_id":  requestID,
			"method":      method,
			"path":        path,
			"status":      statusCode,
			"duration_ms": time.Since(start).Milliseconds(),
		}
		detailsJSON, _ := json.Marshal(details)

		// Write asynchronously. Everything the goroutine needs was captured
		// above, so it never touches c.
		go func() {
			if writeErr := writer.WriteAudit("http_request", path, string(detailsJSON), ip, userAgent); writeErr != nil {
				slog.Error("failed to write audit log", "error", writeErr)
			}
		}()

		return err
	}
}
