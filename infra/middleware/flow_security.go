package middleware

import (
	"strings"

	"flowpilot/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

// SecurityHeaders adds security headers to all responses
func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		c.Set("Server", "")
		return c.Next()
	}
}

// ValidateContentType requires a JSON body on POST requests that carry one.
func ValidateContentType() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodPost || len(c.Body()) == 0 {
			return c.Next()
		}

		contentType := c.Get(fiber.HeaderContentType)
		if contentType == "" {
			return apperr.New("MISSING_CONTENT_TYPE", "content-type header required", fiber.StatusBadRequest)
		}
		if !strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) {
			return apperr.New("UNSUPPORTED_MEDIA_TYPE", "request body must be application/json", fiber.StatusUnsupportedMediaType)
		}
		return c.Next()
	}
}

// MaxBodySize limits request body size for specific endpoints
func MaxBodySize(maxBytes int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if len(c.Body()) > maxBytes {
			return apperr.New("PAYLOAD_TOO_LARGE", "request body too large", fiber.StatusRequestEntityTooLarge).
				WithDetail("max_size", maxBytes)
		}
		return c.Next()
	}
}
