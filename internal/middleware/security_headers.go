package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// SecurityHeaders sets hardening headers on every /api response.
func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if strings.HasPrefix(c.Path(), "/api") {
			c.Set("X-Content-Type-Options", "nosniff")
			c.Set("X-Frame-Options", "DENY")
			c.Set("X-XSS-Protection", "1; mode=block")
			c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			c.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		}
		return err
	}
}
