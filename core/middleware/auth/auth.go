package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Config holds the API key guard settings.
type Config struct {
	// ApiKey is the expected key. An empty key disables the guard.
	ApiKey string
	// SkipPaths are path prefixes served without a key (health, metrics).
	SkipPaths []string
}

// New returns a middleware that requires the X-API-Key header (or a Bearer token) to match.
func New(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.ApiKey == "" {
			return c.Next()
		}
		for _, p := range cfg.SkipPaths {
			if strings.HasPrefix(c.Path(), p) {
				return c.Next()
			}
		}

		key := c.Get("X-API-Key")
		if key == "" {
			key = strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		}

		if subtle.ConstantTimeCompare([]byte(key), []byte(cfg.ApiKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid api key"})
		}
		return c.Next()
	}
}
