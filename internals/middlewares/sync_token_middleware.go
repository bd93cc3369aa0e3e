package middlewares

import (
	"crypto/subtle"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"circleops_backend/internals/configs"
)

// SyncTokenMiddleware gates the CCB sync trigger routes with the shared secret
// given to the external scheduler. When no secret is configured the routes are
// open (local development only — LoadEnv warns loudly about it).
func SyncTokenMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		secret := configs.SyncSharedSecret
		if secret == "" {
			return c.Next()
		}

		token := strings.TrimSpace(strings.TrimPrefix(c.Get("Authorization"), "Bearer"))
		if token == "" {
			token = c.Query("token")
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			log.Printf("[SYNC] rejected trigger call from %s", c.IP())
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Invalid sync token")
		}
		return c.Next()
	}
}
