package middlewares

import (
	"github.com/gofiber/fiber/v2"

	loggerMW "circleops_backend/internals/middlewares/logger"
)

// SetupMiddlewares wires the base middleware chain
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(loggerMW.LoggerMiddleware())
	app.Use(GlobalRateLimiter())
}
