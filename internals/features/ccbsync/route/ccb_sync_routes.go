package route

import (
	"github.com/gofiber/fiber/v2"

	"circleops_backend/internals/features/ccbsync/controller"
	"circleops_backend/internals/features/ccbsync/service"
	helper "circleops_backend/internals/helpers"
	middlewares "circleops_backend/internals/middlewares"
)

// CCBSyncRoutes mounts the trigger surface for the external scheduler.
// svc is nil when the CCB client could not be configured; the routes then
// answer 503 instead of disappearing, so misconfiguration is visible.
func CCBSyncRoutes(api fiber.Router, svc *service.SyncService) {
	ccb := api.Group("/ccb", middlewares.SyncTokenMiddleware())

	if svc == nil {
		unavailable := func(c *fiber.Ctx) error {
			return helper.Error(c, fiber.StatusServiceUnavailable, "CCB sync is not configured")
		}
		ccb.Post("/discover", unavailable)
		ccb.Post("/sync", unavailable)
		ccb.Get("/occurrences", unavailable)
		return
	}

	ctrl := controller.NewCCBSyncController(svc)
	ccb.Post("/discover", ctrl.Discover) // 🔍 resolve + cache group event ids
	ccb.Post("/sync", ctrl.Sync)         // 🔄 daily / backfill attendance sync
	ccb.Get("/occurrences", ctrl.Occurrences)
}
