package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"circleops_backend/internals/features/circles/scorecards/controller"
)

func ScorecardRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := controller.NewScorecardController(db)

	// 📋 Group: /scorecards
	scorecards := admin.Group("/scorecards")
	scorecards.Post("/", ctrl.Create)
	scorecards.Get("/", ctrl.ListByLeader)
	scorecards.Put("/:id", ctrl.Update)
	scorecards.Delete("/:id", ctrl.Delete)
}
