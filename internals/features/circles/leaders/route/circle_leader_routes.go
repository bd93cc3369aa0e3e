package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"circleops_backend/internals/features/circles/leaders/controller"
)

func CircleLeaderRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := controller.NewCircleLeaderController(db)

	// 👥 Group: /leaders
	leaders := admin.Group("/leaders")
	leaders.Post("/", ctrl.Create)
	leaders.Get("/", ctrl.List)
	leaders.Get("/:id", ctrl.GetByID)
	leaders.Put("/:id", ctrl.Update)
	leaders.Delete("/:id", ctrl.Delete)
}
