package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"circleops_backend/internals/features/circles/campuses/controller"
)

func CampusRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := controller.NewCampusController(db)

	// 🏠 Group: /campuses
	campuses := admin.Group("/campuses")
	campuses.Post("/", ctrl.Create)
	campuses.Get("/", ctrl.List)
	campuses.Put("/:id", ctrl.Update)
	campuses.Delete("/:id", ctrl.Delete)
}
