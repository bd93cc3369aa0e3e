package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"circleops_backend/internals/features/circles/notes/controller"
)

func FollowUpNoteRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := controller.NewFollowUpNoteController(db)

	// 📝 Group: /notes
	notes := admin.Group("/notes")
	notes.Post("/", ctrl.Create)
	notes.Get("/", ctrl.ListByLeader)
	notes.Delete("/:id", ctrl.Delete)
}
