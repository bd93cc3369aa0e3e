package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"circleops_backend/internals/features/users/controller"
	middlewares "circleops_backend/internals/middlewares"
	authMW "circleops_backend/internals/middlewares/auth"
)

func AuthRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewAuthController(db)

	// 🔑 Group: /auth
	authGroup := api.Group("/auth")
	authGroup.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)
	authGroup.Post("/register", authMW.AuthMiddleware(), authMW.OnlyRoles("admin"), ctrl.Register)
}
