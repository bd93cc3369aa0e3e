package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	ccbRoute "circleops_backend/internals/features/ccbsync/route"
	ccbService "circleops_backend/internals/features/ccbsync/service"
	campusRoute "circleops_backend/internals/features/circles/campuses/route"
	leaderRoute "circleops_backend/internals/features/circles/leaders/route"
	noteRoute "circleops_backend/internals/features/circles/notes/route"
	scorecardRoute "circleops_backend/internals/features/circles/scorecards/route"
	userRoute "circleops_backend/internals/features/users/route"
	authMW "circleops_backend/internals/middlewares/auth"
)

// SetupRoutes wires every feature slice: /api/auth (login / register),
// /api/a (staff dashboard CRUD, JWT-gated) and /api/ccb (sync trigger
// surface, shared-secret-gated for the external scheduler).
func SetupRoutes(app *fiber.App, db *gorm.DB, syncSvc *ccbService.SyncService) {
	BaseRoutes(app)

	api := app.Group("/api")

	userRoute.AuthRoutes(api, db)

	admin := api.Group("/a", authMW.AuthMiddleware())
	campusRoute.CampusRoutes(admin, db)
	leaderRoute.CircleLeaderRoutes(admin, db)
	scorecardRoute.ScorecardRoutes(admin, db)
	noteRoute.FollowUpNoteRoutes(admin, db)

	ccbRoute.CCBSyncRoutes(api, syncSvc)
}
