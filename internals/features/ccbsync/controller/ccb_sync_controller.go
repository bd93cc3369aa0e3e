package controller

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"circleops_backend/internals/features/ccbsync/service"
	helper "circleops_backend/internals/helpers"
)

type CCBSyncController struct {
	Service *service.SyncService
}

func NewCCBSyncController(svc *service.SyncService) *CCBSyncController {
	return &CCBSyncController{Service: svc}
}

// ✅ Trigger discovery (external scheduler). Always answers 200 with counters.
func (ctrl *CCBSyncController) Discover(c *fiber.Ctx) error {
	opts := service.DiscoverOptions{Force: c.QueryBool("force")}

	if idStr := c.Query("leader_id"); idStr != "" {
		id, err := uuid.Parse(idStr)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Invalid leader_id")
		}
		opts.LeaderID = &id
	}

	// Runs detached from the request context: a sync pass is not
	// user-cancellable, timeouts inside the client are the only cutoff.
	res := ctrl.Service.Discover(context.Background(), opts)
	return helper.Success(c, "Discovery completed", res)
}

// ✅ Trigger an attendance sync run (mode: daily | backfill)
func (ctrl *CCBSyncController) Sync(c *fiber.Ctx) error {
	mode := c.Query("mode", service.ModeDaily)
	if mode != service.ModeDaily && mode != service.ModeBackfill {
		return helper.Error(c, fiber.StatusBadRequest, "mode must be daily or backfill")
	}

	opts := service.SyncOptions{Mode: mode}
	if idStr := c.Query("leader_id"); idStr != "" {
		id, err := uuid.Parse(idStr)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Invalid leader_id")
		}
		opts.LeaderID = &id
	}

	res := ctrl.Service.Sync(context.Background(), opts)
	return helper.Success(c, "Sync completed", res)
}

// 📄 Persisted occurrence records for one leader
func (ctrl *CCBSyncController) Occurrences(c *fiber.Ctx) error {
	leaderID, err := uuid.Parse(c.Query("leader_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "leader_id is required")
	}

	to := time.Now()
	from := to.AddDate(0, 0, -90)
	if v := c.Query("from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			from = t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			to = t
		}
	}

	recs, err := ctrl.Service.Store.OccurrencesForLeader(c.Context(), leaderID, from, to)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load occurrences")
	}
	return helper.Success(c, "Occurrences loaded", recs)
}
