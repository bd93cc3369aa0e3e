package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"circleops_backend/internals/features/circles/leaders/dto"
	"circleops_backend/internals/features/circles/leaders/model"
	helper "circleops_backend/internals/helpers"
)

type CircleLeaderController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewCircleLeaderController(db *gorm.DB) *CircleLeaderController {
	return &CircleLeaderController{DB: db, Validate: validator.New()}
}

// ➕ Create leader
func (ctrl *CircleLeaderController) Create(c *fiber.Ctx) error {
	var req dto.CircleLeaderRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	leader, err := req.ToModel()
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid meeting start date (use YYYY-MM-DD)")
	}

	if err := ctrl.DB.Create(leader).Error; err != nil {
		log.Printf("[ERROR] Failed to create leader: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to create leader")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Leader created", dto.ToCircleLeaderResponse(leader))
}

// 📄 List leaders with optional filters
func (ctrl *CircleLeaderController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctrl.DB.Model(&model.CircleLeaderModel{})
	if status := c.Query("status"); status != "" {
		q = q.Where("circle_leader_status = ?", status)
	}
	if campusID := c.Query("campus_id"); campusID != "" {
		q = q.Where("circle_leader_campus_id = ?", campusID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to count leaders")
	}

	var leaders []model.CircleLeaderModel
	if err := q.Order("circle_leader_name asc").Offset(paging.Offset).Limit(paging.Limit).Find(&leaders).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load leaders")
	}

	return helper.Success(c, "Leaders loaded", fiber.Map{
		"items":      dto.ToCircleLeaderResponseList(leaders),
		"pagination": helper.BuildPagination(paging, total, len(leaders)),
	})
}

// 🔍 Get one leader
func (ctrl *CircleLeaderController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid leader id")
	}

	var leader model.CircleLeaderModel
	if err := ctrl.DB.First(&leader, "circle_leader_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Leader not found")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load leader")
	}
	return helper.Success(c, "Leader loaded", dto.ToCircleLeaderResponse(&leader))
}

// ✏️ Update leader. Scheduling-fact changes do not touch the event-id cache;
// a group id change clears it so discovery runs again for the new group.
func (ctrl *CircleLeaderController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid leader id")
	}

	var existing model.CircleLeaderModel
	if err := ctrl.DB.First(&existing, "circle_leader_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Leader not found")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load leader")
	}

	var req dto.CircleLeaderRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	updated, err := req.ToModel()
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid meeting start date (use YYYY-MM-DD)")
	}
	updated.CircleLeaderID = existing.CircleLeaderID
	updated.CircleLeaderEventIDs = existing.CircleLeaderEventIDs
	if updated.CircleLeaderGroupID != existing.CircleLeaderGroupID {
		updated.CircleLeaderEventIDs = nil
	}
	updated.CircleLeaderCreatedAt = existing.CircleLeaderCreatedAt

	if err := ctrl.DB.Save(updated).Error; err != nil {
		log.Printf("[ERROR] Failed to update leader: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to update leader")
	}
	return helper.Success(c, "Leader updated", dto.ToCircleLeaderResponse(updated))
}

// ❌ Delete leader
func (ctrl *CircleLeaderController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid leader id")
	}
	if err := ctrl.DB.Delete(&model.CircleLeaderModel{}, "circle_leader_id = ?", id).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to delete leader")
	}
	return helper.Success(c, "Leader deleted", nil)
}
