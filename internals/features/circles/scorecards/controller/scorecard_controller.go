package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"circleops_backend/internals/features/circles/scorecards/dto"
	"circleops_backend/internals/features/circles/scorecards/model"
	helper "circleops_backend/internals/helpers"
)

type ScorecardController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewScorecardController(db *gorm.DB) *ScorecardController {
	return &ScorecardController{DB: db, Validate: validator.New()}
}

// ➕ Create scorecard
func (ctrl *ScorecardController) Create(c *fiber.Ctx) error {
	var req dto.ScorecardRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	scorecard := req.ToModel()
	if err := ctrl.DB.Create(scorecard).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to create scorecard")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Scorecard created", scorecard)
}

// 📄 List scorecards for one leader
func (ctrl *ScorecardController) ListByLeader(c *fiber.Ctx) error {
	leaderID, err := uuid.Parse(c.Query("leader_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "leader_id is required")
	}

	var scorecards []model.ScorecardModel
	if err := ctrl.DB.
		Where("scorecard_leader_id = ?", leaderID).
		Order("scorecard_period desc").
		Find(&scorecards).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load scorecards")
	}
	return helper.Success(c, "Scorecards loaded", scorecards)
}

// ✏️ Update scorecard
func (ctrl *ScorecardController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid scorecard id")
	}

	var existing model.ScorecardModel
	if err := ctrl.DB.First(&existing, "scorecard_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Scorecard not found")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load scorecard")
	}

	var req dto.ScorecardRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	updated := req.ToModel()
	updated.ScorecardID = existing.ScorecardID
	updated.ScorecardCreatedAt = existing.ScorecardCreatedAt

	if err := ctrl.DB.Save(updated).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to update scorecard")
	}
	return helper.Success(c, "Scorecard updated", updated)
}

// ❌ Delete scorecard
func (ctrl *ScorecardController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid scorecard id")
	}
	if err := ctrl.DB.Delete(&model.ScorecardModel{}, "scorecard_id = ?", id).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to delete scorecard")
	}
	return helper.Success(c, "Scorecard deleted", nil)
}
