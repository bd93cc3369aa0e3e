package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"circleops_backend/internals/features/circles/campuses/model"
	helper "circleops_backend/internals/helpers"
)

type CampusController struct {
	DB *gorm.DB
}

func NewCampusController(db *gorm.DB) *CampusController {
	return &CampusController{DB: db}
}

// ➕ Create campus
func (ctrl *CampusController) Create(c *fiber.Ctx) error {
	var input struct {
		CampusName string `json:"campus_name"`
		CampusCity string `json:"campus_city"`
	}
	if err := c.BodyParser(&input); err != nil || input.CampusName == "" {
		return helper.Error(c, fiber.StatusBadRequest, "campus_name is required")
	}

	campus := model.CampusModel{CampusName: input.CampusName, CampusCity: input.CampusCity}
	if err := ctrl.DB.Create(&campus).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to create campus")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Campus created", campus)
}

// 📄 List campuses
func (ctrl *CampusController) List(c *fiber.Ctx) error {
	var campuses []model.CampusModel
	if err := ctrl.DB.Order("campus_name asc").Find(&campuses).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load campuses")
	}
	return helper.Success(c, "Campuses loaded", campuses)
}

// ✏️ Update campus
func (ctrl *CampusController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid campus id")
	}

	var campus model.CampusModel
	if err := ctrl.DB.First(&campus, "campus_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Campus not found")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load campus")
	}

	var input struct {
		CampusName string `json:"campus_name"`
		CampusCity string `json:"campus_city"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if input.CampusName != "" {
		campus.CampusName = input.CampusName
	}
	campus.CampusCity = input.CampusCity

	if err := ctrl.DB.Save(&campus).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to update campus")
	}
	return helper.Success(c, "Campus updated", campus)
}

// ❌ Delete campus
func (ctrl *CampusController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid campus id")
	}
	if err := ctrl.DB.Delete(&model.CampusModel{}, "campus_id = ?", id).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to delete campus")
	}
	return helper.Success(c, "Campus deleted", nil)
}
