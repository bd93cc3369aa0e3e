package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"circleops_backend/internals/features/circles/notes/model"
	helper "circleops_backend/internals/helpers"
)

type FollowUpNoteController struct {
	DB *gorm.DB
}

func NewFollowUpNoteController(db *gorm.DB) *FollowUpNoteController {
	return &FollowUpNoteController{DB: db}
}

// ➕ Create note (author taken from the JWT)
func (ctrl *FollowUpNoteController) Create(c *fiber.Ctx) error {
	userIDStr, ok := c.Locals("user_id").(string)
	if !ok || userIDStr == "" {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	authorID, err := uuid.Parse(userIDStr)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var input struct {
		FollowUpNoteLeaderID uuid.UUID `json:"follow_up_note_leader_id"`
		FollowUpNoteBody     string    `json:"follow_up_note_body"`
	}
	if err := c.BodyParser(&input); err != nil || input.FollowUpNoteBody == "" {
		return helper.Error(c, fiber.StatusBadRequest, "follow_up_note_body is required")
	}

	note := model.FollowUpNoteModel{
		FollowUpNoteLeaderID: input.FollowUpNoteLeaderID,
		FollowUpNoteAuthorID: authorID,
		FollowUpNoteBody:     input.FollowUpNoteBody,
	}
	if err := ctrl.DB.Create(&note).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to create note")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Note created", note)
}

// 📄 List notes for one leader
func (ctrl *FollowUpNoteController) ListByLeader(c *fiber.Ctx) error {
	leaderID, err := uuid.Parse(c.Query("leader_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "leader_id is required")
	}

	var notes []model.FollowUpNoteModel
	if err := ctrl.DB.
		Where("follow_up_note_leader_id = ?", leaderID).
		Order("follow_up_note_created_at desc").
		Find(&notes).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load notes")
	}
	return helper.Success(c, "Notes loaded", notes)
}

// ❌ Delete note
func (ctrl *FollowUpNoteController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid note id")
	}
	if err := ctrl.DB.Delete(&model.FollowUpNoteModel{}, "follow_up_note_id = ?", id).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to delete note")
	}
	return helper.Success(c, "Note deleted", nil)
}
