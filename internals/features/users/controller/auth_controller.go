package controller

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"circleops_backend/internals/configs"
	"circleops_backend/internals/features/users/model"
	helper "circleops_backend/internals/helpers"
)

const tokenTTL = 12 * time.Hour

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

// 🔑 Login with email + password, returns a JWT
func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil || input.Email == "" || input.Password == "" {
		return helper.Error(c, fiber.StatusBadRequest, "email and password are required")
	}

	var user model.UserModel
	if err := ctrl.DB.First(&user, "user_email = ? AND user_status = 'active'", input.Email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusUnauthorized, "Invalid credentials")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Login failed")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.UserPasswordHash), []byte(input.Password)); err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Invalid credentials")
	}

	claims := jwt.MapClaims{
		"user_id": user.UserID.String(),
		"role":    user.UserRole,
		"exp":     time.Now().Add(tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(configs.JWTSecret))
	if err != nil {
		log.Printf("[ERROR] Failed to sign token: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Login failed")
	}

	return helper.Success(c, "Login successful", fiber.Map{
		"token": token,
		"user":  user,
	})
}

// ➕ Register (admin only, mounted behind the auth middleware)
func (ctrl *AuthController) Register(c *fiber.Ctx) error {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.BodyParser(&input); err != nil || input.Email == "" || input.Password == "" {
		return helper.Error(c, fiber.StatusBadRequest, "email and password are required")
	}
	if input.Role == "" {
		input.Role = "staff"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to hash password")
	}

	user := model.UserModel{
		UserName:         input.Name,
		UserEmail:        input.Email,
		UserPasswordHash: string(hash),
		UserRole:         input.Role,
	}
	if err := ctrl.DB.Create(&user).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to create user")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "User created", user)
}
