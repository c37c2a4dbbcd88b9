package handlers

import (
	"errors"
	"strings"

	"github.com/forge-app/forge-api/internal/database"
	"github.com/forge-app/forge-api/internal/middleware"
	"github.com/forge-app/forge-api/internal/models"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 6

func Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("Invalid request body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return badRequest("Email and password are required")
	}
	if len(req.Password) < minPasswordLength {
		return badRequest("Password must be at least 6 characters")
	}

	// Check if user exists
	var existingUser models.User
	if err := database.DB.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		return fiber.NewError(fiber.StatusConflict, "Email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to hash password")
	}

	user := models.User{
		Email:    req.Email,
		Password: string(hashedPassword),
		Name:     req.Name,
		Level:    1,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		return storageError("create user", err)
	}

	token, err := middleware.GenerateToken(user.ID, user.Email)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to generate token")
	}

	return c.Status(fiber.StatusCreated).JSON(models.AuthResponse{
		Token: token,
		User:  user,
	})
}

func Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("Invalid request body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return badRequest("Email and password are required")
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
	}

	token, err := middleware.GenerateToken(user.ID, user.Email)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(models.AuthResponse{
		Token: token,
		User:  user,
	})
}

func profile(user models.User) fiber.Map {
	return fiber.Map{
		"id":            user.ID,
		"email":         user.Email,
		"name":          user.Name,
		"avatarUrl":     user.AvatarURL,
		"tzOffset":      user.TZOffset,
		"level":         user.Level,
		"xp":            user.XP,
		"totalXp":       user.TotalXP,
		"xpToNextLevel": user.XPToNextLevel(),
		"createdAt":     user.CreatedAt,
		"updatedAt":     user.UpdatedAt,
	}
}

func loadUser(c *fiber.Ctx) (models.User, error) {
	var user models.User
	err := database.DB.First(&user, "id = ?", middleware.GetUserID(c)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, fiber.NewError(fiber.StatusNotFound, "User not found")
	}
	if err != nil {
		return user, storageError("load user", err)
	}
	return user, nil
}

func GetMe(c *fiber.Ctx) error {
	user, err := loadUser(c)
	if err != nil {
		return err
	}
	return c.JSON(profile(user))
}

func UpdateProfile(c *fiber.Ctx) error {
	user, err := loadUser(c)
	if err != nil {
		return err
	}

	var req models.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("Invalid request body")
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	if req.TZOffset != nil {
		tz, err := checkTZOffset(*req.TZOffset)
		if err != nil {
			return err
		}
		user.TZOffset = tz
	}

	if err := database.DB.Model(&user).Updates(map[string]interface{}{
		"name":       user.Name,
		"avatar_url": user.AvatarURL,
		"tz_offset":  user.TZOffset,
	}).Error; err != nil {
		return storageError("update profile", err)
	}

	return c.JSON(profile(user))
}

func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
