package handlers

import (
	"strings"
	"unicode/utf8"

	"github.com/forge-app/forge-api/internal/database"
	"github.com/forge-app/forge-api/internal/middleware"
	"github.com/forge-app/forge-api/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const maxTitleLength = 200

func GetBrainDumps(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	query := database.DB.Where("user_id = ?", userID)
	switch c.Query("processed") {
	case "true":
		query = query.Where("processed = ?", true)
	case "false":
		query = query.Where("processed = ?", false)
	}

	var dumps []models.BrainDump
	if err := query.Order("created_at DESC").Find(&dumps).Error; err != nil {
		return storageError("load brain dump", err)
	}
	return c.JSON(dumps)
}

func CreateBrainDump(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateBrainDumpRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("Invalid request body")
	}
	if strings.TrimSpace(req.Content) == "" {
		return badRequest("Content is required")
	}

	dump := models.BrainDump{UserID: userID, Content: req.Content}
	if err := database.DB.Create(&dump).Error; err != nil {
		return storageError("create brain dump", err)
	}

	WS.Send(userID, WSEvent{Type: EventBrainDumpUpdated, Data: dump})
	return c.Status(fiber.StatusCreated).JSON(dump)
}

func UpdateBrainDump(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	dumpID, err := parseID(c, "id", "brain dump")
	if err != nil {
		return err
	}

	var dump models.BrainDump
	if err := findOwned(&dump, dumpID, userID, "Brain dump"); err != nil {
		return err
	}

	var req models.UpdateBrainDumpRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("Invalid request body")
	}
	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			return badRequest("Content is required")
		}
		dump.Content = *req.Content
	}
	if req.Processed != nil {
		dump.Processed = *req.Processed
	}

	if err := database.DB.Save(&dump).Error; err != nil {
		return storageError("update brain dump", err)
	}

	WS.Send(userID, WSEvent{Type: EventBrainDumpUpdated, Data: dump})
	return c.JSON(dump)
}

func DeleteBrainDump(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	dumpID, err := parseID(c, "id", "brain dump")
	if err != nil {
		return err
	}

	var dump models.BrainDump
	if err := findOwned(&dump, dumpID, userID, "Brain dump"); err != nil {
		return err
	}

	if err := database.DB.Delete(&dump).Error; err != nil {
		return storageError("delete brain dump", err)
	}

	WS.Send(userID, WSEvent{Type: EventBrainDumpDeleted, Data: fiber.Map{"id": dump.ID}})
	return c.JSON(fiber.Map{"message": "Brain dump deleted"})
}

// dumpTitle is the first line of the content, cut to a title-sized length.
func dumpTitle(content string) string {
	title := strings.TrimSpace(content)
	if i := strings.IndexByte(title, '\n'); i >= 0 {
		title = strings.TrimSpace(title[:i])
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		title = string([]rune(title)[:maxTitleLength])
	}
	return title
}

// ConvertBrainDump turns a capture into a task, habit or goal and marks it
// processed. The full content is kept as the notes or description.
func ConvertBrainDump(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	dumpID, err := parseID(c, "id", "brain dump")
	if err != nil {
		return err
	}

	var dump models.BrainDump
	if err := findOwned(&dump, dumpID, userID, "Brain dump"); err != nil {
		return err
	}
	if dump.ConvertedTo != nil {
		return fiber.NewError(fiber.StatusConflict, "Brain dump already converted")
	}

	var req models.ConvertBrainDumpRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("Invalid request body")
	}
	if req.To != "task" && req.To != "habit" && req.To != "goal" {
		return badRequest("Can only convert to task, habit or goal")
	}

	title := dumpTitle(dump.Content)
	content := dump.Content

	var (
		created  interface{}
		targetID uuid.UUID
		event    string
	)
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		switch req.To {
		case "task":
			task := models.Task{
				UserID:   userID,
				Title:    title,
				Notes:    &content,
				Status:   models.TaskStatusTodo,
				Priority: "medium",
			}
			if err := tx.Create(&task).Error; err != nil {
				return err
			}
			created, targetID, event = task, task.ID, EventTaskUpdated
		case "habit":
			habit := models.Habit{
				UserID:      userID,
				Name:        title,
				Description: &content,
				Frequency:   models.FrequencyDaily,
				Schedule:    datatypes.NewJSONType(models.Schedule{}),
			}
			if err := tx.Create(&habit).Error; err != nil {
				return err
			}
			created, targetID, event = habit, habit.ID, EventHabitUpdated
		case "goal":
			goal := models.Goal{
				UserID:      userID,
				Title:       title,
				Description: &content,
				Status:      models.GoalStatusActive,
				Milestones:  datatypes.NewJSONType([]models.Milestone{}),
			}
			if err := tx.Create(&goal).Error; err != nil {
				return err
			}
			created, targetID, event = goal, goal.ID, EventGoalUpdated
		}

		dump.Processed = true
		dump.ConvertedTo = &req.To
		dump.ConvertedID = &targetID
		return tx.Save(&dump).Error
	})
	if err != nil {
		return storageError("convert brain dump", err)
	}

	WS.Send(userID, WSEvent{Type: event, Data: created})
	WS.Send(userID, WSEvent{Type: EventBrainDumpUpdated, Data: dump})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"brainDump": dump,
		"created":   created,
		"type":      req.To,
	})
}
