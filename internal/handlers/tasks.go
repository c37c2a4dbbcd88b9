package handlers

import (
	"strings"
	"time"

	"github.com/forge-app/forge-api/internal/database"
	"github.com/forge-app/forge-api/internal/middleware"
	"github.com/forge-app/forge-api/internal/models"
	"github.com/forge-app/forge-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func validTaskStatus(s string) bool {
	return s == models.TaskStatusTodo || s == models.TaskStatusInProgress || s == models.TaskStatusCompleted
}

func validPriority(p string) bool {
	return p == "low" || p == "medium" || p == "high"
}

// checkGoalLink rejects goal ids that do not belong to the user.
func checkGoalLink(goalID *uuid.UUID, userID uuid.UUID) error {
	if goalID == nil {
		return nil
	}
	var count int64
	if err := database.DB.Model(&models.Goal{}).Where("id = ? AND user_id = ?", *goalID, userID).Count(&count).Error; err != nil {
		return storageError("load goal", err)
	}
	if count == 0 {
		return badRequest("Linked goal not found")
	}
	return nil
}

func GetTasks(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	query := database.DB.Where("user_id = ?", userID)
	if status := c.Query("status"); status != "" {
		if !validTaskStatus(status) {
			return badRequest("Invalid status filter")
		}
		query = query.Where("status = ?", status)
	}
	if goalID := c.Query("goalId"); goalID != "" {
		id, err := uuid.Parse(goalID)
		if err != nil {
			return badRequest("Invalid goal ID")
		}
		query = query.Where("goal_id = ?", id)
	}

	var tasks []models.Task
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return storageError("load tasks", err)
	}

	return c.JSON(tasks)
}

func GetTask(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	taskID, err := parseID(c, "id", "task")
	if err != nil {
		return err
	}

	var task models.Task
	if err := findOwned(&task, taskID, userID, "Task"); err != nil {
		return err
	}
	return c.JSON(task)
}

func CreateTask(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("Invalid request body")
	}

	if strings.TrimSpace(req.Title) == "" {
		return badRequest("Title is required")
	}
	if req.Priority == "" {
		req.Priority = "medium"
	}
	if !validPriority(req.Priority) {
		return badRequest("Priority must be low, medium or high")
	}
	if req.DueDate != nil {
		if _, err := services.ParseDay(*req.DueDate); err != nil {
			return badRequest("Due date must be YYYY-MM-DD")
		}
	}
	if err := checkGoalLink(req.GoalID, userID); err != nil {
		return err
	}

	task := models.Task{
		UserID:   userID,
		GoalID:   req.GoalID,
		Title:    req.Title,
		Notes:    req.Notes,
		Status:   models.TaskStatusTodo,
		Priority: req.Priority,
		DueDate:  req.DueDate,
	}
	if err := database.DB.Create(&task).Error; err != nil {
		return storageError("create task", err)
	}

	WS.Send(userID, WSEvent{Type: EventTaskUpdated, Data: task})
	return c.Status(fiber.StatusCreated).JSON(task)
}

// UpdateTask edits a task. Moving it to completed stamps completed_at and
// earns XP, moving it out of completed clears the stamp.
func UpdateTask(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	taskID, err := parseID(c, "id", "task")
	if err != nil {
		return err
	}

	var task models.Task
	if err := findOwned(&task, taskID, userID, "Task"); err != nil {
		return err
	}

	var req models.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("Invalid request body")
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return badRequest("Title is required")
		}
		task.Title = *req.Title
	}
	if req.Notes != nil {
		task.Notes = req.Notes
	}
	if req.Priority != nil {
		if !validPriority(*req.Priority) {
			return badRequest("Priority must be low, medium or high")
		}
		task.Priority = *req.Priority
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			task.DueDate = nil
		} else if _, err := services.ParseDay(*req.DueDate); err != nil {
			return badRequest("Due date must be YYYY-MM-DD")
		} else {
			task.DueDate = req.DueDate
		}
	}
	if req.GoalID != nil {
		if err := checkGoalLink(req.GoalID, userID); err != nil {
			return err
		}
		task.GoalID = req.GoalID
	}

	completedNow := false
	if req.Status != nil {
		if !validTaskStatus(*req.Status) {
			return badRequest("Status must be todo, in_progress or completed")
		}
		switch {
		case *req.Status == models.TaskStatusCompleted && task.Status != models.TaskStatusCompleted:
			t := now()
			task.CompletedAt = &t
			completedNow = true
		case *req.Status != models.TaskStatusCompleted:
			task.CompletedAt = nil
		}
		task.Status = *req.Status
	}

	if err := database.DB.Save(&task).Error; err != nil {
		return storageError("update task", err)
	}

	if completedNow {
		res := awardXP(userID, services.XPTaskCompleted)
		xp := 0
		if res.Applied {
			xp = services.XPTaskCompleted
		}
		LogActivity(userID, models.ActivityTaskCompleted, &task.ID, xp, map[string]interface{}{
			"title": task.Title,
		})
	}

	WS.Send(userID, WSEvent{Type: EventTaskUpdated, Data: task})
	return c.JSON(task)
}

func DeleteTask(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	taskID, err := parseID(c, "id", "task")
	if err != nil {
		return err
	}

	var task models.Task
	if err := findOwned(&task, taskID, userID, "Task"); err != nil {
		return err
	}

	if err := database.DB.Delete(&task).Error; err != nil {
		return storageError("delete task", err)
	}

	WS.Send(userID, WSEvent{Type: EventTaskDeleted, Data: fiber.Map{"id": task.ID}})
	return c.JSON(fiber.Map{"message": "Task deleted"})
}

// completedTasksOn counts tasks finished on a client day, for the dashboard.
func completedTasksOn(userID uuid.UUID, day time.Time, tz int) (int64, error) {
	offset := time.Duration(tz) * time.Minute
	start := day.Add(offset)
	end := start.Add(24 * time.Hour)

	var count int64
	err := database.DB.Model(&models.Task{}).
		Where("user_id = ? AND status = ? AND completed_at >= ? AND completed_at < ?", userID, models.TaskStatusCompleted, start, end).
		Count(&count).Error
	return count, err
}
