package handlers

import (
	"strings"

	"github.com/forge-app/forge-api/internal/database"
	"github.com/forge-app/forge-api/internal/middleware"
	"github.com/forge-app/forge-api/internal/models"
	"github.com/forge-app/forge-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func goalViews(userID uuid.UUID, goals []models.Goal) ([]models.GoalView, error) {
	ids := make([]uuid.UUID, len(goals))
	for i, g := range goals {
		ids[i] = g.ID
	}

	spend, err := services.ActualSpend(database.DB, userID, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.GoalView, len(goals))
	for i, g := range goals {
		views[i] = models.GoalView{Goal: g, ActualSpend: spend[g.ID]}
	}
	return views, nil
}

func goalView(c *fiber.Ctx, userID uuid.UUID, goal models.Goal) error {
	views, err := goalViews(userID, []models.Goal{goal})
	if err != nil {
		return storageError("load goal spend", err)
	}
	return c.JSON(views[0])
}

// saveGoalState persists the derived goal fields and, when the goal has just
// become completed, pays out the completion reward.
func saveGoalState(userID uuid.UUID, goal *models.Goal, prevStatus string) error {
	if err := database.DB.Model(goal).Updates(map[string]interface{}{
		"progress":     goal.Progress,
		"status":       goal.Status,
		"completed_at": goal.CompletedAt,
		"milestones":   goal.Milestones,
	}).Error; err != nil {
		return storageError("update goal", err)
	}

	if prevStatus != models.GoalStatusCompleted && goal.Status == models.GoalStatusCompleted {
		res := awardXP(userID, services.XPGoalCompleted)
		xp := 0
		if res.Applied {
			xp = services.XPGoalCompleted
		}
		LogActivity(userID, models.ActivityGoalCompleted, &goal.ID, xp, map[string]interface{}{
			"title": goal.Title,
		})
		CreateNotification(userID, models.NotificationGoalCompleted,
			"Goal completed!",
			"You completed \""+goal.Title+"\"",
			map[string]interface{}{"goalId": goal.ID.String()},
		)
	}

	WS.Send(userID, WSEvent{Type: EventGoalUpdated, Data: goal})
	return nil
}

func GetGoals(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	query := database.DB.Where("user_id = ?", userID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var goals []models.Goal
	if err := query.Order("created_at DESC").Find(&goals).Error; err != nil {
		return storageError("load goals", err)
	}

	views, err := goalViews(userID, goals)
	if err != nil {
		return storageError("load goal spend", err)
	}
	return c.JSON(views)
}

func GetGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := parseID(c, "id", "goal")
	if err != nil {
		return err
	}

	var goal models.Goal
	if err := findOwned(&goal, goalID, userID, "Goal"); err != nil {
		return err
	}

	return goalView(c, userID, goal)
}

func CreateGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("Invalid request body")
	}

	if strings.TrimSpace(req.Title) == "" {
		return badRequest("Title is required")
	}
	if req.TargetAmount != nil && req.TargetAmount.IsNegative() {
		return badRequest("Target amount cannot be negative")
	}
	if req.TargetDate != nil {
		if _, err := services.ParseDay(*req.TargetDate); err != nil {
			return badRequest("Target date must be YYYY-MM-DD")
		}
	}

	milestones := make([]models.Milestone, 0, len(req.Milestones))
	for _, title := range req.Milestones {
		if strings.TrimSpace(title) == "" {
			continue
		}
		milestones = append(milestones, models.Milestone{ID: uuid.NewString(), Title: title})
	}

	goal := models.Goal{
		UserID:       userID,
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Status:       models.GoalStatusActive,
		TargetDate:   req.TargetDate,
		TargetAmount: req.TargetAmount,
		Milestones:   datatypes.NewJSONType(milestones),
	}
	if err := database.DB.Create(&goal).Error; err != nil {
		return storageError("create goal", err)
	}

	WS.Send(userID, WSEvent{Type: EventGoalUpdated, Data: goal})
	return c.Status(fiber.StatusCreated).JSON(models.GoalView{Goal: goal})
}

func UpdateGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := parseID(c, "id", "goal")
	if err != nil {
		return err
	}

	var goal models.Goal
	if err := findOwned(&goal, goalID, userID, "Goal"); err != nil {
		return err
	}

	var req models.UpdateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("Invalid request body")
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return badRequest("Title is required")
		}
		goal.Title = *req.Title
	}
	if req.Description != nil {
		goal.Description = req.Description
	}
	if req.Category != nil {
		goal.Category = req.Category
	}
	if req.TargetDate != nil {
		if *req.TargetDate == "" {
			goal.TargetDate = nil
		} else if _, err := services.ParseDay(*req.TargetDate); err != nil {
			return badRequest("Target date must be YYYY-MM-DD")
		} else {
			goal.TargetDate = req.TargetDate
		}
	}
	if req.TargetAmount != nil {
		if req.TargetAmount.IsNegative() {
			return badRequest("Target amount cannot be negative")
		}
		goal.TargetAmount = req.TargetAmount
	}

	if err := database.DB.Save(&goal).Error; err != nil {
		return storageError("update goal", err)
	}

	WS.Send(userID, WSEvent{Type: EventGoalUpdated, Data: goal})
	return goalView(c, userID, goal)
}

// DeleteGoal removes a goal and unlinks the tasks and transactions that
// pointed at it.
func DeleteGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := parseID(c, "id", "goal")
	if err != nil {
		return err
	}

	var goal models.Goal
	if err := findOwned(&goal, goalID, userID, "Goal"); err != nil {
		return err
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).Where("goal_id = ?", goal.ID).Update("goal_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Transaction{}).Where("goal_id = ?", goal.ID).Update("goal_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&goal).Error
	})
	if err != nil {
		return storageError("delete goal", err)
	}

	WS.Send(userID, WSEvent{Type: EventGoalDeleted, Data: fiber.Map{"id": goal.ID}})
	return c.JSON(fiber.Map{"message": "Goal deleted"})
}

// UpdateMilestones replaces the milestone list and recomputes progress.
// Milestones without an id are new and get one.
func UpdateMilestones(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := parseID(c, "id", "goal")
	if err != nil {
		return err
	}

	var goal models.Goal
	if err := findOwned(&goal, goalID, userID, "Goal"); err != nil {
		return err
	}

	var req models.UpdateMilestonesRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("Invalid request body")
	}

	milestones := make([]models.Milestone, 0, len(req.Milestones))
	seen := make(map[string]bool, len(req.Milestones))
	for _, m := range req.Milestones {
		if strings.TrimSpace(m.Title) == "" {
			return badRequest("Milestone title is required")
		}
		id := m.ID
		if id == "" || seen[id] {
			id = uuid.NewString()
		}
		seen[id] = true
		milestones = append(milestones, models.Milestone{ID: id, Title: m.Title, Completed: m.Completed})
	}

	prevStatus := goal.Status
	services.UpdateMilestones(services.StateOf(&goal), milestones, now()).Apply(&goal)
	goal.Milestones = datatypes.NewJSONType(milestones)

	if err := saveGoalState(userID, &goal, prevStatus); err != nil {
		return err
	}
	return goalView(c, userID, goal)
}

// ToggleMilestone flips one milestone and recomputes progress.
func ToggleMilestone(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := parseID(c, "id", "goal")
	if err != nil {
		return err
	}

	var goal models.Goal
	if err := findOwned(&goal, goalID, userID, "Goal"); err != nil {
		return err
	}

	milestoneID := c.Params("milestoneId")
	milestones := goal.Milestones.Data()
	found := false
	for i := range milestones {
		if milestones[i].ID == milestoneID {
			milestones[i].Completed = !milestones[i].Completed
			found = true
			break
		}
	}
	if !found {
		return fiber.NewError(fiber.StatusNotFound, "Milestone not found")
	}

	prevStatus := goal.Status
	services.UpdateMilestones(services.StateOf(&goal), milestones, now()).Apply(&goal)
	goal.Milestones = datatypes.NewJSONType(milestones)

	if err := saveGoalState(userID, &goal, prevStatus); err != nil {
		return err
	}
	return goalView(c, userID, goal)
}

// UpdateGoalStatus is the manual status path. It can demote a completed goal,
// which automatic progress never does.
func UpdateGoalStatus(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := parseID(c, "id", "goal")
	if err != nil {
		return err
	}

	var goal models.Goal
	if err := findOwned(&goal, goalID, userID, "Goal"); err != nil {
		return err
	}

	var req models.UpdateGoalStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("Invalid request body")
	}

	prevStatus := goal.Status
	state, err := services.SetGoalStatus(services.StateOf(&goal), req.Status, now())
	if err != nil {
		return badRequest("Status must be active, completed or archived")
	}
	state.Apply(&goal)

	if err := saveGoalState(userID, &goal, prevStatus); err != nil {
		return err
	}
	return goalView(c, userID, goal)
}
