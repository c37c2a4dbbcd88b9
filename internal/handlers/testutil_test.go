package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/forge-app/forge-api/internal/database"
	"github.com/forge-app/forge-api/internal/middleware"
	"github.com/forge-app/forge-api/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testNow is 2026-10-16 15:00 UTC, a Friday.
var testNow = time.Date(2026, 10, 16, 15, 0, 0, 0, time.UTC)

type testEnv struct {
	t   *testing.T
	app *fiber.App
}

func setupApp(t *testing.T) *testEnv {
	t.Helper()

	_, err := database.ConnectMemory()
	require.NoError(t, err)
	require.NoError(t, database.Migrate())

	now = func() time.Time { return testNow }
	t.Cleanup(func() { now = time.Now })

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	api := app.Group("/api")
	api.Post("/auth/register", Register)
	api.Post("/auth/login", Login)

	p := api.Group("/", middleware.Protected())
	p.Get("/me", GetMe)
	p.Put("/me", UpdateProfile)

	p.Get("/habits", GetHabits)
	p.Post("/habits", CreateHabit)
	p.Get("/habits/today", GetTodayHabits)
	p.Get("/habits/:id", GetHabit)
	p.Put("/habits/:id", UpdateHabit)
	p.Delete("/habits/:id", DeleteHabit)
	p.Post("/habits/:id/log", LogHabit)

	p.Get("/goals", GetGoals)
	p.Post("/goals", CreateGoal)
	p.Get("/goals/:id", GetGoal)
	p.Put("/goals/:id", UpdateGoal)
	p.Delete("/goals/:id", DeleteGoal)
	p.Put("/goals/:id/milestones", UpdateMilestones)
	p.Post("/goals/:id/milestones/:milestoneId/toggle", ToggleMilestone)
	p.Put("/goals/:id/status", UpdateGoalStatus)

	p.Get("/tasks", GetTasks)
	p.Post("/tasks", CreateTask)
	p.Put("/tasks/:id", UpdateTask)
	p.Delete("/tasks/:id", DeleteTask)

	p.Get("/braindump", GetBrainDumps)
	p.Post("/braindump", CreateBrainDump)
	p.Post("/braindump/:id/convert", ConvertBrainDump)

	p.Get("/prayers", GetPrayers)
	p.Put("/prayers", UpsertPrayer)
	p.Post("/prayers/sweep", SweepPrayers)

	p.Get("/transactions", GetTransactions)
	p.Post("/transactions", CreateTransaction)
	p.Put("/transactions/:id", UpdateTransaction)
	p.Delete("/transactions/:id", DeleteTransaction)
	p.Get("/finance/summary", GetFinanceSummary)

	p.Get("/analytics/trend", GetTrend)
	p.Get("/dashboard", GetDashboard)
	p.Get("/activity", GetActivity)
	p.Get("/notifications", GetNotifications)
	p.Put("/notifications/:id/read", MarkNotificationRead)
	p.Post("/notifications/read-all", MarkAllRead)
	p.Post("/device-token", RegisterDeviceToken)

	return &testEnv{t: t, app: app}
}

// user inserts a user directly and returns it with a signed token.
func (e *testEnv) user(email string, level, xp int) (models.User, string) {
	e.t.Helper()
	u := models.User{Email: email, Level: level, XP: xp, TotalXP: xp}
	require.NoError(e.t, database.DB.Create(&u).Error)
	token, err := middleware.GenerateToken(u.ID, u.Email)
	require.NoError(e.t, err)
	return u, token
}

// do sends a request and decodes a JSON response into out when out is non-nil.
func (e *testEnv) do(method, path, token, body string, out interface{}) int {
	e.t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(e.t, err)
	defer resp.Body.Close()

	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(e.t, err)
		require.NoError(e.t, json.Unmarshal(raw, out), string(raw))
	}
	return resp.StatusCode
}

func reloadUser(t *testing.T, u models.User) models.User {
	t.Helper()
	var fresh models.User
	require.NoError(t, database.DB.First(&fresh, "id = ?", u.ID).Error)
	return fresh
}

// failCounts makes every Count query on the test database fail.
func failCounts(t *testing.T) {
	t.Helper()
	err := database.DB.Callback().Query().Before("gorm:query").Register("test:fail_count", func(db *gorm.DB) {
		if _, ok := db.Statement.Dest.(*int64); ok {
			_ = db.AddError(errors.New("count failed"))
		}
	})
	require.NoError(t, err)
}
