package routes

import (
	"github.com/forge-app/forge-api/internal/handlers"
	"github.com/forge-app/forge-api/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

func Setup(app *fiber.App) {
	app.Static("/uploads", handlers.UploadDir)

	api := app.Group("/api")
	api.Get("/health", handlers.Health)

	auth := api.Group("/auth")
	auth.Post("/register", handlers.Register)
	auth.Post("/login", handlers.Login)

	protected := api.Group("/", middleware.Protected())

	protected.Get("/me", handlers.GetMe)
	protected.Put("/me", handlers.UpdateProfile)

	habits := protected.Group("/habits")
	habits.Get("/", handlers.GetHabits)
	habits.Post("/", handlers.CreateHabit)
	habits.Get("/today", handlers.GetTodayHabits)
	habits.Get("/:id", handlers.GetHabit)
	habits.Put("/:id", handlers.UpdateHabit)
	habits.Delete("/:id", handlers.DeleteHabit)
	habits.Post("/:id/log", handlers.LogHabit)

	goals := protected.Group("/goals")
	goals.Get("/", handlers.GetGoals)
	goals.Post("/", handlers.CreateGoal)
	goals.Get("/:id", handlers.GetGoal)
	goals.Put("/:id", handlers.UpdateGoal)
	goals.Delete("/:id", handlers.DeleteGoal)
	goals.Put("/:id/milestones", handlers.UpdateMilestones)
	goals.Post("/:id/milestones/:milestoneId/toggle", handlers.ToggleMilestone)
	goals.Put("/:id/status", handlers.UpdateGoalStatus)

	tasks := protected.Group("/tasks")
	tasks.Get("/", handlers.GetTasks)
	tasks.Post("/", handlers.CreateTask)
	tasks.Get("/:id", handlers.GetTask)
	tasks.Put("/:id", handlers.UpdateTask)
	tasks.Delete("/:id", handlers.DeleteTask)

	dumps := protected.Group("/braindump")
	dumps.Get("/", handlers.GetBrainDumps)
	dumps.Post("/", handlers.CreateBrainDump)
	dumps.Put("/:id", handlers.UpdateBrainDump)
	dumps.Delete("/:id", handlers.DeleteBrainDump)
	dumps.Post("/:id/convert", handlers.ConvertBrainDump)

	prayers := protected.Group("/prayers")
	prayers.Get("/", handlers.GetPrayers)
	prayers.Put("/", handlers.UpsertPrayer)
	prayers.Post("/sweep", handlers.SweepPrayers)

	transactions := protected.Group("/transactions")
	transactions.Get("/", handlers.GetTransactions)
	transactions.Post("/", handlers.CreateTransaction)
	transactions.Put("/:id", handlers.UpdateTransaction)
	transactions.Delete("/:id", handlers.DeleteTransaction)
	transactions.Post("/:id/receipt", handlers.UploadReceipt)
	protected.Get("/finance/summary", handlers.GetFinanceSummary)

	analytics := protected.Group("/analytics")
	analytics.Get("/trend", handlers.GetTrend)
	analytics.Get("/trend.png", handlers.GetTrendChart)
	protected.Get("/dashboard", handlers.GetDashboard)

	protected.Get("/activity", handlers.GetActivity)

	// Notifications
	notifications := protected.Group("/notifications")
	notifications.Get("/", handlers.GetNotifications)
	notifications.Put("/:id/read", handlers.MarkNotificationRead)
	notifications.Post("/read-all", handlers.MarkAllRead)

	// Device token for push notifications
	protected.Post("/device-token", handlers.RegisterDeviceToken)

	// WebSocket for syncing a user's sessions
	app.Use("/ws", handlers.WebSocketUpgrade())
	app.Get("/ws", websocket.New(handlers.HandleWebSocket))
}
