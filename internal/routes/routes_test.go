package routes

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/forge-app/forge-api/internal/database"
	"github.com/forge-app/forge-api/internal/handlers"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	_, err := database.ConnectMemory()
	require.NoError(t, err)
	require.NoError(t, database.Migrate())

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	Setup(app)

	t.Run("health is public", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/health", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("register is public", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/auth/register",
			strings.NewReader(`{"email":"routes@example.com","password":"secret1"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	})

	protected := []struct{ method, path string }{
		{"GET", "/api/me"},
		{"GET", "/api/habits"},
		{"GET", "/api/goals"},
		{"GET", "/api/tasks"},
		{"GET", "/api/braindump"},
		{"GET", "/api/prayers"},
		{"GET", "/api/transactions"},
		{"GET", "/api/finance/summary"},
		{"GET", "/api/analytics/trend"},
		{"GET", "/api/dashboard"},
		{"GET", "/api/activity"},
		{"GET", "/api/notifications"},
	}
	for _, r := range protected {
		t.Run(r.method+" "+r.path+" needs a token", func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(r.method, r.path, nil))
			require.NoError(t, err)
			require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		})
	}

	t.Run("websocket needs an upgrade", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/ws", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
	})
}
