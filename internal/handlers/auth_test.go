package handlers

import (
	"testing"

	"github.com/forge-app/forge-api/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestAuth(t *testing.T) {
	env := setupApp(t)

	var reg models.AuthResponse
	status := env.do("POST", "/api/auth/register", "", `{"email":"Sam@Example.com","password":"hunter22","name":"Sam"}`, &reg)
	require.Equal(t, fiber.StatusCreated, status)
	require.NotEmpty(t, reg.Token)
	require.Equal(t, "sam@example.com", reg.User.Email)
	require.Equal(t, 1, reg.User.Level)

	t.Run("duplicate email", func(t *testing.T) {
		status := env.do("POST", "/api/auth/register", "", `{"email":"sam@example.com","password":"hunter22"}`, nil)
		require.Equal(t, fiber.StatusConflict, status)
	})

	t.Run("short password", func(t *testing.T) {
		var body map[string]string
		status := env.do("POST", "/api/auth/register", "", `{"email":"x@example.com","password":"abc"}`, &body)
		require.Equal(t, fiber.StatusBadRequest, status)
		require.NotEmpty(t, body["error"])
	})

	t.Run("wrong password", func(t *testing.T) {
		status := env.do("POST", "/api/auth/login", "", `{"email":"sam@example.com","password":"nope-nope"}`, nil)
		require.Equal(t, fiber.StatusUnauthorized, status)
	})

	t.Run("login and read profile", func(t *testing.T) {
		var login models.AuthResponse
		status := env.do("POST", "/api/auth/login", "", `{"email":"sam@example.com","password":"hunter22"}`, &login)
		require.Equal(t, fiber.StatusOK, status)

		var me map[string]interface{}
		status = env.do("GET", "/api/me", login.Token, "", &me)
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, "Sam", me["name"])
		require.EqualValues(t, 1, me["level"])
		require.EqualValues(t, 0, me["xp"])
		require.EqualValues(t, 100, me["xpToNextLevel"])
	})

	t.Run("update profile", func(t *testing.T) {
		var me map[string]interface{}
		status := env.do("PUT", "/api/me", reg.Token, `{"name":"Samira","tzOffset":-180}`, &me)
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, "Samira", me["name"])
		require.EqualValues(t, -180, me["tzOffset"])

		status = env.do("PUT", "/api/me", reg.Token, `{"tzOffset":5000}`, nil)
		require.Equal(t, fiber.StatusBadRequest, status)
	})
}
