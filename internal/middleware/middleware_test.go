package middleware

import (
	"bytes"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/forge-app/forge-api/internal/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func protectedApp() *fiber.App {
	app := fiber.New()
	app.Get("/private", Protected(), func(c *fiber.Ctx) error {
		return c.SendString(GetUserID(c).String())
	})
	return app
}

func TestProtected(t *testing.T) {
	SetSecret("test-secret")
	userID := uuid.New()

	t.Run("valid token", func(t *testing.T) {
		token, err := GenerateToken(userID, "a@example.com")
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/private", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := protectedApp().Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body bytes.Buffer
		_, err = body.ReadFrom(resp.Body)
		require.NoError(t, err)
		require.Equal(t, userID.String(), body.String())
	})

	t.Run("missing header", func(t *testing.T) {
		resp, err := protectedApp().Test(httptest.NewRequest("GET", "/private", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("not a bearer header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/private", nil)
		req.Header.Set("Authorization", "Token abc")
		resp, err := protectedApp().Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("wrong secret", func(t *testing.T) {
		claims := Claims{UserID: userID, RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other"))
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/private", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := protectedApp().Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := Claims{UserID: userID, RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = ParseToken(token)
		require.Error(t, err)
	})
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)

	app := fiber.New()
	app.Use(RequestLogger())
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	app.Get("/boom", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusBadGateway, "upstream") })

	_, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	require.Contains(t, buf.String(), `"path":"/ok"`)
	require.Contains(t, buf.String(), `"status":204`)
	require.Contains(t, buf.String(), `"level":"info"`)

	buf.Reset()
	_, err = app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	require.Contains(t, buf.String(), `"status":502`)
	require.Contains(t, buf.String(), `"level":"error"`)
}
