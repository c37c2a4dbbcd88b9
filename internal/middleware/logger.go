package middleware

import (
	"errors"
	"time"

	"github.com/forge-app/forge-api/internal/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// RequestLogger logs one line per request. Server errors are logged at error
// level, everything else at info.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()

		status := c.Response().StatusCode()
		if chainErr != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(chainErr, &fe) {
				status = fe.Code
			}
		}

		var event *zerolog.Event
		if status >= fiber.StatusInternalServerError {
			event = logger.Log.Error().Err(chainErr)
		} else {
			event = logger.Log.Info()
		}

		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP()).
			Msg("request")

		return chainErr
	}
}
