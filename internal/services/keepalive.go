package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/forge-app/forge-api/internal/logger"
	"github.com/gofiber/fiber/v2"
)

// StartKeepAlive pings url every interval until ctx is done. Hosting tiers that
// sleep idle instances stay warm this way.
func StartKeepAlive(ctx context.Context, url string, interval time.Duration) {
	if url == "" || interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := Ping(url); err != nil {
					logger.Log.Warn().Err(err).Str("url", url).Msg("keep-alive ping failed")
					continue
				}
				logger.Log.Debug().Str("url", url).Msg("keep-alive ping ok")
			}
		}
	}()
}

// Ping issues one GET and fails on transport errors or non-2xx responses.
func Ping(url string) error {
	agent := fiber.Get(url).Timeout(10 * time.Second)
	code, _, errs := agent.Bytes()
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if code < 200 || code > 299 {
		return fmt.Errorf("keep-alive got status %d", code)
	}
	return nil
}
