package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RequestLogger logs one line per request with its id, user, status and
// latency. It must run after the requestid middleware.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()
		if chainErr != nil {
			// Let the app's error handler set the status before logging.
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		var evt *zerolog.Event
		switch {
		case status >= fiber.StatusInternalServerError:
			evt = log.Error()
		case status >= fiber.StatusBadRequest:
			evt = log.Warn()
		default:
			evt = log.Info()
		}

		requestID, _ := c.Locals("requestid").(string)
		userID := UserID(c)
		if userID == "" {
			userID = "anonymous"
		}

		evt.Str("request_id", requestID).
			Str("user_id", userID).
			Str("method", c.Method()).
			Str("url", c.OriginalURL()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request completed")
		return nil
	}
}
