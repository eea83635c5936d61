package handlers

import (
	"errors"

	"tokoshop/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Response is the envelope every endpoint returns.
type Response struct {
	Status  string  `json:"status"`
	Message *string `json:"message"`
	Data    any     `json:"data"`
}

func respond(c *fiber.Ctx, status int, message string, data any) error {
	res := Response{Status: "success", Data: data}
	if message != "" {
		res.Message = &message
	}
	return c.Status(status).JSON(res)
}

func respondFailure(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{Status: "error", Message: &message, Data: data})
}

// respondError maps an error onto the envelope. Unknown errors become a
// generic 500 and are logged with the request context.
func respondError(c *fiber.Ctx, err error) error {
	var bindErr *BindError
	if errors.As(err, &bindErr) {
		return respondFailure(c, fiber.StatusBadRequest, bindErr.Message, bindErr.Fields)
	}

	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		requestID, _ := c.Locals("requestid").(string)
		log.Error().Err(err).
			Str("request_id", requestID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("request failed")
		return respondFailure(c, status, "internal server error", nil)
	}

	message := err.Error()
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		message = svcErr.Msg
	}
	return respondFailure(c, status, message, nil)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrDuplicate),
		errors.Is(err, services.ErrInUse),
		errors.Is(err, services.ErrGateway),
		errors.Is(err, services.ErrSignature),
		errors.Is(err, services.ErrMalformedEvent):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}
