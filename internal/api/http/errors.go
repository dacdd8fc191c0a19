package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/climate-risk-assistant/internal/weather"
)

// ErrorHandler renders every error as {"error": true, "message": ...}.
// Dependency failures become 502 and name the failing dependency.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	body := fiber.Map{
		"error":   true,
		"message": err.Error(),
	}

	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code = fe.Code
	case errors.Is(err, weather.ErrProviderUnavailable):
		code = fiber.StatusBadGateway
		if dep, ok := weather.DependencyOf(err); ok {
			body["dependency"] = dep
		}
	}

	return c.Status(code).JSON(body)
}
