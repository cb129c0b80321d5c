package presenter

import "github.com/gofiber/fiber/v2"

type ErrorResponse struct {
	Message string `json:"message"`
	// Op names the remote operation that failed, if any.
	Op string `json:"op,omitempty"`
}

// Accepted acknowledges work that continues in the background.
type Accepted struct {
	Status string `json:"status"`
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func Error(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, ErrorResponse{Message: message})
}

func RemoteError(c *fiber.Ctx, status int, op, message string) error {
	return JSON(c, status, ErrorResponse{Message: message, Op: op})
}
