package response

import "github.com/gofiber/fiber/v2"

// Every failure surfaces as {"error": <message>} with a status code; no stack
// traces or internals leak to the client.

func OK(c *fiber.Ctx, data interface{}) error {
	return c.JSON(data)
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

func ServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}
