package handlers

import "github.com/gofiber/fiber/v2"

type HealthHandler struct{}

// GET /health
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
