package delivery

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler отвечает на liveness-проверки
type HealthHandler struct {
	platformConfigured bool
}

// NewHealthHandler создает health handler
func NewHealthHandler(platformConfigured bool) *HealthHandler {
	return &HealthHandler{platformConfigured: platformConfigured}
}

// Health возвращает статус сервиса
// GET /health
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return respondOK(c, fiber.Map{
		"status":              "OK",
		"message":             "Auth backend is running",
		"timestamp":           time.Now().UTC().Format(time.RFC3339),
		"platform_configured": h.platformConfigured,
	})
}
