package delivery

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"auth-service/internal/domain"
)

// FCMHandler обрабатывает регистрацию device-токенов и тестовую рассылку
type FCMHandler struct {
	accounts AccountWorkflow
	log      *zap.SugaredLogger
}

// NewFCMHandler создает новый FCM handler
func NewFCMHandler(accounts AccountWorkflow, log *zap.SugaredLogger) *FCMHandler {
	return &FCMHandler{accounts: accounts, log: log}
}

// StoreFCMToken привязывает device token к аккаунту по номеру телефона
// POST /api/v1/auth/store-fcm-token
func (h *FCMHandler) StoreFCMToken(c *fiber.Ctx) error {
	var req domain.StoreFCMTokenRequest

	if err := c.BodyParser(&req); err != nil {
		h.log.Warnf("Failed to parse store-fcm-token request: %v", err)
		return respondValidationError(c, "Invalid request body")
	}

	if req.FCMToken == "" {
		return respondValidationError(c, "FCM token is required")
	}
	if req.Phone == "" {
		return respondValidationError(c, "Phone number is required to associate FCM token")
	}

	resp := h.accounts.StoreFCMToken(c.Context(), req.Phone, req.FCMToken)
	return respondResult(c, resp, fiber.StatusOK, fiber.StatusBadRequest)
}

// TestFCM рассылает тестовое уведомление на все токены пользователя
// POST /api/v1/auth/test-fcm
func (h *FCMHandler) TestFCM(c *fiber.Ctx) error {
	var req domain.TestFCMRequest

	if err := c.BodyParser(&req); err != nil {
		h.log.Warnf("Failed to parse test-fcm request: %v", err)
		return respondValidationError(c, "Invalid request body")
	}

	if req.Phone == "" {
		return respondValidationError(c, "Phone number is required")
	}

	resp := h.accounts.SendTestNotification(c.Context(), req.Phone, req.Message)
	if !resp.Success {
		return c.Status(failureStatus(resp.Message, fiber.StatusBadRequest)).JSON(resp)
	}
	return respondOK(c, resp)
}
