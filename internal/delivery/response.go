package delivery

import (
	"github.com/gofiber/fiber/v2"

	"auth-service/internal/domain"
)

// respondSuccess - успешный ответ с данными
func respondSuccess(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(data)
}

// respondOK - успешный ответ (200)
func respondOK(c *fiber.Ctx, data interface{}) error {
	return respondSuccess(c, fiber.StatusOK, data)
}

// respondValidationError - ошибка валидации запроса (400), тот же shape
// {success, message}, что и у workflow-ответов
func respondValidationError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(domain.Fail(message))
}

// failureStatus сопоставляет фиксированные сообщения workflow-отказов
// с HTTP статусами. Единственное место, где message -> status.
func failureStatus(message string, fallback int) int {
	switch message {
	case domain.MsgNotConfigured, domain.MsgPushNotConfigured, domain.MsgOTPDeliveryFailed:
		return fiber.StatusInternalServerError
	case domain.MsgOTPRateLimited:
		return fiber.StatusTooManyRequests
	case domain.MsgUserNotFoundPhone:
		return fiber.StatusNotFound
	default:
		return fallback
	}
}

// respondResult отправляет workflow-ответ: success -> okStatus,
// failure -> статус по сообщению
func respondResult(c *fiber.Ctx, resp *domain.AuthResponse, okStatus, failStatus int) error {
	if resp.Success {
		return respondSuccess(c, okStatus, resp)
	}
	return c.Status(failureStatus(resp.Message, failStatus)).JSON(resp)
}
