package delivery

import (
	"context"
	"regexp"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"auth-service/internal/domain"
)

var (
	// Формат email: непустая локальная часть, @, домен с точкой
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// E.164: опциональный +, первая цифра не ноль, до 15 цифр
	phoneRe = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
)

// AccountWorkflow - операции над аккаунтом, которые нужны HTTP слою
type AccountWorkflow interface {
	Signup(ctx context.Context, req domain.SignupRequest) *domain.AuthResponse
	Login(ctx context.Context, req domain.LoginRequest) *domain.AuthResponse
	GetProfile(ctx context.Context, uid string) *domain.User
	StoreFCMToken(ctx context.Context, phone, token string) *domain.AuthResponse
	SendTestNotification(ctx context.Context, phone, message string) *domain.TestFCMResponse
}

// OTPWorkflow - операции верификации телефона
type OTPWorkflow interface {
	SendOTP(ctx context.Context, phone string) *domain.AuthResponse
	VerifyOTP(ctx context.Context, phone, otp string) *domain.AuthResponse
}

// AuthHandler обрабатывает регистрацию, вход и верификацию телефона
type AuthHandler struct {
	accounts AccountWorkflow
	otps     OTPWorkflow
	log      *zap.SugaredLogger
}

// NewAuthHandler создает новый auth handler
func NewAuthHandler(accounts AccountWorkflow, otps OTPWorkflow, log *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		otps:     otps,
		log:      log,
	}
}

// Signup регистрирует нового пользователя
// POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req domain.SignupRequest

	if err := c.BodyParser(&req); err != nil {
		h.log.Warnf("Failed to parse signup request: %v", err)
		return respondValidationError(c, "Invalid request body")
	}

	if req.Email == "" || req.Phone == "" || req.FullName == "" || req.Password == "" {
		return respondValidationError(c, "All fields are required: email, phone, fullName, password")
	}
	if !emailRe.MatchString(req.Email) {
		return respondValidationError(c, "Please provide a valid email address")
	}
	if !phoneRe.MatchString(req.Phone) {
		return respondValidationError(c, "Please provide a valid phone number")
	}
	if len(req.Password) < 6 {
		return respondValidationError(c, "Password must be at least 6 characters long")
	}

	h.log.Infof("📝 Signup request: email=%s", req.Email)

	resp := h.accounts.Signup(c.Context(), req)
	return respondResult(c, resp, fiber.StatusCreated, fiber.StatusBadRequest)
}

// Login выполняет вход по email и паролю
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req domain.LoginRequest

	if err := c.BodyParser(&req); err != nil {
		h.log.Warnf("Failed to parse login request: %v", err)
		return respondValidationError(c, "Invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return respondValidationError(c, "Email and password are required")
	}

	resp := h.accounts.Login(c.Context(), req)
	return respondResult(c, resp, fiber.StatusOK, fiber.StatusUnauthorized)
}

// SendOTP отправляет код верификации на номер телефона
// POST /api/v1/auth/send-otp
func (h *AuthHandler) SendOTP(c *fiber.Ctx) error {
	var req domain.SendOTPRequest

	if err := c.BodyParser(&req); err != nil {
		h.log.Warnf("Failed to parse send-otp request: %v", err)
		return respondValidationError(c, "Invalid request body")
	}

	if req.Phone == "" {
		return respondValidationError(c, "Phone number is required")
	}
	if !phoneRe.MatchString(req.Phone) {
		return respondValidationError(c, "Please provide a valid phone number")
	}

	h.log.Infof("📱 OTP request for phone: %s", req.Phone)

	resp := h.otps.SendOTP(c.Context(), req.Phone)
	return respondResult(c, resp, fiber.StatusOK, fiber.StatusBadRequest)
}

// VerifyOTP проверяет код и отмечает телефон верифицированным
// POST /api/v1/auth/verify-otp
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req domain.VerifyOTPRequest

	if err := c.BodyParser(&req); err != nil {
		h.log.Warnf("Failed to parse verify-otp request: %v", err)
		return respondValidationError(c, "Invalid request body")
	}

	if req.Phone == "" || req.OTP == "" {
		return respondValidationError(c, "Phone number and OTP are required")
	}

	h.log.Infof("🔐 OTP verification attempt for phone: %s", req.Phone)

	resp := h.otps.VerifyOTP(c.Context(), req.Phone, req.OTP)
	return respondResult(c, resp, fiber.StatusOK, fiber.StatusBadRequest)
}

// GetProfile возвращает профиль пользователя по идентификатору.
// Отдается полный документ с флагами верификации и токенами,
// хеш пароля отрезается json-тегом.
// GET /api/v1/auth/profile/:userId
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	uid := c.Params("userId")
	if uid == "" {
		return respondValidationError(c, "User ID is required")
	}

	user := h.accounts.GetProfile(c.Context(), uid)
	if user == nil {
		return c.Status(fiber.StatusNotFound).JSON(domain.Fail("User not found"))
	}

	return respondOK(c, fiber.Map{
		"success": true,
		"user":    user,
	})
}
