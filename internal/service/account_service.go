package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"auth-service/internal/domain"
	"auth-service/internal/repository"
)

// AccountService - workflow регистрации, входа, профиля и device-токенов.
// Ни одна операция не возвращает голую ошибку: любой сбой превращается
// в {success:false, message}, статусы назначает delivery-слой.
type AccountService struct {
	platform *Platform
	hashCost int
	log      *zap.SugaredLogger
}

// NewAccountService создает account workflow
func NewAccountService(platform *Platform, hashCost int, log *zap.SugaredLogger) *AccountService {
	return &AccountService{
		platform: platform,
		hashCost: hashCost,
		log:      log,
	}
}

// Signup создает аккаунт: проверка уникальности email у identity-платформы,
// bcrypt хеш, запись в identity-платформе, профиль в document store, токен.
// Компенсации нет: если профиль не записался после создания identity-записи,
// остается осиротевшая запись (логируется).
func (s *AccountService) Signup(ctx context.Context, req domain.SignupRequest) *domain.AuthResponse {
	if !s.platform.Configured() {
		return domain.Fail(domain.MsgNotConfigured)
	}

	if _, err := s.platform.Identity.GetUserIDByEmail(ctx, req.Email); err == nil {
		return domain.Fail("User with this email already exists")
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		s.log.Errorf("Failed to check existing user by email: %v", err)
		return domain.Fail("Failed to create user")
	}

	// Хешируем до любой записи, чтобы пароль в открытом виде никуда не попал
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		s.log.Errorf("Failed to hash password: %v", err)
		return domain.Fail("Failed to create user")
	}

	uid, err := s.platform.Identity.CreateUser(ctx, req.Email, req.Phone, req.FullName)
	if err != nil {
		s.log.Errorf("Failed to create user in identity provider: %v", err)
		return domain.Fail(identityFailureMessage(err))
	}

	user := &domain.User{
		UID:             uid,
		Email:           req.Email,
		Phone:           req.Phone,
		FullName:        req.FullName,
		PasswordHash:    string(hash),
		IsPhoneVerified: false,
		IsEmailVerified: false,
	}
	if err := s.platform.Users.Create(ctx, user); err != nil {
		// Известный разрыв: identity-запись уже существует без профиля
		s.log.Warnf("Orphaned identity record %s: profile write failed: %v", uid, err)
		return domain.Fail("Failed to create user profile")
	}

	token, err := s.platform.Identity.IssueToken(ctx, uid)
	if err != nil {
		s.log.Errorf("Failed to issue token for new user %s: %v", uid, err)
		return domain.Fail("Failed to issue authentication token")
	}

	s.log.Infof("✅ User created: UserID=%s, Email=%s", uid, req.Email)

	return &domain.AuthResponse{
		Success: true,
		Message: "User created successfully",
		User:    user.Summary(),
		Token:   token,
	}
}

// Login проверяет пароль против хеша из профиля.
// Сообщение об ошибке всегда одно и то же - без различения "нет пользователя"
// и "неверный пароль", чтобы не допускать перечисление аккаунтов.
func (s *AccountService) Login(ctx context.Context, req domain.LoginRequest) *domain.AuthResponse {
	if !s.platform.Configured() {
		return domain.Fail(domain.MsgNotConfigured)
	}

	user, err := s.platform.Users.FindByEmail(ctx, req.Email)
	if err != nil || user.PasswordHash == "" {
		return domain.Fail(domain.MsgInvalidCreds)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return domain.Fail(domain.MsgInvalidCreds)
	}

	token, err := s.platform.Identity.IssueToken(ctx, user.UID)
	if err != nil {
		s.log.Errorf("Failed to issue token for user %s: %v", user.UID, err)
		return domain.Fail(domain.MsgInvalidCreds)
	}

	s.log.Infof("✅ Login successful: UserID=%s", user.UID)

	return &domain.AuthResponse{
		Success: true,
		Message: "Login successful",
		User:    user.Summary(),
		Token:   token,
	}
}

// GetProfile возвращает профиль по идентификатору или nil, если его нет.
// Caller превращает nil в 404.
func (s *AccountService) GetProfile(ctx context.Context, uid string) *domain.User {
	if !s.platform.Configured() {
		return nil
	}

	user, err := s.platform.Users.FindByID(ctx, uid)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Errorf("Failed to get user profile %s: %v", uid, err)
		}
		return nil
	}
	return user
}

// StoreFCMToken привязывает device token к первому профилю с этим телефоном.
// Дубликаты подавляются на уровне хранилища.
func (s *AccountService) StoreFCMToken(ctx context.Context, phone, token string) *domain.AuthResponse {
	if !s.platform.Configured() {
		return domain.Fail(domain.MsgNotConfigured)
	}

	// Проверка формата не блокирует запись - только предупреждение
	if s.platform.Notifier != nil && !s.platform.Notifier.ValidateToken(token) {
		s.log.Warnf("FCM token for %s has suspicious format", phone)
	}

	user, err := s.platform.Users.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Fail(domain.MsgUserNotFoundPhone)
		}
		s.log.Errorf("Failed to find user by phone: %v", err)
		return domain.Fail("Failed to store FCM token")
	}

	if err := s.platform.Users.AddFCMToken(ctx, user.UID, token); err != nil {
		s.log.Errorf("Failed to store FCM token for user %s: %v", user.UID, err)
		return domain.Fail("Failed to store FCM token")
	}

	s.log.Infof("✅ FCM token stored for user %s", phone)

	return &domain.AuthResponse{Success: true, Message: "FCM token stored successfully"}
}

// SendTestNotification рассылает тестовое уведомление на все токены
// пользователя (dev/admin endpoint).
func (s *AccountService) SendTestNotification(ctx context.Context, phone, message string) *domain.TestFCMResponse {
	if !s.platform.Configured() {
		return &domain.TestFCMResponse{Success: false, Message: domain.MsgNotConfigured}
	}
	if s.platform.Notifier == nil {
		return &domain.TestFCMResponse{Success: false, Message: domain.MsgPushNotConfigured}
	}

	user, err := s.platform.Users.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &domain.TestFCMResponse{Success: false, Message: domain.MsgUserNotFoundPhone}
		}
		s.log.Errorf("Failed to find user by phone: %v", err)
		return &domain.TestFCMResponse{Success: false, Message: "Failed to send test notification"}
	}

	if len(user.FCMTokens) == 0 {
		return &domain.TestFCMResponse{Success: false, Message: "No FCM tokens found for this user"}
	}

	if message == "" {
		message = "Test notification from auth backend"
	}

	results := make([]domain.FCMSendOutcome, 0, len(user.FCMTokens))
	for _, token := range user.FCMTokens {
		result := s.platform.Notifier.SendGeneralNotification(ctx, token, "Test", message, map[string]string{
			"type":      "test",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		results = append(results, domain.FCMSendOutcome{
			Token:  abbreviateToken(token),
			Result: result,
		})
	}

	return &domain.TestFCMResponse{
		Success:    true,
		Message:    "Test notifications sent",
		TokenCount: len(user.FCMTokens),
		Results:    results,
	}
}

// identityFailureMessage переводит доменные ошибки identity-платформы
// в сообщения ответа
func identityFailureMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmailExists):
		return "User with this email already exists"
	case errors.Is(err, domain.ErrInvalidEmail):
		return "Invalid email address"
	case errors.Is(err, domain.ErrWeakPassword):
		return "Password is too weak"
	default:
		return "Failed to create user"
	}
}

// abbreviateToken сокращает токен для логов и ответов
func abbreviateToken(token string) string {
	if len(token) <= 10 {
		return token
	}
	return fmt.Sprintf("%s...", token[:10])
}
