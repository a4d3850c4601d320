package service

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strconv"
	"time"

	"go.uber.org/zap"

	"auth-service/internal/domain"
	"auth-service/internal/repository"
)

const otpRateLimitPrefix = "otp_rate_limit:"

// OTPService - workflow одноразовых кодов: генерация, запись с TTL,
// доставка push-then-fallback, верификация.
type OTPService struct {
	platform  *Platform
	ttl       time.Duration
	rateLimit int
	devMode   bool
	log       *zap.SugaredLogger
}

// NewOTPService создает OTP workflow
func NewOTPService(platform *Platform, ttlMinutes, rateLimitPerHour int, devMode bool, log *zap.SugaredLogger) *OTPService {
	return &OTPService{
		platform:  platform,
		ttl:       time.Duration(ttlMinutes) * time.Minute,
		rateLimit: rateLimitPerHour,
		devMode:   devMode,
		log:       log,
	}
}

// SendOTP генерирует код, перезаписывает запись для номера и пытается
// доставить. Политика доставки по порядку:
//  1. push на первый зарегистрированный device token аккаунта с этим телефоном;
//  2. вне production - эхо кода в ответе (эмуляция SMS канала);
//  3. иначе отказ: канала доставки нет.
//
// Запись создается до попытки доставки и остается независимо от ее исхода.
func (s *OTPService) SendOTP(ctx context.Context, phone string) *domain.AuthResponse {
	if !s.platform.Configured() {
		return domain.Fail(domain.MsgNotConfigured)
	}

	if s.platform.Limiter != nil {
		allowed, err := s.allowSend(ctx, phone)
		if err != nil {
			// Недоступный limiter не блокирует отправку
			s.log.Warnf("OTP rate limiter unavailable: %v", err)
		} else if !allowed {
			return domain.Fail(domain.MsgOTPRateLimited)
		}
	}

	code, err := generateOTP()
	if err != nil {
		s.log.Errorf("Failed to generate OTP code: %v", err)
		return domain.Fail("Failed to send OTP")
	}

	now := time.Now().UTC()
	rec := &domain.OTPRecord{
		Phone:     phone,
		Code:      code,
		ExpiresAt: now.Add(s.ttl),
		Verified:  false,
		CreatedAt: now,
	}
	if err := s.platform.OTPs.Upsert(ctx, rec); err != nil {
		s.log.Errorf("Failed to store OTP record for %s: %v", phone, err)
		return domain.Fail("Failed to send OTP")
	}

	// Push доставка: только первый токен, не все устройства
	if s.platform.Notifier != nil {
		user, err := s.platform.Users.FindByPhone(ctx, phone)
		switch {
		case err != nil:
			if !errors.Is(err, repository.ErrNotFound) {
				s.log.Errorf("Failed to look up user for push delivery to %s: %v", phone, err)
			}
		case len(user.FCMTokens) > 0:
			result := s.platform.Notifier.SendOTPNotification(ctx, user.FCMTokens[0], code, phone)
			if result.Success {
				s.log.Infof("✅ OTP delivered via push for %s: %s", phone, result.MessageID)
				resp := &domain.AuthResponse{Success: true, Message: "OTP sent successfully"}
				if s.devMode {
					resp.OTP = code
				}
				return resp
			}
			s.log.Warnf("Push delivery failed for %s: %s", phone, result.Error)
		}
	}

	if s.devMode {
		s.log.Infof("📱 OTP for %s: %s", phone, code)
		return &domain.AuthResponse{
			Success: true,
			Message: "OTP sent successfully",
			OTP:     code,
		}
	}

	return domain.Fail(domain.MsgOTPDeliveryFailed)
}

// VerifyOTP проверяет код: сначала срок, потом точное совпадение.
// Флаг verified записи не проверяется - живой код можно верифицировать
// повторно, single-use намеренно не форсируется.
func (s *OTPService) VerifyOTP(ctx context.Context, phone, otp string) *domain.AuthResponse {
	if !s.platform.Configured() {
		return domain.Fail(domain.MsgNotConfigured)
	}

	rec, err := s.platform.OTPs.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Fail("OTP not found or expired")
		}
		s.log.Errorf("Failed to load OTP record for %s: %v", phone, err)
		return domain.Fail("Failed to verify OTP")
	}

	now := time.Now().UTC()
	if rec.Expired(now) {
		return domain.Fail("OTP has expired")
	}

	if rec.Code != otp {
		return domain.Fail("Invalid OTP")
	}

	if err := s.platform.OTPs.MarkVerified(ctx, phone, now); err != nil {
		s.log.Errorf("Failed to mark OTP verified for %s: %v", phone, err)
		return domain.Fail("Failed to verify OTP")
	}

	// Проставляем флаг первому аккаунту с этим телефоном, если он есть
	if err := s.platform.Users.MarkPhoneVerified(ctx, phone); err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.log.Errorf("Failed to mark phone verified for %s: %v", phone, err)
		return domain.Fail("Failed to verify OTP")
	}

	s.log.Infof("✅ Phone verified: %s", phone)

	return &domain.AuthResponse{Success: true, Message: "Phone number verified successfully"}
}

// allowSend ограничивает отправки на номер: счетчик с часовым окном
func (s *OTPService) allowSend(ctx context.Context, phone string) (bool, error) {
	key := otpRateLimitPrefix + phone
	count, err := s.platform.Limiter.Incr(ctx, key).Result()
	if err != nil {
		return true, err
	}
	if count == 1 {
		if err := s.platform.Limiter.Expire(ctx, key, time.Hour).Err(); err != nil {
			return true, err
		}
	}
	if count > int64(s.rateLimit) {
		s.platform.Limiter.Decr(ctx, key)
		return false, nil
	}
	return true, nil
}

// generateOTP возвращает 6-значный код, равномерно из [100000, 999999]
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
