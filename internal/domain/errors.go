package domain

import "errors"

var (
	// Identity provider errors
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("user with this email already exists")
	ErrInvalidEmail = errors.New("invalid email address")
	ErrWeakPassword = errors.New("password is too weak")

	// Storage errors
	ErrOTPNotFound = errors.New("OTP record not found")
)

// Фиксированные сообщения ответов. Delivery-слой сопоставляет их
// с HTTP статусами в одном месте (см. delivery.failureStatus).
const (
	MsgNotConfigured     = "Auth platform is not configured. Please set up credentials first."
	MsgPushNotConfigured = "Push delivery is not configured."
	MsgOTPRateLimited    = "Too many OTP requests for this phone number. Try again later."
	MsgOTPDeliveryFailed = "Failed to deliver OTP. No delivery channel available."
	MsgUserNotFoundPhone = "User not found with this phone number"
	MsgInvalidCreds      = "Invalid email or password"
)
