package domain

import "time"

// User - профиль пользователя в документном хранилище.
// Ключ документа - идентификатор, выданный identity-платформой.
// Хеш пароля никогда не сериализуется в ответах.
type User struct {
	UID             string     `bson:"_id" json:"uid"`
	Email           string     `bson:"email" json:"email"`
	Phone           string     `bson:"phone" json:"phone"`
	FullName        string     `bson:"fullName" json:"fullName"`
	PasswordHash    string     `bson:"passwordHash,omitempty" json:"-"`
	IsPhoneVerified bool       `bson:"isPhoneVerified" json:"isPhoneVerified"`
	IsEmailVerified bool       `bson:"isEmailVerified" json:"isEmailVerified"`
	FCMTokens       []string   `bson:"fcmTokens,omitempty" json:"fcmTokens,omitempty"`
	LastTokenUpdate *time.Time `bson:"lastTokenUpdate,omitempty" json:"lastTokenUpdate,omitempty"`
	CreatedAt       time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// UserSummary - урезанное представление пользователя для ответов signup/login
type UserSummary struct {
	UID      string `json:"uid"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
}

// Summary возвращает представление без чувствительных полей
func (u *User) Summary() *UserSummary {
	return &UserSummary{
		UID:      u.UID,
		Email:    u.Email,
		FullName: u.FullName,
		Phone:    u.Phone,
	}
}
