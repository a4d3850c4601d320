package domain

import "time"

// OTPRecord - одноразовый код верификации телефона.
// На один номер существует не больше одной живой записи: повторная отправка
// перезаписывает предыдущую. Истекшие записи не удаляются - срок проверяется
// только в момент верификации.
type OTPRecord struct {
	Phone      string     `bson:"_id" json:"phone"`
	Code       string     `bson:"otp" json:"-"`
	ExpiresAt  time.Time  `bson:"expiresAt" json:"expiresAt"`
	Verified   bool       `bson:"verified" json:"verified"`
	CreatedAt  time.Time  `bson:"createdAt" json:"createdAt"`
	VerifiedAt *time.Time `bson:"verifiedAt,omitempty" json:"verifiedAt,omitempty"`
}

// Expired сообщает, истек ли срок действия кода
func (r *OTPRecord) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}
