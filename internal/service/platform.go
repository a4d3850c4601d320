package service

import (
	"github.com/redis/go-redis/v9"

	"auth-service/internal/repository"
)

// Platform - явный capability-объект внешней платформы, собирается один раз
// при старте и передается в workflow-сервисы. nil поле = возможность
// отсутствует. Заменяет глобальный флаг "is configured".
type Platform struct {
	Identity Identity
	Users    repository.UserRepository
	OTPs     repository.OTPRepository
	Notifier Notifier
	Limiter  *redis.Client // опциональный rate limiting, nil = выключен
}

// Configured сообщает, доступны ли identity-платформа и document store.
// Без них все data-зависимые операции отказывают с фиксированным сообщением.
func (p *Platform) Configured() bool {
	return p.Identity != nil && p.Users != nil && p.OTPs != nil
}
