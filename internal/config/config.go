package config

import (
	"os"
	"strconv"
)

// AppConfig - базовые настройки HTTP сервера и режима запуска
type AppConfig struct {
	Env  string // development или production
	Port int
}

// ZitadelConfig - подключение к identity-платформе
type ZitadelConfig struct {
	Domain       string
	InsecurePort string // порт для insecure-соединения с localhost
	PAT          string // Personal Access Token сервисного аккаунта
	KeyPath      string // путь к JWT key file (альтернатива PAT)
	OrgID        string
}

// MongoConfig - подключение к документному хранилищу
type MongoConfig struct {
	URI      string
	Database string
}

// RedisConfig - опциональный Redis для rate limiting OTP
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// FCMConfig - креденшелы для push-доставки через FCM HTTP v1 API.
// Сервисный аккаунт передается либо как base64 blob, либо как путь к файлу.
type FCMConfig struct {
	CredentialsJSON string
	CredentialsPath string
	ProjectID       string
}

// SecurityConfig - параметры OTP и хеширования паролей
type SecurityConfig struct {
	OTPTTLMinutes               int
	OTPRateLimitPerPhonePerHour int
	PasswordHashCost            int
}

type Config struct {
	App      AppConfig
	Zitadel  ZitadelConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	FCM      FCMConfig
	Security SecurityConfig
}

// Load собирает конфигурацию из переменных окружения.
// Отсутствие креденшелов платформы не является ошибкой: сервис стартует
// в деградированном режиме "not configured" вместо падения.
func Load() *Config {
	cfg := &Config{}

	cfg.App.Env = getEnv("APP_ENV", "development")
	cfg.App.Port = getEnvInt("PORT", 3000)

	cfg.Zitadel.Domain = os.Getenv("ZITADEL_DOMAIN")
	cfg.Zitadel.InsecurePort = getEnv("ZITADEL_INSECURE_PORT", "8080")
	cfg.Zitadel.PAT = os.Getenv("ZITADEL_PAT")
	cfg.Zitadel.KeyPath = os.Getenv("ZITADEL_KEY_PATH")
	cfg.Zitadel.OrgID = os.Getenv("ZITADEL_ORG_ID")

	cfg.Mongo.URI = os.Getenv("MONGO_URI")
	cfg.Mongo.Database = getEnv("MONGO_DB", "auth")

	cfg.Redis.Addr = os.Getenv("REDIS_ADDR")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)

	cfg.FCM.CredentialsJSON = os.Getenv("FCM_SERVICE_ACCOUNT")
	cfg.FCM.CredentialsPath = os.Getenv("FCM_SERVICE_ACCOUNT_PATH")
	cfg.FCM.ProjectID = os.Getenv("FCM_PROJECT_ID")

	cfg.Security.OTPTTLMinutes = getEnvInt("OTP_TTL_MINUTES", 5)
	cfg.Security.OTPRateLimitPerPhonePerHour = getEnvInt("OTP_RATE_LIMIT_PER_PHONE_PER_HOUR", 5)
	cfg.Security.PasswordHashCost = getEnvInt("PASSWORD_HASH_COST", 12)

	return cfg
}

// IsDevelopment сообщает, работает ли сервис в dev-режиме.
// В dev-режиме OTP код возвращается в ответе (эмуляция SMS канала).
func (c *Config) IsDevelopment() bool {
	return c.App.Env != "production"
}

// ZitadelConfigured проверяет, заданы ли креденшелы identity-платформы
func (c *Config) ZitadelConfigured() bool {
	return c.Zitadel.Domain != "" && (c.Zitadel.PAT != "" || c.Zitadel.KeyPath != "")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
