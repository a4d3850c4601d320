package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"auth-service/internal/config"
	"auth-service/internal/delivery"
	"auth-service/internal/repository"
	"auth-service/internal/service"
)

func main() {
	dotenvErr := godotenv.Load()

	cfg := config.Load()

	log := newLogger(cfg)
	defer log.Sync()

	if dotenvErr != nil {
		log.Info("No .env file found, using system environment variables")
	} else {
		log.Info("Environment variables loaded from .env file")
	}

	// Сборка платформы: каждая внешняя возможность подключается независимо,
	// отсутствие любой из них не мешает серверу стартовать
	platform := &service.Platform{}

	if cfg.ZitadelConfigured() {
		identity, err := service.NewZitadelIdentity(context.Background(), cfg.Zitadel, log)
		if err != nil {
			log.Warnf("❌ Identity provider unavailable: %v", err)
		} else {
			platform.Identity = identity
			log.Info("✅ Identity provider connected")
		}
	} else {
		log.Warn("Identity provider is not configured (ZITADEL_DOMAIN / credentials missing)")
	}

	var mongoClient *mongo.Client
	if cfg.Mongo.URI != "" {
		db, client, err := repository.ConnectMongo(cfg.Mongo.URI, cfg.Mongo.Database, log)
		if err != nil {
			log.Warnf("❌ Document store unavailable: %v", err)
		} else {
			mongoClient = client
			platform.Users = repository.NewMongoUserRepo(db, log)
			platform.OTPs = repository.NewMongoOTPRepo(db)
			log.Info("✅ Document store connected")
		}
	} else {
		log.Warn("Document store is not configured (MONGO_URI missing)")
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warnf("❌ Rate limiter unavailable: %v", err)
			redisClient.Close()
			redisClient = nil
		} else {
			platform.Limiter = redisClient
			log.Info("✅ Rate limiter connected")
		}
		cancel()
	}

	if cfg.FCM.CredentialsJSON != "" || cfg.FCM.CredentialsPath != "" {
		notifier, err := service.NewFCMClient(context.Background(), cfg.FCM, log)
		if err != nil {
			log.Warnf("❌ Push delivery unavailable: %v", err)
		} else {
			platform.Notifier = notifier
			log.Info("✅ Push delivery connected")
		}
	} else {
		log.Warn("Push delivery is not configured (FCM credentials missing)")
	}

	if !platform.Configured() {
		log.Warn("⚠️ Platform is not fully configured, data-dependent endpoints will return errors")
	}

	accounts := service.NewAccountService(platform, cfg.Security.PasswordHashCost, log)
	otps := service.NewOTPService(
		platform,
		cfg.Security.OTPTTLMinutes,
		cfg.Security.OTPRateLimitPerPhonePerHour,
		cfg.IsDevelopment(),
		log,
	)

	authHandler := delivery.NewAuthHandler(accounts, otps, log)
	fcmHandler := delivery.NewFCMHandler(accounts, log)
	healthHandler := delivery.NewHealthHandler(platform.Configured())

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Health check
	app.Get("/health", healthHandler.Health)

	// Аутентификация и верификация телефона
	auth := app.Group("/api/v1/auth")
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/login", authHandler.Login)
	auth.Post("/send-otp", authHandler.SendOTP)
	auth.Post("/verify-otp", authHandler.VerifyOTP)
	auth.Get("/profile/:userId", authHandler.GetProfile)

	// Device токены
	auth.Post("/store-fcm-token", fcmHandler.StoreFCMToken)
	auth.Post("/test-fcm", fcmHandler.TestFCM)

	// 404 для незарегистрированных маршрутов
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Route not found",
		})
	})

	go func() {
		log.Infof("🚀 Auth backend listening on port %d", cfg.App.Port)
		if err := app.Listen(fmt.Sprintf(":%d", cfg.App.Port)); err != nil {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	// Graceful shutdown по SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Errorf("Server shutdown error: %v", err)
	}
	if mongoClient != nil {
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			log.Errorf("Mongo disconnect error: %v", err)
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Errorf("Redis close error: %v", err)
		}
	}

	log.Info("Server stopped")
}

// newLogger создает zap логгер: dev конфиг вне production
func newLogger(cfg *config.Config) *zap.SugaredLogger {
	var base *zap.Logger
	var err error
	if cfg.IsDevelopment() {
		base, err = zap.NewDevelopment()
	} else {
		base, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return base.Sugar()
}
