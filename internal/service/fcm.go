package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"auth-service/internal/config"
	"auth-service/internal/domain"
)

const fcmScope = "https://www.googleapis.com/auth/firebase.messaging"

// Notifier доставляет push уведомления на device token.
// Ошибки доставки никогда не пробрасываются наверх - всегда FCMResult.
type Notifier interface {
	SendOTPNotification(ctx context.Context, token, otp, phone string) domain.FCMResult
	SendGeneralNotification(ctx context.Context, token, title, body string, data map[string]string) domain.FCMResult
	ValidateToken(token string) bool
}

// FCMClient отправляет сообщения через FCM HTTP v1 API,
// авторизуясь токеном сервисного аккаунта.
type FCMClient struct {
	httpClient *http.Client
	projectID  string
	endpoint   string
	log        *zap.SugaredLogger
}

// Токены FCM - ~163 символа из букв, цифр, ':', '_' и '-'
var fcmTokenPattern = regexp.MustCompile(`^[A-Za-z0-9:_-]+$`)

// NewFCMClient создает push клиент из креденшелов сервисного аккаунта.
// Креденшелы принимаются как base64 blob или путь к JSON файлу.
func NewFCMClient(ctx context.Context, cfg config.FCMConfig, log *zap.SugaredLogger) (*FCMClient, error) {
	var raw []byte
	switch {
	case cfg.CredentialsJSON != "":
		decoded, err := base64.StdEncoding.DecodeString(cfg.CredentialsJSON)
		if err != nil {
			// Допускаем и сырой JSON в переменной окружения
			decoded = []byte(cfg.CredentialsJSON)
		}
		raw = decoded
	case cfg.CredentialsPath != "":
		b, err := os.ReadFile(cfg.CredentialsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read FCM service account file: %w", err)
		}
		raw = b
	default:
		return nil, fmt.Errorf("FCM credentials are not configured")
	}

	creds, err := google.CredentialsFromJSON(ctx, raw, fcmScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse FCM service account: %w", err)
	}

	projectID := cfg.ProjectID
	if projectID == "" {
		projectID = creds.ProjectID
	}
	if projectID == "" {
		return nil, fmt.Errorf("FCM project id is not configured")
	}

	httpClient := oauth2.NewClient(ctx, creds.TokenSource)
	httpClient.Timeout = 10 * time.Second

	log.Infof("FCM client initialized for project: %s", projectID)

	return &FCMClient{
		httpClient: httpClient,
		projectID:  projectID,
		endpoint:   fmt.Sprintf("https://fcm.googleapis.com/v1/projects/%s/messages:send", projectID),
		log:        log,
	}, nil
}

// SendOTPNotification доставляет OTP код в push уведомлении
func (c *FCMClient) SendOTPNotification(ctx context.Context, token, otp, phone string) domain.FCMResult {
	msg := &fcmMessage{
		Token: token,
		Notification: &fcmNotification{
			Title: "Verification Code",
			Body:  fmt.Sprintf("Your verification code is: %s", otp),
		},
		Data: map[string]string{
			"type":      "otp",
			"otp":       otp,
			"phone":     phone,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
		Android: &androidConfig{
			Priority: "HIGH",
			Notification: &androidNotification{
				ChannelID: "otp-notifications",
				Sound:     "default",
			},
		},
		APNS: &apnsConfig{
			Payload: map[string]interface{}{
				"aps": map[string]interface{}{
					"alert": map[string]string{
						"title": "Verification Code",
						"body":  fmt.Sprintf("Your verification code is: %s", otp),
					},
					"sound": "default",
					"badge": 1,
				},
			},
		},
	}

	messageID, err := c.send(ctx, msg)
	if err != nil {
		c.log.Errorf("❌ Failed to send FCM OTP notification: %v", err)
		return domain.FCMResult{Success: false, Error: err.Error()}
	}

	c.log.Infof("✅ FCM OTP notification sent: %s", messageID)
	return domain.FCMResult{Success: true, MessageID: messageID}
}

// SendGeneralNotification доставляет произвольное уведомление
func (c *FCMClient) SendGeneralNotification(ctx context.Context, token, title, body string, data map[string]string) domain.FCMResult {
	msg := &fcmMessage{
		Token: token,
		Notification: &fcmNotification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &androidConfig{
			Priority: "NORMAL",
			Notification: &androidNotification{
				Sound: "default",
			},
		},
		APNS: &apnsConfig{
			Payload: map[string]interface{}{
				"aps": map[string]interface{}{
					"alert": map[string]string{
						"title": title,
						"body":  body,
					},
					"sound": "default",
				},
			},
		},
	}

	messageID, err := c.send(ctx, msg)
	if err != nil {
		c.log.Errorf("❌ Failed to send FCM general notification: %v", err)
		return domain.FCMResult{Success: false, Error: err.Error()}
	}

	c.log.Infof("✅ FCM general notification sent: %s", messageID)
	return domain.FCMResult{Success: true, MessageID: messageID}
}

// ValidateToken делает базовую проверку формата device token.
// Проверка доступна, но не является обязательной перед отправкой.
func (c *FCMClient) ValidateToken(token string) bool {
	if len(token) < 100 || len(token) > 200 {
		return false
	}
	return fcmTokenPattern.MatchString(token)
}

func (c *FCMClient) send(ctx context.Context, msg *fcmMessage) (string, error) {
	payload, err := json.Marshal(map[string]*fcmMessage{"message": msg})
	if err != nil {
		return "", fmt.Errorf("failed to marshal FCM message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create FCM request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send FCM request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read FCM response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("FCM API returned status %d: %s", resp.StatusCode, string(body))
	}

	// Успешный ответ содержит имя сообщения вида projects/*/messages/*
	var parsed struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse FCM response: %w", err)
	}
	return parsed.Name, nil
}

type fcmMessage struct {
	Token        string            `json:"token"`
	Notification *fcmNotification  `json:"notification,omitempty"`
	Data         map[string]string `json:"data,omitempty"`
	Android      *androidConfig    `json:"android,omitempty"`
	APNS         *apnsConfig       `json:"apns,omitempty"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type androidConfig struct {
	Priority     string               `json:"priority,omitempty"`
	Notification *androidNotification `json:"notification,omitempty"`
}

type androidNotification struct {
	ChannelID string `json:"channel_id,omitempty"`
	Sound     string `json:"sound,omitempty"`
}

type apnsConfig struct {
	Payload map[string]interface{} `json:"payload,omitempty"`
}
