package domain

// StoreFCMTokenRequest - привязка device token к пользователю по телефону
type StoreFCMTokenRequest struct {
	FCMToken string `json:"fcmToken"`
	Phone    string `json:"phone"`
}

// TestFCMRequest - тестовая рассылка по всем токенам пользователя (dev endpoint)
type TestFCMRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// FCMResult - результат отправки push уведомления.
// Ошибки доставки не пробрасываются как исключения - всегда этот shape.
type FCMResult struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// FCMSendOutcome - результат отправки на один токен в тестовой рассылке
type FCMSendOutcome struct {
	Token  string    `json:"token"`
	Result FCMResult `json:"result"`
}

// TestFCMResponse - ответ тестовой рассылки
type TestFCMResponse struct {
	Success    bool             `json:"success"`
	Message    string           `json:"message"`
	TokenCount int              `json:"tokenCount,omitempty"`
	Results    []FCMSendOutcome `json:"results,omitempty"`
}
