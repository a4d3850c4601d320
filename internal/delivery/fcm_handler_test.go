package delivery

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"auth-service/internal/domain"
)

func TestStoreFCMTokenHandler(t *testing.T) {
	accounts := &fakeAccounts{storeResp: &domain.AuthResponse{
		Success: true,
		Message: "FCM token stored successfully",
	}}
	app := newTestApp(accounts, &fakeOTPs{})

	resp, body := postJSON(t, app, "/api/v1/auth/store-fcm-token", map[string]string{
		"fcmToken": "device-token-1",
		"phone":    "+79001234567",
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "FCM token stored successfully", body["message"])
}

func TestStoreFCMTokenHandler_Validation(t *testing.T) {
	app := newTestApp(&fakeAccounts{}, &fakeOTPs{})

	resp, body := postJSON(t, app, "/api/v1/auth/store-fcm-token", map[string]string{
		"phone": "+79001234567",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "FCM token is required", body["message"])

	resp, body = postJSON(t, app, "/api/v1/auth/store-fcm-token", map[string]string{
		"fcmToken": "device-token-1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Phone number is required to associate FCM token", body["message"])
}

func TestStoreFCMTokenHandler_UnknownPhoneIs404(t *testing.T) {
	accounts := &fakeAccounts{storeResp: domain.Fail(domain.MsgUserNotFoundPhone)}
	app := newTestApp(accounts, &fakeOTPs{})

	resp, body := postJSON(t, app, "/api/v1/auth/store-fcm-token", map[string]string{
		"fcmToken": "device-token-1",
		"phone":    "+79001234567",
	})

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, domain.MsgUserNotFoundPhone, body["message"])
}

func TestTestFCMHandler(t *testing.T) {
	accounts := &fakeAccounts{testResp: &domain.TestFCMResponse{
		Success:    true,
		Message:    "Test notifications sent",
		TokenCount: 1,
		Results: []domain.FCMSendOutcome{
			{Token: "device-tok...", Result: domain.FCMResult{Success: true, MessageID: "projects/p/messages/1"}},
		},
	}}
	app := newTestApp(accounts, &fakeOTPs{})

	resp, body := postJSON(t, app, "/api/v1/auth/test-fcm", map[string]string{
		"phone":   "+79001234567",
		"message": "hello",
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["tokenCount"])
}

func TestTestFCMHandler_PushNotConfiguredIs500(t *testing.T) {
	accounts := &fakeAccounts{testResp: &domain.TestFCMResponse{
		Success: false,
		Message: domain.MsgPushNotConfigured,
	}}
	app := newTestApp(accounts, &fakeOTPs{})

	resp, body := postJSON(t, app, "/api/v1/auth/test-fcm", map[string]string{
		"phone": "+79001234567",
	})

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, domain.MsgPushNotConfigured, body["message"])
}
