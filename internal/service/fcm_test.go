package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFCMClient(t *testing.T, handler http.HandlerFunc) (*FCMClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &FCMClient{
		httpClient: srv.Client(),
		projectID:  "test-project",
		endpoint:   srv.URL,
		log:        testLogger(),
	}, srv
}

func TestSendOTPNotification_Payload(t *testing.T) {
	var captured map[string]json.RawMessage
	client, _ := newTestFCMClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"projects/test-project/messages/42"}`))
	})

	result := client.SendOTPNotification(context.Background(), "device-token", "123456", "+79001234567")

	require.True(t, result.Success)
	assert.Equal(t, "projects/test-project/messages/42", result.MessageID)

	var msg fcmMessage
	require.NoError(t, json.Unmarshal(captured["message"], &msg))
	assert.Equal(t, "device-token", msg.Token)
	require.NotNil(t, msg.Notification)
	assert.Equal(t, "Verification Code", msg.Notification.Title)
	assert.Contains(t, msg.Notification.Body, "123456")
	assert.Equal(t, "otp", msg.Data["type"])
	assert.Equal(t, "123456", msg.Data["otp"])
	assert.Equal(t, "+79001234567", msg.Data["phone"])
	require.NotNil(t, msg.Android)
	assert.Equal(t, "HIGH", msg.Android.Priority)
	assert.Equal(t, "otp-notifications", msg.Android.Notification.ChannelID)
}

func TestSendGeneralNotification_Payload(t *testing.T) {
	var captured map[string]json.RawMessage
	client, _ := newTestFCMClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.Write([]byte(`{"name":"projects/test-project/messages/43"}`))
	})

	result := client.SendGeneralNotification(context.Background(), "device-token", "Hello", "World", map[string]string{"k": "v"})

	require.True(t, result.Success)

	var msg fcmMessage
	require.NoError(t, json.Unmarshal(captured["message"], &msg))
	assert.Equal(t, "Hello", msg.Notification.Title)
	assert.Equal(t, "World", msg.Notification.Body)
	assert.Equal(t, "v", msg.Data["k"])
	assert.Equal(t, "NORMAL", msg.Android.Priority)
}

func TestSend_APIErrorBecomesResult(t *testing.T) {
	client, _ := newTestFCMClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"status":"UNREGISTERED"}}`))
	})

	result := client.SendOTPNotification(context.Background(), "stale-token", "123456", "+79001234567")

	require.False(t, result.Success)
	assert.Contains(t, result.Error, "404")
	assert.Contains(t, result.Error, "UNREGISTERED")
	assert.Empty(t, result.MessageID)
}

func TestValidateToken(t *testing.T) {
	client := &FCMClient{log: testLogger()}

	valid := strings.Repeat("a", 140) + ":APA91b_-xyz"
	assert.True(t, client.ValidateToken(valid))

	assert.False(t, client.ValidateToken("too-short"))
	assert.False(t, client.ValidateToken(strings.Repeat("a", 250)))
	assert.False(t, client.ValidateToken(strings.Repeat("a", 120)+" with space"))
	assert.False(t, client.ValidateToken(strings.Repeat("a", 120)+"#bad"))
}
