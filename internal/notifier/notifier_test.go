package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleister1102/satwatch/internal/config"
	"github.com/aleister1102/satwatch/internal/models"
)

func TestDiscordNotifier_SendNotification(t *testing.T) {
	var received models.DiscordMessagePayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("payload_json")), &received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	dn := NewDiscordNotifier(zerolog.Nop(), server.Client())
	payload := models.DiscordMessagePayload{
		Username: DiscordUsername,
		Embeds:   []models.DiscordEmbed{{Title: "test", Color: AlertEmbedColor}},
	}
	require.NoError(t, dn.SendNotification(context.Background(), server.URL, payload, ""))
	assert.Equal(t, DiscordUsername, received.Username)
	require.Len(t, received.Embeds, 1)
	assert.Equal(t, AlertEmbedColor, received.Embeds[0].Color)
}

func TestDiscordNotifier_EmptyWebhookIsNoOp(t *testing.T) {
	dn := NewDiscordNotifier(zerolog.Nop(), nil)
	assert.NoError(t, dn.SendNotification(context.Background(), "", models.DiscordMessagePayload{}, ""))
}

func TestDiscordNotifier_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	dn := NewDiscordNotifier(zerolog.Nop(), server.Client())
	err := dn.SendNotification(context.Background(), server.URL, models.DiscordMessagePayload{}, "")
	assert.Error(t, err)
}

func TestFormatThresholdAlertMessage(t *testing.T) {
	dates := []string{"October 4, 2025", "November 8, 2025"}
	checkTime := time.Date(2025, 8, 23, 12, 0, 0, 0, time.UTC)

	payload := FormatThresholdAlertMessage(dates, 7, config.DefaultMonitorURL, checkTime, config.NewDefaultNotificationConfig())

	require.Len(t, payload.Embeds, 1)
	embed := payload.Embeds[0]
	assert.Equal(t, "⚠️ SAT Test Dates Alert", embed.Title)
	assert.Equal(t, "Found 2 SAT test dates, which exceeds the threshold of 7.", embed.Description)
	assert.Equal(t, 16711680, embed.Color)
	require.NotNil(t, embed.Footer)
	assert.Equal(t, "SAT Test Dates Monitor", embed.Footer.Text)

	require.Len(t, embed.Fields, 3)
	assert.Equal(t, "Current Test Dates", embed.Fields[0].Name)
	assert.Equal(t, "• October 4, 2025\n• November 8, 2025", embed.Fields[0].Value)
	assert.Equal(t, "Check Time", embed.Fields[1].Name)
	assert.Equal(t, "2025-08-23 12:00:00", embed.Fields[1].Value)
	assert.Equal(t, "URL", embed.Fields[2].Name)
	assert.Equal(t, config.DefaultMonitorURL, embed.Fields[2].Value)
}

func TestFormatDatesChangedMessage(t *testing.T) {
	diff := models.DatesDiffResult{
		Added:   []string{"December 6, 2025"},
		Removed: []string{"October 4, 2025"},
	}
	current := []string{"November 8, 2025", "December 6, 2025"}

	payload := FormatDatesChangedMessage(diff, current, config.DefaultMonitorURL, time.Now(), config.NewDefaultNotificationConfig())

	require.Len(t, payload.Embeds, 1)
	embed := payload.Embeds[0]
	assert.Contains(t, embed.Description, "1 added, 1 removed")
	assert.Equal(t, "Added", embed.Fields[0].Name)
	assert.Equal(t, "• December 6, 2025", embed.Fields[0].Value)
	assert.Equal(t, "Removed", embed.Fields[1].Name)
}

func TestResolveCredentials_EnvOverridesConfig(t *testing.T) {
	cfg := config.NewDefaultNotificationConfig()
	cfg.DiscordWebhookURL = "https://discord.test/from-config"
	cfg.TelegramBotToken = "config-token"

	t.Setenv(EnvDiscordWebhookURL, "https://discord.test/from-env")
	t.Setenv(EnvTelegramBotToken, "env-token")
	t.Setenv(EnvTelegramChatID, "42")

	creds := ResolveCredentials(cfg)
	assert.Equal(t, "https://discord.test/from-env", creds.DiscordWebhookURL)
	assert.Equal(t, "env-token", creds.TelegramBotToken)
	assert.Equal(t, "42", creds.TelegramChatID)
	assert.True(t, creds.HasDiscord())
	assert.True(t, creds.HasTelegram())
}

func TestResolveCredentials_DefaultChatID(t *testing.T) {
	t.Setenv(EnvDiscordWebhookURL, "")
	t.Setenv(EnvTelegramBotToken, "")
	t.Setenv(EnvTelegramChatID, "")

	creds := ResolveCredentials(config.NewDefaultNotificationConfig())
	assert.Equal(t, config.DefaultTelegramChatID, creds.TelegramChatID)
	assert.False(t, creds.HasDiscord())
	assert.False(t, creds.HasTelegram(), "chat ID alone must not enable Telegram")
}

type fakeTelegramSender struct {
	sent []tgbotapi.Chattable
}

func (f *fakeTelegramSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func TestTelegramNotifier_SendMessage(t *testing.T) {
	fake := &fakeTelegramSender{}
	tn := NewTelegramNotifier(zerolog.Nop())
	tn.newBot = func(token string) (telegramSender, error) { return fake, nil }

	require.NoError(t, tn.SendMessage("token", "-1002594329611", "hello"))
	require.Len(t, fake.sent, 1)

	msg, ok := fake.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(-1002594329611), msg.ChatID)
	assert.Equal(t, "hello", msg.Text)
}

func TestTelegramNotifier_InvalidChatID(t *testing.T) {
	tn := NewTelegramNotifier(zerolog.Nop())
	assert.Error(t, tn.SendMessage("token", "not-a-number", "hello"))
}

func TestTelegramNotifier_EmptyCredentialsIsNoOp(t *testing.T) {
	tn := NewTelegramNotifier(zerolog.Nop())
	assert.NoError(t, tn.SendMessage("", "", "hello"))
}
