package notifier

import (
	"os"

	"github.com/aleister1102/satwatch/internal/config"
)

// Environment variables that override the configured notification credentials.
const (
	EnvDiscordWebhookURL = "DISCORD_WEBHOOK_URL"
	EnvTelegramBotToken  = "TELEGRAM_BOT_TOKEN"
	EnvTelegramChatID    = "TELEGRAM_CHAT_ID"
)

// Credentials holds the resolved notification channel credentials.
type Credentials struct {
	DiscordWebhookURL string
	TelegramBotToken  string
	TelegramChatID    string
}

// ResolveCredentials resolves credentials with environment variables taking
// precedence over the config file. The chat ID falls back to the built-in
// default so a token alone is enough to enable Telegram.
func ResolveCredentials(cfg config.NotificationConfig) Credentials {
	creds := Credentials{
		DiscordWebhookURL: cfg.DiscordWebhookURL,
		TelegramBotToken:  cfg.TelegramBotToken,
		TelegramChatID:    cfg.TelegramChatID,
	}
	if v := os.Getenv(EnvDiscordWebhookURL); v != "" {
		creds.DiscordWebhookURL = v
	}
	if v := os.Getenv(EnvTelegramBotToken); v != "" {
		creds.TelegramBotToken = v
	}
	if v := os.Getenv(EnvTelegramChatID); v != "" {
		creds.TelegramChatID = v
	}
	if creds.TelegramChatID == "" {
		creds.TelegramChatID = config.DefaultTelegramChatID
	}
	return creds
}

// HasDiscord reports whether Discord notifications can be sent.
func (c Credentials) HasDiscord() bool {
	return c.DiscordWebhookURL != ""
}

// HasTelegram reports whether Telegram notifications can be sent.
func (c Credentials) HasTelegram() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != ""
}
