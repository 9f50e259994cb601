package config

// NotificationConfig defines configuration for notifications.
// Credentials from the environment (DISCORD_WEBHOOK_URL, TELEGRAM_BOT_TOKEN,
// TELEGRAM_CHAT_ID) take precedence over the values configured here.
type NotificationConfig struct {
	DiscordWebhookURL string   `json:"discord_webhook_url,omitempty" yaml:"discord_webhook_url,omitempty" validate:"omitempty,url"`
	TelegramBotToken  string   `json:"telegram_bot_token,omitempty" yaml:"telegram_bot_token,omitempty"`
	TelegramChatID    string   `json:"telegram_chat_id,omitempty" yaml:"telegram_chat_id,omitempty"`
	MentionRoleIDs    []string `json:"mention_role_ids,omitempty" yaml:"mention_role_ids,omitempty"`
	NotifyOnFailure   bool     `json:"notify_on_failure" yaml:"notify_on_failure"`
	NotifyOnNoChange  bool     `json:"notify_on_no_change" yaml:"notify_on_no_change"`
}

// NewDefaultNotificationConfig creates default notification configuration
func NewDefaultNotificationConfig() NotificationConfig {
	return NotificationConfig{
		DiscordWebhookURL: "",
		TelegramBotToken:  "",
		TelegramChatID:    "",
		MentionRoleIDs:    []string{},
		NotifyOnFailure:   true,
		NotifyOnNoChange:  false,
	}
}
