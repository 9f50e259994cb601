package notifier

// Discord formatting constants
const (
	DiscordUsername = "SAT Test Dates Monitor"

	AlertEmbedColor         = 0xFF0000 // Red for threshold and change alerts
	SuccessEmbedColor       = 0x5CB85C // Bootstrap success green
	InterruptEmbedColor     = 0xFD7E14 // Orange for interruptions
	CriticalErrorEmbedColor = 0xDC3545 // Red for critical errors

	EmbedFooterText = "SAT Test Dates Monitor"
)

// Message length limits
const (
	MaxErrorTextLength   = 800
	MaxSingleErrorLength = 150
	MaxErrorSampleCount  = 3
	MaxFieldValueLength  = 1024 // Discord embed field limit
)
