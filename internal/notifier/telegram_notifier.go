package notifier

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// telegramSender is the subset of the bot API used for sending, extracted so
// tests can substitute a fake.
type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier sends plain-text notifications to a Telegram chat.
type TelegramNotifier struct {
	logger zerolog.Logger
	newBot func(token string) (telegramSender, error)
	bots   map[string]telegramSender // keyed by token, bots are reused across sends
}

// NewTelegramNotifier creates a new TelegramNotifier. Bot clients are created
// lazily on first send because construction performs a getMe API call.
func NewTelegramNotifier(logger zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		logger: logger.With().Str("module", "TelegramNotifier").Logger(),
		newBot: func(token string) (telegramSender, error) {
			return tgbotapi.NewBotAPI(token)
		},
		bots: make(map[string]telegramSender),
	}
}

// SendMessage sends text to chatID using the bot identified by token. Empty
// token or chat ID is a silent no-op, matching the Discord notifier.
func (tn *TelegramNotifier) SendMessage(token, chatID, text string) error {
	if token == "" || chatID == "" {
		tn.logger.Info().Msg("Telegram credentials are empty. Skipping Telegram notification.")
		return nil
	}

	numericChatID, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid Telegram chat ID '%s': %w", chatID, err)
	}

	bot, ok := tn.bots[token]
	if !ok {
		bot, err = tn.newBot(token)
		if err != nil {
			tn.logger.Error().Err(err).Msg("Failed to initialize Telegram bot client")
			return fmt.Errorf("initializing Telegram bot: %w", err)
		}
		tn.bots[token] = bot
	}

	msg := tgbotapi.NewMessage(numericChatID, text)
	if _, err := bot.Send(msg); err != nil {
		tn.logger.Error().Err(err).Str("chat_id", chatID).Msg("Failed to send Telegram notification")
		return fmt.Errorf("sending Telegram message: %w", err)
	}

	tn.logger.Info().Str("chat_id", chatID).Msg("Telegram notification sent successfully")
	return nil
}
