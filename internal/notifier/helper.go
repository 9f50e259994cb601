package notifier

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aleister1102/satwatch/internal/config"
	"github.com/aleister1102/satwatch/internal/models"
)

// NotificationHelper provides a high-level interface for sending monitor
// notifications over every configured channel.
type NotificationHelper struct {
	discordNotifier  *DiscordNotifier
	telegramNotifier *TelegramNotifier
	cfg              config.NotificationConfig
	logger           zerolog.Logger
}

// NewNotificationHelper creates a new NotificationHelper.
func NewNotificationHelper(dn *DiscordNotifier, tn *TelegramNotifier, cfg config.NotificationConfig, logger zerolog.Logger) *NotificationHelper {
	return &NotificationHelper{
		discordNotifier:  dn,
		telegramNotifier: tn,
		cfg:              cfg,
		logger:           logger.With().Str("module", "NotificationHelper").Logger(),
	}
}

// SendThresholdAlert notifies that the published date count exceeded the
// configured threshold.
func (nh *NotificationHelper) SendThresholdAlert(ctx context.Context, dates []string, threshold int, sourceURL string) {
	checkTime := time.Now()
	nh.logger.Info().Int("date_count", len(dates)).Int("threshold", threshold).Msg("Preparing to send threshold alert")

	payload := FormatThresholdAlertMessage(dates, threshold, sourceURL, checkTime, nh.cfg)
	text := ThresholdAlertText(dates, threshold, sourceURL, checkTime)
	nh.dispatch(ctx, payload, text, "")
}

// SendDatesChangedNotification notifies that the published test dates changed.
func (nh *NotificationHelper) SendDatesChangedNotification(ctx context.Context, diff models.DatesDiffResult, current []string, sourceURL string) {
	checkTime := time.Now()
	nh.logger.Info().
		Int("added", len(diff.Added)).
		Int("removed", len(diff.Removed)).
		Msg("Preparing to send dates changed notification")

	payload := FormatDatesChangedMessage(diff, current, sourceURL, checkTime, nh.cfg)
	text := DatesChangedText(diff, current, sourceURL, checkTime)
	nh.dispatch(ctx, payload, text, "")
}

// SendCriticalErrorNotification notifies that a run failed. componentName
// identifies where the failure occurred.
func (nh *NotificationHelper) SendCriticalErrorNotification(ctx context.Context, componentName string, summary models.RunSummaryData) {
	if !nh.cfg.NotifyOnFailure {
		nh.logger.Debug().Msg("Failure notifications disabled, skipping")
		return
	}
	if summary.Component == "" {
		summary.Component = componentName
	}

	nh.logger.Info().Str("component", summary.Component).Strs("errors", summary.ErrorMessages).Msg("Preparing to send critical error notification")

	payload := FormatCriticalErrorMessage(summary, nh.cfg)
	text := CriticalErrorText(summary)
	nh.dispatch(ctx, payload, text, summary.ArtifactPath)
}

// SendRunCompletionNotification sends a run summary. Only sent when the run
// changed state or when no-change notifications are enabled.
func (nh *NotificationHelper) SendRunCompletionNotification(ctx context.Context, summary models.RunSummaryData) {
	if !summary.StateChanged && !nh.cfg.NotifyOnNoChange {
		nh.logger.Debug().Msg("No state change and no-change notifications disabled, skipping run summary")
		return
	}

	payload := FormatRunCompletionMessage(summary, nh.cfg)
	nh.dispatch(ctx, payload, "", "")
}

// dispatch fans a notification out to every channel with usable credentials.
// Channel errors are logged, never propagated: a dead webhook must not fail
// the run.
func (nh *NotificationHelper) dispatch(ctx context.Context, payload models.DiscordMessagePayload, telegramText, attachmentPath string) {
	creds := ResolveCredentials(nh.cfg)

	// A fresh context so a cancelled run can still report its own demise.
	notificationCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	if creds.HasDiscord() {
		if err := nh.discordNotifier.SendNotification(notificationCtx, creds.DiscordWebhookURL, payload, attachmentPath); err != nil {
			nh.logger.Error().Err(err).Msg("Failed to send Discord notification")
		}
	} else {
		nh.logger.Debug().Msg("Discord webhook URL not configured, skipping Discord notification")
	}

	if telegramText != "" {
		if creds.HasTelegram() {
			if err := nh.telegramNotifier.SendMessage(creds.TelegramBotToken, creds.TelegramChatID, telegramText); err != nil {
				nh.logger.Error().Err(err).Msg("Failed to send Telegram notification")
			}
		} else {
			nh.logger.Debug().Msg("Telegram credentials not configured, skipping Telegram notification")
		}
	}
}
