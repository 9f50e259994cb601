package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/aleister1102/satwatch/internal/config"
	"github.com/aleister1102/satwatch/internal/models"
)

const checkTimeLayout = "2006-01-02 15:04:05"

// FormatThresholdAlertMessage builds the Discord payload for a date-count
// threshold alert.
func FormatThresholdAlertMessage(dates []string, threshold int, sourceURL string, checkTime time.Time, cfg config.NotificationConfig) models.DiscordMessagePayload {
	embed := NewDiscordEmbedBuilder().
		WithTitle("⚠️ SAT Test Dates Alert").
		WithDescription(fmt.Sprintf("Found %d SAT test dates, which exceeds the threshold of %d.", len(dates), threshold)).
		WithColor(AlertEmbedColor).
		AddField("Current Test Dates", bulletList(dates), false).
		AddField("Check Time", checkTime.Format(checkTimeLayout), false).
		AddField("URL", sourceURL, false).
		WithFooter(EmbedFooterText, "").
		Build()

	return buildPayload(cfg, embed)
}

// FormatDatesChangedMessage builds the Discord payload announcing a change in
// the published test dates.
func FormatDatesChangedMessage(diff models.DatesDiffResult, current []string, sourceURL string, checkTime time.Time, cfg config.NotificationConfig) models.DiscordMessagePayload {
	builder := NewDiscordEmbedBuilder().
		WithTitle("📅 SAT Test Dates Changed").
		WithDescription(fmt.Sprintf("The published SAT test dates changed: %d added, %d removed.", len(diff.Added), len(diff.Removed))).
		WithColor(AlertEmbedColor)

	if len(diff.Added) > 0 {
		builder.AddField("Added", bulletList(diff.Added), false)
	}
	if len(diff.Removed) > 0 {
		builder.AddField("Removed", bulletList(diff.Removed), false)
	}
	builder.
		AddField("Current Test Dates", bulletList(current), false).
		AddField("Check Time", checkTime.Format(checkTimeLayout), false).
		AddField("URL", sourceURL, false).
		WithFooter(EmbedFooterText, "")

	return buildPayload(cfg, builder.Build())
}

// FormatCriticalErrorMessage builds the Discord payload for a failed run.
func FormatCriticalErrorMessage(summary models.RunSummaryData, cfg config.NotificationConfig) models.DiscordMessagePayload {
	embed := NewDiscordEmbedBuilder().
		WithTitle("🚨 SAT Monitor Run Failed").
		WithDescription(fmt.Sprintf("Component: %s", orUnknown(summary.Component))).
		WithColor(CriticalErrorEmbedColor).
		AddField("Run ID", orUnknown(summary.RunID), true).
		AddField("Mode", summary.Mode, true).
		AddField("Errors", truncateErrors(summary.ErrorMessages), false).
		WithTimestamp(time.Now()).
		WithFooter(EmbedFooterText, "").
		Build()

	return buildPayload(cfg, embed)
}

// FormatRunCompletionMessage builds the Discord payload summarizing a
// completed run.
func FormatRunCompletionMessage(summary models.RunSummaryData, cfg config.NotificationConfig) models.DiscordMessagePayload {
	color := SuccessEmbedColor
	title := "✅ SAT Monitor Run Completed"
	if summary.Status == string(models.RunStatusInterrupted) {
		color = InterruptEmbedColor
		title = "⏹️ SAT Monitor Run Interrupted"
	}

	embed := NewDiscordEmbedBuilder().
		WithTitle(title).
		WithColor(color).
		AddField("Run ID", orUnknown(summary.RunID), true).
		AddField("Mode", summary.Mode, true).
		AddField("Test Dates", fmt.Sprintf("%d", summary.TestDateCount), true).
		AddField("State Changed", fmt.Sprintf("%t", summary.StateChanged), true).
		AddField("Duration", summary.RunDuration.Round(time.Millisecond).String(), true).
		WithTimestamp(time.Now()).
		WithFooter(EmbedFooterText, "").
		Build()

	return buildPayload(cfg, embed)
}

// ThresholdAlertText renders the threshold alert as plain text for Telegram.
func ThresholdAlertText(dates []string, threshold int, sourceURL string, checkTime time.Time) string {
	var sb strings.Builder
	sb.WriteString("⚠️ SAT Test Dates Alert\n")
	fmt.Fprintf(&sb, "Found %d SAT test dates, which exceeds the threshold of %d.\n\n", len(dates), threshold)
	sb.WriteString("Current Test Dates:\n")
	sb.WriteString(bulletList(dates))
	fmt.Fprintf(&sb, "\n\nCheck Time: %s\nURL: %s", checkTime.Format(checkTimeLayout), sourceURL)
	return sb.String()
}

// DatesChangedText renders the change notice as plain text for Telegram.
func DatesChangedText(diff models.DatesDiffResult, current []string, sourceURL string, checkTime time.Time) string {
	var sb strings.Builder
	sb.WriteString("📅 SAT Test Dates Changed\n")
	fmt.Fprintf(&sb, "%d added, %d removed.\n", len(diff.Added), len(diff.Removed))
	if len(diff.Added) > 0 {
		sb.WriteString("\nAdded:\n")
		sb.WriteString(bulletList(diff.Added))
		sb.WriteString("\n")
	}
	if len(diff.Removed) > 0 {
		sb.WriteString("\nRemoved:\n")
		sb.WriteString(bulletList(diff.Removed))
		sb.WriteString("\n")
	}
	sb.WriteString("\nCurrent Test Dates:\n")
	sb.WriteString(bulletList(current))
	fmt.Fprintf(&sb, "\n\nCheck Time: %s\nURL: %s", checkTime.Format(checkTimeLayout), sourceURL)
	return sb.String()
}

// CriticalErrorText renders the failure notice as plain text for Telegram.
func CriticalErrorText(summary models.RunSummaryData) string {
	return fmt.Sprintf("🚨 SAT Monitor Run Failed\nRun ID: %s\nComponent: %s\nErrors:\n%s",
		orUnknown(summary.RunID), orUnknown(summary.Component), truncateErrors(summary.ErrorMessages))
}

func buildPayload(cfg config.NotificationConfig, embeds ...models.DiscordEmbed) models.DiscordMessagePayload {
	payload := models.DiscordMessagePayload{
		Username: DiscordUsername,
		Embeds:   embeds,
	}
	if len(cfg.MentionRoleIDs) > 0 {
		mentions := make([]string, 0, len(cfg.MentionRoleIDs))
		for _, roleID := range cfg.MentionRoleIDs {
			mentions = append(mentions, fmt.Sprintf("<@&%s>", roleID))
		}
		payload.Content = strings.Join(mentions, " ")
		payload.AllowedMentions = &models.AllowedMentions{Roles: cfg.MentionRoleIDs}
	}
	return payload
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "• "+item)
	}
	value := strings.Join(lines, "\n")
	if len(value) > MaxFieldValueLength {
		value = value[:MaxFieldValueLength-3] + "..."
	}
	return value
}

func truncateErrors(errorMessages []string) string {
	if len(errorMessages) == 0 {
		return "(no error details)"
	}
	sample := errorMessages
	if len(sample) > MaxErrorSampleCount {
		sample = sample[:MaxErrorSampleCount]
	}
	lines := make([]string, 0, len(sample))
	for _, msg := range sample {
		if len(msg) > MaxSingleErrorLength {
			msg = msg[:MaxSingleErrorLength] + "..."
		}
		lines = append(lines, "• "+msg)
	}
	if len(errorMessages) > len(sample) {
		lines = append(lines, fmt.Sprintf("… and %d more", len(errorMessages)-len(sample)))
	}
	text := strings.Join(lines, "\n")
	if len(text) > MaxErrorTextLength {
		text = text[:MaxErrorTextLength-3] + "..."
	}
	return text
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
