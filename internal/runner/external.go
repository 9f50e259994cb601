package runner

import (
	"context"
	"os"
	"os/exec"

	"github.com/rs/zerolog"

	"github.com/aleister1102/satwatch/internal/common"
	"github.com/aleister1102/satwatch/internal/config"
	"github.com/aleister1102/satwatch/internal/notifier"
)

// ExternalMonitor invokes a configured external monitor program instead of
// the built-in check. The program inherits the process environment plus the
// resolved notification credentials, and is expected to read and rewrite the
// state file itself.
type ExternalMonitor struct {
	command            []string
	notificationConfig config.NotificationConfig
	logger             zerolog.Logger
}

// NewExternalMonitor creates a new ExternalMonitor.
func NewExternalMonitor(command []string, notificationConfig config.NotificationConfig, logger zerolog.Logger) *ExternalMonitor {
	return &ExternalMonitor{
		command:            command,
		notificationConfig: notificationConfig,
		logger:             logger.With().Str("component", "ExternalMonitor").Logger(),
	}
}

// Run executes the monitor program and waits for it to finish. The command's
// stdout and stderr are passed through so its output lands in the run log
// capture.
func (em *ExternalMonitor) Run(ctx context.Context) error {
	if len(em.command) == 0 {
		return common.NewError("external monitor command is empty")
	}

	cmd := exec.CommandContext(ctx, em.command[0], em.command[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = em.buildEnv()

	em.logger.Info().Strs("command", em.command).Msg("Invoking external monitor program")
	if err := cmd.Run(); err != nil {
		return common.WrapError(err, "external monitor program failed")
	}
	em.logger.Info().Msg("External monitor program completed")
	return nil
}

// buildEnv passes the parent environment through and guarantees all three
// notification credential variables are present, empty where unresolved,
// applying the config values and built-in chat ID default when the variables
// are unset.
func (em *ExternalMonitor) buildEnv() []string {
	creds := notifier.ResolveCredentials(em.notificationConfig)

	env := os.Environ()
	env = appendIfUnset(env, notifier.EnvDiscordWebhookURL, creds.DiscordWebhookURL)
	env = appendIfUnset(env, notifier.EnvTelegramBotToken, creds.TelegramBotToken)
	env = appendIfUnset(env, notifier.EnvTelegramChatID, creds.TelegramChatID)
	return env
}

func appendIfUnset(env []string, key, value string) []string {
	if _, ok := os.LookupEnv(key); ok {
		return env
	}
	return append(env, key+"="+value)
}
