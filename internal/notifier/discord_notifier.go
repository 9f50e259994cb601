package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/aleister1102/satwatch/internal/models"
)

const maxDiscordFileSize = 8 * 1024 * 1024 // Discord's file size limit without Nitro

// DiscordNotifier handles sending notifications to a Discord webhook.
type DiscordNotifier struct {
	logger     zerolog.Logger
	httpClient *http.Client
}

// NewDiscordNotifier creates a new DiscordNotifier. The webhook URL is
// provided per send call so credential resolution stays with the helper.
func NewDiscordNotifier(logger zerolog.Logger, httpClient *http.Client) *DiscordNotifier {
	moduleLogger := logger.With().Str("module", "DiscordNotifier").Logger()
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	return &DiscordNotifier{
		logger:     moduleLogger,
		httpClient: httpClient,
	}
}

// SendNotification sends a message payload and an optional file attachment to
// the given Discord webhook URL. An empty webhook URL is a silent no-op.
func (dn *DiscordNotifier) SendNotification(ctx context.Context, webhookURL string, payload models.DiscordMessagePayload, attachmentPath string) error {
	if webhookURL == "" {
		dn.logger.Info().Msg("Webhook URL is empty. Skipping Discord notification.")
		return nil
	}

	if _, errURL := url.ParseRequestURI(webhookURL); errURL != nil {
		dn.logger.Error().Err(errURL).Msg("Invalid Discord webhook URL provided for this notification")
		return fmt.Errorf("invalid Discord webhook URL: %w", errURL)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	payloadJSON, jsonErr := json.Marshal(payload)
	if jsonErr != nil {
		return fmt.Errorf("failed to marshal discord payload: %w", jsonErr)
	}
	if err := writer.WriteField("payload_json", string(payloadJSON)); err != nil {
		return fmt.Errorf("failed to write payload_json to multipart: %w", err)
	}

	if attachmentPath != "" {
		if err := dn.attachFile(writer, attachmentPath); err != nil {
			return err
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, body)
	if err != nil {
		return fmt.Errorf("failed to create discord request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := dn.httpClient.Do(req)
	if err != nil {
		dn.logger.Error().Err(err).Msg("Failed to send Discord notification")
		return fmt.Errorf("failed to send discord notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		dn.logger.Error().Int("status_code", resp.StatusCode).Str("response_body", string(respBody)).Msg("Discord notification failed")
		return fmt.Errorf("discord notification failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	dn.logger.Info().Int("status_code", resp.StatusCode).Msg("Discord notification sent successfully")
	return nil
}

func (dn *DiscordNotifier) attachFile(writer *multipart.Writer, attachmentPath string) error {
	fileData, readErr := os.ReadFile(attachmentPath)
	if readErr != nil {
		dn.logger.Error().Err(readErr).Str("file_path", attachmentPath).Msg("Failed to read file for attachment")
		return fmt.Errorf("failed to read attachment '%s': %w", attachmentPath, readErr)
	}
	if len(fileData) > maxDiscordFileSize {
		dn.logger.Warn().Str("file_path", attachmentPath).Int("size", len(fileData)).Msg("Attachment exceeds Discord size limit, skipping attachment")
		return nil
	}

	part, partErr := writer.CreateFormFile("file[0]", filepath.Base(attachmentPath))
	if partErr != nil {
		return fmt.Errorf("failed to create form file: %w", partErr)
	}
	if _, copyErr := io.Copy(part, bytes.NewReader(fileData)); copyErr != nil {
		return fmt.Errorf("failed to copy file data to form: %w", copyErr)
	}
	return nil
}
