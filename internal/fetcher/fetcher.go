package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/aleister1102/satwatch/internal/common"
	"github.com/aleister1102/satwatch/internal/config"
)

var ErrNotModified = common.NewError("content not modified")

// browser-like headers the dates page expects; anything less gets a 403.
var defaultRequestHeaders = map[string]string{
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.5",
	"Connection":      "keep-alive",
}

// Fetcher retrieves the test dates page over HTTP.
type Fetcher struct {
	httpClient *http.Client
	logger     zerolog.Logger
	cfg        *config.MonitorConfig
}

// NewFetcher creates a new Fetcher with a client configured from cfg.
func NewFetcher(cfg *config.MonitorConfig, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.HTTPTimeoutSeconds) * time.Second,
		},
		logger: logger.With().Str("component", "Fetcher").Logger(),
		cfg:    cfg,
	}
}

// FetchPageInput holds parameters for FetchPage.
type FetchPageInput struct {
	URL                  string
	PreviousLastModified string
}

// FetchPageResult holds results from FetchPage.
type FetchPageResult struct {
	Content        []byte
	ContentType    string
	LastModified   string
	HTTPStatusCode int
}

// FetchPage fetches the page with a conditional GET. If the server answers
// 304 Not Modified it returns ErrNotModified alongside the header-only result.
func (f *Fetcher) FetchPage(ctx context.Context, input FetchPageInput) (*FetchPageResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, input.URL, nil)
	if err != nil {
		f.logger.Error().Err(err).Str("url", input.URL).Msg("Failed to create new HTTP request")
		return nil, common.WrapError(err, fmt.Sprintf("creating request for %s", input.URL))
	}

	req.Header.Set("User-Agent", f.cfg.UserAgent)
	for name, value := range defaultRequestHeaders {
		req.Header.Set(name, value)
	}
	if input.PreviousLastModified != "" {
		req.Header.Set("If-Modified-Since", input.PreviousLastModified)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.logger.Error().Err(err).Str("url", input.URL).Msg("Failed to execute HTTP request")
		return nil, common.NewNetworkError(input.URL, "HTTP request failed", err)
	}
	defer resp.Body.Close()

	result := &FetchPageResult{
		LastModified:   resp.Header.Get("Last-Modified"),
		ContentType:    resp.Header.Get("Content-Type"),
		HTTPStatusCode: resp.StatusCode,
	}

	if resp.StatusCode == http.StatusNotModified {
		f.logger.Debug().Str("url", input.URL).Msg("Content not modified (304)")
		return result, ErrNotModified
	}

	if resp.StatusCode != http.StatusOK {
		f.logger.Warn().Str("url", input.URL).Int("status_code", resp.StatusCode).Msg("Received non-OK HTTP status")
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		result.Content = bodyBytes
		return result, common.NewHTTPErrorWithURL(resp.StatusCode, string(bodyBytes), input.URL)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		f.logger.Error().Err(err).Str("url", input.URL).Msg("Failed to read response body")
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	result.Content = bodyBytes

	f.logger.Debug().Str("url", input.URL).Str("content_type", result.ContentType).Int("size", len(result.Content)).Msg("Page content fetched successfully")
	return result, nil
}
