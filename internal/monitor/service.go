package monitor

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/aleister1102/satwatch/internal/common"
	"github.com/aleister1102/satwatch/internal/config"
	"github.com/aleister1102/satwatch/internal/datastore"
	"github.com/aleister1102/satwatch/internal/differ"
	"github.com/aleister1102/satwatch/internal/extractor"
	"github.com/aleister1102/satwatch/internal/fetcher"
	"github.com/aleister1102/satwatch/internal/models"
	"github.com/aleister1102/satwatch/internal/notifier"
)

// CheckResult summarizes one monitoring check.
type CheckResult struct {
	TestDateCount int
	Diff          models.DatesDiffResult
	ThresholdHit  bool
	NotModified   bool
	LastModified  string
}

// MonitoringService runs the built-in SAT dates check: fetch the page,
// extract the dates, compare against the persisted state, alert, and persist
// the new state and history record.
type MonitoringService struct {
	cfg                *config.MonitorConfig
	fetcher            *fetcher.Fetcher
	extractor          *extractor.DatesExtractor
	differ             *differ.DatesDiffer
	stateStore         *datastore.StateStore
	historyStore       *datastore.ParquetHistoryStore
	notificationHelper *notifier.NotificationHelper
	logger             zerolog.Logger
}

// MonitoringServiceBuilder assembles a MonitoringService.
type MonitoringServiceBuilder struct {
	service *MonitoringService
}

// NewMonitoringServiceBuilder creates a builder with the mandatory config and
// logger set.
func NewMonitoringServiceBuilder(cfg *config.MonitorConfig, logger zerolog.Logger) *MonitoringServiceBuilder {
	moduleLogger := logger.With().Str("module", "MonitoringService").Logger()
	return &MonitoringServiceBuilder{
		service: &MonitoringService{
			cfg:       cfg,
			fetcher:   fetcher.NewFetcher(cfg, logger),
			extractor: extractor.NewDatesExtractor(cfg, logger),
			differ:    differ.NewDatesDiffer(logger),
			logger:    moduleLogger,
		},
	}
}

// WithStateStore sets the state store.
func (b *MonitoringServiceBuilder) WithStateStore(ss *datastore.StateStore) *MonitoringServiceBuilder {
	b.service.stateStore = ss
	return b
}

// WithHistoryStore sets the check-history store.
func (b *MonitoringServiceBuilder) WithHistoryStore(hs *datastore.ParquetHistoryStore) *MonitoringServiceBuilder {
	b.service.historyStore = hs
	return b
}

// WithNotificationHelper sets the notification helper.
func (b *MonitoringServiceBuilder) WithNotificationHelper(nh *notifier.NotificationHelper) *MonitoringServiceBuilder {
	b.service.notificationHelper = nh
	return b
}

// Build validates and returns the service.
func (b *MonitoringServiceBuilder) Build() (*MonitoringService, error) {
	if b.service.stateStore == nil {
		return nil, common.NewValidationError("state_store", nil, "state store is required")
	}
	return b.service, nil
}

// RunCheck performs one complete check. runID identifies the run for the
// history record.
func (ms *MonitoringService) RunCheck(ctx context.Context, runID string) (*CheckResult, error) {
	ms.logger.Info().Str("url", ms.cfg.URL).Int("threshold", ms.cfg.DateThreshold).Msg("Starting SAT test dates check")

	previousState, err := ms.stateStore.Load()
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return nil, common.WrapError(err, "loading previous state")
		}
		previousState = models.NewDefaultStateRecord()
	}

	fetchResult, err := ms.fetcher.FetchPage(ctx, fetcher.FetchPageInput{
		URL:                  ms.cfg.URL,
		PreviousLastModified: previousState.LastModified,
	})
	if err != nil {
		if errors.Is(err, fetcher.ErrNotModified) {
			ms.logger.Info().Msg("Page not modified since last check, nothing to do")
			return &CheckResult{
				TestDateCount: previousState.TestDateCount,
				NotModified:   true,
				LastModified:  previousState.LastModified,
			}, nil
		}
		return nil, common.WrapError(err, "fetching dates page")
	}

	currentDates, err := ms.extractor.ExtractTestDates(fetchResult.Content)
	if err != nil {
		return nil, common.WrapError(err, "extracting test dates")
	}
	if len(currentDates) == 0 {
		return nil, common.NewError("no test dates extracted from page")
	}

	diff := ms.differ.Diff(previousState.TestDates, currentDates)
	thresholdHit := len(currentDates) > ms.cfg.DateThreshold

	if thresholdHit {
		ms.logger.Warn().
			Int("date_count", len(currentDates)).
			Int("threshold", ms.cfg.DateThreshold).
			Msg("Test date count exceeds threshold")
		if ms.notificationHelper != nil {
			ms.notificationHelper.SendThresholdAlert(ctx, currentDates, ms.cfg.DateThreshold, ms.cfg.URL)
		}
	} else {
		ms.logger.Info().
			Int("date_count", len(currentDates)).
			Int("threshold", ms.cfg.DateThreshold).
			Msg("Test date count does not exceed threshold")
	}

	if diff.HasChanges() && ms.notificationHelper != nil {
		ms.notificationHelper.SendDatesChangedNotification(ctx, diff, currentDates, ms.cfg.URL)
	}

	// The timestamp marks the last observed change. Rewriting the state on
	// every check would make each run look changed and trigger a commit.
	newState := previousState
	if diff.HasChanges() || fetchResult.LastModified != previousState.LastModified {
		newState = models.StateRecord{
			Timestamp:     time.Now().UTC().Format(time.RFC3339),
			LastModified:  fetchResult.LastModified,
			TestDateCount: len(currentDates),
			TestDates:     currentDates,
		}
		if err := ms.stateStore.Save(newState); err != nil {
			return nil, common.WrapError(err, "saving new state")
		}
	}

	ms.appendHistory(runID, newState, diff, thresholdHit)

	ms.logger.Info().Int("date_count", len(currentDates)).Bool("changed", diff.HasChanges()).Msg("Check completed")
	return &CheckResult{
		TestDateCount: len(currentDates),
		Diff:          diff,
		ThresholdHit:  thresholdHit,
		LastModified:  fetchResult.LastModified,
	}, nil
}

// appendHistory records the check in the Parquet history. History failures
// are logged but never fail the check itself.
func (ms *MonitoringService) appendHistory(runID string, state models.StateRecord, diff models.DatesDiffResult, thresholdHit bool) {
	if ms.historyStore == nil {
		return
	}

	stateHash, err := ms.stateStore.ContentHash()
	if err != nil {
		ms.logger.Warn().Err(err).Msg("Failed to hash state file for history record")
	}

	record := datastore.CheckHistoryRecord{
		CheckTimestamp: time.Now().UnixMilli(),
		RunID:          runID,
		SourceURL:      ms.cfg.URL,
		TestDateCount:  int32(state.TestDateCount),
		TestDates:      state.TestDates,
		DatesAdded:     diff.Added,
		DatesRemoved:   diff.Removed,
		ThresholdHit:   thresholdHit,
	}
	if stateHash != "" {
		record.StateHash = &stateHash
	}
	if state.LastModified != "" {
		record.LastModified = &state.LastModified
	}

	if err := ms.historyStore.Append(record); err != nil {
		ms.logger.Error().Err(err).Msg("Failed to append check history record")
	}
}
