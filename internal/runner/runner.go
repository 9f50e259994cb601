package runner

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/aleister1102/satwatch/internal/common"
	"github.com/aleister1102/satwatch/internal/config"
	"github.com/aleister1102/satwatch/internal/datastore"
	"github.com/aleister1102/satwatch/internal/gitstore"
	"github.com/aleister1102/satwatch/internal/models"
	"github.com/aleister1102/satwatch/internal/monitor"
	"github.com/aleister1102/satwatch/internal/notifier"
)

// runIDLayout names runs by start time, matching the artifact naming scheme.
const runIDLayout = "20060102-150405"

// Runner executes one complete workflow run: ensure the state file exists,
// invoke the monitor, commit the state file if it changed, and capture the
// log artifact.
type Runner struct {
	globalConfig       *config.GlobalConfig
	mode               string
	stateStore         *datastore.StateStore
	monitoringService  *monitor.MonitoringService
	externalMonitor    *ExternalMonitor
	gitStore           *gitstore.GitStore
	artifactManager    *ArtifactManager
	notificationHelper *notifier.NotificationHelper
	logger             zerolog.Logger
}

// NewRunner assembles a Runner and all its components from the global config.
func NewRunner(gCfg *config.GlobalConfig, mode string, logger zerolog.Logger) (*Runner, error) {
	moduleLogger := logger.With().Str("module", "Runner").Logger()

	stateStore := datastore.NewStateStore(&gCfg.StateConfig, logger)

	historyStore, err := datastore.NewParquetHistoryStore(&gCfg.StorageConfig, logger)
	if err != nil {
		return nil, common.WrapError(err, "initializing history store")
	}

	notificationHelper := notifier.NewNotificationHelper(
		notifier.NewDiscordNotifier(logger, nil),
		notifier.NewTelegramNotifier(logger),
		gCfg.NotificationConfig,
		logger,
	)

	r := &Runner{
		globalConfig:       gCfg,
		mode:               mode,
		stateStore:         stateStore,
		gitStore:           gitstore.NewGitStore(&gCfg.GitConfig, logger),
		artifactManager:    NewArtifactManager(&gCfg.ArtifactConfig, logger),
		notificationHelper: notificationHelper,
		logger:             moduleLogger,
	}

	if len(gCfg.MonitorConfig.Command) > 0 {
		r.externalMonitor = NewExternalMonitor(gCfg.MonitorConfig.Command, gCfg.NotificationConfig, logger)
	} else {
		r.monitoringService, err = monitor.NewMonitoringServiceBuilder(&gCfg.MonitorConfig, logger).
			WithStateStore(stateStore).
			WithHistoryStore(historyStore).
			WithNotificationHelper(notificationHelper).
			Build()
		if err != nil {
			return nil, common.WrapError(err, "building monitoring service")
		}
	}

	return r, nil
}

// NewRunID derives a run identifier from a start time.
func NewRunID(startTime time.Time) string {
	return startTime.Format(runIDLayout)
}

// Execute performs one run and returns its summary. The returned error mirrors
// summary.Status: nil for COMPLETED, the monitor failure otherwise. Artifact
// capture happens regardless of monitor outcome.
func (r *Runner) Execute(ctx context.Context) (models.RunSummaryData, error) {
	return r.ExecuteRun(ctx, NewRunID(time.Now()))
}

// ExecuteRun is Execute with a caller-supplied run ID, for schedulers that
// record the run before it starts.
func (r *Runner) ExecuteRun(ctx context.Context, runID string) (models.RunSummaryData, error) {
	startTime := time.Now()

	summary := models.GetDefaultRunSummaryData()
	summary.RunID = runID
	summary.Mode = r.mode
	summary.SourceURL = r.globalConfig.MonitorConfig.URL
	summary.Status = string(models.RunStatusStarted)

	r.logger.Info().Str("run_id", runID).Str("mode", r.mode).Msg("Run started")

	runErr := r.executeSteps(ctx, runID, &summary)

	// Step 4 runs unconditionally, even for failed or interrupted runs.
	r.captureArtifacts(runID, &summary)

	summary.RunDuration = time.Since(startTime)
	summary.CompletedAt = time.Now()
	if snapshot := common.CaptureResourceSnapshot(); snapshot.SnapshotComplete {
		summary.ProcessRSSMB = snapshot.ProcessRSSMB
		summary.GoroutineCount = snapshot.Goroutines
	}

	switch {
	case runErr == nil:
		summary.Status = string(models.RunStatusCompleted)
	case errors.Is(runErr, context.Canceled):
		summary.Status = string(models.RunStatusInterrupted)
		summary.ErrorMessages = append(summary.ErrorMessages, runErr.Error())
	default:
		summary.Status = string(models.RunStatusFailed)
		summary.ErrorMessages = append(summary.ErrorMessages, runErr.Error())
		r.notificationHelper.SendCriticalErrorNotification(ctx, summary.Component, summary)
	}

	r.logger.Info().
		Str("run_id", runID).
		Str("status", summary.Status).
		Dur("duration", summary.RunDuration).
		Bool("state_changed", summary.StateChanged).
		Msg("Run finished")

	if runErr == nil {
		r.notificationHelper.SendRunCompletionNotification(ctx, summary)
	}
	return summary, runErr
}

// executeSteps runs steps 1 to 3: ensure state, monitor, persist.
func (r *Runner) executeSteps(ctx context.Context, runID string, summary *models.RunSummaryData) error {
	if err := r.stateStore.EnsureDefault(); err != nil {
		summary.Component = "StateStore"
		return common.WrapError(err, "ensuring state file")
	}

	hashBefore, err := r.stateStore.ContentHash()
	if err != nil {
		summary.Component = "StateStore"
		return err
	}

	if err := r.runMonitor(ctx, runID, summary); err != nil {
		summary.Component = "Monitor"
		return err
	}

	hashAfter, err := r.stateStore.ContentHash()
	if err != nil {
		summary.Component = "StateStore"
		return err
	}
	summary.StateChanged = hashBefore != hashAfter

	if !summary.StateChanged {
		r.logger.Info().Msg("State file unchanged, skipping commit step")
		return nil
	}

	commitHash, err := r.gitStore.CommitStateFile(ctx, r.stateStore.FilePath())
	if err != nil {
		summary.Component = "GitStore"
		return common.WrapError(err, "persisting state change")
	}
	summary.StateCommitted = commitHash != ""
	return nil
}

func (r *Runner) runMonitor(ctx context.Context, runID string, summary *models.RunSummaryData) error {
	if r.externalMonitor != nil {
		return r.externalMonitor.Run(ctx)
	}

	result, err := r.monitoringService.RunCheck(ctx, runID)
	if err != nil {
		return err
	}
	summary.TestDateCount = result.TestDateCount
	summary.DatesAdded = len(result.Diff.Added)
	summary.DatesRemoved = len(result.Diff.Removed)
	summary.ThresholdHit = result.ThresholdHit
	return nil
}

func (r *Runner) captureArtifacts(runID string, summary *models.RunSummaryData) {
	artifactPath, err := r.artifactManager.CaptureLogArtifact(runID, r.globalConfig.LogConfig.LogFile)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to capture log artifact")
	} else {
		summary.ArtifactPath = artifactPath
	}

	if err := r.artifactManager.PruneExpiredArtifacts(); err != nil {
		r.logger.Error().Err(err).Msg("Failed to prune expired artifacts")
	}
}
