package scheduler

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aleister1102/satwatch/internal/common"
	"github.com/aleister1102/satwatch/internal/config"
	"github.com/aleister1102/satwatch/internal/models"
	"github.com/aleister1102/satwatch/internal/runner"
)

// Scheduler drives automated-mode runs on a fixed interval. Runs execute one
// at a time: the loop blocks until the current run finishes, and a manual
// trigger while a run is in flight cancels it and starts a replacement.
type Scheduler struct {
	cfg    *config.SchedulerConfig
	runner *runner.Runner
	db     *DB
	logger zerolog.Logger

	triggerCh chan struct{}
}

// NewScheduler creates a Scheduler and opens its run-history database.
func NewScheduler(cfg *config.SchedulerConfig, r *runner.Runner, logger zerolog.Logger) (*Scheduler, error) {
	db, err := NewDB(cfg.SQLiteDBPath, logger)
	if err != nil {
		return nil, common.WrapError(err, "initializing scheduler database")
	}
	return &Scheduler{
		cfg:       cfg,
		runner:    r,
		db:        db,
		logger:    logger.With().Str("module", "Scheduler").Logger(),
		triggerCh: make(chan struct{}, 1),
	}, nil
}

// Close releases the scheduler's resources.
func (s *Scheduler) Close() error {
	return s.db.Close()
}

// TriggerRun requests an immediate run. If a trigger is already pending the
// call is a no-op.
func (s *Scheduler) TriggerRun() {
	select {
	case s.triggerCh <- struct{}{}:
		s.logger.Info().Msg("Manual run triggered")
	default:
	}
}

// Start runs the scheduling loop until ctx is cancelled. The first run fires
// after the remainder of the configured interval since the last finished
// run, or immediately when there is none. Each run finishes before the next
// delay is computed, so the interval is measured between run starts.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info().Int("interval_minutes", s.cfg.CheckIntervalMinutes).Msg("Scheduler started")

	for {
		delay := s.nextRunDelay()
		s.logger.Info().Dur("delay", delay).Msg("Next run scheduled")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info().Msg("Scheduler stopped")
			return ctx.Err()
		case <-timer.C:
		case <-s.triggerCh:
			timer.Stop()
		}

		if err := s.runOnce(ctx); err != nil {
			s.logger.Info().Msg("Scheduler stopped")
			return err
		}
	}
}

// nextRunDelay computes the wait until the next run from the last finished
// run recorded in the database.
func (s *Scheduler) nextRunDelay() time.Duration {
	interval := time.Duration(s.cfg.CheckIntervalMinutes) * time.Minute

	lastRun, err := s.db.GetLastRunTime()
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn().Err(err).Msg("Failed to read last run time, running immediately")
		}
		return 0
	}

	elapsed := time.Since(*lastRun)
	if elapsed >= interval {
		return 0
	}
	return interval - elapsed
}

// runOnce executes a run and blocks until it finishes. A trigger received
// while the run is in flight cancels it and starts a replacement
// immediately, so at most one run is ever active.
func (s *Scheduler) runOnce(ctx context.Context) error {
	for {
		runCtx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			s.executeAndRecord(runCtx)
		}()

		select {
		case <-done:
			cancel()
			return nil
		case <-s.triggerCh:
			s.logger.Warn().Msg("Run triggered while another is in progress, cancelling the current run")
			cancel()
			<-done
		case <-ctx.Done():
			cancel()
			<-done
			return ctx.Err()
		}
	}
}

// executeAndRecord performs one run and records it in the run history.
func (s *Scheduler) executeAndRecord(ctx context.Context) {
	startTime := time.Now()
	runID := runner.NewRunID(startTime)

	dbRunID, err := s.db.RecordRunStart(runID, "automated", startTime)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to record run start, proceeding without history entry")
	}

	summary, runErr := s.runner.ExecuteRun(ctx, runID)
	if runErr != nil && summary.Status != string(models.RunStatusInterrupted) {
		s.logger.Error().Err(runErr).Str("run_id", runID).Msg("Scheduled run failed")
	}

	if dbRunID != 0 {
		errSummary := strings.Join(summary.ErrorMessages, "; ")
		if err := s.db.UpdateRunCompletion(dbRunID, time.Now(), summary.Status, summary.TestDateCount, summary.StateChanged, summary.ArtifactPath, errSummary); err != nil {
			s.logger.Error().Err(err).Msg("Failed to record run completion")
		}
	}
}
