package scheduler

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// DB wraps the SQL database connection and provides methods for interacting
// with the run history.
type DB struct {
	db     *sql.DB
	logger zerolog.Logger
}

// RunHistoryEntry represents a record in the run_history table.
type RunHistoryEntry struct {
	ID            int64
	RunID         string
	RunStartTime  time.Time
	RunEndTime    sql.NullTime
	Status        string
	Mode          string
	TestDateCount int
	StateChanged  bool
	ArtifactPath  sql.NullString
	ErrorSummary  sql.NullString
}

// NewDB initializes a new DB connection and ensures the schema is set up.
func NewDB(dataSourceName string, logger zerolog.Logger) (*DB, error) {
	logger.Info().Str("db_path", dataSourceName).Msg("Initializing scheduler database connection")

	dbDir := filepath.Dir(dataSourceName)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create scheduler database directory %s: %w", dbDir, err)
	}

	dbInstance, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("sql.Open failed for %s: %w", dataSourceName, err)
	}

	db := &DB{
		db:     dbInstance,
		logger: logger.With().Str("component", "SchedulerDB").Logger(),
	}

	if err := db.InitSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// InitSchema creates the run_history table if it doesn't already exist.
func (d *DB) InitSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS run_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT UNIQUE,
		run_start_time DATETIME NOT NULL,
		run_end_time DATETIME,
		status TEXT NOT NULL,
		mode TEXT NOT NULL,
		test_date_count INTEGER DEFAULT 0,
		state_changed INTEGER DEFAULT 0,
		artifact_path TEXT,
		error_summary TEXT
	);
	`
	if _, err := d.db.Exec(query); err != nil {
		d.logger.Error().Err(err).Msg("Failed to initialize run_history schema")
		return err
	}
	return nil
}

// RecordRunStart inserts a new record with status "STARTED" and returns the
// ID of the newly inserted row.
func (d *DB) RecordRunStart(runID, mode string, startTime time.Time) (int64, error) {
	query := `INSERT INTO run_history (run_id, mode, run_start_time, status) VALUES (?, ?, ?, ?)`
	result, err := d.db.Exec(query, runID, mode, startTime, "STARTED")
	if err != nil {
		return 0, fmt.Errorf("failed to insert run start record: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	d.logger.Info().Int64("db_id", id).Str("run_id", runID).Msg("Recorded run start in DB")
	return id, nil
}

// UpdateRunCompletion updates an existing run_history record with completion
// details.
func (d *DB) UpdateRunCompletion(dbRunID int64, endTime time.Time, status string, testDateCount int, stateChanged bool, artifactPath, errorSummary string) error {
	query := `UPDATE run_history SET run_end_time = ?, status = ?, test_date_count = ?, state_changed = ?, artifact_path = ?, error_summary = ? WHERE id = ?`
	_, err := d.db.Exec(query, endTime, status, testDateCount, stateChanged,
		sql.NullString{String: artifactPath, Valid: artifactPath != ""},
		sql.NullString{String: errorSummary, Valid: errorSummary != ""},
		dbRunID)
	if err != nil {
		return fmt.Errorf("failed to update run completion for ID %d: %w", dbRunID, err)
	}
	d.logger.Info().Int64("db_id", dbRunID).Str("status", status).Msg("Updated run completion in DB")
	return nil
}

// GetLastRunTime retrieves the run_start_time of the most recent finished
// run. Failed and interrupted runs count too, so a persistent failure backs
// off by the full interval instead of retrying in a tight loop. sql.ErrNoRows
// is returned when no run has finished yet.
func (d *DB) GetLastRunTime() (*time.Time, error) {
	query := `SELECT run_start_time FROM run_history WHERE run_end_time IS NOT NULL ORDER BY run_start_time DESC LIMIT 1`
	var runStartTime time.Time
	err := d.db.QueryRow(query).Scan(&runStartTime)
	if err != nil {
		if err == sql.ErrNoRows {
			d.logger.Info().Msg("No finished run found in history")
			return nil, err
		}
		return nil, fmt.Errorf("failed to query last run start time: %w", err)
	}
	return &runStartTime, nil
}
