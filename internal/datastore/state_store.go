package datastore

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"

	"github.com/aleister1102/satwatch/internal/common"
	"github.com/aleister1102/satwatch/internal/config"
	"github.com/aleister1102/satwatch/internal/models"
	"github.com/rs/zerolog"
)

// defaultStateJSON is the exact document written on first run. External
// monitor programs parse this file, so the literal is part of the contract.
const defaultStateJSON = `{"timestamp": "", "last_modified": "", "test_date_count": 0, "test_dates": []}`

// StateStore manages the persisted state record on disk.
type StateStore struct {
	filePath string
	logger   zerolog.Logger
}

// NewStateStore creates a new StateStore.
func NewStateStore(cfg *config.StateConfig, logger zerolog.Logger) *StateStore {
	return &StateStore{
		filePath: cfg.FilePath,
		logger:   logger.With().Str("component", "StateStore").Logger(),
	}
}

// FilePath returns the path of the managed state file.
func (ss *StateStore) FilePath() string {
	return ss.filePath
}

// EnsureDefault writes the default state record if no state file exists.
// An existing file is never touched, whatever its content, so the monitor
// program always finds a parseable input and repeated calls are idempotent.
func (ss *StateStore) EnsureDefault() error {
	if common.FileExists(ss.filePath) {
		ss.logger.Debug().Str("path", ss.filePath).Msg("State file already exists, leaving it untouched")
		return nil
	}

	ss.logger.Info().Str("path", ss.filePath).Msg("State file missing, initializing with default record")
	return common.WriteFileAtomic(ss.filePath, []byte(defaultStateJSON), 0644)
}

// Load reads and parses the state record.
func (ss *StateStore) Load() (models.StateRecord, error) {
	var record models.StateRecord

	data, err := os.ReadFile(ss.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return record, common.WrapError(common.ErrNotFound, "state file")
		}
		return record, common.WrapErrorf(err, "reading state file '%s'", ss.filePath)
	}

	if err := json.Unmarshal(data, &record); err != nil {
		return record, common.WrapErrorf(err, "parsing state file '%s'", ss.filePath)
	}
	if record.TestDates == nil {
		record.TestDates = []string{}
	}
	return record, nil
}

// Save persists the state record atomically.
func (ss *StateStore) Save(record models.StateRecord) error {
	if record.TestDates == nil {
		record.TestDates = []string{}
	}
	data, err := json.Marshal(record)
	if err != nil {
		return common.WrapError(err, "marshaling state record")
	}
	if err := common.WriteFileAtomic(ss.filePath, data, 0644); err != nil {
		return err
	}
	ss.logger.Debug().Str("path", ss.filePath).Int("test_date_count", record.TestDateCount).Msg("State record saved")
	return nil
}

// ContentHash returns the sha256 of the raw state file bytes, or empty string
// if the file does not exist. The runner compares before/after hashes to gate
// the commit step.
func (ss *StateStore) ContentHash() (string, error) {
	data, err := os.ReadFile(ss.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", common.WrapErrorf(err, "hashing state file '%s'", ss.filePath)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
