package datastore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aleister1102/satwatch/internal/common"
	"github.com/aleister1102/satwatch/internal/config"
	"github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"
)

// CheckHistoryRecord is the Parquet schema for one completed check.
type CheckHistoryRecord struct {
	CheckTimestamp int64    `parquet:"check_timestamp"` // Unix milliseconds
	RunID          string   `parquet:"run_id"`
	SourceURL      string   `parquet:"source_url"`
	TestDateCount  int32    `parquet:"test_date_count"`
	TestDates      []string `parquet:"test_dates,list"`
	DatesAdded     []string `parquet:"dates_added,list"`
	DatesRemoved   []string `parquet:"dates_removed,list"`
	StateHash      *string  `parquet:"state_hash,optional"`
	LastModified   *string  `parquet:"last_modified,optional"`
	ThresholdHit   bool     `parquet:"threshold_hit"`
}

const historyFileName = "checks.parquet"

// ParquetHistoryStore persists the check history as a single Parquet file
// under the configured history base path.
type ParquetHistoryStore struct {
	storageConfig *config.StorageConfig
	logger        zerolog.Logger
}

// NewParquetHistoryStore creates a new ParquetHistoryStore.
func NewParquetHistoryStore(cfg *config.StorageConfig, logger zerolog.Logger) (*ParquetHistoryStore, error) {
	if cfg == nil || cfg.HistoryBasePath == "" {
		return nil, common.NewValidationError("history_base_path", "", "storage history base path is required")
	}
	if err := common.EnsureDir(cfg.HistoryBasePath); err != nil {
		return nil, err
	}
	return &ParquetHistoryStore{
		storageConfig: cfg,
		logger:        logger.With().Str("module", "ParquetHistoryStore").Logger(),
	}, nil
}

func (phs *ParquetHistoryStore) historyFilePath() string {
	return filepath.Join(phs.storageConfig.HistoryBasePath, historyFileName)
}

// Append adds one record to the check history. The whole file is rewritten,
// which is fine at one record per check.
func (phs *ParquetHistoryStore) Append(record CheckHistoryRecord) error {
	existing, err := phs.loadExistingRecords()
	if err != nil {
		return err
	}
	allRecords := append(existing, record)

	file, compressionOption, err := phs.createHistoryFile()
	if err != nil {
		return err
	}
	defer file.Close()

	if err := phs.writeRecords(file, compressionOption, allRecords); err != nil {
		return err
	}

	phs.logger.Debug().
		Str("run_id", record.RunID).
		Int("total_records", len(allRecords)).
		Msg("Appended record to check history")
	return nil
}

// Latest returns the most recently appended record, or nil when the history
// is empty.
func (phs *ParquetHistoryStore) Latest() (*CheckHistoryRecord, error) {
	records, err := phs.loadExistingRecords()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	latest := records[len(records)-1]
	return &latest, nil
}

// All returns every record in the history, oldest first.
func (phs *ParquetHistoryStore) All() ([]CheckHistoryRecord, error) {
	return phs.loadExistingRecords()
}

func (phs *ParquetHistoryStore) loadExistingRecords() ([]CheckHistoryRecord, error) {
	filePath := phs.historyFilePath()

	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []CheckHistoryRecord{}, nil
		}
		return nil, fmt.Errorf("opening history file '%s': %w", filePath, err)
	}
	defer file.Close()

	reader := parquet.NewReader(file)
	defer reader.Close()

	var records []CheckHistoryRecord
	for {
		var row CheckHistoryRecord
		if err := reader.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("reading row from '%s': %w", filePath, err)
		}
		records = append(records, row)
	}
	return records, nil
}

func (phs *ParquetHistoryStore) createHistoryFile() (*os.File, parquet.WriterOption, error) {
	filePath := phs.historyFilePath()
	file, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		phs.logger.Error().Err(err).Str("path", filePath).Msg("Failed to open history file for writing")
		return nil, nil, fmt.Errorf("opening history file '%s': %w", filePath, err)
	}

	compressionOption := parquet.Compression(&parquet.Uncompressed)
	switch strings.ToLower(phs.storageConfig.CompressionCodec) {
	case "snappy":
		compressionOption = parquet.Compression(&parquet.Snappy)
	case "gzip":
		compressionOption = parquet.Compression(&parquet.Gzip)
	case "zstd":
		compressionOption = parquet.Compression(&parquet.Zstd)
	case "none", "uncompressed", "":
		// Already default
	default:
		phs.logger.Warn().Str("codec", phs.storageConfig.CompressionCodec).Msg("Unsupported compression codec string, defaulting to Uncompressed")
	}
	return file, compressionOption, nil
}

func (phs *ParquetHistoryStore) writeRecords(file *os.File, compressionOption parquet.WriterOption, allRecords []CheckHistoryRecord) error {
	writer := parquet.NewGenericWriter[CheckHistoryRecord](file, compressionOption)

	if _, err := writer.Write(allRecords); err != nil {
		return fmt.Errorf("writing records to Parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing Parquet writer: %w", err)
	}
	return nil
}
