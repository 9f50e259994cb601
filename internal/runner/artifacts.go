package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aleister1102/satwatch/internal/common"
	"github.com/aleister1102/satwatch/internal/config"
)

// ArtifactManager captures per-run log artifacts and prunes expired ones.
type ArtifactManager struct {
	cfg    *config.ArtifactConfig
	logger zerolog.Logger
}

// NewArtifactManager creates a new ArtifactManager.
func NewArtifactManager(cfg *config.ArtifactConfig, logger zerolog.Logger) *ArtifactManager {
	return &ArtifactManager{
		cfg:    cfg,
		logger: logger.With().Str("component", "ArtifactManager").Logger(),
	}
}

// CaptureLogArtifact copies the log file into a per-run artifact directory
// named "<prefix>-<runID>" and returns the artifact directory path. A missing
// log file is not an error: the capture is skipped with a warning.
func (am *ArtifactManager) CaptureLogArtifact(runID, logFilePath string) (string, error) {
	artifactDir := filepath.Join(am.cfg.OutputDir, fmt.Sprintf("%s-%s", am.cfg.NamePrefix, runID))
	if err := common.EnsureDir(artifactDir); err != nil {
		return "", common.WrapError(err, "creating artifact directory")
	}

	if logFilePath == "" || !common.FileExists(logFilePath) {
		am.logger.Warn().Str("log_file", logFilePath).Msg("Log file not found, capturing empty artifact")
		return artifactDir, nil
	}

	destPath := filepath.Join(artifactDir, filepath.Base(logFilePath))
	if err := common.CopyFile(logFilePath, destPath); err != nil {
		return "", common.WrapError(err, "copying log file to artifact directory")
	}

	am.logger.Info().Str("artifact", artifactDir).Msg("Log artifact captured")
	return artifactDir, nil
}

// PruneExpiredArtifacts removes artifact directories older than the retention
// period. Age is determined from the directory modification time.
func (am *ArtifactManager) PruneExpiredArtifacts() error {
	entries, err := os.ReadDir(am.cfg.OutputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return common.WrapError(err, "reading artifact directory")
	}

	cutoff := time.Now().AddDate(0, 0, -am.cfg.RetentionDays)
	pruned := 0
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), am.cfg.NamePrefix+"-") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			am.logger.Warn().Err(err).Str("entry", entry.Name()).Msg("Failed to stat artifact entry, skipping")
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		fullPath := filepath.Join(am.cfg.OutputDir, entry.Name())
		if err := os.RemoveAll(fullPath); err != nil {
			am.logger.Error().Err(err).Str("artifact", fullPath).Msg("Failed to remove expired artifact")
			continue
		}
		pruned++
	}

	if pruned > 0 {
		am.logger.Info().Int("pruned", pruned).Int("retention_days", am.cfg.RetentionDays).Msg("Expired artifacts pruned")
	}
	return nil
}
