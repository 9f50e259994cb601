package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/aleister1102/satwatch/internal/common"
	"gopkg.in/yaml.v3"
)

const (
	// Monitor Defaults
	DefaultMonitorURL         = "https://satsuite.collegeboard.org/sat/dates-deadlines"
	DefaultMonitorUserAgent   = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	DefaultMonitorTimeoutSecs = 30
	DefaultDateThreshold      = 7
	DefaultDatesTableSelector = "table.cb-table.cb-no-margin-top"

	// State Defaults
	DefaultStateFilePath = "sat_monitor_state.json"

	// Storage Defaults
	DefaultHistoryBasePath = "database/history"

	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = "sat_monitor.log"
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// Scheduler Defaults
	DefaultSchedulerCheckIntervalMinutes = 360 // 6 hours
	DefaultSchedulerSQLiteDBPath         = "database/scheduler/run_history.db"

	// Git Defaults
	DefaultGitCommitMessage = "chore: update SAT monitor state [skip ci]"
	DefaultGitAuthorName    = "sat-monitor-bot"
	DefaultGitAuthorEmail   = "sat-monitor-bot@users.noreply.github.com"
	DefaultGitRemoteName    = "origin"

	// Artifact Defaults
	DefaultArtifactDir           = "artifacts"
	DefaultArtifactNamePrefix    = "sat-monitor-logs"
	DefaultArtifactRetentionDays = 5

	// Notification Defaults
	DefaultTelegramChatID = "-1002594329611"
)

// GlobalConfig aggregates every per-concern configuration section.
type GlobalConfig struct {
	ArtifactConfig     ArtifactConfig     `json:"artifact_config,omitempty" yaml:"artifact_config,omitempty"`
	GitConfig          GitConfig          `json:"git_config,omitempty" yaml:"git_config,omitempty"`
	LogConfig          LogConfig          `json:"log_config,omitempty" yaml:"log_config,omitempty"`
	Mode               string             `json:"mode,omitempty" yaml:"mode,omitempty" validate:"omitempty,mode"`
	MonitorConfig      MonitorConfig      `json:"monitor_config,omitempty" yaml:"monitor_config,omitempty"`
	NotificationConfig NotificationConfig `json:"notification_config,omitempty" yaml:"notification_config,omitempty"`
	SchedulerConfig    SchedulerConfig    `json:"scheduler_config,omitempty" yaml:"scheduler_config,omitempty"`
	StateConfig        StateConfig        `json:"state_config,omitempty" yaml:"state_config,omitempty"`
	StorageConfig      StorageConfig      `json:"storage_config,omitempty" yaml:"storage_config,omitempty"`
}

// NewDefaultGlobalConfig creates a GlobalConfig with all defaults applied.
func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		ArtifactConfig:     NewDefaultArtifactConfig(),
		GitConfig:          NewDefaultGitConfig(),
		LogConfig:          NewDefaultLogConfig(),
		Mode:               "",
		MonitorConfig:      NewDefaultMonitorConfig(),
		NotificationConfig: NewDefaultNotificationConfig(),
		SchedulerConfig:    NewDefaultSchedulerConfig(),
		StateConfig:        NewDefaultStateConfig(),
		StorageConfig:      NewDefaultStorageConfig(),
	}
}

// LoadGlobalConfig loads the configuration from a file or default locations.
// It determines the config file path using GetConfigPath and supports both
// JSON and YAML formats. A missing file yields the defaults, not an error.
func LoadGlobalConfig(providedPath string) (*GlobalConfig, error) {
	cfg := NewDefaultGlobalConfig()

	filePath := GetConfigPath(providedPath)
	if filePath == "" {
		return cfg, nil
	}

	if !common.FileExists(filePath) {
		return nil, common.NewValidationError("config_file", filePath, "config file does not exist")
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, common.WrapError(err, "failed to load config file content")
	}

	if err := parseConfigContent(data, filePath, cfg); err != nil {
		return nil, common.WrapError(err, "failed to parse config content")
	}

	return cfg, nil
}

// parseConfigContent parses the config content based on file extension
func parseConfigContent(data []byte, filePath string, cfg *GlobalConfig) error {
	ext := filepath.Ext(filePath)
	if ext == ".yaml" || ext == ".yml" {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return common.NewError("failed to unmarshal YAML from '%s': %w", filePath, err)
		}
		return nil
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return common.NewError("failed to unmarshal JSON from '%s': %w", filePath, err)
	}
	return nil
}
