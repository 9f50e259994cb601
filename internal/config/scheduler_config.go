package config

// SchedulerConfig defines configuration for the automated check scheduler.
type SchedulerConfig struct {
	CheckIntervalMinutes int    `json:"check_interval_minutes,omitempty" yaml:"check_interval_minutes,omitempty" validate:"omitempty,min=1"`
	SQLiteDBPath         string `json:"sqlite_db_path,omitempty" yaml:"sqlite_db_path,omitempty" validate:"required"`
}

// NewDefaultSchedulerConfig creates default scheduler configuration
func NewDefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		CheckIntervalMinutes: DefaultSchedulerCheckIntervalMinutes,
		SQLiteDBPath:         DefaultSchedulerSQLiteDBPath,
	}
}
