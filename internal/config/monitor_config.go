package config

// MonitorConfig defines configuration for the SAT dates monitor.
type MonitorConfig struct {
	URL                string `json:"url,omitempty" yaml:"url,omitempty" validate:"omitempty,url"`
	UserAgent          string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	HTTPTimeoutSeconds int    `json:"http_timeout_seconds,omitempty" yaml:"http_timeout_seconds,omitempty" validate:"omitempty,min=1"`
	DateThreshold      int    `json:"date_threshold,omitempty" yaml:"date_threshold,omitempty" validate:"omitempty,min=1"`
	TableSelector      string `json:"table_selector,omitempty" yaml:"table_selector,omitempty"`
	// Command, when set, replaces the built-in monitor with an external
	// program invoked with the notification credentials in its environment.
	Command []string `json:"command,omitempty" yaml:"command,omitempty"`
}

// NewDefaultMonitorConfig creates default monitor configuration
func NewDefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		URL:                DefaultMonitorURL,
		UserAgent:          DefaultMonitorUserAgent,
		HTTPTimeoutSeconds: DefaultMonitorTimeoutSecs,
		DateThreshold:      DefaultDateThreshold,
		TableSelector:      DefaultDatesTableSelector,
	}
}
