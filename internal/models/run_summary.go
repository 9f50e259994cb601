package models

import "time"

// RunStatus defines the possible states of a monitor run.
type RunStatus string

const (
	RunStatusStarted     RunStatus = "STARTED"
	RunStatusCompleted   RunStatus = "COMPLETED"
	RunStatusFailed      RunStatus = "FAILED"
	RunStatusInterrupted RunStatus = "INTERRUPTED"
	RunStatusUnknown     RunStatus = "UNKNOWN"
)

// RunSummaryData holds all relevant information about a monitor run to be
// used in notifications and the run-history database.
type RunSummaryData struct {
	RunID          string        // Unique identifier for the run (YYYYMMDD-HHMMSS timestamp)
	SourceURL      string        // The monitored page
	Mode           string        // "onetime" or "automated"
	Status         string        // Overall status, one of RunStatus
	TestDateCount  int           // Number of test dates found during the run
	DatesAdded     int           // Dates present now but not in the previous state
	DatesRemoved   int           // Dates present in the previous state but gone now
	StateChanged   bool          // Whether the state file content changed this run
	StateCommitted bool          // Whether a commit was made for the state change
	ThresholdHit   bool          // Whether the date count exceeded the alert threshold
	RunDuration    time.Duration // Total duration of the run
	ArtifactPath   string        // Filesystem path of the captured log artifact
	ErrorMessages  []string      // Any critical errors encountered during the run
	Component      string        // Component where an error occurred (for critical errors)
	ProcessRSSMB   float64       // Resource snapshot at run end
	GoroutineCount int
	CompletedAt    time.Time
}

// GetDefaultRunSummaryData initializes a RunSummaryData with default values.
func GetDefaultRunSummaryData() RunSummaryData {
	return RunSummaryData{
		RunID:     "",
		SourceURL: "",
		Mode:      "Unknown",
		Status:    string(RunStatusUnknown),
	}
}
