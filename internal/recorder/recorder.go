package recorder

import "time"

// RunEvent describes one analysis run. Only the outcome is kept; indicator
// values are never persisted.
type RunEvent struct {
	RunID     string
	StartedAt time.Time
	Symbol    string
	Period    string
	Interval  string
	Provider  string
	Outcome   string // "ok" or the failure kind
	Message   string
	RawBars   int
	CleanBars int
	Duration  time.Duration
}

// Recorder persists run history for later analysis.
type Recorder interface {
	RecordRun(evt *RunEvent) error
	Close() error
}
