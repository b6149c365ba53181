package interfaces

import "time"

// RunRecorder handles persistent run-history storage
type RunRecorder interface {
	Initialize(dbPath string) error
	RecordRun(operation string, timestamp time.Time, status string, details string) error
	LastRun(operation string) (time.Time, error)
	Close() error
}
