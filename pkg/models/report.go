package models

import (
	"time"
)

// ComparisonReport represents the results of one comparison run.
// A file name appears in at most one of Unchanged, Changed and Missing.
type ComparisonReport struct {
	// Operation details
	OperationID string
	OldPath     string
	NewPath     string
	Process     ProcessMode

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Unchanged lists names whose contents are identical on both sides
	Unchanged []string

	// Changed lists differing names in the order they were compared
	Changed []string

	// Missing lists names present only in the old location.
	// It is nil when nothing is missing.
	Missing []string

	// Overall status
	Status RunStatus
}

// RunStatus represents the overall result
type RunStatus string

const (
	// StatusSuccess indicates the comparison ran to completion
	StatusSuccess RunStatus = "success"
	// StatusFailed indicates the comparison was aborted by an error
	StatusFailed RunStatus = "failed"
	// StatusInvalid indicates the run was rejected before starting
	StatusInvalid RunStatus = "invalid"
)

// ExitCode returns the process exit code for the status.
// Finding differences is a successful run.
func (s RunStatus) ExitCode() int {
	switch s {
	case StatusSuccess:
		return 0
	case StatusFailed:
		return 1
	case StatusInvalid:
		return 2
	default:
		return 1
	}
}

// Finish records the end time and final status
func (r *ComparisonReport) Finish(status RunStatus) {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
	r.Status = status
}
