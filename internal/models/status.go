package models

import (
	"errors"
	"strings"
)

// RunStatus is the status reported by the status endpoint. The API is free
// to report values this client has never seen.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
	RunStatusUnknown   RunStatus = "unknown"
)

// ErrEmptyRunID is returned for an empty run identifier
var ErrEmptyRunID = errors.New("run ID cannot be empty")

// IsTerminal reports whether the run will not change state anymore.
// Anything outside completed, failed and cancelled counts as in progress.
func (s RunStatus) IsTerminal() bool {
	switch s.Normalized() {
	case RunStatusCompleted, RunStatusFailed, RunStatusCancelled:
		return true
	}
	return false
}

// Normalized lower-cases the status, the REST API reports COMPLETED
func (s RunStatus) Normalized() RunStatus {
	return RunStatus(strings.ToLower(strings.TrimSpace(string(s))))
}

func (s RunStatus) String() string {
	return string(s)
}

// StatusOf extracts the status field of a snapshot, unknown when absent
func StatusOf(snapshot Payload) RunStatus {
	return RunStatus(snapshot.String("status", string(RunStatusUnknown)))
}

// ValidateRunID rejects empty run identifiers, nothing else is checked
func ValidateRunID(runID string) error {
	if strings.TrimSpace(runID) == "" {
		return ErrEmptyRunID
	}
	return nil
}
