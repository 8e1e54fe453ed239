package status

import "time"

// SyncPhase represents the current phase of a backend refresh
type SyncPhase string

const (
	// SyncPhaseSyncing means a refresh is currently in progress
	SyncPhaseSyncing SyncPhase = "Syncing"

	// SyncPhaseComplete means the last refresh completed successfully
	SyncPhaseComplete SyncPhase = "Complete"

	// SyncPhaseFailed means the last refresh failed
	SyncPhaseFailed SyncPhase = "Failed"
)

// SyncStatus records the outcome of backend refreshes of the person cache
type SyncStatus struct {
	// Phase represents the current refresh phase
	Phase SyncPhase `json:"phase"`

	// Message provides additional information about the refresh status
	Message string `json:"message,omitempty"`

	// Reason is the failure reason of the last failed attempt
	Reason string `json:"reason,omitempty"`

	// LastAttempt is the timestamp of the last refresh attempt
	LastAttempt *time.Time `json:"lastAttempt,omitempty"`

	// AttemptCount is the number of attempts since last success
	AttemptCount int `json:"attemptCount,omitempty"`

	// LastSyncTime is the timestamp of the last successful refresh
	LastSyncTime *time.Time `json:"lastSyncTime,omitempty"`

	// PersonCount is the number of people written by the last successful refresh
	PersonCount int `json:"personCount,omitempty"`
}
