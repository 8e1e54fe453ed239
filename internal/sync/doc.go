// Package sync keeps the locally cached person list in step with the backend.
//
// # Core Interface
//
//   - Manager: loads the cached list, refreshes it from the backend and
//     performs connectivity-gated reloads.
//
// # Result Types
//
//   - Result: the people written by a successful refresh
//   - Error: a failed refresh with a Reason (FetchFailed, StorageFailed)
//   - RefreshResult: the outcome of RefreshIfOnline
//
// # Failure Semantics
//
// LoadCachedList never fails: unreadable, absent or malformed cache data
// yields an empty list. RefreshFromBackend leaves the cache untouched on
// failure and returns the typed Error to the caller, which owns any retry
// policy. Every refresh updates the persisted status (see package status).
//
// The coordinator subpackage runs RefreshFromBackend on a jittered interval
// for long-running watch mode.
package sync
