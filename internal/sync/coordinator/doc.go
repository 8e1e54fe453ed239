// Package coordinator runs backend refreshes of the person cache on a
// jittered interval.
//
// It sits on top of sync.Manager and handles:
//
//   - Scheduling using time.Ticker, with jitter so that many clients do not
//     hit the backend at the same instant
//   - An initial refresh on startup
//   - Graceful shutdown
//
// # Usage Example
//
//	coord := coordinator.New(manager, 5*time.Minute,
//	    coordinator.WithResultHandler(func(r *sync.Result, err *sync.Error) { ... }))
//	go func() { _ = coord.Start(ctx) }()
//	defer coord.Stop()
//
// Failures are reported to the result handler and never stop the loop.
package coordinator
