package sync

import (
	"context"
	"fmt"
	gosync "sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/filippoints/filippoints-cli/internal/connectivity"
	"github.com/filippoints/filippoints-cli/internal/logger"
	"github.com/filippoints/filippoints-cli/internal/person"
	"github.com/filippoints/filippoints-cli/internal/prefs"
	"github.com/filippoints/filippoints-cli/internal/status"
	"github.com/filippoints/filippoints-cli/internal/telemetry"
	"github.com/filippoints/filippoints-cli/internal/webapi"
)

const (
	// DefaultPageSize is the number of people requested per backend refresh
	DefaultPageSize = 5

	// DefaultCacheKey is the preferences key of the serialized list
	DefaultCacheKey = "persons_key"

	refreshFlightKey = "refresh"
)

// Failure reasons carried by Error
const (
	ReasonFetchFailed   = "FetchFailed"
	ReasonStorageFailed = "StorageFailed"
)

// Result contains the result of a successful backend refresh
type Result struct {
	People   []person.Person
	Count    int
	Duration time.Duration
}

// Error represents a failed backend refresh with a machine-readable reason
type Error struct {
	Err     error
	Message string
	Reason  string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// RefreshResult is the outcome of a connectivity-gated cache reload
type RefreshResult struct {
	// Online is false when the network was unreachable; People is then nil
	Online bool
	People []person.Person
}

// Manager keeps the local person cache in step with the backend
//
//go:generate mockgen -destination=mocks/mock_manager.go -package=mocks github.com/filippoints/filippoints-cli/internal/sync Manager
type Manager interface {
	// LoadCachedList reads the cached list. Absent or malformed data yields an
	// empty slice; it never fails.
	LoadCachedList(ctx context.Context) []person.Person

	// RefreshFromBackend fetches one page of people and overwrites the cache.
	// On failure the cache is left untouched. Concurrent callers share one
	// request, which is cancelled only when every caller has given up.
	RefreshFromBackend(ctx context.Context) (*Result, *Error)

	// RefreshIfOnline reloads the cache when the network is reachable and
	// leaves it untouched otherwise.
	RefreshIfOnline(ctx context.Context) RefreshResult

	// Status returns the last persisted refresh status
	Status(ctx context.Context) (*status.SyncStatus, error)
}

// defaultSyncManager is the default implementation of Manager
type defaultSyncManager struct {
	client            webapi.Client
	store             prefs.Store
	checker           connectivity.Checker
	statusPersistence status.StatusPersistence
	metrics           *telemetry.RefreshMetrics

	cacheKey string
	pageSize int

	flight   singleflight.Group
	flightMu gosync.Mutex
	shared   *sharedRefresh
	statusMu gosync.Mutex
}

// sharedRefresh tracks the callers waiting on the in-flight refresh
type sharedRefresh struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// Option configures the default manager
type Option func(*defaultSyncManager)

// WithStatusPersistence records refresh status through p
func WithStatusPersistence(p status.StatusPersistence) Option {
	return func(s *defaultSyncManager) {
		s.statusPersistence = p
	}
}

// WithMetrics records refresh metrics on m
func WithMetrics(m *telemetry.RefreshMetrics) Option {
	return func(s *defaultSyncManager) {
		s.metrics = m
	}
}

// WithCacheKey overrides the preferences key of the cached list
func WithCacheKey(key string) Option {
	return func(s *defaultSyncManager) {
		if key != "" {
			s.cacheKey = key
		}
	}
}

// WithPageSize overrides the number of people fetched per refresh
func WithPageSize(n int) Option {
	return func(s *defaultSyncManager) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// NewDefaultSyncManager creates a new defaultSyncManager
func NewDefaultSyncManager(
	client webapi.Client, store prefs.Store, checker connectivity.Checker, opts ...Option,
) Manager {
	s := &defaultSyncManager{
		client:            client,
		store:             store,
		checker:           checker,
		statusPersistence: status.NewNoopStatusPersistence(),
		cacheKey:          DefaultCacheKey,
		pageSize:          DefaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadCachedList reads and decodes the cached list
func (s *defaultSyncManager) LoadCachedList(ctx context.Context) []person.Person {
	data, ok, err := s.store.GetString(ctx, s.cacheKey)
	if err != nil {
		logger.Warnw("Failed to read person cache, using empty list", "error", err)
		return []person.Person{}
	}
	if !ok {
		logger.Debugw("Person cache is empty", "key", s.cacheKey)
		return []person.Person{}
	}
	people := person.DecodeList(data)
	logger.Debugw("Loaded person cache", "count", len(people))
	return people
}

type refreshOutcome struct {
	result *Result
	err    *Error
}

// RefreshFromBackend fetches and stores the people list. Concurrent callers
// share a single backend request that runs detached from any one caller's
// context; a caller whose ctx ends stops waiting without failing the others.
func (s *defaultSyncManager) RefreshFromBackend(ctx context.Context) (*Result, *Error) {
	s.flightMu.Lock()
	call := s.shared
	if call == nil {
		refreshCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		call = &sharedRefresh{ctx: refreshCtx, cancel: cancel}
		s.shared = call
	}
	call.waiters++
	ch := s.flight.DoChan(refreshFlightKey, func() (any, error) {
		defer call.cancel()
		result, err := s.performRefresh(call.ctx)
		s.release(call)
		return refreshOutcome{result: result, err: err}, nil
	})
	s.flightMu.Unlock()

	select {
	case res := <-ch:
		outcome := res.Val.(refreshOutcome)
		return outcome.result, outcome.err
	case <-ctx.Done():
		s.flightMu.Lock()
		call.waiters--
		abandoned := call.waiters == 0
		if abandoned {
			s.detach(call)
		}
		s.flightMu.Unlock()
		if abandoned {
			call.cancel()
		}
		return nil, &Error{
			Err:     ctx.Err(),
			Message: fmt.Sprintf("Refresh cancelled: %v", ctx.Err()),
			Reason:  ReasonFetchFailed,
		}
	}
}

// release detaches call so the next caller starts a new request
func (s *defaultSyncManager) release(call *sharedRefresh) {
	s.flightMu.Lock()
	defer s.flightMu.Unlock()
	s.detach(call)
}

// detach requires flightMu
func (s *defaultSyncManager) detach(call *sharedRefresh) {
	if s.shared == call {
		s.shared = nil
		s.flight.Forget(refreshFlightKey)
	}
}

func (s *defaultSyncManager) performRefresh(ctx context.Context) (*Result, *Error) {
	start := time.Now()
	attempt := s.markSyncing(ctx, start)
	logger.Infof("Starting backend refresh (attempt %d, page size %d)", attempt, s.pageSize)

	people, err := s.client.GetPeople(ctx, s.pageSize)
	if err != nil {
		return nil, s.fail(ctx, start, &Error{
			Err:     err,
			Message: fmt.Sprintf("Fetch failed: %v", err),
			Reason:  ReasonFetchFailed,
		})
	}

	encoded, err := person.EncodeList(people)
	if err != nil {
		return nil, s.fail(ctx, start, &Error{
			Err:     err,
			Message: fmt.Sprintf("Encoding failed: %v", err),
			Reason:  ReasonStorageFailed,
		})
	}

	if err := s.store.PutString(ctx, s.cacheKey, encoded); err != nil {
		return nil, s.fail(ctx, start, &Error{
			Err:     err,
			Message: fmt.Sprintf("Storage failed: %v", err),
			Reason:  ReasonStorageFailed,
		})
	}

	result := &Result{
		People:   people,
		Count:    len(people),
		Duration: time.Since(start),
	}
	s.metrics.RecordRefresh(result.Duration, "", result.Count)
	s.updateStatus(ctx, func(st *status.SyncStatus) {
		now := time.Now()
		st.Phase = status.SyncPhaseComplete
		st.Message = "Refresh completed successfully"
		st.Reason = ""
		st.LastSyncTime = &now
		st.PersonCount = result.Count
		st.AttemptCount = 0
	})
	logger.Infof("Backend refresh completed: %d people in %s", result.Count, result.Duration.Round(time.Millisecond))

	return result, nil
}

func (s *defaultSyncManager) fail(ctx context.Context, start time.Time, syncErr *Error) *Error {
	s.metrics.RecordRefresh(time.Since(start), syncErr.Reason, 0)
	s.updateStatus(ctx, func(st *status.SyncStatus) {
		st.Phase = status.SyncPhaseFailed
		st.Message = syncErr.Message
		st.Reason = syncErr.Reason
	})
	logger.Warnw("Backend refresh failed", "reason", syncErr.Reason, "error", syncErr.Err)
	return syncErr
}

// markSyncing persists the Syncing phase and returns the attempt number
func (s *defaultSyncManager) markSyncing(ctx context.Context, now time.Time) int {
	var attempt int
	s.updateStatus(ctx, func(st *status.SyncStatus) {
		st.Phase = status.SyncPhaseSyncing
		st.Message = "Refresh in progress"
		st.LastAttempt = &now
		st.AttemptCount++
		attempt = st.AttemptCount
	})
	return attempt
}

// updateStatus applies fn to the persisted status. Status bookkeeping never
// fails a refresh.
func (s *defaultSyncManager) updateStatus(ctx context.Context, fn func(*status.SyncStatus)) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()

	st, err := s.statusPersistence.LoadStatus(ctx)
	if err != nil {
		logger.Warnw("Failed to load refresh status, starting fresh", "error", err)
		st = &status.SyncStatus{}
	}
	fn(st)
	if err := s.statusPersistence.SaveStatus(ctx, st); err != nil {
		logger.Warnw("Failed to persist refresh status", "error", err)
	}
}

// RefreshIfOnline reloads the cache when the network is reachable
func (s *defaultSyncManager) RefreshIfOnline(ctx context.Context) RefreshResult {
	if !s.checker.IsOnline(ctx) {
		s.metrics.RecordOffline()
		logger.Infof("No connection, keeping displayed list")
		return RefreshResult{Online: false}
	}
	return RefreshResult{Online: true, People: s.LoadCachedList(ctx)}
}

// Status returns the persisted refresh status
func (s *defaultSyncManager) Status(ctx context.Context) (*status.SyncStatus, error) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	return s.statusPersistence.LoadStatus(ctx)
}
