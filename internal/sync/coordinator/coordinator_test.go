package coordinator

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	pkgsync "github.com/filippoints/filippoints-cli/internal/sync"
	syncmocks "github.com/filippoints/filippoints-cli/internal/sync/mocks"
)

func TestCalculatePollingInterval(t *testing.T) {
	t.Parallel()

	base := 10 * time.Minute
	for range 100 {
		got := calculatePollingInterval(base)
		assert.GreaterOrEqual(t, got, 9*time.Minute)
		assert.Less(t, got, 11*time.Minute)
	}

	assert.Equal(t, time.Duration(5), calculatePollingInterval(5), "tiny intervals have no jitter")
}

func TestCoordinator_New(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	mockManager := syncmocks.NewMockManager(ctrl)

	coord := New(mockManager, 0)
	require.NotNil(t, coord)
	assert.Equal(t, DefaultInterval, coord.(*defaultCoordinator).interval)
}

func TestCoordinator_Stop_BeforeStart(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	coord := New(syncmocks.NewMockManager(ctrl), time.Minute)

	// Stop should not panic if called before Start
	assert.NoError(t, coord.Stop())
}

func TestCoordinator_RefreshesUntilStopped(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	mockManager := syncmocks.NewMockManager(ctrl)

	var calls atomic.Int32
	mockManager.EXPECT().
		RefreshFromBackend(gomock.Any()).
		DoAndReturn(func(context.Context) (*pkgsync.Result, *pkgsync.Error) {
			if calls.Add(1)%2 == 0 {
				return nil, &pkgsync.Error{Message: "Fetch failed: offline", Reason: pkgsync.ReasonFetchFailed}
			}
			return &pkgsync.Result{Count: 5}, nil
		}).
		MinTimes(3)

	var successes, failures atomic.Int32
	coord := New(mockManager, 10*time.Millisecond, WithResultHandler(func(r *pkgsync.Result, err *pkgsync.Error) {
		if err != nil {
			assert.Equal(t, pkgsync.ReasonFetchFailed, err.Reason)
			failures.Add(1)
			return
		}
		assert.Equal(t, 5, r.Count)
		successes.Add(1)
	}))

	startErr := make(chan error, 1)
	go func() { startErr <- coord.Start(context.Background()) }()

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, coord.Stop())
	require.NoError(t, <-startErr)

	assert.Positive(t, successes.Load())
	assert.Positive(t, failures.Load())
}

func TestCoordinator_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	mockManager := syncmocks.NewMockManager(ctrl)
	var called atomic.Bool
	mockManager.EXPECT().RefreshFromBackend(gomock.Any()).
		DoAndReturn(func(context.Context) (*pkgsync.Result, *pkgsync.Error) {
			called.Store(true)
			return &pkgsync.Result{}, nil
		}).
		Times(1)

	ctx, cancel := context.WithCancel(context.Background())
	coord := New(mockManager, time.Hour)

	startErr := make(chan error, 1)
	go func() { startErr <- coord.Start(ctx) }()

	require.Eventually(t, called.Load, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-startErr:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("coordinator did not stop after context cancellation")
	}
}
