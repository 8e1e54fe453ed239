package app

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/filippoints/filippoints-cli/internal/httpclient"
	"github.com/filippoints/filippoints-cli/internal/person"
	"github.com/filippoints/filippoints-cli/internal/screen"
	"github.com/filippoints/filippoints-cli/internal/status"
	pkgsync "github.com/filippoints/filippoints-cli/internal/sync"
	syncmocks "github.com/filippoints/filippoints-cli/internal/sync/mocks"
)

func newPeopleFlags(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "people"}
	cmd.Flags().Bool("admin", false, "")
	cmd.Flags().Int("points", screen.NoPoints, "")
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestModeFromFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		args      []string
		wantAdmin bool
		wantPts   int
	}{
		{name: "regular", args: nil, wantPts: screen.NoPoints},
		{name: "regular ignores points", args: []string{"--points", "3"}, wantPts: screen.NoPoints},
		{name: "admin with points", args: []string{"--admin", "--points", "3"}, wantAdmin: true, wantPts: 3},
		{name: "admin without points", args: []string{"--admin"}, wantAdmin: true, wantPts: screen.NoPoints},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mode, err := modeFromFlags(newPeopleFlags(t, tt.args...))
			require.NoError(t, err)
			assert.Equal(t, tt.wantAdmin, mode.IsAdmin())
			assert.Equal(t, tt.wantPts, mode.Points())
		})
	}
}

func TestRefreshWithRetry(t *testing.T) {
	t.Parallel()

	transient := &pkgsync.Error{
		Err:     httpclient.NewHTTPError(http.StatusServiceUnavailable, "http://x/api/people/", "unavailable"),
		Message: "Fetch failed",
		Reason:  pkgsync.ReasonFetchFailed,
	}
	notFound := &pkgsync.Error{
		Err:     httpclient.NewHTTPError(http.StatusNotFound, "http://x/api/people/", "not found"),
		Message: "Fetch failed",
		Reason:  pkgsync.ReasonFetchFailed,
	}
	storage := &pkgsync.Error{
		Err:     errors.New("disk full"),
		Message: "Failed to store people",
		Reason:  pkgsync.ReasonStorageFailed,
	}
	ok := &pkgsync.Result{Count: 2, Duration: time.Millisecond}

	t.Run("retries transient failures", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		mgr := syncmocks.NewMockManager(ctrl)
		gomock.InOrder(
			mgr.EXPECT().RefreshFromBackend(gomock.Any()).Return(nil, transient),
			mgr.EXPECT().RefreshFromBackend(gomock.Any()).Return(ok, nil),
		)

		result, err := refreshWithRetry(context.Background(), mgr, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Count)
	})

	t.Run("no retries by default", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		mgr := syncmocks.NewMockManager(ctrl)
		mgr.EXPECT().RefreshFromBackend(gomock.Any()).Return(nil, transient).Times(1)

		_, err := refreshWithRetry(context.Background(), mgr, 0)
		var syncErr *pkgsync.Error
		require.ErrorAs(t, err, &syncErr)
		assert.Equal(t, pkgsync.ReasonFetchFailed, syncErr.Reason)
	})

	for name, permanent := range map[string]*pkgsync.Error{"client error": notFound, "storage failure": storage} {
		t.Run(name+" is permanent", func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			mgr := syncmocks.NewMockManager(ctrl)
			mgr.EXPECT().RefreshFromBackend(gomock.Any()).Return(nil, permanent).Times(1)

			_, err := refreshWithRetry(context.Background(), mgr, 5)
			require.Error(t, err)
			assert.ErrorIs(t, err, permanent.Err)
		})
	}
}

func TestRenderPeople(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, renderPeople(&buf, []person.Person{
		{PK: 7, FirstName: "Filip", LastName: "Novak", Points: 30},
	}))
	out := buf.String()
	assert.Contains(t, out, "Filip Novak")
	assert.Contains(t, out, "30")

	buf.Reset()
	require.NoError(t, renderPeople(&buf, nil))
	assert.Contains(t, buf.String(), "filippoints refresh")
}

func TestRenderStatus(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, renderStatus(&buf, &status.SyncStatus{}))
	assert.Contains(t, buf.String(), "Never refreshed")
	assert.Contains(t, buf.String(), "never")

	now := time.Now()
	buf.Reset()
	require.NoError(t, renderStatus(&buf, &status.SyncStatus{
		Phase:        status.SyncPhaseComplete,
		LastAttempt:  &now,
		LastSyncTime: &now,
		PersonCount:  5,
	}))
	assert.Contains(t, buf.String(), "Complete")
	assert.Contains(t, buf.String(), now.Local().Format(time.RFC3339))
}
