package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/spf13/cobra"

	"github.com/filippoints/filippoints-cli/internal/httpclient"
	"github.com/filippoints/filippoints-cli/internal/logger"
	pkgsync "github.com/filippoints/filippoints-cli/internal/sync"
	"github.com/filippoints/filippoints-cli/internal/sync/coordinator"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch the people list from the backend into the local cache",
	Long: `Fetch the people list once and overwrite the local cache.

--retries retries transient failures (network errors, 5xx, 429) with
exponential backoff. --watch keeps refreshing on the given interval until
interrupted.`,
	RunE: runRefresh,
}

const maxRetryElapsed = 2 * time.Minute

func init() {
	refreshCmd.Flags().Int("retries", 0, "Retries for transient failures")
	refreshCmd.Flags().Duration("watch", 0, "Keep refreshing on this interval (e.g. 5m)")
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	retries, err := cmd.Flags().GetInt("retries")
	if err != nil {
		return err
	}
	watch, err := cmd.Flags().GetDuration("watch")
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := buildComponents(cfg)
	if err != nil {
		return err
	}
	defer c.flushMetrics()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	if watch > 0 {
		coord := coordinator.New(c.manager, watch,
			coordinator.WithResultHandler(func(result *pkgsync.Result, syncErr *pkgsync.Error) {
				if syncErr != nil {
					fmt.Fprintf(out, "refresh failed: %s\n", syncErr.Message)
					return
				}
				fmt.Fprintf(out, "refreshed %d people in %s\n", result.Count, result.Duration.Round(time.Millisecond))
				c.flushMetrics()
			}))
		return coord.Start(ctx)
	}

	result, err := refreshWithRetry(ctx, c.manager, retries)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "refreshed %d people in %s\n", result.Count, result.Duration.Round(time.Millisecond))
	return nil
}

// refreshWithRetry retries transient fetch failures. Storage failures and
// client errors are permanent.
func refreshWithRetry(ctx context.Context, manager pkgsync.Manager, retries int) (*pkgsync.Result, error) {
	attempt := 0
	operation := func() (*pkgsync.Result, error) {
		attempt++
		result, syncErr := manager.RefreshFromBackend(ctx)
		if syncErr == nil {
			return result, nil
		}
		if syncErr.Reason != pkgsync.ReasonFetchFailed || !httpclient.IsTransient(syncErr.Err) {
			return nil, backoff.Permanent(syncErr)
		}
		logger.Warnw("Refresh attempt failed", "attempt", attempt, "error", syncErr.Message)
		return nil, syncErr
	}

	if retries < 0 {
		retries = 0
	}
	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(uint(retries)+1),
		backoff.WithMaxElapsedTime(maxRetryElapsed),
	)
}
