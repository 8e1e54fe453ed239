package coordinator

import (
	"context"
	"math/rand/v2"
	gosync "sync"
	"time"

	"github.com/filippoints/filippoints-cli/internal/logger"
	pkgsync "github.com/filippoints/filippoints-cli/internal/sync"
)

const (
	// DefaultInterval is used when a non-positive interval is configured
	DefaultInterval = 5 * time.Minute

	// jitterFraction is the maximum relative offset applied to the interval
	jitterFraction = 0.1
)

// Coordinator manages periodic background refreshes
type Coordinator interface {
	// Start performs an initial refresh and then refreshes on every tick.
	// Blocks until context is cancelled or Stop is called.
	Start(ctx context.Context) error

	// Stop gracefully stops the coordinator
	Stop() error
}

// ResultHandler receives the outcome of every refresh
type ResultHandler func(result *pkgsync.Result, err *pkgsync.Error)

// defaultCoordinator is the default implementation of Coordinator
type defaultCoordinator struct {
	manager  pkgsync.Manager
	interval time.Duration
	onResult ResultHandler

	// Lifecycle management
	mu         gosync.Mutex
	cancelFunc context.CancelFunc
	done       chan struct{}
}

// Option is a function that configures the coordinator
type Option func(*defaultCoordinator)

// WithResultHandler sets the handler notified after each refresh
func WithResultHandler(h ResultHandler) Option {
	return func(c *defaultCoordinator) {
		c.onResult = h
	}
}

// New creates a new coordinator with injected dependencies
func New(manager pkgsync.Manager, interval time.Duration, opts ...Option) Coordinator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	c := &defaultCoordinator{
		manager:  manager,
		interval: interval,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// calculatePollingInterval returns base with a random jitter of up to ±10%.
func calculatePollingInterval(base time.Duration) time.Duration {
	maxJitter := time.Duration(float64(base) * jitterFraction)
	if maxJitter <= 0 {
		return base
	}
	//nolint:gosec // G404: Non-cryptographic randomness is sufficient for polling jitter
	jitterOffset := time.Duration(rand.Int64N(int64(2*maxJitter))) - maxJitter
	return base + jitterOffset
}

// Start begins background refresh coordination
func (c *defaultCoordinator) Start(ctx context.Context) error {
	coordCtx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.cancelFunc = cancel
	c.mu.Unlock()
	defer func() {
		cancel()
		close(c.done)
		logger.Infof("Background refresh coordinator shut down")
	}()

	pollingInterval := calculatePollingInterval(c.interval)
	logger.Infow("Starting background refresh coordinator",
		"base_interval", c.interval.String(),
		"actual_interval", pollingInterval.String())

	ticker := time.NewTicker(pollingInterval)
	defer ticker.Stop()

	c.refresh(coordCtx)

	for {
		select {
		case <-ticker.C:
			c.refresh(coordCtx)
			ticker.Reset(calculatePollingInterval(c.interval))
		case <-coordCtx.Done():
			return nil
		}
	}
}

// Stop gracefully stops the coordinator
func (c *defaultCoordinator) Stop() error {
	c.mu.Lock()
	cancel := c.cancelFunc
	c.mu.Unlock()
	if cancel != nil {
		logger.Infof("Stopping background refresh coordinator")
		cancel()
		<-c.done
	}
	return nil
}

func (c *defaultCoordinator) refresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	result, syncErr := c.manager.RefreshFromBackend(ctx)
	if c.onResult != nil {
		c.onResult(result, syncErr)
	}
}
