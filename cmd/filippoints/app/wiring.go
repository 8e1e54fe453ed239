package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/filippoints/filippoints-cli/internal/config"
	"github.com/filippoints/filippoints-cli/internal/connectivity"
	"github.com/filippoints/filippoints-cli/internal/httpclient"
	"github.com/filippoints/filippoints-cli/internal/logger"
	"github.com/filippoints/filippoints-cli/internal/prefs"
	"github.com/filippoints/filippoints-cli/internal/status"
	pkgsync "github.com/filippoints/filippoints-cli/internal/sync"
	"github.com/filippoints/filippoints-cli/internal/telemetry"
	"github.com/filippoints/filippoints-cli/internal/versions"
	"github.com/filippoints/filippoints-cli/internal/webapi"
)

// components is everything a command needs to talk to the backend and the cache
type components struct {
	cfg     *config.Config
	store   prefs.Store
	manager pkgsync.Manager
	metrics *telemetry.RefreshMetrics
}

func buildComponents(cfg *config.Config) (*components, error) {
	httpClient := httpclient.NewDefaultClient(cfg.BackendTimeout(),
		httpclient.WithUserAgent("filippoints-cli/"+versions.Version))
	apiClient, err := webapi.NewClient(httpClient, cfg.Backend.Endpoint, cfg.Backend.PeoplePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create backend client: %w", err)
	}

	if err := os.MkdirAll(cfg.Cache.Dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	var checker connectivity.Checker = connectivity.NewTCPChecker(cfg.Connectivity.Address, cfg.ProbeTimeout())
	if viper.GetBool("offline") {
		checker = connectivity.Static(false)
	}

	metrics := telemetry.NewRefreshMetrics()
	manager := pkgsync.NewDefaultSyncManager(apiClient, store, checker,
		pkgsync.WithStatusPersistence(status.NewFileStatusPersistence(cfg.Cache.Dir)),
		pkgsync.WithMetrics(metrics),
		pkgsync.WithCacheKey(cfg.Cache.Key),
		pkgsync.WithPageSize(cfg.Backend.PageSize),
	)

	return &components{cfg: cfg, store: store, manager: manager, metrics: metrics}, nil
}

// openStore returns the cache file store, or a process-local one with --no-cache
func openStore(cfg *config.Config) (prefs.Store, error) {
	if viper.GetBool("no-cache") {
		return prefs.NewMemoryStore(), nil
	}
	store, err := prefs.NewFileStore(cfg.Cache.Dir, cfg.Cache.PrefsName)
	if err != nil {
		return nil, fmt.Errorf("failed to open preferences store: %w", err)
	}
	return store, nil
}

// flushMetrics writes the textfile export when one is configured
func (c *components) flushMetrics() {
	path := c.cfg.Metrics.Textfile
	if path == "" {
		return
	}
	if err := c.metrics.WriteTextfile(path); err != nil {
		logger.Warnw("Failed to write metrics textfile", "path", path, "error", err)
	}
}

func defaultScreenLogPath() string {
	cfg, err := loadConfig()
	if err != nil {
		return ""
	}
	if err := os.MkdirAll(cfg.Cache.Dir, 0750); err != nil {
		return ""
	}
	return filepath.Join(cfg.Cache.Dir, "filippoints.log")
}
