package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(WithEnv(viper.New()))
	require.NoError(t, err)

	assert.Equal(t, DefaultEndpoint, cfg.Backend.Endpoint)
	assert.Equal(t, DefaultPeoplePath, cfg.Backend.PeoplePath)
	assert.Equal(t, 5, cfg.Backend.PageSize)
	assert.Equal(t, 10*time.Second, cfg.BackendTimeout())
	assert.Equal(t, DefaultPrefsName, cfg.Cache.PrefsName)
	assert.Equal(t, DefaultCacheKey, cfg.Cache.Key)
	assert.NotEmpty(t, cfg.Cache.Dir)
	assert.Equal(t, "8.8.8.8:53", cfg.Connectivity.Address)
	assert.Equal(t, 1500*time.Millisecond, cfg.ProbeTimeout())
	assert.Equal(t, DefaultWebAppURL, cfg.WebAppURL)
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		yamlContent string
		check       func(t *testing.T, cfg *Config)
		errContains string
	}{
		{
			name: "full_config",
			yamlContent: `backend:
  endpoint: https://points.example.com/base
  peoplePath: /people/
  pageSize: 10
  timeout: 3s
cache:
  dir: /var/cache/fp
  prefsName: people
  key: list
connectivity:
  address: 1.1.1.1:53
  timeout: 250ms
metrics:
  textfile: /var/lib/node_exporter/fp.prom
log:
  level: debug
webAppURL: https://points.example.com/all/`,
			check: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "https://points.example.com/base", cfg.Backend.Endpoint)
				assert.Equal(t, 10, cfg.Backend.PageSize)
				assert.Equal(t, 3*time.Second, cfg.BackendTimeout())
				assert.Equal(t, "/var/cache/fp", cfg.Cache.Dir)
				assert.Equal(t, "people", cfg.Cache.PrefsName)
				assert.Equal(t, "list", cfg.Cache.Key)
				assert.Equal(t, 250*time.Millisecond, cfg.ProbeTimeout())
				assert.Equal(t, "/var/lib/node_exporter/fp.prom", cfg.Metrics.Textfile)
				assert.Equal(t, "debug", cfg.Log.Level)
			},
		},
		{
			name:        "partial_config_keeps_defaults",
			yamlContent: "backend:\n  endpoint: http://localhost:8000\n",
			check: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "http://localhost:8000", cfg.Backend.Endpoint)
				assert.Equal(t, DefaultPageSize, cfg.Backend.PageSize)
				assert.Equal(t, DefaultWebAppURL, cfg.WebAppURL)
			},
		},
		{
			name:        "invalid_yaml",
			yamlContent: "backend: [unterminated",
			errContains: "failed to parse YAML config",
		},
		{
			name:        "bad_endpoint_scheme",
			yamlContent: "backend:\n  endpoint: ftp://points.example.com\n",
			errContains: "backend.endpoint",
		},
		{
			name:        "negative_page_size",
			yamlContent: "backend:\n  pageSize: -1\n",
			errContains: "backend.pageSize",
		},
		{
			name:        "bad_timeout",
			yamlContent: "backend:\n  timeout: soon\n",
			errContains: "backend.timeout",
		},
		{
			name:        "prefs_name_with_path",
			yamlContent: "cache:\n  prefsName: ../escape\n",
			errContains: "cache.prefsName",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := LoadConfig(WithConfigPath(writeConfig(t, tt.yamlContent)), WithEnv(viper.New()))
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	t.Parallel()

	env := viper.New()
	env.Set("backend.endpoint", "http://override:9000")
	env.Set("backend.pagesize", 7)
	env.Set("webappurl", "http://override:9000/all/")

	path := writeConfig(t, "backend:\n  endpoint: http://file:8000\n  pageSize: 3\n")
	cfg, err := LoadConfig(WithConfigPath(path), WithEnv(env))
	require.NoError(t, err)

	assert.Equal(t, "http://override:9000", cfg.Backend.Endpoint)
	assert.Equal(t, 7, cfg.Backend.PageSize)
	assert.Equal(t, "http://override:9000/all/", cfg.WebAppURL)
}

func TestLoadConfig_ProcessEnvironment(t *testing.T) {
	t.Setenv("FILIPPOINTS_BACKEND_ENDPOINT", "http://from-env:8080")
	t.Setenv("FILIPPOINTS_CACHE_DIR", "/tmp/fp-env")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:8080", cfg.Backend.Endpoint)
	assert.Equal(t, "/tmp/fp-env", cfg.Cache.Dir)
}

func TestOptions(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig(WithConfigPath(""))
	require.Error(t, err)

	_, err = LoadConfig(WithConfigPath(filepath.Join(t.TempDir(), "missing.yaml")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to evaluate symlinks")

	_, err = LoadConfig(WithEnv(nil))
	require.Error(t, err)
}
