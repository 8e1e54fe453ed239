// Package config provides configuration loading and management for the filippoints client.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// EnvPrefix is the prefix of environment variables overriding configuration keys
	EnvPrefix = "FILIPPOINTS"

	// DefaultEndpoint is the public FilipPoints backend
	DefaultEndpoint = "http://www.filippoints.com"

	// DefaultPeoplePath is the people collection path on the backend
	DefaultPeoplePath = "/api/people/"

	// DefaultPageSize is the number of people fetched by the choose-person screen
	DefaultPageSize = 5

	// DefaultWebAppURL is the page opened by the web-app link
	DefaultWebAppURL = "http://www.filippoints.com/all/"

	// DefaultPrefsName is the name of the preferences store holding the cache
	DefaultPrefsName = "persons_pref"

	// DefaultCacheKey is the key of the serialized person list
	DefaultCacheKey = "persons_key"

	defaultBackendTimeout = "10s"
	defaultProbeAddress   = "8.8.8.8:53"
	defaultProbeTimeout   = "1500ms"
	defaultCacheDirName   = "filippoints"
)

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
	env  *viper.Viper
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) && !filepath.IsLocal(realPath) {
			return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
		}

		cfg.path = realPath
		return nil
	}
}

// WithEnv overrides the viper instance used for environment overrides
func WithEnv(v *viper.Viper) Option {
	return func(cfg *loaderConfig) error {
		if v == nil {
			return fmt.Errorf("viper instance is required")
		}
		cfg.env = v
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	Backend      BackendConfig      `yaml:"backend"`
	Cache        CacheConfig        `yaml:"cache"`
	Connectivity ConnectivityConfig `yaml:"connectivity"`
	Metrics      MetricsConfig      `yaml:"metrics"`
	Log          LogConfig          `yaml:"log"`

	// WebAppURL is opened by the web-app link
	WebAppURL string `yaml:"webAppURL,omitempty"`
}

// BackendConfig defines how the people list is fetched
type BackendConfig struct {
	// Endpoint is the base URL of the backend (scheme, host and optional base path)
	Endpoint string `yaml:"endpoint,omitempty"`

	// PeoplePath is appended to Endpoint
	PeoplePath string `yaml:"peoplePath,omitempty"`

	// PageSize is the number of people requested per fetch
	PageSize int `yaml:"pageSize,omitempty"`

	// Timeout bounds a single request (e.g., "10s")
	Timeout string `yaml:"timeout,omitempty"`
}

// CacheConfig defines where the person cache lives
type CacheConfig struct {
	// Dir holds the preferences and status files
	Dir string `yaml:"dir,omitempty"`

	// PrefsName is the preferences store name; the file is <Dir>/<PrefsName>.json
	PrefsName string `yaml:"prefsName,omitempty"`

	// Key is the preferences key holding the serialized list
	Key string `yaml:"key,omitempty"`
}

// ConnectivityConfig defines the reachability probe
type ConnectivityConfig struct {
	// Address is a host:port dialed over TCP
	Address string `yaml:"address,omitempty"`

	// Timeout bounds a probe (e.g., "1500ms")
	Timeout string `yaml:"timeout,omitempty"`
}

// MetricsConfig defines metrics export
type MetricsConfig struct {
	// Textfile, when set, receives Prometheus metrics in textfile format on exit
	Textfile string `yaml:"textfile,omitempty"`
}

// LogConfig defines logging
type LogConfig struct {
	Level string `yaml:"level,omitempty"`
	File  string `yaml:"file,omitempty"`
}

// LoadConfig builds the configuration from defaults, an optional YAML file and
// FILIPPOINTS_* environment overrides, in that order.
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	var config Config
	if loaderCfg.path != "" {
		data, err := os.ReadFile(loaderCfg.path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}

	env := loaderCfg.env
	if env == nil {
		env = NewEnv()
	}
	config.applyEnv(env)
	config.applyDefaults()

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// NewEnv returns a viper instance reading FILIPPOINTS_* variables, with
// nested keys separated by underscores (backend.endpoint -> FILIPPOINTS_BACKEND_ENDPOINT).
func NewEnv() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func (c *Config) applyEnv(v *viper.Viper) {
	overrides := map[string]*string{
		"backend.endpoint":     &c.Backend.Endpoint,
		"backend.peoplepath":   &c.Backend.PeoplePath,
		"backend.timeout":      &c.Backend.Timeout,
		"cache.dir":            &c.Cache.Dir,
		"cache.prefsname":      &c.Cache.PrefsName,
		"cache.key":            &c.Cache.Key,
		"connectivity.address": &c.Connectivity.Address,
		"connectivity.timeout": &c.Connectivity.Timeout,
		"metrics.textfile":     &c.Metrics.Textfile,
		"log.level":            &c.Log.Level,
		"log.file":             &c.Log.File,
		"webappurl":            &c.WebAppURL,
	}
	for key, target := range overrides {
		if value := v.GetString(key); value != "" {
			*target = value
		}
	}
	if v.IsSet("backend.pagesize") {
		c.Backend.PageSize = v.GetInt("backend.pagesize")
	}
}

func (c *Config) applyDefaults() {
	if c.Backend.Endpoint == "" {
		c.Backend.Endpoint = DefaultEndpoint
	}
	if c.Backend.PeoplePath == "" {
		c.Backend.PeoplePath = DefaultPeoplePath
	}
	if c.Backend.PageSize == 0 {
		c.Backend.PageSize = DefaultPageSize
	}
	if c.Backend.Timeout == "" {
		c.Backend.Timeout = defaultBackendTimeout
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = defaultCacheDir()
	}
	if c.Cache.PrefsName == "" {
		c.Cache.PrefsName = DefaultPrefsName
	}
	if c.Cache.Key == "" {
		c.Cache.Key = DefaultCacheKey
	}
	if c.Connectivity.Address == "" {
		c.Connectivity.Address = defaultProbeAddress
	}
	if c.Connectivity.Timeout == "" {
		c.Connectivity.Timeout = defaultProbeTimeout
	}
	if c.WebAppURL == "" {
		c.WebAppURL = DefaultWebAppURL
	}
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, defaultCacheDirName)
	}
	return "." + defaultCacheDirName
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if err := validateURL(c.Backend.Endpoint); err != nil {
		return fmt.Errorf("backend.endpoint: %w", err)
	}
	if c.Backend.PageSize < 0 {
		return fmt.Errorf("backend.pageSize must be positive, got %d", c.Backend.PageSize)
	}
	if _, err := time.ParseDuration(c.Backend.Timeout); err != nil {
		return fmt.Errorf("backend.timeout must be a valid duration (e.g., '10s'): %w", err)
	}
	if _, err := time.ParseDuration(c.Connectivity.Timeout); err != nil {
		return fmt.Errorf("connectivity.timeout must be a valid duration (e.g., '1500ms'): %w", err)
	}
	if filepath.Base(c.Cache.PrefsName) != c.Cache.PrefsName {
		return fmt.Errorf("cache.prefsName must be a plain file name, got %q", c.Cache.PrefsName)
	}
	if err := validateURL(c.WebAppURL); err != nil {
		return fmt.Errorf("webAppURL: %w", err)
	}

	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}

// BackendTimeout returns the parsed request timeout
func (c *Config) BackendTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Backend.Timeout)
	return d
}

// ProbeTimeout returns the parsed connectivity probe timeout
func (c *Config) ProbeTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Connectivity.Timeout)
	return d
}
