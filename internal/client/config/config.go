package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/beefboard/boardclient/internal/client/client"
	"github.com/beefboard/boardclient/internal/logging"
)

// Storage backends.
const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
)

// Config holds runtime settings for the beefboard CLI.
//
// RequestTimeout bounds every API call. CredentialSecret, when set, seals
// the stored identity and token. MetricsAddr and TraceStdout are off when
// empty/false.
type Config struct {
	APIBaseURL       string
	RequestTimeout   time.Duration
	StorageBackend   string
	DatabasePath     string
	RedisAddr        string
	CredentialSecret string
	LogLevel         string
	LogBackend       string
	MetricsAddr      string
	TraceStdout      bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = client.DefaultBaseURL
	c.RequestTimeout = client.DefaultTimeout
	c.StorageBackend = StorageSQLite
	c.DatabasePath = "beefboard.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.LogLevel = "info"
	c.LogBackend = logging.BackendSlog
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	if c.APIBaseURL == "" {
		errs = append(errs, errors.New("api base url is required"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout))
	}
	switch c.StorageBackend {
	case StorageSQLite:
		if c.DatabasePath == "" {
			errs = append(errs, errors.New("database path is required for sqlite storage"))
		}
	case StorageRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("redis address is required for redis storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage backend %q", c.StorageBackend))
	}
	switch c.LogBackend {
	case logging.BackendSlog, logging.BackendZap:
	default:
		errs = append(errs, fmt.Errorf("unknown log backend %q", c.LogBackend))
	}
	return errors.Join(errs...)
}

// LoadConfig builds a Config from defaults, then the JSON file named by
// -c/-config, then the environment, then flags. Later sources win.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, DotEnvFile); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
