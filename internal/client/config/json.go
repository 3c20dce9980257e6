package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/beefboard/boardclient/internal/flagx"
	"github.com/beefboard/boardclient/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent or
// empty fields leave the current value alone.
type JsonConfig struct {
	APIBaseURL       string         `json:"api_base_url"`
	RequestTimeout   timex.Duration `json:"request_timeout"`
	StorageBackend   string         `json:"storage_backend"`
	DatabasePath     string         `json:"database_path"`
	RedisAddr        string         `json:"redis_addr"`
	CredentialSecret string         `json:"credential_secret"`
	LogLevel         string         `json:"log_level"`
	LogBackend       string         `json:"log_backend"`
	MetricsAddr      string         `json:"metrics_addr"`
	TraceStdout      *bool          `json:"trace_stdout"`
}

// parseJSON overlays cfg with the file named by -c / -config, if any.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigFilePath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.StorageBackend, jc.StorageBackend)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.RedisAddr, jc.RedisAddr)
	setString(&cfg.CredentialSecret, jc.CredentialSecret)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogBackend, jc.LogBackend)
	setString(&cfg.MetricsAddr, jc.MetricsAddr)
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.TraceStdout != nil {
		cfg.TraceStdout = *jc.TraceStdout
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
