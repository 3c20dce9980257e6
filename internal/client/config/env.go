package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DotEnvFile is loaded into the process environment before reading
// BEEFBOARD_* variables. Variables already set are not overridden.
const DotEnvFile = ".env"

const envPrefix = "BEEFBOARD"

// parseEnv overlays cfg with BEEFBOARD_* variables. A missing env file is
// not an error.
func parseEnv(cfg *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	setString(&cfg.APIBaseURL, v.GetString("api_url"))
	setString(&cfg.StorageBackend, v.GetString("storage"))
	setString(&cfg.DatabasePath, v.GetString("db_path"))
	setString(&cfg.RedisAddr, v.GetString("redis_addr"))
	setString(&cfg.CredentialSecret, v.GetString("secret"))
	setString(&cfg.LogLevel, v.GetString("log_level"))
	setString(&cfg.LogBackend, v.GetString("log_backend"))
	setString(&cfg.MetricsAddr, v.GetString("metrics_addr"))

	if raw := v.GetString("request_timeout"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid %s_REQUEST_TIMEOUT: %w", envPrefix, err)
		}
		cfg.RequestTimeout = d
	}
	if v.IsSet("trace_stdout") {
		cfg.TraceStdout = v.GetBool("trace_stdout")
	}
	return nil
}
