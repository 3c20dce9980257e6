// Package config loads runtime configuration for the beefboard CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment: a .env file in the working directory is loaded first,
//     then BEEFBOARD_* variables are read.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   API base URL
//	-t int      request timeout (seconds)
//	-d string   SQLite database path
//	-r string   Redis address; also selects the redis storage backend
//
// Environment
//
//	BEEFBOARD_API_URL  BEEFBOARD_REQUEST_TIMEOUT  BEEFBOARD_STORAGE
//	BEEFBOARD_DB_PATH  BEEFBOARD_REDIS_ADDR       BEEFBOARD_SECRET
//	BEEFBOARD_LOG_LEVEL  BEEFBOARD_LOG_BACKEND    BEEFBOARD_METRICS_ADDR
//	BEEFBOARD_TRACE_STDOUT
//
// # JSON schema
//
// Durations use timex.Duration, so they may be strings like "3s" or integer
// nanoseconds:
//
//	{
//	  "api_base_url": "https://api.beefboard.mooo.com/v1",
//	  "request_timeout": "3s",
//	  "storage_backend": "sqlite",
//	  "database_path": "beefboard.db",
//	  "log_level": "debug"
//	}
package config
