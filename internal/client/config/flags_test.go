package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	base := func() *Config {
		c := &Config{}
		c.LoadDefaults()
		return c
	}

	tests := []struct {
		name     string
		args     []string
		expected func() *Config
		wantErr  bool
	}{
		{
			name: "url and timeout",
			args: []string{"-a", "http://127.0.0.1:9090/v1", "-t", "10"},
			expected: func() *Config {
				c := base()
				c.APIBaseURL = "http://127.0.0.1:9090/v1"
				c.RequestTimeout = 10 * time.Second
				return c
			},
		},
		{
			name: "redis switches backend",
			args: []string{"-r", "cache:6379", "-v"},
			expected: func() *Config {
				c := base()
				c.RedisAddr = "cache:6379"
				c.StorageBackend = StorageRedis
				return c
			},
		},
		{
			name: "database path with equals form",
			args: []string{"-d=/tmp/board.db", "-c", "ignored.json"},
			expected: func() *Config {
				c := base()
				c.DatabasePath = "/tmp/board.db"
				return c
			},
		},
		{name: "incorrect timeout", args: []string{"-t", "abc"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			err := parseFlags(cfg, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected(), cfg))
		})
	}
}
