package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		known []string
		want  []string
	}{
		{
			name:  "separate value",
			args:  []string{"-c", "conf.json", "-a", "http://localhost"},
			known: []string{"-c"},
			want:  []string{"-c", "conf.json"},
		},
		{
			name:  "equals form",
			args:  []string{"-config=alt.json", "-a", "x"},
			known: []string{"-config"},
			want:  []string{"-config=alt.json"},
		},
		{
			name:  "unknown flags and positionals dropped",
			args:  []string{"-x", "1", "-y=2", "positional"},
			known: []string{"-c"},
			want:  []string{},
		},
		{
			name:  "trailing flag without value",
			args:  []string{"-t"},
			known: []string{"-t"},
			want:  []string{"-t"},
		},
		{
			name:  "dash-prefixed next token is not a value",
			args:  []string{"-c", "-d", "db.sqlite"},
			known: []string{"-c"},
			want:  []string{"-c"},
		},
		{
			name:  "order and repeats preserved",
			args:  []string{"-a", "u1", "-d", "x.db", "-a", "u2"},
			known: []string{"-a", "-d"},
			want:  []string{"-a", "u1", "-d", "x.db", "-a", "u2"},
		},
		{
			name:  "empty",
			args:  nil,
			known: []string{"-a"},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.known))
		})
	}
}

func TestConfigFilePath(t *testing.T) {
	assert.Equal(t, "/etc/bb.json", ConfigFilePath([]string{"-c", "/etc/bb.json"}))
	assert.Equal(t, "/etc/bb.json", ConfigFilePath([]string{"-a", "http://x", "-config", "/etc/bb.json"}))
	assert.Equal(t, "2.json", ConfigFilePath([]string{"-c", "1.json", "-config=2.json"}))
	assert.Empty(t, ConfigFilePath([]string{"-a", "http://x"}))
}
