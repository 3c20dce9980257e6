package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2019-01-01T10:00:00.123+00:00", time.Date(2019, 1, 1, 10, 0, 0, 123e6, time.UTC), true},
		{"2019-01-01T10:00:00+00:00", time.Date(2019, 1, 1, 10, 0, 0, 0, time.UTC), true},
		{"2019-01-01T10:00:00.123Z", time.Date(2019, 1, 1, 10, 0, 0, 123e6, time.UTC), true},
		{"2019-01-01T10:00:00Z", time.Date(2019, 1, 1, 10, 0, 0, 0, time.UTC), true},
		{"2019-01-01T12:00:00+02:00", time.Date(2019, 1, 1, 10, 0, 0, 0, time.UTC), true},
		{"2019-01-01T10:00:00.1+00:00", time.Time{}, false},
		{"2019-01-01T10:00:00.123456+00:00", time.Time{}, false},
		{"2019-01-01 10:00:00", time.Time{}, false},
		{"2019-01-01", time.Time{}, false},
		{"", time.Time{}, false},
		{"yesterday", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDate(tt.in)
			if !tt.ok {
				require.ErrorIs(t, err, ErrInvalidResponse)
				require.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestFormatDate_RoundTrip(t *testing.T) {
	ts := time.Date(2020, 5, 17, 8, 30, 1, 250e6, time.UTC)
	got, err := parseDate(formatDate(ts))
	require.NoError(t, err)
	assert.True(t, ts.Equal(got))
}
