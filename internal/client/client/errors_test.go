package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusError(t *testing.T) {
	tests := map[int]error{
		http.StatusBadRequest:          ErrInvalidRequest,
		http.StatusUnauthorized:        ErrInvalidCredentials,
		http.StatusNotFound:            ErrNotFound,
		http.StatusForbidden:           ErrUnknown,
		http.StatusInternalServerError: ErrUnknown,
		http.StatusServiceUnavailable:  ErrUnknown,
		http.StatusTeapot:              ErrUnknown,
	}
	for code, want := range tests {
		assert.ErrorIs(t, statusError(code), want, "status %d", code)
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestTransportError(t *testing.T) {
	assert.Equal(t, ErrTimeout, transportError(fmt.Errorf("wrapped: %w", context.DeadlineExceeded)))
	assert.Equal(t, ErrTimeout, transportError(&url.Error{Op: "Get", URL: "x", Err: timeoutErr{}}))
	assert.Equal(t, ErrUnsupportedURL, transportError(&url.Error{Op: "Get", URL: "ftp://x",
		Err: errors.New(`unsupported protocol scheme "ftp"`)}))
	assert.Equal(t, ErrConnection, transportError(&url.Error{Op: "Get", URL: "x", Err: errors.New("connection refused")}))
	assert.Equal(t, ErrConnection, transportError(context.Canceled))
}

func TestKind(t *testing.T) {
	assert.Nil(t, Kind(nil))
	assert.Equal(t, ErrUnknown, Kind(errors.New("foreign")))
	assert.Equal(t, ErrNotFound, Kind(fmt.Errorf("get_user: %w (status 404)", ErrNotFound)))

	dateErr := fmt.Errorf("%w: %w", ErrInvalidResponse, ErrInvalidDate)
	assert.Equal(t, ErrInvalidResponse, Kind(dateErr))
}

func TestDescribe(t *testing.T) {
	assert.Empty(t, Describe(nil))
	assert.Equal(t, "Invalid username or password", Describe(fmt.Errorf("login: %w", ErrInvalidCredentials)))
	assert.Equal(t, "Connection error", Describe(fmt.Errorf("%w: dial tcp: refused", ErrConnection)))
	assert.Equal(t, "Server error", Describe(invalidResponse(errors.New("eof"))))
	assert.Equal(t, "Unknown error", Describe(errors.New("something else")))

	for _, k := range kinds {
		assert.NotEmpty(t, Describe(k), k.Error())
		assert.NotContains(t, Describe(fmt.Errorf("%w: secret transport detail", k)), "secret")
	}
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", Outcome(nil))
	assert.Equal(t, "invalid_credentials", Outcome(ErrInvalidCredentials))
	assert.Equal(t, "request_timed_out", Outcome(ErrTimeout))
	assert.Equal(t, "unknown", Outcome(errors.New("x")))
}
