package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// API failure kinds. Every error returned by Client matches exactly one of
// them with errors.Is, except ErrInvalidDate which always comes together
// with ErrInvalidResponse.
var (
	ErrUnknown            = errors.New("unknown error")
	ErrConnection         = errors.New("connection error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrNotFound           = errors.New("not found")
	ErrInvalidResponse    = errors.New("invalid response")
	ErrServer             = errors.New("server error")
	ErrServerUnavailable  = errors.New("server unavailable")
	ErrTimeout            = errors.New("request timed out")
	ErrUnsupportedURL     = errors.New("unsupported url")

	ErrInvalidDate = errors.New("invalid date")
)

var kinds = []error{
	ErrInvalidCredentials,
	ErrInvalidRequest,
	ErrNotFound,
	ErrInvalidResponse,
	ErrServer,
	ErrServerUnavailable,
	ErrTimeout,
	ErrUnsupportedURL,
	ErrConnection,
	ErrUnknown,
}

// Kind returns the sentinel err belongs to, ErrUnknown for foreign errors
// and nil for nil.
func Kind(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return ErrUnknown
}

func statusError(code int) error {
	switch code {
	case http.StatusBadRequest:
		return ErrInvalidRequest
	case http.StatusUnauthorized:
		return ErrInvalidCredentials
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return ErrUnknown
	}
}

func transportError(err error) error {
	var (
		netErr net.Error
		urlErr *url.Error
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		return ErrTimeout
	case errors.As(err, &urlErr) && strings.Contains(urlErr.Err.Error(), "unsupported protocol scheme"):
		return ErrUnsupportedURL
	default:
		return ErrConnection
	}
}

func invalidResponse(err error) error {
	if errors.Is(err, ErrInvalidResponse) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
}

var messages = map[error]string{
	ErrInvalidCredentials: "Invalid username or password",
	ErrInvalidRequest:     "The request was rejected, check the details and try again",
	ErrNotFound:           "Not found",
	ErrInvalidResponse:    "Server error",
	ErrServer:             "Server error",
	ErrServerUnavailable:  "Server unavailable, try again later",
	ErrTimeout:            "The server took too long to respond",
	ErrUnsupportedURL:     "The API address is not supported",
	ErrConnection:         "Connection error",
	ErrUnknown:            "Unknown error",
}

// Describe renders err as a short message for the user. The transport
// detail is never included.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	return messages[Kind(err)]
}
