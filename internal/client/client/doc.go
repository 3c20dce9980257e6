// Package client talks to the beefboard REST API.
//
// # Overview
//
// The package provides:
//  1. The API contract (Client) covering sessions, accounts, posts and
//     images, with a TokenStore seam for the session token.
//  2. HTTPClient, the net/http implementation. It attaches the
//     x-access-token header when a token is stored, bounds every request
//     with a timeout, reports Prometheus metrics and OpenTelemetry spans,
//     and maps failures to sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, OpenSQLite, OpenRedis)
//     for the stores the coordinators read before the network answers.
//
// # Error Handling
//
// Failures are matched with errors.Is against ErrUnknown, ErrConnection,
// ErrInvalidCredentials, ErrInvalidRequest, ErrNotFound, ErrInvalidResponse,
// ErrServer, ErrServerUnavailable, ErrTimeout and ErrUnsupportedURL.
// Malformed timestamps additionally match ErrInvalidDate. Describe turns
// any of them into a message fit for the user.
//
// The client never retries.
package client
