// Package client contains client-side building blocks for the penguin
// tracker.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) to talk
//     to the penguin backend: Login/Register, Ping, and the penguin list and
//     mutation calls.
//  2. A concrete JSON-over-HTTP implementation (see HTTPClient) that paces
//     requests with a token bucket, stamps each request with an X-Request-ID,
//     sends the bearer token supplied by the caller and maps HTTP status
//     codes to sentinel errors.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations) for
//     the CLI, wiring an SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Failed exchanges are returned as *APIError carrying the backend's message.
// Each APIError wraps one sentinel that callers can match with errors.Is:
// ErrUnauthorized, ErrUnavailable, ErrNotFound, ErrConflict, ErrBackend.
//
// HTTPClient is safe for concurrent use. It never retries.
package client
