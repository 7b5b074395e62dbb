// Package client contains client-side building blocks for useradmin.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) for the
//     four remote operations: Login, ListUsers, UpdateUser, DeleteUser.
//  2. A concrete REST/JSON implementation (see HTTPClient) that attaches the
//     session token, an X-Request-ID and an optional API key to every call,
//     throttles outgoing calls and maps failures to typed errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database with embedded goose migrations.
//
// # Error Handling
//
// Failures are *RequestError values whose Message is fit for display: the
// server's error text when it sent one, otherwise a fixed per-operation
// fallback such as "Failed to fetch users". A rejected login is an *AuthError.
// Underlying conditions can be matched with errors.Is: ErrUnavailable,
// ErrTimeout, ErrUnauthorized.
//
// There are no retries: every call is a single attempt.
package client
