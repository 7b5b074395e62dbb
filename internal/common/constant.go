// Package common contains shared constants and small helpers used across
// useradmin components.
package common

const (
	// TokenStorageKey is the key under which the session token is persisted.
	TokenStorageKey = "token"

	// RequestIDHeaderName carries a per-call correlation id on outbound requests.
	RequestIDHeaderName = "X-Request-ID"

	// APIKeyHeaderName carries the optional API key expected by the remote API.
	APIKeyHeaderName = "x-api-key"
)
