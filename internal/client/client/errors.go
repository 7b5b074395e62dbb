package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrTimeout      = errors.New("request timed out")
)

// Fallback messages used when the server does not provide error text.
const (
	MsgLoginFailed  = "Login failed"
	MsgFetchFailed  = "Failed to fetch users"
	MsgUpdateFailed = "Failed to update user"
	MsgDeleteFailed = "Failed to delete user"
)

// RequestError is returned when a call fails in transport or with a
// non-success status. Message is safe to show to the user.
type RequestError struct {
	Op         string
	StatusCode int // 0 for transport failures
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Detail renders the error with operation and status for logs.
func (e *RequestError) Detail() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
}

// AuthError marks a login the server rejected. It is shown to the user the
// same way as a RequestError but also keeps the session unauthenticated.
type AuthError struct {
	Err *RequestError
}

func (e *AuthError) Error() string {
	return e.Err.Error()
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func (e *AuthError) Is(target error) bool {
	return target == ErrUnauthorized
}
