package services

import (
	"errors"

	"github.com/dmitrijs2005/useradmin/internal/client/client"
)

// Notifier receives the short, user-facing outcome of an operation
// (the terminal equivalent of a toast).
type Notifier interface {
	Success(msg string)
	Error(msg string)
	Info(msg string)
}

// Messages shown on successful operations.
const (
	MsgLoginSucceeded = "Login successful!"
	MsgLoggedOut      = "Logged out successfully"
	MsgUserUpdated    = "User updated successfully"
	MsgUserDeleted    = "User deleted successfully"
)

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string)   {}
func (nopNotifier) Info(string)    {}

func orNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}

// failureMessage is the text shown for a failed call: the server's message
// carried by a *client.RequestError, else fallback.
func failureMessage(err error, fallback string) string {
	var reqErr *client.RequestError
	if errors.As(err, &reqErr) && reqErr.Message != "" {
		return reqErr.Message
	}
	return fallback
}
