package client

import (
	"context"

	"github.com/dmitrijs2005/useradmin/internal/client/models"
)

// Client is the typed gateway to the remote users API.
//
// Each call makes exactly one attempt. Failures are reported as *RequestError
// (or *AuthError for a rejected login) carrying a human-readable message.
type Client interface {
	Login(ctx context.Context, creds models.Credentials) (string, error)
	ListUsers(ctx context.Context, page int) (*models.UserPage, error)
	// UpdateUser returns whatever the remote echoes back. The echo is not
	// guaranteed to reflect the submitted values and callers must not rely on it.
	UpdateUser(ctx context.Context, id int, fields models.UserFields) (map[string]any, error)
	DeleteUser(ctx context.Context, id int) (bool, error)
	SetToken(token string)
	Close() error
}
