package metadata

import (
	"context"
)

// Repository is an opaque key/value store for small pieces of client state
// (currently only the session token).
//
// Get returns ("", nil) when the key is absent.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
