// Package metadata keeps small key/value facts of the CLI in the local
// SQLite database, most importantly the persisted session.
package metadata

import (
	"context"
)

// Keys of the persisted session.
const (
	KeyUserID       = "session.user_id"
	KeyEmail        = "session.email"
	KeyRefreshToken = "session.refresh_token"
)

type Repository interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
	Clear(ctx context.Context) error

	SaveSession(ctx context.Context, s StoredSession) error
	LoadSession(ctx context.Context) (StoredSession, bool, error)
	ClearSession(ctx context.Context) error
}

// StoredSession is what survives a restart of the CLI: enough to mint a new
// access token without asking for the password again.
type StoredSession struct {
	UserID       string
	Email        string
	RefreshToken string
}
