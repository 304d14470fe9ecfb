package ports

import "context"

// SessionStore maps opaque session ids to user ids with a fixed inactivity
// window. An expired or unknown session resolves to an empty user id, not an
// error.
type SessionStore interface {
	Create(ctx context.Context, userID string) (sessionID string, err error)
	Resolve(ctx context.Context, sessionID string) (userID string, err error)
	Destroy(ctx context.Context, sessionID string) error
}
