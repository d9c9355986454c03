package session

import (
	"context"
	"time"
)

// Record is the server-side state behind one session cookie: the
// session's key-value mapping plus its absolute expiry. The cookie
// itself carries only the opaque record ID.
type Record struct {
	ID        string            `json:"id"`
	Values    map[string]string `json:"values"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// Store defines how session records are stored and retrieved.
// Implementations (e.g., Redis) must remain stateless and opaque.
type Store interface {
	Create(ctx context.Context, rec Record) error
	Get(ctx context.Context, id string) (*Record, error)
	Update(ctx context.Context, rec Record) error
	Delete(ctx context.Context, id string) error
}
