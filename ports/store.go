package ports

import (
	"context"
	"time"

	"github.com/layer-3/rangda/core"
)

// SessionStore persists session descriptors between the
// authentication step and subsequent intent submissions. The
// descriptor is opaque to the store; it is written once at login and
// only ever read afterwards.
type SessionStore interface {
	Save(ctx context.Context, session *core.Session, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (*core.Session, error)
}
