package ports

import (
	"context"
	"time"

	"github.com/usermanagement/accounts/internal/core/domain"
)

// SessionStore keeps server-side login sessions. Get returns
// domain.ErrNoActiveSession for unknown or expired ids.
type SessionStore interface {
	Create(ctx context.Context, id string, caller domain.Caller, ttl time.Duration) error
	Get(ctx context.Context, id string) (*domain.Caller, error)
	Delete(ctx context.Context, id string) error
}
