package ports

import (
	"context"

	"github.com/synapsecare/health-risk-api/internal/core/domain"
)

// SessionStore issues and resolves opaque session tokens.
type SessionStore interface {
	// Create persists s until s.ExpiresAt and returns the token presented
	// by the client from now on.
	Create(ctx context.Context, s domain.Session) (string, error)
	// Find resolves a token or returns domain.ErrSessionNotFound.
	Find(ctx context.Context, token string) (*domain.Session, error)
	// Delete removes the session. Unknown tokens are not an error.
	Delete(ctx context.Context, token string) error
}
