package ports

import (
	"context"

	"github.com/synapsecare/health-risk-api/internal/core/domain"
)

// UserRepository is the durable user store.
//
// Each call is its own unit of work. Email arguments are matched exactly, so
// callers pass addresses through domain.NormalizeEmail first.
type UserRepository interface {
	// CreateUser stores a new active user and returns its id. It fails with
	// domain.ErrDuplicateEmail when the email is taken, including when a
	// concurrent insert wins the race.
	CreateUser(ctx context.Context, u domain.NewUser) (string, error)
	// Authenticate returns the public projection of the user owning email
	// when password verifies. Unknown email and wrong password both yield
	// domain.ErrInvalidCredentials; inactive accounts yield domain.ErrDeactivated.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	// GetByID returns an active user or domain.ErrUserNotFound.
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// UpdateUser applies patch and stamps updated_at. It does not re-check
	// email format or uniqueness beyond the store's own unique index.
	UpdateUser(ctx context.Context, id string, patch domain.UserPatch) error
	// Deactivate marks the user inactive without removing the record.
	Deactivate(ctx context.Context, id string) error
}

// PasswordHasher derives and verifies salted password digests.
type PasswordHasher interface {
	Hash(password string) (digest, salt string)
	Verify(password, digest, salt string) bool
}
