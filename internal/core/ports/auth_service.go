package ports

import (
	"context"
	"time"

	"github.com/synapsecare/health-risk-api/internal/core/domain"
)

// RegisterInput is the raw registration form.
type RegisterInput struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
	AgreeToTerms    bool
}

// LoginInput is the raw login form.
type LoginInput struct {
	Email      string
	Password   string
	RememberMe bool

	// CurrentToken is the session the client already holds, if any.
	CurrentToken string
}

// LoginResult carries the issued session token and the authenticated user.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Permanent bool
	User      *domain.User
}

// ProfileInput is a sparse profile edit. Empty strings are treated as absent.
type ProfileInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
}

// AuthService drives the per-client Anonymous/Authenticated session state.
// Token arguments are the opaque session tokens issued by Login; an empty
// token means Anonymous.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (string, error)
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	Logout(ctx context.Context, token string)
	GetProfile(ctx context.Context, token string) (*domain.User, error)
	UpdateProfile(ctx context.Context, token string, in ProfileInput) error
	CheckAuth(ctx context.Context, token string) (*domain.User, bool)
	Deactivate(ctx context.Context, token string) error
}
