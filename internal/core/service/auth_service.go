package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/synapsecare/health-risk-api/internal/core/domain"
	"github.com/synapsecare/health-risk-api/internal/core/ports"
	"github.com/synapsecare/health-risk-api/internal/core/validation"
)

// User-facing validation messages.
const (
	MsgRequiredFields    = "All required fields must be filled"
	MsgInvalidEmail      = "Invalid email format"
	MsgPasswordsMismatch = "Passwords do not match"
	MsgTermsRequired     = "You must agree to the terms and conditions"
	MsgLoginRequired     = "Email and password are required"
)

const (
	defaultSessionTTL  = 24 * time.Hour
	defaultRememberTTL = 31 * 24 * time.Hour
)

// SessionPolicy sets session lifetimes. TTL applies to ordinary logins and
// RememberTTL to remember-me logins.
type SessionPolicy struct {
	TTL         time.Duration
	RememberTTL time.Duration
}

// AuthService implements registration, login and the session-bound profile
// operations on top of a user store and a session token store.
type AuthService struct {
	users    ports.UserRepository
	sessions ports.SessionStore
	validate *validation.Validator
	audit    ports.AuditRecorder
	policy   SessionPolicy
	now      func() time.Time
	log      zerolog.Logger
}

// NewAuthService wires an AuthService. A nil audit recorder disables auditing;
// zero policy durations fall back to 24h and 31 days.
func NewAuthService(
	users ports.UserRepository,
	sessions ports.SessionStore,
	audit ports.AuditRecorder,
	policy SessionPolicy,
	log zerolog.Logger,
) *AuthService {
	if policy.TTL <= 0 {
		policy.TTL = defaultSessionTTL
	}
	if policy.RememberTTL <= 0 {
		policy.RememberTTL = defaultRememberTTL
	}
	if audit == nil {
		audit = nopRecorder{}
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		validate: validation.New(),
		audit:    audit,
		policy:   policy,
		now:      time.Now,
		log:      log,
	}
}

// registration holds the fields that must be non-empty after trimming.
type registration struct {
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Email     string `validate:"required"`
	Password  string `validate:"required"`
}

// Register validates the form and creates the account. It never starts a
// session. Checks short-circuit in order: required fields, email shape,
// password confirmation, password policy, terms agreement.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (string, error) {
	form := registration{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     domain.NormalizeEmail(in.Email),
		Password:  in.Password,
	}

	if err := s.checkRegistration(form, in); err != nil {
		s.record(ctx, domain.EventRegister, "", form.Email, err)
		return "", err
	}

	id, err := s.users.CreateUser(ctx, domain.NewUser{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Phone:     strings.TrimSpace(in.Phone),
		Password:  form.Password,
	})
	s.record(ctx, domain.EventRegister, id, form.Email, err)
	if err != nil {
		if !errors.Is(err, domain.ErrDuplicateEmail) {
			s.log.Error().Err(err).Msg("create user failed")
		}
		return "", err
	}

	s.log.Info().Str("user_id", id).Msg("user registered")
	return id, nil
}

func (s *AuthService) checkRegistration(form registration, in ports.RegisterInput) error {
	if err := s.validate.Struct(form); err != nil {
		return domain.NewValidationError(MsgRequiredFields)
	}
	if !s.validate.ValidateEmail(form.Email) {
		return domain.NewValidationError(MsgInvalidEmail)
	}
	if in.Password != in.ConfirmPassword {
		return domain.NewValidationError(MsgPasswordsMismatch)
	}
	if ok, reason := s.validate.ValidatePassword(in.Password); !ok {
		return domain.NewValidationError(reason)
	}
	if !in.AgreeToTerms {
		return domain.NewValidationError(MsgTermsRequired)
	}
	return nil
}

// Login authenticates the credentials and issues a new session. A session
// presented as in.CurrentToken is torn down once the new one exists.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	email := domain.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.NewValidationError(MsgLoginRequired)
	}
	if !s.validate.ValidateEmail(email) {
		return nil, domain.NewValidationError(MsgInvalidEmail)
	}

	user, err := s.users.Authenticate(ctx, email, in.Password)
	if err != nil {
		s.record(ctx, domain.EventLogin, "", email, err)
		return nil, err
	}

	ttl := s.policy.TTL
	if in.RememberMe {
		ttl = s.policy.RememberTTL
	}
	now := s.now().UTC()
	sess := domain.Session{
		UserID:    user.ID,
		UserEmail: user.Email,
		Permanent: in.RememberMe,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	token, err := s.sessions.Create(ctx, sess)
	if err != nil {
		err = fmt.Errorf("login: %w", err)
		s.record(ctx, domain.EventLogin, user.ID, email, err)
		return nil, err
	}

	if in.CurrentToken != "" {
		if err := s.sessions.Delete(ctx, in.CurrentToken); err != nil {
			s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to drop previous session")
		}
	}

	s.record(ctx, domain.EventLogin, user.ID, email, nil)
	s.log.Info().Str("user_id", user.ID).Bool("remember_me", in.RememberMe).Msg("user logged in")

	return &ports.LoginResult{
		Token:     token,
		ExpiresAt: sess.ExpiresAt,
		Permanent: sess.Permanent,
		User:      user,
	}, nil
}

// Logout tears down the session behind token. It always succeeds; an
// anonymous caller is a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}

	sess, err := s.sessions.Find(ctx, token)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		s.log.Warn().Err(err).Msg("logout: session lookup failed")
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		s.log.Warn().Err(err).Msg("logout: session delete failed")
	}
	if sess != nil {
		s.record(ctx, domain.EventLogout, sess.UserID, sess.UserEmail, nil)
	}
}

// GetProfile re-reads the session's user from the store on every call, so
// edits and deactivation show up immediately. The session itself is left
// alone when the user no longer resolves.
func (s *AuthService) GetProfile(ctx context.Context, token string) (*domain.User, error) {
	sess, err := s.resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, sess.UserID)
}

// UpdateProfile applies the non-empty fields of in to the session's user.
// Email is normalized and re-validated here; the store does not re-check it.
func (s *AuthService) UpdateProfile(ctx context.Context, token string, in ports.ProfileInput) error {
	sess, err := s.resolve(ctx, token)
	if err != nil {
		return err
	}

	var patch domain.UserPatch
	patch.FirstName = trimmed(in.FirstName)
	patch.LastName = trimmed(in.LastName)
	patch.Phone = trimmed(in.Phone)
	if in.Email != nil {
		if email := domain.NormalizeEmail(*in.Email); email != "" {
			if !s.validate.ValidateEmail(email) {
				return domain.NewValidationError(MsgInvalidEmail)
			}
			patch.Email = &email
		}
	}
	if patch.IsEmpty() {
		return domain.ErrNoValidFields
	}

	if err := s.users.UpdateUser(ctx, sess.UserID, patch); err != nil {
		return err
	}
	s.log.Info().Str("user_id", sess.UserID).Msg("profile updated")
	return nil
}

// CheckAuth reports whether token resolves to a live session of an active
// user. Being anonymous is not an error; lookup failures are logged and
// reported as unauthenticated.
func (s *AuthService) CheckAuth(ctx context.Context, token string) (*domain.User, bool) {
	sess, err := s.resolve(ctx, token)
	if err != nil {
		if !errors.Is(err, domain.ErrUnauthenticated) {
			s.log.Warn().Err(err).Msg("check-auth: session lookup failed")
		}
		return nil, false
	}

	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.log.Warn().Err(err).Str("user_id", sess.UserID).Msg("check-auth: user lookup failed")
		}
		return nil, false
	}
	return user, true
}

// Deactivate soft-deletes the session's user and ends the session.
func (s *AuthService) Deactivate(ctx context.Context, token string) error {
	sess, err := s.resolve(ctx, token)
	if err != nil {
		return err
	}

	err = s.users.Deactivate(ctx, sess.UserID)
	s.record(ctx, domain.EventDeactivate, sess.UserID, sess.UserEmail, err)
	if err != nil {
		return err
	}

	if err := s.sessions.Delete(ctx, token); err != nil {
		s.log.Warn().Err(err).Str("user_id", sess.UserID).Msg("deactivate: session delete failed")
	}
	s.log.Info().Str("user_id", sess.UserID).Msg("user deactivated")
	return nil
}

// resolve maps token to its session; missing or unknown tokens yield
// domain.ErrUnauthenticated.
func (s *AuthService) resolve(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}
	sess, err := s.sessions.Find(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}
	return sess, nil
}

func (s *AuthService) record(ctx context.Context, kind domain.AuthEventKind, userID, email string, err error) {
	ev := domain.AuthEvent{
		Kind:      kind,
		UserID:    userID,
		Email:     email,
		Success:   err == nil,
		RequestID: domain.RequestIDFrom(ctx),
	}
	if err != nil {
		ev.Reason = auditReason(err)
	}
	s.audit.Record(ev)
}

// auditReason keeps driver detail out of the audit trail.
func auditReason(err error) string {
	var ve *domain.ValidationError
	var se *domain.StorageError
	switch {
	case errors.As(err, &ve):
		return "validation: " + ve.Reason
	case errors.As(err, &se):
		return "storage"
	case errors.Is(err, domain.ErrDuplicateEmail),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrDeactivated),
		errors.Is(err, domain.ErrUserNotFound):
		return err.Error()
	default:
		return "internal"
	}
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

type nopRecorder struct{}

func (nopRecorder) Record(domain.AuthEvent) {}
