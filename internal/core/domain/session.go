package domain

import "time"

// Session is the server-held record behind an opaque session token. It holds
// a denormalized copy of the authenticated identity and no credential material.
type Session struct {
	UserID    string    `json:"user_id"`
	UserEmail string    `json:"user_email"`
	Permanent bool      `json:"permanent"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at t.
func (s *Session) Expired(t time.Time) bool {
	return !s.ExpiresAt.IsZero() && !t.Before(s.ExpiresAt)
}
