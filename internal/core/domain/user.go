package domain

import (
	"strings"
	"time"
)

// User is an account holder of the health-risk client.
//
// PasswordHash and Salt never leave the user store boundary: they are excluded
// from JSON and only populated on records read for authentication.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	IsActive     bool      `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`
}

// Public returns a copy of u with credential material stripped.
func (u *User) Public() *User {
	if u == nil {
		return nil
	}
	p := *u
	p.PasswordHash = ""
	p.Salt = ""
	return &p
}

// NewUser carries the fields needed to create an account. Email must already
// be normalized by the caller.
type NewUser struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
}

// UserPatch is a sparse profile update. A nil field is left untouched; a
// non-nil field is written as-is, including the empty string.
type UserPatch struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
}

// IsEmpty reports whether the patch carries no field at all.
func (p UserPatch) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil && p.Phone == nil
}

// NormalizeEmail trims and lower-cases an address so that lookups and the
// uniqueness check are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
