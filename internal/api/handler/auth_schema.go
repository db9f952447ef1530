package handler

import (
	"time"

	"github.com/synapsecare/health-risk-api/internal/core/domain"
)

// registerRequest is the sign-up form as sent by the web client.
type registerRequest struct {
	FirstName       string `json:"firstName"       validate:"max=100"`
	LastName        string `json:"lastName"        validate:"max=100"`
	Email           string `json:"email"           validate:"max=254"`
	Phone           string `json:"phone"           validate:"max=32"`
	Password        string `json:"password"        validate:"max=128"`
	ConfirmPassword string `json:"confirmPassword" validate:"max=128"`
	AgreeToTerms    bool   `json:"agreeToTerms"`
}

type loginRequest struct {
	Email      string `json:"email"    validate:"max=254"`
	Password   string `json:"password" validate:"max=128"`
	RememberMe bool   `json:"rememberMe"`
}

// updateProfileRequest uses pointers so an omitted field is distinguishable
// from one sent empty.
type updateProfileRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name"  validate:"omitempty,max=100"`
	Email     *string `json:"email"      validate:"omitempty,max=254"`
	Phone     *string `json:"phone"      validate:"omitempty,max=32"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type registerResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

type loginResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	User    *userResponse `json:"user"`
}

type profileResponse struct {
	Success bool          `json:"success"`
	User    *userResponse `json:"user"`
}

type checkAuthResponse struct {
	Success       bool          `json:"success"`
	Authenticated bool          `json:"authenticated"`
	User          *userResponse `json:"user,omitempty"`
}

// userResponse is the public projection of a user. created_at is only
// filled on profile reads.
type userResponse struct {
	ID        string     `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

func toUserResponse(u *domain.User, withCreated bool) *userResponse {
	if u == nil {
		return nil
	}
	resp := &userResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
	}
	if withCreated && !u.CreatedAt.IsZero() {
		created := u.CreatedAt.UTC()
		resp.CreatedAt = &created
	}
	return resp
}
