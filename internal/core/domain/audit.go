package domain

import "time"

// AuthEventKind names the account operation an audit event records.
type AuthEventKind string

const (
	EventRegister   AuthEventKind = "register"
	EventLogin      AuthEventKind = "login"
	EventLogout     AuthEventKind = "logout"
	EventDeactivate AuthEventKind = "deactivate"
)

// AuthEvent is one entry of the authentication audit trail.
type AuthEvent struct {
	ID        string        `json:"id" bson:"_id"`
	Kind      AuthEventKind `json:"kind" bson:"kind"`
	UserID    string        `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Email     string        `json:"email,omitempty" bson:"email,omitempty"`
	Success   bool          `json:"success" bson:"success"`
	Reason    string        `json:"reason,omitempty" bson:"reason,omitempty"`
	RequestID string        `json:"request_id,omitempty" bson:"request_id,omitempty"`
	At        time.Time     `json:"at" bson:"at"`
}
