// Package auth contains domain-level types for staff authentication and
// sessions. It is pure and free of framework/adapter concerns.
package auth

import "time"

// Role represents a staff member's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
	RoleGuest Role = "guest"
)

// State is the session guard's gating state. StateUnknown is transient:
// it must resolve to one of the other two before any gated render decision.
type State string

const (
	StateUnknown         State = "unknown"
	StateAuthenticated   State = "authenticated"
	StateUnauthenticated State = "unauthenticated"
)

// FlagSentinel is the exact value the persisted authentication flag must
// hold for a stored session to be restorable. Anything else, including an
// absent key, means no session.
const FlagSentinel = "true"

// Credentials carries a staff login attempt.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Identity represents the authenticated principal returned by an
// authenticator. Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID string
	Name   string
	Email  string
	Groups []string
}

// Session is the record persisted for an authenticated staff member.
// ID is an opaque session identifier (e.g., random URL-safe string).
// Authenticated is stored inside the record on purpose: restoring a session
// requires both the flag key and this field to agree.
type Session struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          Role      `json:"role"`
	Authenticated bool      `json:"is_authenticated"`
	LoginAt       time.Time `json:"login_at"`
}

// IsGuest returns true if the session role is guest.
func (s Session) IsGuest() bool { return s.Role == RoleGuest }

// Valid reports whether the record itself claims a live authentication.
func (s Session) Valid() bool { return s.Authenticated && s.UserID != "" }
