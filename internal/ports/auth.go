// Package ports defines interfaces (hexagonal ports) for auth-related
// behavior. Implementations live in internal/adapters; orchestration in
// internal/service.
package ports

import (
	"context"
	"errors"

	domainauth "github.com/aimspurefied/healer-ui-api/internal/domain/auth"
)

// ErrInvalidCredentials is returned by Authenticator implementations when
// the supplied email/password pair does not match. It is user-visible,
// non-fatal, and must not leave any partial session state behind.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Authenticator validates staff credentials against an authority and
// returns the authenticated identity. The current default implementation
// is a fixed configured pair (a placeholder, not a real auth mechanism);
// the interface exists so a backend-verified flow can replace it without
// touching the guard's state machine.
type Authenticator interface {
	Authenticate(ctx context.Context, creds domainauth.Credentials) (domainauth.Identity, error)
}

// BeginInput carries inputs for initiating a redirect-based auth flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// AuthProvider initiates and completes a redirect-based authentication
// flow against an IdP (the OIDC auth mode).
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an
	// opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and
	// returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// SessionStore persists sessions as exactly two string keys per session:
// an authentication flag and a JSON-serialized user record. The session
// guard is the only component allowed to touch this storage; everything
// else reads derived authentication state through the guard.
type SessionStore interface {
	// Write persists both keys for the session. Either both keys land or
	// an error is returned with nothing usable left behind.
	Write(ctx context.Context, sess domainauth.Session) error

	// ReadFlag returns the stored flag value for the session ID, or the
	// empty string when the key is absent.
	ReadFlag(ctx context.Context, id string) (string, error)

	// ReadRecord returns the raw serialized user record, or nil when the
	// key is absent. Parsing is the guard's job: malformed bytes are data,
	// not an error, at this layer.
	ReadRecord(ctx context.Context, id string) ([]byte, error)

	// Clear removes both keys. Clearing an absent session is a no-op.
	Clear(ctx context.Context, id string) error
}

// RoleMapper maps an authenticated identity's groups to an application role.
type RoleMapper interface {
	Map(groups []string) domainauth.Role
}
