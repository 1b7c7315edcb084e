package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/aimspurefied/healer-ui-api/internal/domain/auth"
	"github.com/aimspurefied/healer-ui-api/internal/ports"
)

// ErrNoSession means no valid session could be restored. Malformed or
// partially-missing persisted data maps here too: restore never fails
// loudly, it only logs and reports "no session".
var ErrNoSession = errors.New("no session")

// SessionGuardOptions groups dependencies for SessionGuard.
type SessionGuardOptions struct {
	Authenticator ports.Authenticator
	Sessions      ports.SessionStore
	Roles         ports.RoleMapper
	Logger        *slog.Logger
}

// SessionGuard owns authentication state: it mediates login/logout,
// persists sessions, and answers the gating predicate every protected
// boundary consults. It is the only component that touches session
// storage.
//
// State machine per client: UNKNOWN resolves via Restore into
// AUTHENTICATED or UNAUTHENTICATED; Login moves UNAUTHENTICATED to
// AUTHENTICATED; Logout moves AUTHENTICATED to UNAUTHENTICATED.
type SessionGuard struct {
	authenticator ports.Authenticator
	sessions      ports.SessionStore
	roles         ports.RoleMapper
	logger        *slog.Logger
}

// NewSessionGuard constructs a SessionGuard.
func NewSessionGuard(opts SessionGuardOptions) (*SessionGuard, error) {
	if opts.Sessions == nil {
		return nil, errors.New("session guard: Sessions is required")
	}
	if opts.Roles == nil {
		return nil, errors.New("session guard: Roles is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionGuard{
		authenticator: opts.Authenticator,
		sessions:      opts.Sessions,
		roles:         opts.Roles,
		logger:        logger,
	}, nil
}

// Login validates credentials against the configured authority. On match
// it constructs a session with a fresh timestamp, persists both storage
// keys, and returns the session. On mismatch it returns
// ports.ErrInvalidCredentials with no partial state written.
func (g *SessionGuard) Login(ctx context.Context, creds domainauth.Credentials) (domainauth.Session, error) {
	if g.authenticator == nil {
		return domainauth.Session{}, errors.New("session guard: credential login is not configured")
	}

	identity, err := g.authenticator.Authenticate(ctx, creds)
	if err != nil {
		if errors.Is(err, ports.ErrInvalidCredentials) {
			return domainauth.Session{}, err
		}
		return domainauth.Session{}, fmt.Errorf("authenticate: %w", err)
	}

	return g.establish(ctx, identity)
}

// EstablishFromIdentity persists a session for an identity produced by a
// redirect-based provider (the OIDC callback path). The state machine is
// identical to credential login.
func (g *SessionGuard) EstablishFromIdentity(ctx context.Context, identity domainauth.Identity) (domainauth.Session, error) {
	return g.establish(ctx, identity)
}

func (g *SessionGuard) establish(ctx context.Context, identity domainauth.Identity) (domainauth.Session, error) {
	sess := domainauth.Session{
		ID:            uuid.NewString(),
		UserID:        identity.UserID,
		Name:          identity.Name,
		Email:         identity.Email,
		Role:          g.roles.Map(identity.Groups),
		Authenticated: true,
		LoginAt:       time.Now().UTC(),
	}

	if err := g.sessions.Write(ctx, sess); err != nil {
		return domainauth.Session{}, fmt.Errorf("persist session: %w", err)
	}
	return sess, nil
}

// Restore reads the two persisted keys for a session ID and
// reconstructs the session. It returns the session only when the flag
// holds the exact truthy sentinel AND the user record parses AND the
// parsed record itself claims authentication. Every other outcome
// (absent keys, storage errors, malformed JSON, a record with
// is_authenticated=false) is logged and reported as ErrNoSession.
func (g *SessionGuard) Restore(ctx context.Context, sessionID string) (domainauth.Session, error) {
	if sessionID == "" {
		return domainauth.Session{}, ErrNoSession
	}

	flag, err := g.sessions.ReadFlag(ctx, sessionID)
	if err != nil {
		g.logger.WarnContext(ctx, "session flag read failed", "error", err)
		return domainauth.Session{}, ErrNoSession
	}
	if flag != domainauth.FlagSentinel {
		return domainauth.Session{}, ErrNoSession
	}

	record, err := g.sessions.ReadRecord(ctx, sessionID)
	if err != nil {
		g.logger.WarnContext(ctx, "session record read failed", "error", err)
		return domainauth.Session{}, ErrNoSession
	}
	if len(record) == 0 {
		return domainauth.Session{}, ErrNoSession
	}

	var sess domainauth.Session
	if err := json.Unmarshal(record, &sess); err != nil {
		g.logger.WarnContext(ctx, "session record unparsable", "error", err)
		return domainauth.Session{}, ErrNoSession
	}
	if !sess.Valid() {
		return domainauth.Session{}, ErrNoSession
	}

	return sess, nil
}

// Logout clears both persisted keys. It is idempotent: logging out an
// absent session is a no-op.
func (g *SessionGuard) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := g.sessions.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// IsAuthenticated is the pure gating predicate over restorable state.
func (g *SessionGuard) IsAuthenticated(ctx context.Context, sessionID string) bool {
	_, err := g.Restore(ctx, sessionID)
	return err == nil
}

// StateFor resolves the transient UNKNOWN state for a client: callers
// must not make a gated render decision before this returns.
func (g *SessionGuard) StateFor(ctx context.Context, sessionID string) domainauth.State {
	if g.IsAuthenticated(ctx, sessionID) {
		return domainauth.StateAuthenticated
	}
	return domainauth.StateUnauthenticated
}
