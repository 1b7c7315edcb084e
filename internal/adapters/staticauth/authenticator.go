// Package staticauth provides a fixed-credential Authenticator. It is the
// placeholder authority the dashboard ships with: one configured
// email/password pair mapping to the admin role. It implements
// ports.Authenticator so a backend-verified flow can replace it without
// touching the session guard.
package staticauth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	domainauth "github.com/aimspurefied/healer-ui-api/internal/domain/auth"
	"github.com/aimspurefied/healer-ui-api/internal/ports"
)

// Config controls the static authenticator.
type Config struct {
	Email    string
	Password string
	Name     string // display name for the resulting identity
	Group    string // group attached to the identity, default "admins"
}

// Authenticator implements ports.Authenticator against a single
// configured credential pair.
type Authenticator struct {
	email    string
	password string
	name     string
	group    string
}

// New constructs a static authenticator from Config.
func New(cfg Config) (*Authenticator, error) {
	if cfg.Email == "" {
		return nil, errors.New("static auth: Email is required")
	}
	if cfg.Password == "" {
		return nil, errors.New("static auth: Password is required")
	}
	group := cfg.Group
	if group == "" {
		group = "admins"
	}
	name := cfg.Name
	if name == "" {
		name = "Administrator"
	}
	return &Authenticator{
		email:    strings.ToLower(cfg.Email),
		password: cfg.Password,
		name:     name,
		group:    group,
	}, nil
}

// Authenticate compares the supplied pair against the configured one.
// Email comparison is case-insensitive; password comparison is constant
// time. On mismatch it returns ports.ErrInvalidCredentials and nothing
// else happens.
func (a *Authenticator) Authenticate(_ context.Context, creds domainauth.Credentials) (domainauth.Identity, error) {
	emailOK := strings.EqualFold(strings.TrimSpace(creds.Email), a.email)
	passOK := subtle.ConstantTimeCompare([]byte(creds.Password), []byte(a.password)) == 1
	if !emailOK || !passOK {
		return domainauth.Identity{}, ports.ErrInvalidCredentials
	}

	return domainauth.Identity{
		UserID: a.email,
		Name:   a.name,
		Email:  a.email,
		Groups: []string{a.group},
	}, nil
}
