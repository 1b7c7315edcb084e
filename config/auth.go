package config

import (
	"fmt"
	"strings"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeCredentials validates a configured email/password pair.
	AuthModeCredentials AuthMode = "credentials"
	// AuthModeOIDC uses OAuth/OIDC for authentication.
	AuthModeOIDC AuthMode = "oidc"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "credentials", "oidc":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: credentials, oidc)", v)
	}
}

// CredentialsConfig controls the fixed credential pair accepted when
// Mode=credentials. This is a development placeholder, not a real
// authentication mechanism; production deployments use Mode=oidc.
type CredentialsConfig struct {
	Email    string `env:"EMAIL"    envDefault:"admin@gmail.com"`
	Password string `env:"PASSWORD" envDefault:"admin123"`
	Name     string `env:"NAME"     envDefault:"Administrator"`
	Group    string `env:"GROUP"    envDefault:"admins"`
}

// OIDCConfig contains OAuth/OIDC configuration.
type OIDCConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"healer-dashboard"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:""`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"credentials"`

	// Credentials configuration (used when Mode=credentials).
	Credentials CredentialsConfig `envPrefix:"AUTH_"`

	// OIDC configuration (used when Mode=oidc).
	OIDC OIDCConfig `envPrefix:"OIDC_"`

	// AdminGroup is the identity group granted the admin role.
	AdminGroup string `env:"ADMIN_GROUP" envDefault:"admins"`

	// StaffGroup is the identity group granted the staff role.
	StaffGroup string `env:"STAFF_GROUP" envDefault:"staff"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	a.AdminGroup = strings.TrimSpace(a.AdminGroup)
	a.StaffGroup = strings.TrimSpace(a.StaffGroup)
	a.Credentials.Email = strings.TrimSpace(a.Credentials.Email)
}
