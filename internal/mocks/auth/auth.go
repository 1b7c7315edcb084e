// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	domainauth "github.com/aimspurefied/healer-ui-api/internal/domain/auth"
	"github.com/aimspurefied/healer-ui-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.Authenticator = (*MockAuthenticator)(nil)
	_ ports.AuthProvider  = (*MockAuthProvider)(nil)
	_ ports.SessionStore  = (*MemorySessionStore)(nil)
)

// MockAuthenticator accepts one fixed credential pair and returns a
// fixed identity, mirroring the placeholder credential check.
type MockAuthenticator struct {
	AuthenticateFunc func(ctx context.Context, creds domainauth.Credentials) (domainauth.Identity, error)

	Email    string
	Password string
	Identity domainauth.Identity

	Calls int
}

// NewMockAuthenticator creates a MockAuthenticator with the placeholder
// admin credentials preloaded.
func NewMockAuthenticator() *MockAuthenticator {
	return &MockAuthenticator{
		Email:    "admin@gmail.com",
		Password: "admin123",
		Identity: domainauth.Identity{
			UserID: "mock-admin-1",
			Name:   "Mock Admin",
			Email:  "admin@gmail.com",
			Groups: []string{"admins"},
		},
	}
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, creds domainauth.Credentials) (domainauth.Identity, error) {
	m.Calls++
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, creds)
	}
	if creds.Email != m.Email || creds.Password != m.Password {
		return domainauth.Identity{}, ports.ErrInvalidCredentials
	}
	return m.Identity, nil
}

// MockAuthProvider simulates an IdP for tests with deterministic state/nonce handling.
type MockAuthProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)

	AuthURL     string
	StatePrefix string
	NoncePrefix string
	DefaultUser domainauth.Identity

	callCount int
}

// NewMockAuthProvider creates a MockAuthProvider with sensible defaults.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		AuthURL:     "https://mock-idp/auth",
		StatePrefix: "state",
		NoncePrefix: "nonce",
		DefaultUser: domainauth.Identity{
			UserID: "mock-user-1",
			Name:   "Mock User",
			Email:  "mock.user@example.com",
			Groups: []string{"staff"},
		},
	}
}

func (m *MockAuthProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}

	m.callCount++
	state := fmt.Sprintf("%s-%d", m.StatePrefix, m.callCount)
	nonce := fmt.Sprintf("%s-%d", m.NoncePrefix, m.callCount)
	return m.AuthURL, state, nonce, nil
}

func (m *MockAuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}
	return m.DefaultUser, nil
}

// MemorySessionStore is an in-memory session store for unit tests. It
// keeps the flag and record keys in separate maps so tests can corrupt
// or drop either key independently.
type MemorySessionStore struct {
	Flags   map[string]string
	Records map[string][]byte

	WriteErr error
	ReadErr  error
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		Flags:   make(map[string]string),
		Records: make(map[string][]byte),
	}
}

func (m *MemorySessionStore) Write(_ context.Context, sess domainauth.Session) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	record, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	m.Flags[sess.ID] = domainauth.FlagSentinel
	m.Records[sess.ID] = record
	return nil
}

func (m *MemorySessionStore) ReadFlag(_ context.Context, id string) (string, error) {
	if m.ReadErr != nil {
		return "", m.ReadErr
	}
	return m.Flags[id], nil
}

func (m *MemorySessionStore) ReadRecord(_ context.Context, id string) ([]byte, error) {
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	return m.Records[id], nil
}

func (m *MemorySessionStore) Clear(_ context.Context, id string) error {
	delete(m.Flags, id)
	delete(m.Records, id)
	return nil
}

// Len reports how many sessions currently hold both keys.
func (m *MemorySessionStore) Len() int {
	n := 0
	for id := range m.Flags {
		if _, ok := m.Records[id]; ok {
			n++
		}
	}
	return n
}
