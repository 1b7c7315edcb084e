package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	domainauth "github.com/aimspurefied/healer-ui-api/internal/domain/auth"
	"github.com/aimspurefied/healer-ui-api/internal/ports"
	"github.com/aimspurefied/healer-ui-api/internal/service"
)

// stubGuard is an in-memory AuthServiceInterface for handler tests.
type stubGuard struct {
	sessions map[string]domainauth.Session

	email    string
	password string
	role     domainauth.Role
}

func newStubGuard() *stubGuard {
	return &stubGuard{
		sessions: map[string]domainauth.Session{},
		email:    "admin@gmail.com",
		password: "admin123",
		role:     domainauth.RoleAdmin,
	}
}

// seed registers a live session under the given ID and returns it.
func (g *stubGuard) seed(id string, role domainauth.Role) domainauth.Session {
	sess := domainauth.Session{
		ID:            id,
		UserID:        "u-" + id,
		Name:          "Seeded User",
		Email:         "seeded@example.com",
		Role:          role,
		Authenticated: true,
		LoginAt:       time.Now().UTC(),
	}
	g.sessions[id] = sess
	return sess
}

func (g *stubGuard) Restore(_ context.Context, sessionID string) (domainauth.Session, error) {
	if sess, ok := g.sessions[sessionID]; ok {
		return sess, nil
	}
	return domainauth.Session{}, service.ErrNoSession
}

func (g *stubGuard) Login(_ context.Context, creds domainauth.Credentials) (domainauth.Session, error) {
	if creds.Email != g.email || creds.Password != g.password {
		return domainauth.Session{}, ports.ErrInvalidCredentials
	}
	sess := domainauth.Session{
		ID:            "sess-1",
		UserID:        "u1",
		Name:          "Admin",
		Email:         creds.Email,
		Role:          g.role,
		Authenticated: true,
		LoginAt:       time.Now().UTC(),
	}
	g.sessions[sess.ID] = sess
	return sess, nil
}

func (g *stubGuard) Logout(_ context.Context, sessionID string) error {
	delete(g.sessions, sessionID)
	return nil
}

func (g *stubGuard) EstablishFromIdentity(_ context.Context, identity domainauth.Identity) (domainauth.Session, error) {
	sess := domainauth.Session{
		ID:            "sess-oidc",
		UserID:        identity.UserID,
		Name:          identity.Name,
		Email:         identity.Email,
		Role:          domainauth.RoleStaff,
		Authenticated: true,
		LoginAt:       time.Now().UTC(),
	}
	g.sessions[sess.ID] = sess
	return sess, nil
}

func withSessionCookie(req *http.Request, id string) *http.Request {
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: id})
	return req
}

func doRequest(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}
