package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/aimspurefied/healer-ui-api/internal/domain/auth"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuthBrowser_APIRequestGets401(t *testing.T) {
	handler := RequireAuthBrowser(newStubGuard())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/students", nil)
	req.Header.Set("Accept", "application/json")
	w := doRequest(handler, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestRequireAuthBrowser_BrowserRedirectPreservesLocation(t *testing.T) {
	handler := RequireAuthBrowser(newStubGuard())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/shipments?status=PENDING", nil)
	req.Header.Set("Accept", "text/html")
	w := doRequest(handler, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	location := w.Header().Get("Location")
	assert.Contains(t, location, "/auth/login")
	assert.Contains(t, location, "redirect_uri=%2Fshipments%3Fstatus%3DPENDING")
}

func TestRequireAuthBrowser_ValidSessionPassesThrough(t *testing.T) {
	guard := newStubGuard()
	guard.seed("sid", domainauth.RoleStaff)

	var got domainauth.Session
	handler := RequireAuthBrowser(guard)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := withSessionCookie(httptest.NewRequest(http.MethodGet, "/api/students", nil), "sid")
	w := doRequest(handler, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sid", got.ID)
}

func TestRequireRole_Hierarchy(t *testing.T) {
	cases := []struct {
		name     string
		role     domainauth.Role
		required domainauth.Role
		want     int
	}{
		{"admin passes admin gate", domainauth.RoleAdmin, domainauth.RoleAdmin, http.StatusOK},
		{"admin passes staff gate", domainauth.RoleAdmin, domainauth.RoleStaff, http.StatusOK},
		{"staff fails admin gate", domainauth.RoleStaff, domainauth.RoleAdmin, http.StatusForbidden},
		{"staff passes staff gate", domainauth.RoleStaff, domainauth.RoleStaff, http.StatusOK},
		{"guest fails staff gate", domainauth.RoleGuest, domainauth.RoleStaff, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			guard := newStubGuard()
			guard.seed("sid", tc.role)
			handler := RequireRole(guard, tc.required)(okHandler())

			req := withSessionCookie(httptest.NewRequest(http.MethodGet, "/api/students", nil), "sid")
			w := doRequest(handler, req)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestRequireRole_NoSessionGets401(t *testing.T) {
	handler := RequireRole(newStubGuard(), domainauth.RoleAdmin)(okHandler())
	w := doRequest(handler, httptest.NewRequest(http.MethodGet, "/api/students", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRedirectIfAuthenticated(t *testing.T) {
	guard := newStubGuard()
	guard.seed("sid", domainauth.RoleAdmin)
	handler := RedirectIfAuthenticated(guard)(okHandler())

	t.Run("authenticated user bounces to destination", func(t *testing.T) {
		req := withSessionCookie(httptest.NewRequest(http.MethodGet, "/auth/login?redirect_uri=%2Fstudents", nil), "sid")
		w := doRequest(handler, req)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/students", w.Header().Get("Location"))
	})

	t.Run("unauthenticated request reaches the page", func(t *testing.T) {
		w := doRequest(handler, httptest.NewRequest(http.MethodGet, "/auth/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("external redirect target is rejected", func(t *testing.T) {
		req := withSessionCookie(httptest.NewRequest(http.MethodGet, "/auth/login?redirect_uri=https%3A%2F%2Fevil.example", nil), "sid")
		w := doRequest(handler, req)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
	})
}

func TestSafeRedirectPath(t *testing.T) {
	cases := map[string]string{
		"":                        "/",
		"/students":               "/students",
		"/students?status=ACTIVE": "/students?status=ACTIVE",
		"https://evil.example/x":  "/",
		"//evil.example/x":        "/",
		"students":                "/",
	}
	for in, want := range cases {
		assert.Equal(t, want, safeRedirectPath(in), "input %q", in)
	}
}
