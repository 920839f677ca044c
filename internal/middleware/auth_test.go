package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"server/internal/auth"
	"server/internal/domain"
)

type stubVerifier struct {
	claims *auth.Claims
	err    error
}

func (s *stubVerifier) Verify(string) (*auth.Claims, error) {
	return s.claims, s.err
}

type recordingUserLookup struct {
	user    *domain.User
	err     error
	lookups int
}

func (r *recordingUserLookup) GetByEmail(_ context.Context, _ string) (*domain.User, error) {
	r.lookups++
	return r.user, r.err
}

func passthrough(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateMissingHeader(t *testing.T) {
	var called bool
	handler := Authenticate(&stubVerifier{})(passthrough(&called))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/users", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want 401", rr.Code)
	}
	if called {
		t.Fatal("next handler should not run without a token")
	}
}

func TestAuthenticateInvalidToken(t *testing.T) {
	var called bool
	handler := Authenticate(&stubVerifier{err: domain.ErrUnauthenticated})(passthrough(&called))

	req := httptest.NewRequest("GET", "/users", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want 401", rr.Code)
	}
	if called {
		t.Fatal("next handler should not run with an invalid token")
	}
}

func TestAuthenticateAttachesEmail(t *testing.T) {
	verifier := &stubVerifier{claims: &auth.Claims{Email: "member@example.com"}}
	var gotEmail string
	handler := Authenticate(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEmail = EmailFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/users", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotEmail != "member@example.com" {
		t.Fatalf("context email: got %q", gotEmail)
	}
}

func TestRequireAdminForbidsMembers(t *testing.T) {
	users := &recordingUserLookup{user: &domain.User{Email: "member@example.com", Role: domain.RoleMember}}
	var called bool
	handler := RequireAdmin(users)(passthrough(&called))

	req := httptest.NewRequest("GET", "/users", nil)
	req = req.WithContext(ContextWithEmail(req.Context(), "member@example.com"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("status: got %d want 403", rr.Code)
	}
	if called {
		t.Fatal("next handler should not run for a non-admin")
	}
}

func TestRequireAdminAllowsAdmins(t *testing.T) {
	users := &recordingUserLookup{user: &domain.User{Email: "admin@example.com", Role: domain.RoleAdmin}}
	var called bool
	handler := RequireAdmin(users)(passthrough(&called))

	req := httptest.NewRequest("GET", "/users", nil)
	req = req.WithContext(ContextWithEmail(req.Context(), "admin@example.com"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK || !called {
		t.Fatalf("admin should pass through, status %d called %v", rr.Code, called)
	}
	if users.lookups != 1 {
		t.Fatalf("expected exactly one role lookup, got %d", users.lookups)
	}
}

func TestRequireAdminSkipsLookupWhenUnauthenticated(t *testing.T) {
	users := &recordingUserLookup{user: &domain.User{Role: domain.RoleAdmin}}
	var called bool

	// Full chain with a failing verifier: the role lookup must never run.
	chain := Authenticate(&stubVerifier{err: domain.ErrUnauthenticated})(
		RequireAdmin(users)(passthrough(&called)),
	)

	req := httptest.NewRequest("GET", "/users", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	rr := httptest.NewRecorder()
	chain.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want 401", rr.Code)
	}
	if users.lookups != 0 {
		t.Fatalf("role lookup ran %d times for an unauthenticated caller", users.lookups)
	}
	if called {
		t.Fatal("next handler should not run")
	}
}

func TestRequireAdminUnknownUser(t *testing.T) {
	users := &recordingUserLookup{err: domain.ErrNotFound}
	var called bool
	handler := RequireAdmin(users)(passthrough(&called))

	req := httptest.NewRequest("GET", "/users", nil)
	req = req.WithContext(ContextWithEmail(req.Context(), "ghost@example.com"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("status: got %d want 403", rr.Code)
	}
	if called {
		t.Fatal("next handler should not run for an unknown user")
	}
}
