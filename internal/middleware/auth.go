package middleware

import (
	"context"
	"net/http"
	"strings"

	"server/internal/auth"
	"server/internal/domain"
)

type contextKey string

const (
	emailKey contextKey = "auth_email"
	nameKey  contextKey = "auth_name"
)

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// UserLookup fetches a user by email for role checks.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Authenticate requires a valid bearer token and attaches the verified email
// to the request context. Missing or invalid tokens stop the chain with 401.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w)
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				unauthorized(w)
				return
			}
			claims, err := verifier.Verify(parts[1])
			if err != nil {
				unauthorized(w)
				return
			}
			ctx := context.WithValue(r.Context(), emailKey, claims.Email)
			ctx = context.WithValue(ctx, nameKey, claims.Name)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin authorizes the authenticated caller against the user store.
// It must run after Authenticate: an absent context email means the identity
// stage never ran, and the role lookup is skipped entirely.
func RequireAdmin(users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email := EmailFromContext(r.Context())
			if email == "" {
				unauthorized(w)
				return
			}
			user, err := users.GetByEmail(r.Context(), email)
			if err != nil || user == nil || !user.IsAdmin() {
				forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// EmailFromContext returns the authenticated email, or "" when the request
// did not pass through Authenticate.
func EmailFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(emailKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithEmail seeds an authenticated email, used by tests.
func ContextWithEmail(ctx context.Context, email string) context.Context {
	if strings.TrimSpace(email) == "" {
		return ctx
	}
	return context.WithValue(ctx, emailKey, email)
}

func unauthorized(w http.ResponseWriter) {
	writeJSONError(w, http.StatusUnauthorized, "Unauthorized access")
}

func forbidden(w http.ResponseWriter) {
	writeJSONError(w, http.StatusForbidden, "Forbidden access")
}

func writeJSONError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(`{"message":"` + message + `"}`))
}
