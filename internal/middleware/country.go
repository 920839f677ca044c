package middleware

import (
	"context"
	"net/http"
	"strings"

	"server/internal/infra/geoip"
)

const countryKey contextKey = "donor_country"

// Country resolves the caller's ISO country code from its IP and stores it
// in the request context. A nil resolver disables tagging; lookup failures
// are silent because country data is best-effort enrichment.
func Country(resolver geoip.CountryResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if resolver == nil {
				next.ServeHTTP(w, r)
				return
			}
			code, err := resolver.CountryCode(ClientIP(r))
			if err != nil || code == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), countryKey, strings.ToUpper(code))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CountryFromContext returns the resolved country code, or "" when none.
func CountryFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(countryKey).(string); ok {
		return v
	}
	return ""
}
