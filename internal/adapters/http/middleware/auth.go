package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"fitpro/internal/domain/account"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const claimsContextKey contextKey = "admin"

// Messages returned by RequireBearer.
const (
	msgNoToken      = "Access denied. No token provided."
	msgInvalidToken = "Invalid or expired token."
)

// TokenVerifier validates a bearer token and returns the identity it carries.
type TokenVerifier interface {
	Verify(token string) (account.SessionClaims, error)
}

// RequireBearer returns middleware that admits only requests carrying a valid
// "Authorization: Bearer <token>" header. A missing or malformed header is 401;
// a token that fails verification is 403.
// POST: On success the admin's claims are in the request context
func RequireBearer(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, msgNoToken)
				return
			}
			claims, err := verifier.Verify(token)
			if err != nil {
				slog.Info("auth_event", "event", "bearer_rejected", "path", r.URL.Path)
				writeJSONError(w, http.StatusForbidden, msgInvalidToken)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// ClaimsFromContext extracts the admin identity set by RequireBearer.
func ClaimsFromContext(ctx context.Context) (account.SessionClaims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(account.SessionClaims)
	return claims, ok
}

// ContextWithClaims returns a context carrying claims.
func ContextWithClaims(ctx context.Context, claims account.SessionClaims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Message constants contain no characters that need escaping.
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}` + "\n"))
}
