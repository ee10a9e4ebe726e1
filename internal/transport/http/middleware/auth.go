package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/campus-os/api/internal/domain"
	jwtinfra "github.com/campus-os/api/internal/infrastructure/jwt"
)

type contextKey string

const principalKey contextKey = "principal"

// AuthCookieName is the HttpOnly cookie carrying the auth token when
// cookie delivery is enabled. The login handler sets it; Authenticate
// reads it as a fallback when no Authorization header is present.
const AuthCookieName = "auth_token"

// Principal is the authenticated caller attached to the request context.
type Principal struct {
	UserID    string
	Name      string
	Email     string
	Role      string
	StudentID string
}

// UserSource looks up the account behind a token so deleted users lose
// access even while their tokens are still signature-valid.
type UserSource interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*jwtinfra.Claims, error)
}

// Authenticate resolves an optional Bearer token into a Principal. A
// missing, expired, malformed or wrong-type token leaves the request
// anonymous rather than rejecting it; route groups decide whether
// anonymity is acceptable. Forged tokens additionally log a warning.
func Authenticate(verifier TokenVerifier, users UserSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := requestToken(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.Verify(tokenStr)
			if err != nil {
				if !errors.Is(err, jwtinfra.ErrExpired) {
					slog.Warn("rejected bearer token",
						"remote_addr", r.RemoteAddr,
						"path", r.URL.Path,
						"error", err)
				}
				next.ServeHTTP(w, r)
				return
			}
			if claims.TokenType != jwtinfra.TokenAuth {
				slog.Warn("non-auth token presented as bearer",
					"remote_addr", r.RemoteAddr,
					"path", r.URL.Path,
					"token_type", claims.TokenType)
				next.ServeHTTP(w, r)
				return
			}

			u, err := users.Get(r.Context(), claims.UserID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			p := &Principal{
				UserID:    u.UserID,
				Name:      u.Name,
				Email:     u.Email,
				Role:      u.Role,
				StudentID: u.StudentID,
			}
			ctx := context.WithValue(r.Context(), principalKey, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requestToken extracts the credential from the Authorization header or,
// when no bearer header is present, from the auth cookie (HttpOnly
// cookie-mode clients cannot set headers themselves).
func requestToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if c, err := r.Cookie(AuthCookieName); err == nil {
		return c.Value
	}
	return ""
}

// PrincipalFromContext extracts the authenticated caller, if any.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok
}
