package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/capstonehub/backend/internal/models"
	"github.com/capstonehub/backend/pkg/debug"
	"github.com/capstonehub/backend/pkg/httputil"
	"github.com/capstonehub/backend/pkg/jwt"
)

// AuthCookieName is the cookie carrying the session token.
const AuthCookieName = "token"

// Authenticator resolves a raw session token to its caller.
// services.AuthService implements it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Actor, error)
}

// TokenFromRequest returns the bearer token, falling back to the auth cookie.
func TokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := r.Cookie(AuthCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

var trustProxyHeaders atomic.Bool

// TrustProxyHeaders controls whether ClientIP honours X-Forwarded-For and
// X-Real-IP. Enable it only behind a reverse proxy that overwrites them.
func TrustProxyHeaders(trust bool) {
	trustProxyHeaders.Store(trust)
}

// ClientIP returns the caller address. Proxy headers are preferred only when
// TrustProxyHeaders is enabled; otherwise the connection address is used.
func ClientIP(r *http.Request) string {
	if trustProxyHeaders.Load() {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			first, _, _ := strings.Cut(forwarded, ",")
			return strings.TrimSpace(first)
		}
		if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
			return strings.TrimSpace(realIP)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func authenticate(auth Authenticator, r *http.Request) (*http.Request, error) {
	token := TokenFromRequest(r)
	if token == "" {
		return r, models.ErrUnauthorized
	}
	actor, err := auth.Authenticate(r.Context(), token)
	if err != nil {
		return r, err
	}
	actor.IP = ClientIP(r)
	ctx := WithActor(r.Context(), actor)
	ctx = jwt.WithToken(ctx, token)
	return r.WithContext(ctx), nil
}

// RequireAuth rejects requests without a valid, stored, unexpired token.
func RequireAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			authed, err := authenticate(auth, r)
			if err != nil {
				if errors.Is(err, models.ErrUnauthorized) {
					debug.Debug("[AUTH] Rejected %s %s: %v", r.Method, r.URL.Path, err)
					httputil.RespondWithErrorCode(w, http.StatusUnauthorized, httputil.CodeUnauthorized, "Authentication required")
					return
				}
				debug.Error("[AUTH] Failed to authenticate %s %s: %v", r.Method, r.URL.Path, err)
				httputil.RespondWithAppError(w, err)
				return
			}
			next.ServeHTTP(w, authed)
		})
	}
}

// OptionalAuth attaches the caller when a valid token is present and lets
// anonymous or invalid requests through unchanged.
func OptionalAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if TokenFromRequest(r) == "" {
				next.ServeHTTP(w, r)
				return
			}
			authed, err := authenticate(auth, r)
			if err != nil {
				debug.Debug("[AUTH] Ignoring invalid token on %s %s: %v", r.Method, r.URL.Path, err)
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, authed)
		})
	}
}

// RequireRole allows only callers holding one of roles. It must run after
// RequireAuth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := ActorFromContext(r.Context())
			if actor == nil {
				httputil.RespondWithErrorCode(w, http.StatusUnauthorized, httputil.CodeUnauthorized, "Authentication required")
				return
			}
			if !allowed[actor.Role] {
				debug.Warning("[AUTH] %s %s denied %s %s", actor.Role, actor.ID, r.Method, r.URL.Path)
				httputil.RespondWithErrorCode(w, http.StatusForbidden, httputil.CodeForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminOnly is RequireRole(models.RoleAdmin).
func AdminOnly(next http.Handler) http.Handler {
	return RequireRole(models.RoleAdmin)(next)
}
