// ABOUTME: HTTP middleware for bearer-token authentication and role authorization
// ABOUTME: Collapses all authentication failures into one generic 401 response

package auth

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/howlil/wakachat-server/internal/store"
)

// extractBearerToken extracts a bearer token from the Authorization header.
// Returns the token and an internal reason (empty if successful). The
// reason is for logs only and never reaches the response.
func extractBearerToken(authHeader string) (string, string) {
	if authHeader == "" {
		return "", "missing authorization header"
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", "invalid authorization header format"
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", "empty token"
	}
	return token, ""
}

// Middleware creates an HTTP middleware that extracts and verifies bearer
// tokens and attaches the resulting Principal to the request context.
// Missing header, malformed prefix, bad signature and expiry all produce
// the same 401 body; the specific cause goes to the debug log.
func Middleware(codec *Codec, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "auth")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, reason := extractBearerToken(r.Header.Get("Authorization"))
			if reason != "" {
				logger.Debug("request rejected", "path", r.URL.Path, "reason", reason)
				http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
				return
			}

			claims, err := codec.Verify(token)
			if err != nil {
				logger.Debug("request rejected", "path", r.URL.Path, "reason", err.Error())
				http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
				return
			}

			principal := &Principal{
				ID:    claims.Subject,
				Email: claims.Email,
				Role:  claims.Role,
			}

			logger.Debug("request authenticated",
				"path", r.URL.Path,
				"user_id", principal.ID,
				"role", principal.Role,
			)

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireRole creates an HTTP middleware that admits only principals whose
// role is in the allow-list. Membership is exact: listing ADMIN does not
// admit SUPER_ADMIN. Must be used after Middleware.
func RequireRole(roles ...store.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := FromContext(r.Context())
			if principal == nil {
				http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
				return
			}

			if !slices.Contains(roles, principal.Role) {
				http.Error(w, `{"error":"insufficient permissions"}`, http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
