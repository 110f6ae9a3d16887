package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/choretrack/internal/auth"
	"github.com/dukerupert/choretrack/internal/token"
)

// RequireAuth validates the bearer token and populates AuthContext.
// Failures are answered with the error envelope and recorded on the audit
// stream without any personal data.
func RequireAuth(verifier *token.Verifier, audit *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				unauthorized(w, r, audit, "missing_credentials", "missing bearer token")
				return
			}

			scheme, rawToken, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || rawToken == "" {
				unauthorized(w, r, audit, "malformed_header", "invalid authorization header")
				return
			}

			claims, err := verifier.Verify(rawToken)
			if err != nil {
				reason := "invalid_token"
				message := "invalid bearer token"
				if errors.Is(err, token.ErrExpired) {
					reason = "expired_token"
					message = "bearer token expired"
				}
				unauthorized(w, r, audit, reason, message)
				return
			}

			ac := auth.AuthContext{
				Subject: claims.Subject,
				Role:    claims.Role,
			}
			next.ServeHTTP(w, r.WithContext(auth.WithAuth(r.Context(), ac)))
		})
	}
}

// RequireAdmin checks that the authenticated caller has the admin role.
func RequireAdmin(audit *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !auth.IsAdmin(r.Context()) {
				audit.Warn("authorization denied",
					"event", "authorization_denied",
					"remote", RealIP(r),
					"method", r.Method,
					"path", r.URL.Path,
				)
				writeError(w, http.StatusForbidden, "authorization_error", "insufficient privileges")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, audit *slog.Logger, reason, message string) {
	audit.Warn("authentication failed",
		"event", "authentication_failed",
		"reason", reason,
		"remote", RealIP(r),
		"method", r.Method,
		"path", r.URL.Path,
	)
	writeError(w, http.StatusUnauthorized, "authentication_error", message)
}
