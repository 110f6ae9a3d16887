package handler

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/choretrack/internal/middleware"
	"github.com/dukerupert/choretrack/internal/token"
)

// AuthHandler exchanges the configured API key for short-lived bearer tokens.
type AuthHandler struct {
	apiKey string
	issuer *token.Issuer
	audit  *slog.Logger
}

func NewAuthHandler(apiKey string, issuer *token.Issuer, audit *slog.Logger) *AuthHandler {
	return &AuthHandler{apiKey: apiKey, issuer: issuer, audit: audit}
}

type tokenRequest struct {
	APIKey  string `json:"api_key"`
	Subject string `json:"subject"`
	Role    string `json:"role"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IssueToken handles POST /auth/token.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.APIKey), []byte(h.apiKey)) != 1 {
		h.audit.Warn("token request rejected",
			"event", "auth_failure",
			"reason", "invalid api key",
			"remote", middleware.RealIP(r),
			"method", r.Method,
			"path", r.URL.Path,
		)
		writeError(w, http.StatusUnauthorized, "authentication_error", "invalid API key")
		return
	}

	req.Subject = strings.TrimSpace(req.Subject)
	if req.Subject == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "subject is required")
		return
	}

	// The API key grants full access; callers may mint a down-scoped token.
	role := req.Role
	if role == "" {
		role = "admin"
	}
	if role != "admin" && role != "user" {
		writeError(w, http.StatusBadRequest, "validation_error", "role must be admin or user")
		return
	}

	signed, expiresAt, err := h.issuer.Issue(req.Subject, role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		Token:     signed,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
	})
}
