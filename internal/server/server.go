// Package server wires stores, services, handlers, and middleware into
// the HTTP API.
package server

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/choretrack/internal/handler"
	"github.com/dukerupert/choretrack/internal/middleware"
	"github.com/dukerupert/choretrack/internal/secure"
	"github.com/dukerupert/choretrack/internal/service"
	"github.com/dukerupert/choretrack/internal/store"
	"github.com/dukerupert/choretrack/internal/token"
	ws "github.com/dukerupert/choretrack/internal/websocket"
)

const (
	requestsPerMinute      = 100
	tokenRequestsPerMinute = 10
)

// Config holds server construction parameters.
type Config struct {
	APIKey      string
	TokenSecret string
}

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	healthH     *handler.HealthHandler
	authH       *handler.AuthHandler
	userH       *handler.UserHandler
	choreH      *handler.ChoreHandler
	assignmentH *handler.AssignmentHandler
	verifier    *token.Verifier
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
	audit       *slog.Logger
}

func New(db *sql.DB, box *secure.Box, cfg Config, logger, audit *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db, box)
	choreStore := store.NewChoreStore(db)
	assignmentStore := store.NewAssignmentStore(db)

	userSvc := service.NewUserService(userStore)
	choreSvc := service.NewChoreService(choreStore)
	assignmentSvc := service.NewAssignmentService(assignmentStore, userStore, choreStore)

	issuer := token.NewIssuer(cfg.TokenSecret, token.DefaultTTL)

	return &Server{
		db:          db,
		hub:         hub,
		healthH:     handler.NewHealthHandler(db),
		authH:       handler.NewAuthHandler(cfg.APIKey, issuer, audit),
		userH:       handler.NewUserHandler(userSvc, hub, logger.With("component", "user")),
		choreH:      handler.NewChoreHandler(choreSvc, hub, logger.With("component", "chore")),
		assignmentH: handler.NewAssignmentHandler(assignmentSvc, hub, logger.With("component", "assignment")),
		verifier:    token.NewVerifier(cfg.TokenSecret),
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
		audit:       audit,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// Hub returns the websocket hub for broadcasting from background tasks.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes. /health is exempt from rate limiting; token issuance
	// gets a tighter per-IP budget than the rest of the API.
	outerMux.HandleFunc("GET /health", s.healthH.Check)
	outerMux.Handle("POST /auth/token", s.rateLimited("token", tokenRequestsPerMinute, http.HandlerFunc(s.authH.IssueToken)))

	// Protected routes
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	requireAuth := middleware.RequireAuth(s.verifier, s.audit)
	outerMux.Handle("/", s.rateLimited("api", requestsPerMinute, requireAuth(protectedMux)))

	chain := middleware.ErrorEnvelope(outerMux)
	chain = middleware.SecurityHeaders(chain)
	chain = middleware.RequestLogger(s.logger.With("component", "http"))(chain)
	chain = middleware.CorrelationID(chain)
	return chain
}

// rateLimited applies a fixed-window per-IP limit. The bucket name keeps
// the token-issuance budget separate from the general API budget.
func (s *Server) rateLimited(bucket string, limit int, next http.Handler) http.Handler {
	keyFunc := func(r *http.Request) string {
		return bucket + ":" + middleware.RealIP(r)
	}
	return middleware.RateLimit(s.rateLimiter, keyFunc, limit, time.Minute, s.audit)(next)
}

// adminOnly guards destructive routes with the admin role claim.
func (s *Server) adminOnly(h http.HandlerFunc) http.Handler {
	return middleware.RequireAdmin(s.audit)(h)
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	// User routes
	mux.HandleFunc("GET /users", s.userH.List)
	mux.HandleFunc("POST /users", s.userH.Create)
	mux.HandleFunc("GET /users/{id}", s.userH.Get)
	mux.HandleFunc("PUT /users/{id}", s.userH.Update)
	mux.Handle("DELETE /users/{id}", s.adminOnly(s.userH.Delete))

	// Chore routes
	mux.HandleFunc("GET /chores", s.choreH.List)
	mux.HandleFunc("POST /chores", s.choreH.Create)
	mux.HandleFunc("GET /chores/{id}", s.choreH.Get)
	mux.HandleFunc("PUT /chores/{id}", s.choreH.Update)
	mux.Handle("DELETE /chores/{id}", s.adminOnly(s.choreH.Delete))

	// Assignment routes
	mux.HandleFunc("GET /assignments", s.assignmentH.List)
	mux.HandleFunc("POST /assignments", s.assignmentH.Create)
	mux.HandleFunc("GET /assignments/{id}", s.assignmentH.Get)
	mux.HandleFunc("PUT /assignments/{id}", s.assignmentH.UpdateStatus)
	mux.Handle("DELETE /assignments/{id}", s.adminOnly(s.assignmentH.Delete))

	// Statistics
	mux.HandleFunc("GET /statistics", s.assignmentH.Statistics)

	// WebSocket change feed
	mux.HandleFunc("GET /ws", ws.Handler(s.hub, s.logger.With("component", "websocket")))
}
