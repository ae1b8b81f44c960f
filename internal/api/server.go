// ABOUTME: HTTP server wiring routes, middleware chain, and graceful shutdown
// ABOUTME: Role gates use exact membership; admin routes never admit by implication

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/cors"

	"github.com/howlil/wakachat-server/internal/auth"
	"github.com/howlil/wakachat-server/internal/config"
	"github.com/howlil/wakachat-server/internal/inbox"
	"github.com/howlil/wakachat-server/internal/store"
	"github.com/howlil/wakachat-server/internal/user"
)

// Server is the wakachat HTTP API server.
type Server struct {
	config     *config.Config
	users      *user.Service
	inbox      *inbox.Service
	codec      *auth.Codec
	logger     *slog.Logger
	httpServer *http.Server
}

// New creates the API server and wires up all routes.
func New(cfg *config.Config, users *user.Service, inboxSvc *inbox.Service, codec *auth.Codec, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config: cfg,
		users:  users,
		inbox:  inboxSvc,
		codec:  codec,
		logger: logger.With("component", "api"),
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           s.buildHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// buildHandler assembles the route table and middleware chain.
func (s *Server) buildHandler() http.Handler {
	mux := http.NewServeMux()

	authn := auth.Middleware(s.codec, s.logger)
	adminOnly := auth.RequireRole(store.RoleAdmin, store.RoleSuperAdmin)
	superOnly := auth.RequireRole(store.RoleSuperAdmin)

	// Health (no auth)
	mux.HandleFunc("GET /health", s.handleHealth)

	// Auth
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.Handle("GET /api/auth/profile", authn(http.HandlerFunc(s.handleProfile)))

	// Inbox (any authenticated role)
	mux.Handle("GET /api/conversations", authn(http.HandlerFunc(s.handleListConversations)))
	mux.Handle("POST /api/conversations", authn(http.HandlerFunc(s.handleCreateConversation)))
	mux.Handle("GET /api/conversations/{id}", authn(http.HandlerFunc(s.handleGetConversation)))
	mux.Handle("PATCH /api/conversations/{id}", authn(http.HandlerFunc(s.handleUpdateConversation)))
	mux.Handle("GET /api/conversations/{id}/messages", authn(http.HandlerFunc(s.handleListMessages)))
	mux.Handle("POST /api/conversations/{id}/messages", authn(http.HandlerFunc(s.handleSendMessage)))

	// Broadcast templates (admins)
	mux.Handle("GET /api/templates", authn(adminOnly(http.HandlerFunc(s.handleListTemplates))))
	mux.Handle("POST /api/templates", authn(adminOnly(http.HandlerFunc(s.handleCreateTemplate))))
	mux.Handle("GET /api/templates/{id}", authn(adminOnly(http.HandlerFunc(s.handleGetTemplate))))
	mux.Handle("GET /api/templates/{id}/preview", authn(adminOnly(http.HandlerFunc(s.handlePreviewTemplate))))
	mux.Handle("PUT /api/templates/{id}", authn(adminOnly(http.HandlerFunc(s.handleUpdateTemplate))))
	mux.Handle("DELETE /api/templates/{id}", authn(adminOnly(http.HandlerFunc(s.handleDeleteTemplate))))

	// User management (admins; deletion is SUPER_ADMIN only)
	mux.Handle("GET /api/users", authn(adminOnly(http.HandlerFunc(s.handleListUsers))))
	mux.Handle("POST /api/users", authn(adminOnly(http.HandlerFunc(s.handleCreateUser))))
	mux.Handle("DELETE /api/users/{id}", authn(superOnly(http.HandlerFunc(s.handleDeleteUser))))

	corsMiddleware := cors.Handler(cors.Options{
		AllowedOrigins:   s.config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	})

	return s.logRequests(corsMiddleware(mux))
}

// handleHealth handles GET /health requests.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Run starts the HTTP server and blocks until the context is canceled.
// Returns nil on graceful shutdown, or an error if the server fails.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Server.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listening on HTTP address: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	var serverErr error
	select {
	case <-ctx.Done():
		s.logger.Info("context canceled, initiating shutdown")
	case serverErr = <-errCh:
		s.logger.Error("server error", "error", serverErr)
	}

	// Fresh context: the original one is already canceled
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	shutdownErr := s.httpServer.Shutdown(shutdownCtx)

	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// writeJSON writes a JSON response with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// logRequests logs each request with method, path, status, and duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
