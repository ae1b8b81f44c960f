// ABOUTME: Login and profile HTTP handlers
// ABOUTME: Login failures get one generic message regardless of the cause

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/howlil/wakachat-server/internal/auth"
	"github.com/howlil/wakachat-server/internal/store"
	"github.com/howlil/wakachat-server/internal/user"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User  *store.PublicUser `json:"user"`
	Token string            `json:"token"`
}

// handleLogin handles POST /api/auth/login requests.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		s.writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	u, token, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			s.writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		s.logger.Error("login failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.writeJSON(w, http.StatusOK, loginResponse{User: u, Token: token})
}

// handleProfile handles GET /api/auth/profile requests. The user record is
// re-read from storage, so a token for a since-deleted account gets a 404.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustFromContext(r.Context())

	u, err := s.users.Profile(r.Context(), principal.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "user not found")
			return
		}
		s.logger.Error("profile lookup failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.writeJSON(w, http.StatusOK, u)
}
