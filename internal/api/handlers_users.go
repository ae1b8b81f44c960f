// ABOUTME: User management HTTP handlers for admin roles
// ABOUTME: Deleting accounts is reserved for SUPER_ADMIN via route wiring

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/howlil/wakachat-server/internal/auth"
	"github.com/howlil/wakachat-server/internal/store"
	"github.com/howlil/wakachat-server/internal/user"
)

// handleListUsers handles GET /api/users requests.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		s.logger.Error("listing users failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// handleCreateUser handles POST /api/users requests.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		s.writeError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	u, err := s.users.Create(r.Context(), user.CreateParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     store.Role(req.Role),
	})
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidRole):
			s.writeError(w, http.StatusBadRequest, "invalid role")
		case errors.Is(err, store.ErrEmailExists):
			s.writeError(w, http.StatusConflict, "email already exists")
		default:
			s.logger.Error("creating user failed", "error", err)
			s.writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	s.writeJSON(w, http.StatusCreated, u)
}

// handleDeleteUser handles DELETE /api/users/{id} requests.
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustFromContext(r.Context())
	id := r.PathValue("id")

	if id == principal.ID {
		s.writeError(w, http.StatusBadRequest, "cannot delete your own account")
		return
	}

	if err := s.users.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "user not found")
			return
		}
		s.logger.Error("deleting user failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
