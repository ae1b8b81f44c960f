// ABOUTME: HTTP handlers for conversations, messages, and broadcast templates
// ABOUTME: Translates service errors into JSON status responses

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/howlil/wakachat-server/internal/auth"
	"github.com/howlil/wakachat-server/internal/inbox"
	"github.com/howlil/wakachat-server/internal/store"
)

type conversationResponse struct {
	ID            string `json:"id"`
	ContactName   string `json:"contact_name"`
	ContactHandle string `json:"contact_handle"`
	Channel       string `json:"channel"`
	AssigneeID    string `json:"assignee_id,omitempty"`
	Status        string `json:"status"`
	LastMessageAt string `json:"last_message_at,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

func toConversationResponse(c *store.Conversation) conversationResponse {
	resp := conversationResponse{
		ID:            c.ID,
		ContactName:   c.ContactName,
		ContactHandle: c.ContactHandle,
		Channel:       c.Channel,
		AssigneeID:    c.AssigneeID,
		Status:        c.Status,
		CreatedAt:     c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     c.UpdatedAt.Format(time.RFC3339),
	}
	if !c.LastMessageAt.IsZero() {
		resp.LastMessageAt = c.LastMessageAt.Format(time.RFC3339)
	}
	return resp
}

type messageResponse struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`
	Direction      string `json:"direction"`
	AuthorID       string `json:"author_id,omitempty"`
	Body           string `json:"body"`
	CreatedAt      string `json:"created_at"`
}

func toMessageResponse(m *store.Message) messageResponse {
	return messageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Direction:      m.Direction,
		AuthorID:       m.AuthorID,
		Body:           m.Body,
		CreatedAt:      m.CreatedAt.Format(time.RFC3339),
	}
}

type templateResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Body      string `json:"body"`
	CreatedBy string `json:"created_by"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toTemplateResponse(t *store.BroadcastTemplate) templateResponse {
	return templateResponse{
		ID:        t.ID,
		Name:      t.Name,
		Body:      t.Body,
		CreatedBy: t.CreatedBy,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
		UpdatedAt: t.UpdatedAt.Format(time.RFC3339),
	}
}

// handleListConversations handles GET /api/conversations requests.
// Supports status, channel, assignee_id, and limit query filters.
func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.ConversationFilter{
		Status:     q.Get("status"),
		Channel:    q.Get("channel"),
		AssigneeID: q.Get("assignee_id"),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			s.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = limit
	}

	convs, err := s.inbox.ListConversations(r.Context(), filter)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := make([]conversationResponse, len(convs))
	for i, c := range convs {
		resp[i] = toConversationResponse(c)
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"conversations": resp})
}

type createConversationRequest struct {
	ContactName   string `json:"contact_name"`
	ContactHandle string `json:"contact_handle"`
	Channel       string `json:"channel"`
}

// handleCreateConversation handles POST /api/conversations requests.
func (s *Server) handleCreateConversation(w http.ResponseWriter, r *http.Request) {
	var req createConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	conv, err := s.inbox.CreateConversation(r.Context(), inbox.CreateConversationParams{
		ContactName:   req.ContactName,
		ContactHandle: req.ContactHandle,
		Channel:       req.Channel,
	})
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.writeJSON(w, http.StatusCreated, toConversationResponse(conv))
}

// handleGetConversation handles GET /api/conversations/{id} requests.
func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	conv, err := s.inbox.GetConversation(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "conversation not found")
			return
		}
		s.logger.Error("conversation lookup failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.writeJSON(w, http.StatusOK, toConversationResponse(conv))
}

type updateConversationRequest struct {
	Status     *string `json:"status,omitempty"`
	AssigneeID *string `json:"assignee_id,omitempty"`
}

// handleUpdateConversation handles PATCH /api/conversations/{id} requests.
// Accepts a status change, an assignee change, or both.
func (s *Server) handleUpdateConversation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status == nil && req.AssigneeID == nil {
		s.writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	if req.Status != nil {
		if err := s.inbox.UpdateStatus(r.Context(), id, *req.Status); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				s.writeError(w, http.StatusNotFound, "conversation not found")
				return
			}
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	if req.AssigneeID != nil {
		if err := s.inbox.Assign(r.Context(), id, *req.AssigneeID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				s.writeError(w, http.StatusNotFound, "conversation not found")
				return
			}
			s.logger.Error("assigning conversation failed", "error", err)
			s.writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
	}

	conv, err := s.inbox.GetConversation(r.Context(), id)
	if err != nil {
		s.logger.Error("conversation re-read failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.writeJSON(w, http.StatusOK, toConversationResponse(conv))
}

// handleListMessages handles GET /api/conversations/{id}/messages requests.
func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			s.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	msgs, err := s.inbox.ListMessages(r.Context(), r.PathValue("id"), limit)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "conversation not found")
			return
		}
		s.logger.Error("listing messages failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := make([]messageResponse, len(msgs))
	for i, m := range msgs {
		resp[i] = toMessageResponse(m)
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"messages": resp})
}

type sendMessageRequest struct {
	Body string `json:"body"`
}

// handleSendMessage handles POST /api/conversations/{id}/messages requests.
// The author is the authenticated principal, never taken from the body.
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustFromContext(r.Context())

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	msg, err := s.inbox.SendMessage(r.Context(), r.PathValue("id"), principal.ID, req.Body)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "conversation not found")
			return
		}
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.writeJSON(w, http.StatusCreated, toMessageResponse(msg))
}

type templateRequest struct {
	Name string `json:"name"`
	Body string `json:"body"`
}

// handleListTemplates handles GET /api/templates requests.
func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	tpls, err := s.inbox.ListTemplates(r.Context())
	if err != nil {
		s.logger.Error("listing templates failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := make([]templateResponse, len(tpls))
	for i, t := range tpls {
		resp[i] = toTemplateResponse(t)
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"templates": resp})
}

// handleCreateTemplate handles POST /api/templates requests.
func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustFromContext(r.Context())

	var req templateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tpl, err := s.inbox.CreateTemplate(r.Context(), inbox.TemplateParams{
		Name: req.Name,
		Body: req.Body,
	}, principal.ID)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.writeJSON(w, http.StatusCreated, toTemplateResponse(tpl))
}

// handleGetTemplate handles GET /api/templates/{id} requests.
func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, err := s.inbox.GetTemplate(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "template not found")
			return
		}
		s.logger.Error("template lookup failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.writeJSON(w, http.StatusOK, toTemplateResponse(tpl))
}

// handlePreviewTemplate handles GET /api/templates/{id}/preview requests,
// returning the rendered HTML for the dashboard preview pane.
func (s *Server) handlePreviewTemplate(w http.ResponseWriter, r *http.Request) {
	html, err := s.inbox.RenderTemplatePreview(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "template not found")
			return
		}
		s.logger.Error("template preview failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"html": html})
}

// handleUpdateTemplate handles PUT /api/templates/{id} requests.
func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tpl, err := s.inbox.UpdateTemplate(r.Context(), r.PathValue("id"), inbox.TemplateParams{
		Name: req.Name,
		Body: req.Body,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "template not found")
			return
		}
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, toTemplateResponse(tpl))
}

// handleDeleteTemplate handles DELETE /api/templates/{id} requests.
func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := s.inbox.DeleteTemplate(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "template not found")
			return
		}
		s.logger.Error("deleting template failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
