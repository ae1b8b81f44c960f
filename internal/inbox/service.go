// ABOUTME: Inbox service for conversations, messages, and broadcast templates
// ABOUTME: All dashboard inbox operations flow through here with input validation

package inbox

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"

	"github.com/howlil/wakachat-server/internal/store"
)

// InboxStore defines what the service needs from storage
type InboxStore interface {
	CreateConversation(ctx context.Context, conv *store.Conversation) error
	GetConversation(ctx context.Context, id string) (*store.Conversation, error)
	ListConversations(ctx context.Context, filter store.ConversationFilter) ([]*store.Conversation, error)
	UpdateConversationStatus(ctx context.Context, id, status string) error
	AssignConversation(ctx context.Context, id, assigneeID string) error

	SaveMessage(ctx context.Context, msg *store.Message) error
	ListMessages(ctx context.Context, conversationID string, limit int) ([]*store.Message, error)

	CreateTemplate(ctx context.Context, tpl *store.BroadcastTemplate) error
	GetTemplate(ctx context.Context, id string) (*store.BroadcastTemplate, error)
	ListTemplates(ctx context.Context) ([]*store.BroadcastTemplate, error)
	UpdateTemplate(ctx context.Context, tpl *store.BroadcastTemplate) error
	DeleteTemplate(ctx context.Context, id string) error
}

// Service is the inbox layer backing the dashboard's conversation view.
type Service struct {
	store  InboxStore
	logger *slog.Logger
}

// New creates a new inbox service.
func New(inboxStore InboxStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  inboxStore,
		logger: logger.With("component", "inbox"),
	}
}

// CreateConversationParams are the inputs for opening a conversation.
type CreateConversationParams struct {
	ContactName   string
	ContactHandle string
	Channel       string
}

// CreateConversation opens a new conversation for a contact.
func (s *Service) CreateConversation(ctx context.Context, params CreateConversationParams) (*store.Conversation, error) {
	if params.ContactName == "" {
		return nil, fmt.Errorf("contact_name is required")
	}
	if !store.ValidChannel(params.Channel) {
		return nil, fmt.Errorf("unknown channel: %s", params.Channel)
	}

	now := time.Now()
	conv := &store.Conversation{
		ID:            uuid.New().String(),
		ContactName:   params.ContactName,
		ContactHandle: params.ContactHandle,
		Channel:       params.Channel,
		Status:        store.ConversationOpen,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.store.CreateConversation(ctx, conv); err != nil {
		return nil, fmt.Errorf("creating conversation: %w", err)
	}

	s.logger.Debug("conversation opened", "id", conv.ID, "channel", conv.Channel)
	return conv, nil
}

// GetConversation returns a conversation by ID.
func (s *Service) GetConversation(ctx context.Context, id string) (*store.Conversation, error) {
	return s.store.GetConversation(ctx, id)
}

// ListConversations returns conversations matching the filter.
func (s *Service) ListConversations(ctx context.Context, filter store.ConversationFilter) ([]*store.Conversation, error) {
	if filter.Status != "" && filter.Status != store.ConversationOpen && filter.Status != store.ConversationResolved {
		return nil, fmt.Errorf("unknown status: %s", filter.Status)
	}
	if filter.Channel != "" && !store.ValidChannel(filter.Channel) {
		return nil, fmt.Errorf("unknown channel: %s", filter.Channel)
	}
	return s.store.ListConversations(ctx, filter)
}

// UpdateStatus sets a conversation's status to open or resolved.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) error {
	if status != store.ConversationOpen && status != store.ConversationResolved {
		return fmt.Errorf("unknown status: %s", status)
	}
	return s.store.UpdateConversationStatus(ctx, id, status)
}

// Assign sets or clears a conversation's assignee.
func (s *Service) Assign(ctx context.Context, id, assigneeID string) error {
	return s.store.AssignConversation(ctx, id, assigneeID)
}

// SendMessage records an outbound message from a dashboard user.
// Record first, then act: the message is the source of truth, channel
// delivery is a downstream concern.
func (s *Service) SendMessage(ctx context.Context, conversationID, authorID, body string) (*store.Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("message body is required")
	}

	// Conversation must exist before we append to it
	if _, err := s.store.GetConversation(ctx, conversationID); err != nil {
		return nil, err
	}

	msg := &store.Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		Direction:      store.DirectionOutbound,
		AuthorID:       authorID,
		Body:           body,
		CreatedAt:      time.Now(),
	}

	if err := s.store.SaveMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("saving message: %w", err)
	}

	s.logger.Debug("message recorded",
		"conversation_id", conversationID,
		"message_id", msg.ID,
		"author_id", authorID,
	)
	return msg, nil
}

// ListMessages returns a conversation's messages in chronological order.
func (s *Service) ListMessages(ctx context.Context, conversationID string, limit int) ([]*store.Message, error) {
	if _, err := s.store.GetConversation(ctx, conversationID); err != nil {
		return nil, err
	}
	return s.store.ListMessages(ctx, conversationID, limit)
}

// TemplateParams are the inputs for creating or updating a template.
type TemplateParams struct {
	Name string
	Body string
}

// CreateTemplate stores a new broadcast template.
func (s *Service) CreateTemplate(ctx context.Context, params TemplateParams, createdBy string) (*store.BroadcastTemplate, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("template name is required")
	}
	if strings.TrimSpace(params.Body) == "" {
		return nil, fmt.Errorf("template body is required")
	}

	now := time.Now()
	tpl := &store.BroadcastTemplate{
		ID:        uuid.New().String(),
		Name:      params.Name,
		Body:      params.Body,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateTemplate(ctx, tpl); err != nil {
		return nil, fmt.Errorf("creating template: %w", err)
	}
	return tpl, nil
}

// GetTemplate returns a template by ID.
func (s *Service) GetTemplate(ctx context.Context, id string) (*store.BroadcastTemplate, error) {
	return s.store.GetTemplate(ctx, id)
}

// ListTemplates returns all templates.
func (s *Service) ListTemplates(ctx context.Context) ([]*store.BroadcastTemplate, error) {
	return s.store.ListTemplates(ctx)
}

// UpdateTemplate updates a template's name and body.
func (s *Service) UpdateTemplate(ctx context.Context, id string, params TemplateParams) (*store.BroadcastTemplate, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("template name is required")
	}
	if strings.TrimSpace(params.Body) == "" {
		return nil, fmt.Errorf("template body is required")
	}

	tpl, err := s.store.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}

	tpl.Name = params.Name
	tpl.Body = params.Body
	if err := s.store.UpdateTemplate(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

// DeleteTemplate removes a template.
func (s *Service) DeleteTemplate(ctx context.Context, id string) error {
	return s.store.DeleteTemplate(ctx, id)
}

// RenderTemplatePreview converts a template's markdown body to HTML for
// the dashboard preview pane.
func (s *Service) RenderTemplatePreview(ctx context.Context, id string) (string, error) {
	tpl, err := s.store.GetTemplate(ctx, id)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(tpl.Body), &buf); err != nil {
		return "", fmt.Errorf("rendering template markdown: %w", err)
	}
	return buf.String(), nil
}
