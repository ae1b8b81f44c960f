// ABOUTME: Store interface and data types for wakachat-server persistence
// ABOUTME: Defines User, Conversation, Message, BroadcastTemplate and the Store interface

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when trying to create a user with an email
// that is already taken (case-insensitive).
var ErrEmailExists = errors.New("email already exists")

// Role identifies what a user is allowed to do in the dashboard.
type Role string

// Role constants. Membership checks are exact: granting ADMIN does not
// implicitly grant SUPER_ADMIN or vice versa.
const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleSupervisor Role = "SUPERVISOR"
	RoleAgent      Role = "AGENT"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleSupervisor, RoleAgent:
		return true
	}
	return false
}

// User represents a dashboard user. PasswordHash is a bcrypt hash and must
// never be serialized into API responses; use PublicUser for that.
type User struct {
	ID           string
	Name         string
	Email        string // stored lowercase
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the externally visible projection of a User.
type PublicUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Public returns the projection of u without the password hash.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Channel constants for conversation origins
const (
	ChannelWhatsApp = "whatsapp"
	ChannelTelegram = "telegram"
	ChannelWebchat  = "webchat"
	ChannelEmail    = "email"
)

// ValidChannel reports whether c is a known messaging channel.
func ValidChannel(c string) bool {
	switch c {
	case ChannelWhatsApp, ChannelTelegram, ChannelWebchat, ChannelEmail:
		return true
	}
	return false
}

// Conversation status constants
const (
	ConversationOpen     = "open"
	ConversationResolved = "resolved"
)

// Conversation represents a contact's thread in the inbox.
type Conversation struct {
	ID            string
	ContactName   string
	ContactHandle string // phone number, telegram username, email address...
	Channel       string
	AssigneeID    string // user ID, empty when unassigned
	Status        string // "open" or "resolved"
	LastMessageAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Message direction constants
const (
	DirectionInbound  = "inbound"  // from the contact
	DirectionOutbound = "outbound" // from a dashboard user
)

// Message is a single message within a conversation.
type Message struct {
	ID             string
	ConversationID string
	Direction      string
	AuthorID       string // user ID for outbound, empty for inbound
	Body           string
	CreatedAt      time.Time
}

// BroadcastTemplate is a reusable markdown message body.
type BroadcastTemplate struct {
	ID        string
	Name      string
	Body      string // markdown
	CreatedBy string // user ID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ConversationFilter narrows ListConversations results.
// Zero values mean "no filter".
type ConversationFilter struct {
	Status     string
	Channel    string
	AssigneeID string
	Limit      int
}

// Store defines the interface for wakachat persistence
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	CountUsers(ctx context.Context) (int, error)
	DeleteUser(ctx context.Context, id string) error

	// Conversations
	CreateConversation(ctx context.Context, conv *Conversation) error
	GetConversation(ctx context.Context, id string) (*Conversation, error)
	ListConversations(ctx context.Context, filter ConversationFilter) ([]*Conversation, error)
	UpdateConversationStatus(ctx context.Context, id, status string) error
	AssignConversation(ctx context.Context, id, assigneeID string) error

	// Messages
	SaveMessage(ctx context.Context, msg *Message) error
	ListMessages(ctx context.Context, conversationID string, limit int) ([]*Message, error)

	// Broadcast templates
	CreateTemplate(ctx context.Context, tpl *BroadcastTemplate) error
	GetTemplate(ctx context.Context, id string) (*BroadcastTemplate, error)
	ListTemplates(ctx context.Context) ([]*BroadcastTemplate, error)
	UpdateTemplate(ctx context.Context, tpl *BroadcastTemplate) error
	DeleteTemplate(ctx context.Context, id string) error

	// Close releases any resources held by the store
	Close() error
}
