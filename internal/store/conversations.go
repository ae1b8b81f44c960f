// ABOUTME: Conversation and message store methods for the SQLite store
// ABOUTME: Conversations track inbox threads; messages are append-only per conversation

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateConversation creates a new conversation.
func (s *SQLiteStore) CreateConversation(ctx context.Context, conv *Conversation) error {
	query := `
		INSERT INTO conversations (id, contact_name, contact_handle, channel, assignee_id, status, last_message_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var assignee sql.NullString
	if conv.AssigneeID != "" {
		assignee = sql.NullString{String: conv.AssigneeID, Valid: true}
	}

	var lastMessageAt sql.NullString
	if !conv.LastMessageAt.IsZero() {
		lastMessageAt = sql.NullString{String: conv.LastMessageAt.UTC().Format(time.RFC3339), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query,
		conv.ID,
		conv.ContactName,
		conv.ContactHandle,
		conv.Channel,
		assignee,
		conv.Status,
		lastMessageAt,
		conv.CreatedAt.UTC().Format(time.RFC3339),
		conv.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting conversation: %w", err)
	}

	s.logger.Debug("created conversation", "id", conv.ID, "channel", conv.Channel)
	return nil
}

// GetConversation retrieves a conversation by ID.
func (s *SQLiteStore) GetConversation(ctx context.Context, id string) (*Conversation, error) {
	query := `
		SELECT id, contact_name, contact_handle, channel, assignee_id, status, last_message_at, created_at, updated_at
		FROM conversations
		WHERE id = ?
	`

	conv, err := scanConversation(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying conversation: %w", err)
	}
	return conv, nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared scanning code.
type scanner interface {
	Scan(dest ...any) error
}

func scanConversation(row scanner) (*Conversation, error) {
	var conv Conversation
	var assignee, lastMessageAt sql.NullString
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&conv.ID,
		&conv.ContactName,
		&conv.ContactHandle,
		&conv.Channel,
		&assignee,
		&conv.Status,
		&lastMessageAt,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	conv.AssigneeID = assignee.String

	if lastMessageAt.Valid {
		conv.LastMessageAt, err = time.Parse(time.RFC3339, lastMessageAt.String)
		if err != nil {
			return nil, fmt.Errorf("parsing last_message_at: %w", err)
		}
	}

	conv.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	conv.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return &conv, nil
}

// ListConversations returns conversations matching the filter, most recently
// active first.
func (s *SQLiteStore) ListConversations(ctx context.Context, filter ConversationFilter) ([]*Conversation, error) {
	query := `
		SELECT id, contact_name, contact_handle, channel, assignee_id, status, last_message_at, created_at, updated_at
		FROM conversations
		WHERE 1=1
	`
	var args []any

	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.Channel != "" {
		query += " AND channel = ?"
		args = append(args, filter.Channel)
	}
	if filter.AssigneeID != "" {
		query += " AND assignee_id = ?"
		args = append(args, filter.AssigneeID)
	}

	query += " ORDER BY COALESCE(last_message_at, created_at) DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying conversations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var convs []*Conversation
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning conversation: %w", err)
		}
		convs = append(convs, conv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating conversations: %w", err)
	}

	return convs, nil
}

// UpdateConversationStatus sets a conversation's status.
func (s *SQLiteStore) UpdateConversationStatus(ctx context.Context, id, status string) error {
	query := `UPDATE conversations SET status = ?, updated_at = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, status, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("updating conversation status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// AssignConversation assigns a conversation to a user. An empty assigneeID
// clears the assignment.
func (s *SQLiteStore) AssignConversation(ctx context.Context, id, assigneeID string) error {
	query := `UPDATE conversations SET assignee_id = ?, updated_at = ? WHERE id = ?`

	var assignee sql.NullString
	if assigneeID != "" {
		assignee = sql.NullString{String: assigneeID, Valid: true}
	}

	result, err := s.db.ExecContext(ctx, query, assignee, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("assigning conversation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// SaveMessage appends a message to a conversation and bumps the
// conversation's last_message_at.
func (s *SQLiteStore) SaveMessage(ctx context.Context, msg *Message) error {
	query := `
		INSERT INTO messages (id, conversation_id, direction, author_id, body, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	var author sql.NullString
	if msg.AuthorID != "" {
		author = sql.NullString{String: msg.AuthorID, Valid: true}
	}

	createdAt := msg.CreatedAt.UTC().Format(time.RFC3339)

	_, err := s.db.ExecContext(ctx, query,
		msg.ID,
		msg.ConversationID,
		msg.Direction,
		author,
		msg.Body,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE conversations SET last_message_at = ?, updated_at = ? WHERE id = ?`,
		createdAt, createdAt, msg.ConversationID,
	)
	if err != nil {
		return fmt.Errorf("updating conversation activity: %w", err)
	}

	return nil
}

// ListMessages returns up to limit messages for a conversation in
// chronological order. A limit of 0 returns all messages.
func (s *SQLiteStore) ListMessages(ctx context.Context, conversationID string, limit int) ([]*Message, error) {
	query := `
		SELECT id, conversation_id, direction, author_id, body, created_at
		FROM messages
		WHERE conversation_id = ?
		ORDER BY created_at ASC
	`
	args := []any{conversationID}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var msgs []*Message
	for rows.Next() {
		var msg Message
		var author sql.NullString
		var createdAtStr string

		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Direction, &author, &msg.Body, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}

		msg.AuthorID = author.String
		msg.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		msgs = append(msgs, &msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating messages: %w", err)
	}

	return msgs, nil
}
