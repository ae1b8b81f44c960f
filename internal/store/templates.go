// ABOUTME: Broadcast template store methods for the SQLite store
// ABOUTME: Templates hold reusable markdown bodies authored by admins

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateTemplate creates a new broadcast template.
func (s *SQLiteStore) CreateTemplate(ctx context.Context, tpl *BroadcastTemplate) error {
	query := `
		INSERT INTO broadcast_templates (id, name, body, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		tpl.ID,
		tpl.Name,
		tpl.Body,
		tpl.CreatedBy,
		tpl.CreatedAt.UTC().Format(time.RFC3339),
		tpl.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting template: %w", err)
	}

	s.logger.Debug("created template", "id", tpl.ID, "name", tpl.Name)
	return nil
}

// GetTemplate retrieves a broadcast template by ID.
func (s *SQLiteStore) GetTemplate(ctx context.Context, id string) (*BroadcastTemplate, error) {
	query := `
		SELECT id, name, body, created_by, created_at, updated_at
		FROM broadcast_templates
		WHERE id = ?
	`

	var tpl BroadcastTemplate
	var createdAtStr, updatedAtStr string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&tpl.ID,
		&tpl.Name,
		&tpl.Body,
		&tpl.CreatedBy,
		&createdAtStr,
		&updatedAtStr,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying template: %w", err)
	}

	tpl.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	tpl.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return &tpl, nil
}

// ListTemplates returns all broadcast templates ordered by name.
func (s *SQLiteStore) ListTemplates(ctx context.Context) ([]*BroadcastTemplate, error) {
	query := `
		SELECT id, name, body, created_by, created_at, updated_at
		FROM broadcast_templates
		ORDER BY name ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying templates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tpls []*BroadcastTemplate
	for rows.Next() {
		var tpl BroadcastTemplate
		var createdAtStr, updatedAtStr string

		if err := rows.Scan(&tpl.ID, &tpl.Name, &tpl.Body, &tpl.CreatedBy, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning template: %w", err)
		}

		tpl.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		tpl.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing updated_at: %w", err)
		}
		tpls = append(tpls, &tpl)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating templates: %w", err)
	}

	return tpls, nil
}

// UpdateTemplate updates a template's name and body.
func (s *SQLiteStore) UpdateTemplate(ctx context.Context, tpl *BroadcastTemplate) error {
	query := `UPDATE broadcast_templates SET name = ?, body = ?, updated_at = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, tpl.Name, tpl.Body, time.Now().UTC().Format(time.RFC3339), tpl.ID)
	if err != nil {
		return fmt.Errorf("updating template: %w", err)
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

// DeleteTemplate deletes a broadcast template.
func (s *SQLiteStore) DeleteTemplate(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM broadcast_templates WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting template: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("deleted template", "id", id)
	return nil
}
