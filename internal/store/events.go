// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Event levels.
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories.
const (
	EventCategoryAuth    = "auth"
	EventCategoryContent = "content"
	EventCategoryUser    = "user"
	EventCategoryConfig  = "config"
	EventCategoryCache   = "cache"
	EventCategorySystem  = "system"
)

// Event is one audit log entry.
type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	UserID    string
	UserEmail string
	IP        string
	Path      string
	UserAgent string
	Metadata  string
	CreatedAt time.Time
}

// CreateEventParams holds the fields for a new event.
type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	UserID    string
	UserEmail string
	IP        string
	Path      string
	UserAgent string
	Metadata  string
	CreatedAt time.Time
}

// EventFilter narrows ListEvents results.
type EventFilter struct {
	Level    string
	Category string
	Limit    int
	Offset   int
}

// Events provides access to the audit event log.
type Events struct {
	db *sql.DB
}

// NewEvents creates an event store.
func NewEvents(db *sql.DB) *Events {
	return &Events{db: db}
}

// Create inserts a new event.
func (e *Events) Create(ctx context.Context, p CreateEventParams) error {
	if p.Category == "" {
		p.Category = EventCategorySystem
	}
	if p.Metadata == "" {
		p.Metadata = "{}"
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	_, err := e.db.ExecContext(ctx, `
		INSERT INTO events (level, category, message, user_id, user_email, ip, path, user_agent, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Level, p.Category, p.Message, p.UserID, p.UserEmail, p.IP, p.Path, p.UserAgent, p.Metadata, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	return nil
}

// List returns events matching the filter, newest first.
func (e *Events) List(ctx context.Context, f EventFilter) ([]Event, error) {
	query := `SELECT id, level, category, message, user_id, user_email, ip, path, user_agent, metadata, created_at
		FROM events WHERE 1=1`
	var args []any

	if f.Level != "" {
		query += " AND level = ?"
		args = append(args, f.Level)
	}
	if f.Category != "" {
		query += " AND category = ?"
		args = append(args, f.Category)
	}

	query += " ORDER BY created_at DESC, id DESC"

	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = 50
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, f.Limit, f.Offset)

	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.Level, &ev.Category, &ev.Message, &ev.UserID,
			&ev.UserEmail, &ev.IP, &ev.Path, &ev.UserAgent, &ev.Metadata, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Count returns the number of events matching the filter.
func (e *Events) Count(ctx context.Context, f EventFilter) (int64, error) {
	query := `SELECT COUNT(*) FROM events WHERE 1=1`
	var args []any

	if f.Level != "" {
		query += " AND level = ?"
		args = append(args, f.Level)
	}
	if f.Category != "" {
		query += " AND category = ?"
		args = append(args, f.Category)
	}

	var count int64
	if err := e.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting events: %w", err)
	}
	return count, nil
}

// Prune deletes events older than the cutoff. Returns the number of
// rows removed.
func (e *Events) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := e.db.ExecContext(ctx, `DELETE FROM events WHERE created_at < ?`, olderThan)
	if err != nil {
		return 0, fmt.Errorf("pruning events: %w", err)
	}
	return res.RowsAffected()
}
