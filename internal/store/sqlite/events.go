package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lazypower/rememberme/internal/store"
)

type events struct{ db *DB }

// Create inserts a new event. The caller validates; createdAt defaults to now.
func (r events) Create(ctx context.Context, e *store.Event) (*store.Event, error) {
	out := *e
	out.ID = uuid.NewString()
	out.Date = out.Date.UTC().Truncate(time.Millisecond)
	if out.CreatedAt.IsZero() {
		out.CreatedAt = time.Now()
	}
	out.CreatedAt = out.CreatedAt.UTC().Truncate(time.Millisecond)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO events (id, name, date, description, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, out.ID, out.Name, out.Date.UnixMilli(), out.Description, out.CreatedAt.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return &out, nil
}

// List returns events on or after f.From, earliest first.
func (r events) List(ctx context.Context, f store.EventFilter) ([]store.Event, error) {
	query := `SELECT id, name, date, description, created_at FROM events`
	var args []any
	if !f.From.IsZero() {
		query += ` WHERE date >= ?`
		args = append(args, f.From.UnixMilli())
	}
	query += ` ORDER BY date ASC, rowid ASC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	out := []store.Event{}
	for rows.Next() {
		var e store.Event
		var date, created int64
		if err := rows.Scan(&e.ID, &e.Name, &date, &e.Description, &created); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Date = fromMillis(date)
		e.CreatedAt = fromMillis(created)
		out = append(out, e)
	}
	return out, rows.Err()
}
