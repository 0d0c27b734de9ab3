package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lazypower/rememberme/internal/store"
)

type memories struct{ db *DB }

const memoryColumns = `id, person_name, relationship, memory_text, tags`

func scanMemory(s scanner) (*store.Memory, error) {
	var m store.Memory
	var tags string
	if err := s.Scan(&m.ID, &m.PersonName, &m.Relationship, &m.MemoryText, &tags); err != nil {
		return nil, err
	}
	list, err := decodeList(tags)
	if err != nil {
		return nil, err
	}
	m.Tags = list
	return &m, nil
}

func (r memories) Create(ctx context.Context, m *store.Memory) (*store.Memory, error) {
	out := *m
	out.ID = uuid.NewString()

	tags, err := encodeList(out.Tags)
	if err != nil {
		return nil, err
	}
	now := time.Now().UnixMilli()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO memories (id, person_name, relationship, memory_text, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, out.ID, out.PersonName, out.Relationship, out.MemoryText, tags, now, now)
	if err != nil {
		return nil, fmt.Errorf("insert memory: %w", err)
	}
	return &out, nil
}

func (r memories) Get(ctx context.Context, id string) (*store.Memory, error) {
	m, err := scanMemory(r.db.QueryRowContext(ctx,
		`SELECT `+memoryColumns+` FROM memories WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get memory: %w", err)
	}
	return m, nil
}

// List returns memories in insertion order, optionally for one person only.
func (r memories) List(ctx context.Context, f store.MemoryFilter) ([]store.Memory, error) {
	query := `SELECT ` + memoryColumns + ` FROM memories`
	var args []any
	if f.PersonName != "" {
		query += ` WHERE person_name = ?`
		args = append(args, f.PersonName)
	}
	query += ` ORDER BY rowid ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}
	defer rows.Close()

	out := []store.Memory{}
	for rows.Next() {
		m, err := scanMemory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan memory: %w", err)
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// Update applies p to the stored memory inside one transaction.
func (r memories) Update(ctx context.Context, id string, p store.MemoryPatch) (*store.Memory, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update memory: %w", err)
	}
	defer tx.Rollback()

	m, err := scanMemory(tx.QueryRowContext(ctx,
		`SELECT `+memoryColumns+` FROM memories WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load memory: %w", err)
	}

	p.Apply(m)
	tags, err := encodeList(m.Tags)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE memories SET person_name = ?, relationship = ?, memory_text = ?, tags = ?, updated_at = ?
		WHERE id = ?
	`, m.PersonName, m.Relationship, m.MemoryText, tags, time.Now().UnixMilli(), id); err != nil {
		return nil, fmt.Errorf("update memory: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update memory: %w", err)
	}
	return m, nil
}

func (r memories) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM memories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete memory: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Random picks one row in a single statement, so there is no window between
// counting and reading.
func (r memories) Random(ctx context.Context) (*store.Memory, error) {
	m, err := scanMemory(r.db.QueryRowContext(ctx,
		`SELECT `+memoryColumns+` FROM memories ORDER BY RANDOM() LIMIT 1`))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("random memory: %w", err)
	}
	return m, nil
}
