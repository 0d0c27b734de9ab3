package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lazypower/rememberme/internal/store"
)

type family struct{ db *DB }

func (r family) Create(ctx context.Context, m *store.FamilyMember) (*store.FamilyMember, error) {
	out := *m
	out.ID = uuid.NewString()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO family_members (id, person_name, relationship, created_at)
		VALUES (?, ?, ?, ?)
	`, out.ID, out.PersonName, out.Relationship, time.Now().UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("insert family member: %w", err)
	}
	return &out, nil
}

// List returns family members in insertion order.
func (r family) List(ctx context.Context) ([]store.FamilyMember, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, person_name, relationship FROM family_members ORDER BY rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list family members: %w", err)
	}
	defer rows.Close()

	out := []store.FamilyMember{}
	for rows.Next() {
		var m store.FamilyMember
		if err := rows.Scan(&m.ID, &m.PersonName, &m.Relationship); err != nil {
			return nil, fmt.Errorf("scan family member: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
