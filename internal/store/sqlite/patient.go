package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lazypower/rememberme/internal/store"
)

type patient struct{ db *DB }

func (r patient) Get(ctx context.Context) (*store.PatientInfo, error) {
	var (
		p                         store.PatientInfo
		age                       sql.NullInt64
		activities, events, hobby string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT key, name, age, favorite_activities, notable_life_events, hobbies, medical_notes
		FROM patient_info WHERE key = ?
	`, store.PatientKey).Scan(&p.ID, &p.Name, &age, &activities, &events, &hobby, &p.MedicalNotes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get patient info: %w", err)
	}

	if age.Valid {
		v := int(age.Int64)
		p.Age = &v
	}
	if p.FavoriteActivities, err = decodeList(activities); err != nil {
		return nil, err
	}
	if p.NotableLifeEvents, err = decodeList(events); err != nil {
		return nil, err
	}
	if p.Hobbies, err = decodeList(hobby); err != nil {
		return nil, err
	}
	return &p, nil
}

// Save replaces every column of the singleton row.
func (r patient) Save(ctx context.Context, p *store.PatientInfo) (*store.PatientInfo, bool, error) {
	out := *p
	out.ID = store.PatientKey

	activities, err := encodeList(out.FavoriteActivities)
	if err != nil {
		return nil, false, err
	}
	events, err := encodeList(out.NotableLifeEvents)
	if err != nil {
		return nil, false, err
	}
	hobbies, err := encodeList(out.Hobbies)
	if err != nil {
		return nil, false, err
	}
	var age any
	if out.Age != nil {
		age = *out.Age
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("begin save patient info: %w", err)
	}
	defer tx.Rollback()

	var existing int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM patient_info WHERE key = ?`, store.PatientKey).Scan(&existing); err != nil {
		return nil, false, fmt.Errorf("check patient info: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO patient_info (key, name, age, favorite_activities, notable_life_events, hobbies, medical_notes, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			name = excluded.name,
			age = excluded.age,
			favorite_activities = excluded.favorite_activities,
			notable_life_events = excluded.notable_life_events,
			hobbies = excluded.hobbies,
			medical_notes = excluded.medical_notes,
			updated_at = excluded.updated_at
	`, out.ID, out.Name, age, activities, events, hobbies, out.MedicalNotes, time.Now().UnixMilli())
	if err != nil {
		return nil, false, fmt.Errorf("upsert patient info: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit patient info: %w", err)
	}
	return &out, existing == 0, nil
}
