package sqlite

import (
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "events: dated calendar entries",
		SQL: `
CREATE TABLE events (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL CHECK (name <> ''),
    date        INTEGER NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_at  INTEGER NOT NULL
);

CREATE INDEX idx_events_date ON events(date);
`,
	},
	{
		Version:     2,
		Description: "family_members: family tree",
		SQL: `
CREATE TABLE family_members (
    id           TEXT PRIMARY KEY,
    person_name  TEXT NOT NULL CHECK (person_name <> ''),
    relationship TEXT NOT NULL CHECK (relationship <> ''),
    created_at   INTEGER NOT NULL
);
`,
	},
	{
		Version:     3,
		Description: "memories: remembered moments with tags",
		SQL: `
CREATE TABLE memories (
    id           TEXT PRIMARY KEY,
    person_name  TEXT NOT NULL CHECK (person_name <> ''),
    relationship TEXT NOT NULL CHECK (relationship <> ''),
    memory_text  TEXT NOT NULL CHECK (memory_text <> ''),
    tags         TEXT NOT NULL DEFAULT 'null',
    created_at   INTEGER NOT NULL,
    updated_at   INTEGER NOT NULL
);

CREATE INDEX idx_memories_person ON memories(person_name);
`,
	},
	{
		Version:     4,
		Description: "patient_info: singleton patient record",
		SQL: `
CREATE TABLE patient_info (
    key                 TEXT PRIMARY KEY CHECK (key = 'current'),
    name                TEXT NOT NULL CHECK (name <> ''),
    age                 INTEGER,
    favorite_activities TEXT NOT NULL DEFAULT 'null',
    notable_life_events TEXT NOT NULL DEFAULT 'null',
    hobbies             TEXT NOT NULL DEFAULT 'null',
    medical_notes       TEXT NOT NULL DEFAULT '',
    updated_at          INTEGER NOT NULL
);
`,
	},
}

func (db *DB) migrate() error {
	// Create schema_versions table if it doesn't exist
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_versions (
			version     INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  INTEGER NOT NULL DEFAULT (strftime('%s', 'now') * 1000)
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_versions WHERE version = ?", m.Version).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_versions (version, description) VALUES (?, ?)",
			m.Version, m.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

// SchemaVersion returns the current schema version.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_versions").Scan(&version)
	return version, err
}
