package catalog

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS word_groups (
	id   INTEGER PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS entries (
	group_id INTEGER NOT NULL REFERENCES word_groups(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	word     TEXT NOT NULL,
	synonym  TEXT NOT NULL DEFAULT '',
	sentence TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (group_id, position)
);
`

// Store keeps a catalog in a SQLite database
type Store struct {
	db *sql.DB
}

// OpenStore opens (and if needed creates) a SQLite catalog
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create catalog schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Import replaces groups with the same ids and inserts new ones
func (s *Store) Import(groups []Group) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, g := range groups {
		if _, err := tx.Exec(`DELETE FROM entries WHERE group_id = ?`, g.ID); err != nil {
			return fmt.Errorf("failed to clear group %d: %w", g.ID, err)
		}
		if _, err := tx.Exec(`INSERT INTO word_groups (id, name) VALUES (?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name`, g.ID, g.Name); err != nil {
			return fmt.Errorf("failed to insert group %d: %w", g.ID, err)
		}

		stmt, err := tx.Prepare(`INSERT INTO entries (group_id, position, word, synonym, sentence) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare entry insert: %w", err)
		}
		for i, e := range g.Entries {
			if _, err := stmt.Exec(g.ID, i, e.Word, e.Synonym, e.Sentence); err != nil {
				stmt.Close()
				return fmt.Errorf("failed to insert entry %q: %w", e.Word, err)
			}
		}
		stmt.Close()
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog import: %w", err)
	}
	return nil
}

// Groups loads all groups ordered by id, entries ordered by position
func (s *Store) Groups() ([]Group, error) {
	rows, err := s.db.Query(`SELECT id, name FROM word_groups ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}

	var groups []Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range groups {
		entries, err := s.entries(groups[i].ID)
		if err != nil {
			return nil, err
		}
		groups[i].Entries = entries
	}

	return groups, nil
}

func (s *Store) entries(groupID int) ([]WordEntry, error) {
	rows, err := s.db.Query(`SELECT word, synonym, sentence FROM entries WHERE group_id = ? ORDER BY position`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []WordEntry
	for rows.Next() {
		var e WordEntry
		if err := rows.Scan(&e.Word, &e.Synonym, &e.Sentence); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
