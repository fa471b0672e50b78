package index

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/note"
)

// listSQL is shared by List and Search. Timestamps are stored in UTC,
// so the DATETIME text collates chronologically; the id tiebreak keeps
// rapid successive creations in a stable newest-first order (ids are
// time-ordered ULIDs).
const listSQL = `
	SELECT id, title, content, created_at, updated_at
	FROM notes
`

const listOrderSQL = ` ORDER BY created_at DESC, id DESC`

// Upsert inserts or replaces one note row.
func (db *DB) Upsert(n note.Note) error {
	_, err := db.conn.Exec(`
		INSERT INTO notes (id, title, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title      = excluded.title,
			content    = excluded.content,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`, n.ID, n.Title, n.Content, n.CreatedAt.UTC(), n.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("index: upsert note: %w", err)
	}
	return nil
}

// Delete removes a note row. Deleting an absent id is a no-op.
func (db *DB) Delete(id string) error {
	if _, err := db.conn.Exec(`DELETE FROM notes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("index: delete note: %w", err)
	}
	return nil
}

// Get returns one row by id.
func (db *DB) Get(id string) (note.Note, error) {
	row := db.conn.QueryRow(listSQL+` WHERE id = ?`, id)
	var n note.Note
	err := row.Scan(&n.ID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return note.Note{}, fmt.Errorf("index: get %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return note.Note{}, fmt.Errorf("index: get %s: %w", id, err)
	}
	return n, nil
}

// List returns every note, newest first.
func (db *DB) List() ([]note.Note, error) {
	rows, err := db.conn.Query(listSQL + listOrderSQL)
	if err != nil {
		return nil, fmt.Errorf("index: list: %w", err)
	}
	return collect(rows)
}

// Search returns the notes whose title or content contains q,
// case-insensitively, in List order. Case folding is SQLite's lower(),
// which only folds ASCII; non-ASCII letters match exactly.
func (db *DB) Search(q string) ([]note.Note, error) {
	rows, err := db.conn.Query(listSQL+`
		WHERE instr(lower(title), lower(?)) > 0
		   OR instr(lower(content), lower(?)) > 0
	`+listOrderSQL, q, q)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	return collect(rows)
}

// Stamps returns updated_at for every cataloged id. Sync and the
// watcher use it to detect changed and vanished records in one query.
func (db *DB) Stamps() (map[string]time.Time, error) {
	rows, err := db.conn.Query(`SELECT id, updated_at FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("index: stamps: %w", err)
	}
	defer rows.Close()
	out := make(map[string]time.Time)
	for rows.Next() {
		var id string
		var ts time.Time
		if err := rows.Scan(&id, &ts); err != nil {
			return nil, err
		}
		out[id] = ts
	}
	return out, rows.Err()
}

func collect(rows *sql.Rows) ([]note.Note, error) {
	defer rows.Close()
	var out []note.Note
	for rows.Next() {
		var n note.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
