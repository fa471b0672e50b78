// Package store persists notes as individual JSON records on disk.
// The directory of records is the source of truth; the SQLite catalog
// in internal/index is derived from it.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/note"
)

const recordExt = ".json"

// Store reads and writes note records in a single flat directory.
type Store struct {
	root string // absolute path to the notes directory
}

// New creates a Store rooted at the given directory.
// The directory must already exist.
func New(root string) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("store: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("store: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("store: root is not a directory: %s", abs)
	}
	return &Store{root: abs}, nil
}

// Root returns the absolute path of the notes directory.
func (s *Store) Root() string { return s.root }

// NewID returns a fresh note id: a ULID, time-ordered and safe to use
// as a file name.
func NewID() string {
	return ulid.Make().String()
}

// SafeID reports whether id can be used as a record file name.
// Imported records carry foreign ids, so anything that could name a
// file outside the notes directory is rejected.
func SafeID(id string) bool {
	if id == "" || len(id) > 128 || id[0] == '.' {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_' || c == '.':
		default:
			return false
		}
	}
	return true
}

// path resolves the record file for id, rejecting ids that are not
// usable as file names.
func (s *Store) path(id string) (string, error) {
	if !SafeID(id) {
		return "", fmt.Errorf("store: unsafe id %q: %w", id, apperr.ErrValidation)
	}
	return filepath.Join(s.root, id+recordExt), nil
}

// Save atomically writes the whole record: tmp file → fsync → rename.
// A crash mid-write leaves any existing record untouched.
func (s *Store) Save(n note.Note) error {
	abs, err := s.path(n.ID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(n, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal %s: %w", n.ID, err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(s.root, ".ansuz-tmp-*")
	if err != nil {
		return fmt.Errorf("store: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("store: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("store: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("store: rename: %w", err)
	}
	success = true
	return nil
}

// Load reads one record by id.
func (s *Store) Load(id string) (note.Note, error) {
	abs, err := s.path(id)
	if err != nil {
		return note.Note{}, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return note.Note{}, fmt.Errorf("store: load %s: %w", id, apperr.ErrNotFound)
		}
		return note.Note{}, fmt.Errorf("store: load %s: %w", id, err)
	}
	var n note.Note
	if err := json.Unmarshal(data, &n); err != nil {
		return note.Note{}, fmt.Errorf("store: decode %s: %w", id, apperr.ErrCorruptRecord)
	}
	// The file name is the storage key; an externally renamed record
	// keeps working under its new name.
	n.ID = id
	return n, nil
}

// Remove deletes a record.
func (s *Store) Remove(id string) error {
	abs, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("store: remove %s: %w", id, apperr.ErrNotFound)
		}
		return fmt.Errorf("store: remove %s: %w", id, err)
	}
	return nil
}

// Scan reads every record in the directory. Files that are not note
// records (foreign extensions, temp files, subdirectories) are ignored.
// Records that fail to decode are reported through bad and skipped;
// bad may be nil.
func (s *Store) Scan(bad func(id string, err error)) ([]note.Note, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("store: scan: %w", err)
	}
	var out []note.Note
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, recordExt) {
			continue
		}
		id := strings.TrimSuffix(name, recordExt)
		if !SafeID(id) {
			continue
		}
		n, err := s.Load(id)
		if err != nil {
			if bad != nil {
				bad(id, err)
			}
			continue
		}
		out = append(out, n)
	}
	return out, nil
}
