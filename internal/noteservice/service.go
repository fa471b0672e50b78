// Package noteservice implements the note operations shared by the
// terminal UI, the CLI subcommands, and the MCP server.
package noteservice

import (
	"context"
	"time"

	"github.com/starford/ansuz/internal/events"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/note"
	"github.com/starford/ansuz/internal/store"
)

// Service coordinates the record store, the catalog, and the event bus.
// The store is the source of truth; the catalog serves ordered listing
// and search.
type Service struct {
	store *store.Store
	db    index.Catalog
	bus   *events.Bus

	now func() time.Time // swapped in tests
}

// NewService creates a new note service. bus may be nil; the CLI
// subcommands run without one.
func NewService(st *store.Store, db index.Catalog, bus *events.Bus) *Service {
	return &Service{store: st, db: db, bus: bus, now: time.Now}
}

// timestamp returns the current instant normalized to UTC, so the
// catalog's DATETIME text collates chronologically.
func (s *Service) timestamp() time.Time {
	return s.now().UTC()
}

func (s *Service) publish(kind, id string) {
	if s.bus != nil {
		s.bus.Publish(events.Event{Kind: kind, ID: id})
	}
}

// saveIndexed writes the record, catalogs it, and announces the change.
func (s *Service) saveIndexed(n note.Note, kind string) error {
	if err := s.store.Save(n); err != nil {
		return err
	}
	if err := s.db.Upsert(n); err != nil {
		return err
	}
	s.publish(kind, n.ID)
	return nil
}

// Create writes a new note under a fresh id. Both timestamps carry the
// same instant.
func (s *Service) Create(_ context.Context, title, content string) (note.Note, error) {
	now := s.timestamp()
	n := note.Note{
		ID:        store.NewID(),
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.saveIndexed(n, events.KindCreated); err != nil {
		return note.Note{}, err
	}
	return n, nil
}

// Get reads one note straight from the record store.
func (s *Service) Get(_ context.Context, id string) (note.Note, error) {
	return s.store.Load(id)
}

// Update replaces title and content, refreshing updated_at and keeping
// id and created_at.
func (s *Service) Update(_ context.Context, id, title, content string) (note.Note, error) {
	n, err := s.store.Load(id)
	if err != nil {
		return note.Note{}, err
	}
	n.Title = title
	n.Content = content
	n.UpdatedAt = s.timestamp()
	if err := s.saveIndexed(n, events.KindUpdated); err != nil {
		return note.Note{}, err
	}
	return n, nil
}

// Delete removes a note from the store and the catalog.
func (s *Service) Delete(_ context.Context, id string) error {
	if err := s.store.Remove(id); err != nil {
		return err
	}
	if err := s.db.Delete(id); err != nil {
		return err
	}
	s.publish(events.KindDeleted, id)
	return nil
}

// List returns every note, newest first.
func (s *Service) List(_ context.Context) ([]note.Note, error) {
	return s.db.List()
}

// Search returns the notes whose title or content contains q,
// case-insensitively, in List order.
func (s *Service) Search(_ context.Context, q string) ([]note.Note, error) {
	return s.db.Search(q)
}
