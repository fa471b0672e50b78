package index

import (
	"time"

	"github.com/starford/ansuz/internal/note"
)

// Catalog defines the interface for note catalog operations.
// Consumers should depend on this interface rather than the concrete
// *DB type to facilitate testing with mocks.
type Catalog interface {
	Upsert(n note.Note) error
	Delete(id string) error
	Get(id string) (note.Note, error)
	List() ([]note.Note, error)
	Search(q string) ([]note.Note, error)
	Stamps() (map[string]time.Time, error)
	Close() error
}

// Verify *DB satisfies Catalog at compile time.
var _ Catalog = (*DB)(nil)
