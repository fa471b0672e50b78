package index

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/ansuz/internal/note"
	"github.com/starford/ansuz/internal/store"
)

// syncEnv sets up a notes dir, store, and DB for sync and watcher tests.
func syncEnv(t *testing.T) (string, *store.Store, *DB) {
	t.Helper()
	dir := t.TempDir()
	st, err := store.New(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, st, testDB(t)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func saved(t *testing.T, st *store.Store, id, title string) note.Note {
	t.Helper()
	now := time.Now().UTC()
	n := note.Note{ID: id, Title: title, Content: "body", CreatedAt: now, UpdatedAt: now}
	if err := st.Save(n); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return n
}

func TestSyncIndexesNewRecords(t *testing.T) {
	_, st, db := syncEnv(t)
	saved(t, st, "n1", "One")
	saved(t, st, "n2", "Two")

	if err := Sync(db, st, quietLogger()); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	notes, _ := db.List()
	if len(notes) != 2 {
		t.Errorf("indexed = %d, want 2", len(notes))
	}
}

func TestSyncRemovesStale(t *testing.T) {
	_, st, db := syncEnv(t)
	n := saved(t, st, "gone", "Soon gone")
	if err := Sync(db, st, quietLogger()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	if err := st.Remove(n.ID); err != nil {
		t.Fatal(err)
	}
	if err := Sync(db, st, quietLogger()); err != nil {
		t.Fatalf("second Sync: %v", err)
	}
	notes, _ := db.List()
	if len(notes) != 0 {
		t.Errorf("stale entry survived: %+v", notes)
	}
}

func TestSyncRefreshesChanged(t *testing.T) {
	_, st, db := syncEnv(t)
	n := saved(t, st, "ch", "Before")
	_ = Sync(db, st, quietLogger())

	n.Title = "After"
	n.UpdatedAt = n.UpdatedAt.Add(time.Minute)
	if err := st.Save(n); err != nil {
		t.Fatal(err)
	}
	if err := Sync(db, st, quietLogger()); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	got, err := db.Get("ch")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "After" {
		t.Errorf("title = %q, want After", got.Title)
	}
}

func TestSyncSkipsCorrupt(t *testing.T) {
	dir, st, db := syncEnv(t)
	saved(t, st, "ok", "Fine")
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{oops"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Sync(db, st, quietLogger()); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	notes, _ := db.List()
	if len(notes) != 1 || notes[0].ID != "ok" {
		t.Errorf("expected only the good record, got %+v", notes)
	}
}
