package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveDefaults(t *testing.T) {
	p, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if filepath.Base(p.Root) != "ansuz" {
		t.Errorf("root = %q, want .../ansuz", p.Root)
	}
	if p.NotesDir != filepath.Join(p.Root, "notes") {
		t.Errorf("notes dir = %q, want under root", p.NotesDir)
	}
	if filepath.Dir(p.DBFile) != p.Root || filepath.Dir(p.LogFile) != p.Root {
		t.Error("db and log files should live in the root dir")
	}
}

func TestResolveNotesDirOverride(t *testing.T) {
	dir := t.TempDir()
	p, err := Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.NotesDir != dir {
		t.Errorf("notes dir = %q, want %q", p.NotesDir, dir)
	}
	if filepath.Base(p.Root) != "ansuz" {
		t.Error("override should not move the root dir")
	}
}

func TestEnsureDirs(t *testing.T) {
	base := t.TempDir()
	p := Paths{
		Root:     filepath.Join(base, "ansuz"),
		NotesDir: filepath.Join(base, "ansuz", "notes"),
	}
	if err := p.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs: %v", err)
	}
	info, err := os.Stat(p.NotesDir)
	if err != nil || !info.IsDir() {
		t.Errorf("notes dir not created: %v", err)
	}
	// Second call is a no-op.
	if err := p.EnsureDirs(); err != nil {
		t.Errorf("EnsureDirs twice: %v", err)
	}
}
