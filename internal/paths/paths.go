// Package paths resolves the per-user files and directories used by Ansuz.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths holds every filesystem location the application touches.
type Paths struct {
	Root     string // application data directory
	NotesDir string // one JSON record per note
	DBFile   string // SQLite catalog
	LogFile  string // runtime log; the terminal belongs to the UI
}

// Resolve returns the conventional per-user paths, rooted at the OS
// application-data directory (~/.config on Linux, AppData on Windows,
// Application Support on macOS). A non-empty notesDir overrides the
// default notes directory.
func Resolve(notesDir string) (Paths, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("paths: user config dir: %w", err)
	}
	root := filepath.Join(base, "ansuz")
	p := Paths{
		Root:     root,
		NotesDir: filepath.Join(root, "notes"),
		DBFile:   filepath.Join(root, "ansuz.db"),
		LogFile:  filepath.Join(root, "ansuz.log"),
	}
	if notesDir != "" {
		abs, err := filepath.Abs(notesDir)
		if err != nil {
			return Paths{}, fmt.Errorf("paths: resolve notes dir: %w", err)
		}
		p.NotesDir = abs
	}
	return p, nil
}

// EnsureDirs creates the root and notes directories if missing.
func (p Paths) EnsureDirs() error {
	for _, dir := range []string{p.Root, p.NotesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("paths: create %s: %w", dir, err)
		}
	}
	return nil
}
