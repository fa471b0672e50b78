package index

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/ansuz/internal/store"
)

// EventCallback is called after a watcher-driven catalog change.
// kind is one of "created", "updated", "deleted".
type EventCallback func(kind, id string)

// Watch starts an fsnotify watcher on the notes directory and
// processes file change events until ctx is cancelled. It calls cb
// (if non-nil) after each successful catalog mutation. The directory
// is flat, so only the root is watched.
//
// Rename events fire on the OLD name only; the entry is dropped
// immediately and a short reconciliation pass picks up whatever the
// rename produced.
func Watch(ctx context.Context, db *DB, st *store.Store, dir string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("dir", dir))

	// reconcileTimer debounces rename reconciliation.
	var reconcileTimer *time.Timer
	var reconcileCh <-chan time.Time

	scheduleReconcile := func() {
		if reconcileTimer == nil {
			reconcileTimer = time.NewTimer(200 * time.Millisecond)
			reconcileCh = reconcileTimer.C
		} else {
			reconcileTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reconcileTimer != nil {
				reconcileTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reconcileCh:
			reconcile(db, st, logger, cb)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			id, ok := recordID(ev.Name)
			if !ok {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				n, loadErr := st.Load(id)
				if loadErr != nil {
					logger.Warn("watcher: load failed", slog.String("id", id), slog.String("error", loadErr.Error()))
					continue
				}
				if idxErr := db.Upsert(n); idxErr != nil {
					logger.Warn("watcher: index failed", slog.String("id", id), slog.String("error", idxErr.Error()))
					continue
				}
				kind := "updated"
				if ev.Op&fsnotify.Create != 0 {
					kind = "created"
				}
				logger.Debug("watcher: indexed", slog.String("id", id), slog.String("op", kind))
				if cb != nil {
					cb(kind, id)
				}

			case ev.Op&fsnotify.Remove != 0:
				if delErr := db.Delete(id); delErr != nil {
					logger.Warn("watcher: delete failed", slog.String("id", id), slog.String("error", delErr.Error()))
					continue
				}
				logger.Debug("watcher: deleted", slog.String("id", id))
				if cb != nil {
					cb("deleted", id)
				}

			case ev.Op&fsnotify.Rename != 0:
				if delErr := db.Delete(id); delErr != nil {
					logger.Warn("watcher: rename delete failed", slog.String("id", id), slog.String("error", delErr.Error()))
				} else {
					logger.Debug("watcher: rename old deleted", slog.String("id", id))
					if cb != nil {
						cb("deleted", id)
					}
				}
				scheduleReconcile()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// recordID extracts a note id from an event path. It returns false for
// anything that is not a record file, temp files included.
func recordID(path string) (string, bool) {
	name := filepath.Base(path)
	if !strings.HasSuffix(name, ".json") {
		return "", false
	}
	id := strings.TrimSuffix(name, ".json")
	if !store.SafeID(id) {
		return "", false
	}
	return id, true
}

// reconcile removes catalog entries whose files are gone and indexes
// records the event stream missed.
func reconcile(db *DB, st *store.Store, logger *slog.Logger, cb EventCallback) {
	stamps, err := db.Stamps()
	if err != nil {
		logger.Warn("reconcile: stamps failed", slog.String("error", err.Error()))
		return
	}

	notes, err := st.Scan(nil)
	if err != nil {
		logger.Warn("reconcile: scan failed", slog.String("error", err.Error()))
		return
	}

	disk := make(map[string]struct{}, len(notes))
	for _, n := range notes {
		disk[n.ID] = struct{}{}
	}

	for id := range stamps {
		if _, ok := disk[id]; !ok {
			if delErr := db.Delete(id); delErr == nil {
				logger.Debug("reconcile: removed stale", slog.String("id", id))
				if cb != nil {
					cb("deleted", id)
				}
			}
		}
	}

	for _, n := range notes {
		ts, known := stamps[n.ID]
		if known && ts.Equal(n.UpdatedAt) {
			continue
		}
		if idxErr := db.Upsert(n); idxErr != nil {
			continue
		}
		kind := "updated"
		if !known {
			kind = "created"
		}
		logger.Debug("reconcile: indexed", slog.String("id", n.ID), slog.String("op", kind))
		if cb != nil {
			cb(kind, n.ID)
		}
	}
}
