package index

import (
	"log/slog"

	"github.com/starford/ansuz/internal/store"
)

// Sync scans the notes directory and brings the catalog up to date:
//   - new and changed records are upserted
//   - ids with no record file are removed
//
// Corrupt record files are skipped with a warning so one bad file
// cannot take the whole catalog down.
func Sync(db *DB, st *store.Store, logger *slog.Logger) error {
	notes, err := st.Scan(func(id string, err error) {
		logger.Warn("sync: skipping record", slog.String("id", id), slog.String("error", err.Error()))
	})
	if err != nil {
		return err
	}

	stamps, err := db.Stamps()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(notes))
	for _, n := range notes {
		disk[n.ID] = struct{}{}

		if ts, ok := stamps[n.ID]; ok && ts.Equal(n.UpdatedAt) {
			continue
		}
		if err := db.Upsert(n); err != nil {
			logger.Warn("sync: index failed", slog.String("id", n.ID), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("id", n.ID))
		}
	}

	// Remove stale entries.
	for id := range stamps {
		if _, ok := disk[id]; !ok {
			if err := db.Delete(id); err != nil {
				logger.Warn("sync: delete failed", slog.String("id", id), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("id", id))
			}
		}
	}

	return nil
}
