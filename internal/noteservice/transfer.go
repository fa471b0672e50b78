package noteservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/events"
	"github.com/starford/ansuz/internal/note"
	"github.com/starford/ansuz/internal/store"
)

// ImportResult counts what an import run did.
type ImportResult struct {
	Created int
	Updated int
	Skipped int
}

// Export writes every note to w as one pretty-printed JSON array,
// newest first.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	notes, err := s.List(ctx)
	if err != nil {
		return err
	}
	if notes == nil {
		notes = []note.Note{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(notes); err != nil {
		return fmt.Errorf("noteservice: export: %w", err)
	}
	return nil
}

// Import reads a JSON array of notes from r and upserts each record by
// id. An existing id keeps its stored created_at; a new id keeps the
// incoming timestamps. Records that fail validation are skipped and
// counted; a source that is not a JSON array of note records fails
// with ErrInvalidImportFormat.
func (s *Service) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	var res ImportResult

	var incoming []note.Note
	if err := json.NewDecoder(r).Decode(&incoming); err != nil {
		return res, fmt.Errorf("noteservice: import: %w", apperr.ErrInvalidImportFormat)
	}

	for _, in := range incoming {
		if err := validateImported(in); err != nil {
			res.Skipped++
			continue
		}

		existing, err := s.store.Load(in.ID)
		switch {
		case err == nil:
			existing.Title = in.Title
			existing.Content = in.Content
			existing.UpdatedAt = s.timestamp()
			if existing.CreatedAt.IsZero() {
				existing.CreatedAt = in.CreatedAt.UTC()
			}
			if existing.CreatedAt.IsZero() {
				existing.CreatedAt = existing.UpdatedAt
			}
			if err := s.saveIndexed(existing, events.KindUpdated); err != nil {
				return res, err
			}
			res.Updated++

		case errors.Is(err, apperr.ErrNotFound), errors.Is(err, apperr.ErrCorruptRecord):
			// A corrupt record is replaced wholesale; import is its
			// natural repair path.
			n := normalizeImported(in, s.timestamp())
			kind := events.KindCreated
			if errors.Is(err, apperr.ErrCorruptRecord) {
				kind = events.KindUpdated
			}
			if err := s.saveIndexed(n, kind); err != nil {
				return res, err
			}
			if kind == events.KindCreated {
				res.Created++
			} else {
				res.Updated++
			}

		default:
			return res, err
		}
	}

	return res, nil
}

// normalizeImported fills missing timestamps on a record headed for a
// new id and keeps created_at <= updated_at.
func normalizeImported(in note.Note, now time.Time) note.Note {
	n := in
	n.CreatedAt = n.CreatedAt.UTC()
	n.UpdatedAt = n.UpdatedAt.UTC()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	if n.UpdatedAt.IsZero() || n.UpdatedAt.Before(n.CreatedAt) {
		n.UpdatedAt = n.CreatedAt
	}
	return n
}

// validateImported checks one incoming record before it touches the store.
func validateImported(n note.Note) error {
	err := validation.ValidateStruct(&n,
		validation.Field(&n.ID, validation.Required, validation.By(func(interface{}) error {
			if !store.SafeID(n.ID) {
				return errors.New("unusable as a record name")
			}
			return nil
		})),
		validation.Field(&n.Title, validation.Required, validation.By(func(interface{}) error {
			if strings.TrimSpace(n.Title) == "" {
				return errors.New("blank")
			}
			return nil
		})),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	return nil
}
