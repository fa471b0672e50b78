// Package navigator is the screen state machine behind the terminal
// interface. A State value names the active screen and carries its
// payload; Apply takes the current State and a Command and returns the
// next State, calling the note store where a transition demands it.
// Nothing here renders or reads keys, so every transition is testable
// against a fake store.
package navigator

import (
	"context"
	"errors"
	"strings"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/note"
)

// ConfirmToken is the exact text a user must type to confirm a
// deletion. Comparison trims surrounding whitespace but is
// case-sensitive.
const ConfirmToken = "YES"

// Store is the slice of the note service the navigator drives.
type Store interface {
	Create(ctx context.Context, title, content string) (note.Note, error)
	Get(ctx context.Context, id string) (note.Note, error)
	Update(ctx context.Context, id, title, content string) (note.Note, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]note.Note, error)
	Search(ctx context.Context, query string) ([]note.Note, error)
}

// State is one screen of the interface together with everything that
// screen needs to render. States are plain values; Apply never mutates
// its input.
type State struct {
	Screen Screen

	Notes []note.Note // rows on List and SearchResults
	Note  note.Note   // subject of Viewing, Editing and ConfirmingDelete
	Query string      // query that produced SearchResults
	Hint  string      // inline form validation notice
	Text  string      // body of Message and Error

	prev *State // where Cancel resumes a prompt
	next *State // where Acknowledge continues after a Message
}

// Navigator turns Commands into screen transitions.
type Navigator struct {
	store Store
}

func New(store Store) *Navigator {
	return &Navigator{store: store}
}

// Start returns the initial state: the note list, freshly loaded.
func (nav *Navigator) Start(ctx context.Context) State {
	return nav.refreshedList(ctx)
}

// Apply returns the state that follows cur when cmd arrives. Commands
// that make no sense on the current screen leave the state unchanged.
// Store failures never escape as errors; they become an Error state
// whose acknowledgment leads back to a refreshed list.
func (nav *Navigator) Apply(ctx context.Context, cur State, cmd Command) State {
	if q, ok := cmd.(Quit); ok {
		return applyQuit(cur, q)
	}

	switch cur.Screen {
	case ScreenList:
		return nav.applyList(ctx, cur, cmd)
	case ScreenViewing:
		return nav.applyViewing(ctx, cur, cmd)
	case ScreenCreating:
		return nav.applyCreating(ctx, cur, cmd)
	case ScreenEditing:
		return nav.applyEditing(ctx, cur, cmd)
	case ScreenSearching:
		return nav.applySearching(ctx, cur, cmd)
	case ScreenSearchResults:
		return nav.applySearchResults(ctx, cur, cmd)
	case ScreenConfirmingDelete:
		return nav.applyConfirmingDelete(ctx, cur, cmd)
	case ScreenConfirmingQuit:
		return nav.applyConfirmingQuit(ctx, cur, cmd)
	case ScreenMessage:
		return nav.applyMessage(ctx, cur, cmd)
	case ScreenError:
		return nav.applyError(ctx, cur, cmd)
	}
	return cur
}

func applyQuit(cur State, cmd Quit) State {
	if cmd.Dirty && (cur.Screen == ScreenCreating || cur.Screen == ScreenEditing) {
		return State{Screen: ScreenConfirmingQuit, prev: &cur}
	}
	return State{Screen: ScreenQuitting}
}

func (nav *Navigator) applyList(ctx context.Context, cur State, cmd Command) State {
	switch c := cmd.(type) {
	case Select:
		return nav.openNote(ctx, c.ID)
	case NewNote:
		return State{Screen: ScreenCreating}
	case Search:
		return State{Screen: ScreenSearching, prev: &cur}
	case Delete:
		return State{Screen: ScreenConfirmingDelete, Note: note.Note{ID: c.ID, Title: c.Title}, prev: &cur}
	case Refresh:
		return nav.refreshedList(ctx)
	}
	return cur
}

func (nav *Navigator) applyViewing(ctx context.Context, cur State, cmd Command) State {
	switch cmd.(type) {
	case Edit:
		return State{Screen: ScreenEditing, Note: cur.Note}
	case Back:
		return nav.refreshedList(ctx)
	}
	return cur
}

func (nav *Navigator) applyCreating(ctx context.Context, cur State, cmd Command) State {
	switch c := cmd.(type) {
	case SubmitNote:
		title := strings.TrimSpace(c.Title)
		if title == "" {
			cur.Hint = "title is required"
			return cur
		}
		if _, err := nav.store.Create(ctx, title, c.Content); err != nil {
			return errorState(err)
		}
		return nav.message(ctx, "note created")
	case Cancel:
		return nav.refreshedList(ctx)
	}
	return cur
}

func (nav *Navigator) applyEditing(ctx context.Context, cur State, cmd Command) State {
	switch c := cmd.(type) {
	case SubmitNote:
		title := strings.TrimSpace(c.Title)
		if title == "" {
			cur.Hint = "title is required"
			return cur
		}
		if _, err := nav.store.Update(ctx, cur.Note.ID, title, c.Content); err != nil {
			return errorState(err)
		}
		return nav.message(ctx, "note saved")
	case Cancel:
		return nav.refreshedList(ctx)
	}
	return cur
}

func (nav *Navigator) applySearching(ctx context.Context, cur State, cmd Command) State {
	switch c := cmd.(type) {
	case SubmitSearch:
		query := strings.TrimSpace(c.Query)
		if query == "" {
			return resume(cur)
		}
		hits, err := nav.store.Search(ctx, query)
		if err != nil {
			return errorState(err)
		}
		if len(hits) == 0 {
			return messageState("no matching notes", resume(cur))
		}
		return State{Screen: ScreenSearchResults, Notes: hits, Query: query}
	case Cancel:
		return resume(cur)
	}
	return cur
}

func (nav *Navigator) applySearchResults(ctx context.Context, cur State, cmd Command) State {
	switch c := cmd.(type) {
	case Select:
		return nav.openNote(ctx, c.ID)
	case Search:
		return State{Screen: ScreenSearching, prev: &cur}
	case Delete:
		return State{Screen: ScreenConfirmingDelete, Note: note.Note{ID: c.ID, Title: c.Title}, prev: &cur}
	case Back:
		return nav.refreshedList(ctx)
	case Refresh:
		hits, err := nav.store.Search(ctx, cur.Query)
		if err != nil {
			return errorState(err)
		}
		cur.Notes = hits
		return cur
	}
	return cur
}

func (nav *Navigator) applyConfirmingDelete(ctx context.Context, cur State, cmd Command) State {
	switch c := cmd.(type) {
	case ConfirmDelete:
		if strings.TrimSpace(c.Token) != ConfirmToken {
			return resume(cur)
		}
		if err := nav.store.Delete(ctx, cur.Note.ID); err != nil {
			return errorState(err)
		}
		return nav.message(ctx, "note deleted")
	case Cancel:
		return resume(cur)
	}
	return cur
}

func (nav *Navigator) applyConfirmingQuit(ctx context.Context, cur State, cmd Command) State {
	switch c := cmd.(type) {
	case ConfirmQuit:
		if c.Discard {
			return State{Screen: ScreenQuitting}
		}
		return resume(cur)
	case Cancel:
		return resume(cur)
	}
	return cur
}

func (nav *Navigator) applyMessage(ctx context.Context, cur State, cmd Command) State {
	if _, ok := cmd.(Acknowledge); ok {
		if cur.next != nil {
			return *cur.next
		}
		return nav.refreshedList(ctx)
	}
	return cur
}

func (nav *Navigator) applyError(ctx context.Context, cur State, cmd Command) State {
	if _, ok := cmd.(Acknowledge); ok {
		return nav.refreshedList(ctx)
	}
	return cur
}

// openNote re-reads the note by id so the view always shows what is on
// disk, not what a possibly stale list row remembers.
func (nav *Navigator) openNote(ctx context.Context, id string) State {
	n, err := nav.store.Get(ctx, id)
	if err != nil {
		return errorState(err)
	}
	return State{Screen: ScreenViewing, Note: n}
}

func (nav *Navigator) refreshedList(ctx context.Context) State {
	notes, err := nav.store.List(ctx)
	if err != nil {
		return errorState(err)
	}
	return State{Screen: ScreenList, Notes: notes}
}

// message shows text and continues to a refreshed list once
// acknowledged.
func (nav *Navigator) message(ctx context.Context, text string) State {
	return messageState(text, nav.refreshedList(ctx))
}

func messageState(text string, next State) State {
	return State{Screen: ScreenMessage, Text: text, next: &next}
}

// resume returns the state a prompt was opened from, untouched and
// without any store call.
func resume(cur State) State {
	if cur.prev != nil {
		return *cur.prev
	}
	return State{Screen: ScreenList}
}

func errorState(err error) State {
	return State{Screen: ScreenError, Text: describe(err)}
}

func describe(err error) string {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return "note not found"
	case errors.Is(err, apperr.ErrCorruptRecord):
		return "note record is corrupt"
	case errors.Is(err, apperr.ErrValidation):
		return "invalid note data"
	}
	return err.Error()
}
