package navigator

// Command is a logical user action, decoupled from key bindings. The
// terminal layer translates key presses into Commands; Apply decides
// what each one means on the current screen.
type Command interface {
	isCommand()
}

// Select opens the note with the given id from a list row.
type Select struct{ ID string }

// NewNote opens an empty note form.
type NewNote struct{}

// Edit opens the form seeded with the note currently on screen.
type Edit struct{}

// Search opens the query prompt.
type Search struct{}

// SubmitSearch submits the typed query.
type SubmitSearch struct{ Query string }

// SubmitNote submits the note form.
type SubmitNote struct{ Title, Content string }

// Delete asks for confirmation before removing the selected note.
type Delete struct{ ID, Title string }

// ConfirmDelete submits the typed confirmation token.
type ConfirmDelete struct{ Token string }

// Cancel abandons the current prompt or form.
type Cancel struct{}

// Back leaves the current screen without changing anything.
type Back struct{}

// Acknowledge dismisses a message or error overlay.
type Acknowledge struct{}

// Quit asks to leave the program. Dirty marks an unsaved form so the
// user is asked before their input is discarded.
type Quit struct{ Dirty bool }

// ConfirmQuit answers the unsaved-form prompt.
type ConfirmQuit struct{ Discard bool }

// Refresh reloads the rows on screen after an external change.
type Refresh struct{}

func (Select) isCommand()        {}
func (NewNote) isCommand()       {}
func (Edit) isCommand()          {}
func (Search) isCommand()        {}
func (SubmitSearch) isCommand()  {}
func (SubmitNote) isCommand()    {}
func (Delete) isCommand()        {}
func (ConfirmDelete) isCommand() {}
func (Cancel) isCommand()        {}
func (Back) isCommand()          {}
func (Acknowledge) isCommand()   {}
func (Quit) isCommand()          {}
func (ConfirmQuit) isCommand()   {}
func (Refresh) isCommand()       {}
