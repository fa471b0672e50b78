package navigator

// Screen names the interaction mode a State is in.
type Screen int

const (
	ScreenList Screen = iota
	ScreenViewing
	ScreenCreating
	ScreenEditing
	ScreenSearching
	ScreenSearchResults
	ScreenConfirmingDelete
	ScreenConfirmingQuit
	ScreenMessage
	ScreenError
	ScreenQuitting
)

func (s Screen) String() string {
	switch s {
	case ScreenList:
		return "list"
	case ScreenViewing:
		return "viewing"
	case ScreenCreating:
		return "creating"
	case ScreenEditing:
		return "editing"
	case ScreenSearching:
		return "searching"
	case ScreenSearchResults:
		return "search results"
	case ScreenConfirmingDelete:
		return "confirm delete"
	case ScreenConfirmingQuit:
		return "confirm quit"
	case ScreenMessage:
		return "message"
	case ScreenError:
		return "error"
	case ScreenQuitting:
		return "quitting"
	}
	return "unknown"
}
