// Package app renders the note screens in the terminal. All screen
// logic lives in the navigator; this package translates key presses
// into navigator commands and draws whatever state comes back.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/starford/ansuz/internal/events"
	"github.com/starford/ansuz/internal/note"
	"github.com/starford/ansuz/internal/ui/navigator"
)

// messageTimeout is how long a transient notice stays on screen before
// it dismisses itself.
const messageTimeout = 1500 * time.Millisecond

type noteItem struct {
	n note.Note
}

func (i noteItem) Title() string       { return i.n.Title }
func (i noteItem) Description() string { return i.n.UpdatedAt.Local().Format("2006-01-02 15:04") }
func (i noteItem) FilterValue() string { return i.n.Title }

// eventMsg carries a change published on the event bus into the
// program loop.
type eventMsg events.Event

// ackMsg auto-dismisses the notice it was scheduled for. The sequence
// number keeps a late tick from dismissing a newer notice.
type ackMsg struct{ seq int }

type Model struct {
	ctx     context.Context
	nav     *navigator.Navigator
	state   navigator.State
	changes chan events.Event

	width  int
	height int

	list  list.Model
	view  viewport.Model
	title textinput.Model
	body  textarea.Model
	query textinput.Model
	token textinput.Model

	help   help.Model
	keys   KeyMap
	styles Styles

	msgSeq int
}

func New(ctx context.Context, nav *navigator.Navigator, bus *events.Bus, theme Theme) Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	// Quitting goes through the navigator, never the widget.
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)

	title := textinput.New()
	title.Placeholder = "Note title"
	title.CharLimit = 200

	body := textarea.New()
	body.Placeholder = "Write your note..."
	body.Prompt = ""
	body.CharLimit = 0

	query := textinput.New()
	query.Placeholder = "Search notes"

	token := textinput.New()
	token.Placeholder = navigator.ConfirmToken
	token.CharLimit = 16
	token.Width = 12

	h := help.New()

	m := Model{
		ctx:    ctx,
		nav:    nav,
		list:   l,
		view:   viewport.New(0, 0),
		title:  title,
		body:   body,
		query:  query,
		token:  token,
		help:   h,
		keys:   DefaultKeyMap(),
		styles: NewStyles(theme),
	}
	if bus != nil {
		m.changes = bus.Subscribe()
	}

	m.state = nav.Start(ctx)
	m.syncState()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.listenForChanges())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case eventMsg:
		var selected string
		if n, ok := m.selectedNote(); ok {
			selected = n.ID
		}
		cmd := m.apply(navigator.Refresh{})
		if selected != "" {
			m.reselect(selected)
		}
		return m, tea.Batch(cmd, m.listenForChanges())

	case ackMsg:
		if msg.seq == m.msgSeq && m.state.Screen == navigator.ScreenMessage {
			return m, m.apply(navigator.Acknowledge{})
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, m.apply(navigator.Quit{Dirty: m.formDirty()})
		}

		switch m.state.Screen {
		case navigator.ScreenList:
			return m.updateList(msg)
		case navigator.ScreenViewing:
			return m.updateViewing(msg)
		case navigator.ScreenCreating, navigator.ScreenEditing:
			return m.updateForm(msg)
		case navigator.ScreenSearching:
			return m.updateSearching(msg)
		case navigator.ScreenSearchResults:
			return m.updateResults(msg)
		case navigator.ScreenConfirmingDelete:
			return m.updateConfirmDelete(msg)
		case navigator.ScreenConfirmingQuit:
			return m.updateConfirmQuit(msg)
		case navigator.ScreenMessage, navigator.ScreenError:
			return m, m.apply(navigator.Acknowledge{})
		}
		return m, nil
	}

	return m, nil
}

// ---------- per-screen key handling ----------

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.apply(navigator.Quit{})

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.New):
		m.clearForm()
		return m, m.apply(navigator.NewNote{})

	case key.Matches(msg, m.keys.Search):
		m.query.Reset()
		m.query.Focus()
		return m, m.apply(navigator.Search{})

	case key.Matches(msg, m.keys.Open):
		if n, ok := m.selectedNote(); ok {
			return m, m.apply(navigator.Select{ID: n.ID})
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if n, ok := m.selectedNote(); ok {
			m.token.Reset()
			m.token.Focus()
			return m, m.apply(navigator.Delete{ID: n.ID, Title: n.Title})
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateViewing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.apply(navigator.Quit{})

	case key.Matches(msg, m.keys.Edit):
		m.seedForm(m.state.Note)
		return m, m.apply(navigator.Edit{})

	case key.Matches(msg, m.keys.Back):
		return m, m.apply(navigator.Back{})
	}

	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m, m.apply(navigator.SubmitNote{Title: m.title.Value(), Content: m.body.Value()})

	case key.Matches(msg, m.keys.Cancel):
		return m, m.apply(navigator.Cancel{})

	case key.Matches(msg, m.keys.FocusNext):
		m.toggleFormFocus()
		return m, nil
	}

	// Enter in the title field moves on to the content instead of
	// submitting.
	if key.Matches(msg, m.keys.Confirm) && m.title.Focused() {
		m.toggleFormFocus()
		return m, nil
	}

	var cmd tea.Cmd
	if m.title.Focused() {
		m.title, cmd = m.title.Update(msg)
	} else {
		m.body, cmd = m.body.Update(msg)
	}
	return m, cmd
}

func (m Model) updateSearching(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		return m, m.apply(navigator.SubmitSearch{Query: m.query.Value()})

	case key.Matches(msg, m.keys.Cancel):
		return m, m.apply(navigator.Cancel{})
	}

	var cmd tea.Cmd
	m.query, cmd = m.query.Update(msg)
	return m, cmd
}

func (m Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.apply(navigator.Quit{})

	case key.Matches(msg, m.keys.Search):
		m.query.Reset()
		m.query.Focus()
		return m, m.apply(navigator.Search{})

	case key.Matches(msg, m.keys.Open):
		if n, ok := m.selectedNote(); ok {
			return m, m.apply(navigator.Select{ID: n.ID})
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if n, ok := m.selectedNote(); ok {
			m.token.Reset()
			m.token.Focus()
			return m, m.apply(navigator.Delete{ID: n.ID, Title: n.Title})
		}
		return m, nil

	case key.Matches(msg, m.keys.Back):
		return m, m.apply(navigator.Back{})
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		return m, m.apply(navigator.ConfirmDelete{Token: m.token.Value()})

	case key.Matches(msg, m.keys.Cancel):
		return m, m.apply(navigator.Cancel{})
	}

	var cmd tea.Cmd
	m.token, cmd = m.token.Update(msg)
	return m, cmd
}

func (m Model) updateConfirmQuit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		return m, m.apply(navigator.ConfirmQuit{Discard: true})
	case "n", "N", "esc":
		return m, m.apply(navigator.ConfirmQuit{Discard: false})
	}
	return m, nil
}

// ---------- state plumbing ----------

// apply routes a command through the navigator and adopts whatever
// state comes back.
func (m *Model) apply(cmd navigator.Command) tea.Cmd {
	m.state = m.nav.Apply(m.ctx, m.state, cmd)
	return m.syncState()
}

func (m *Model) syncState() tea.Cmd {
	switch m.state.Screen {
	case navigator.ScreenQuitting:
		return tea.Quit

	case navigator.ScreenList, navigator.ScreenSearchResults:
		m.setRows(m.state.Notes)

	case navigator.ScreenViewing:
		m.view.SetContent(m.state.Note.Content)
		m.view.GotoTop()

	case navigator.ScreenMessage:
		m.msgSeq++
		seq := m.msgSeq
		return tea.Tick(messageTimeout, func(time.Time) tea.Msg {
			return ackMsg{seq: seq}
		})
	}
	return nil
}

func (m *Model) setRows(notes []note.Note) {
	items := make([]list.Item, 0, len(notes))
	for _, n := range notes {
		items = append(items, noteItem{n: n})
	}
	m.list.SetItems(items)
}

func (m *Model) selectedNote() (note.Note, bool) {
	it, ok := m.list.SelectedItem().(noteItem)
	if !ok {
		return note.Note{}, false
	}
	return it.n, true
}

func (m *Model) reselect(id string) {
	for i, it := range m.list.Items() {
		if n, ok := it.(noteItem); ok && n.n.ID == id {
			m.list.Select(i)
			return
		}
	}
}

func (m *Model) clearForm() {
	m.title.Reset()
	m.body.Reset()
	m.body.Blur()
	m.title.Focus()
}

func (m *Model) seedForm(n note.Note) {
	m.title.SetValue(n.Title)
	m.body.SetValue(n.Content)
	m.body.Blur()
	m.title.Focus()
}

func (m *Model) toggleFormFocus() {
	if m.title.Focused() {
		m.title.Blur()
		m.body.Focus()
	} else {
		m.body.Blur()
		m.title.Focus()
	}
}

func (m *Model) formDirty() bool {
	switch m.state.Screen {
	case navigator.ScreenCreating:
		return m.title.Value() != "" || m.body.Value() != ""
	case navigator.ScreenEditing:
		return m.title.Value() != m.state.Note.Title || m.body.Value() != m.state.Note.Content
	}
	return false
}

func (m Model) listenForChanges() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-m.changes
		if !ok {
			return nil
		}
		return eventMsg(ev)
	}
}

// ---------- rendering ----------

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading..."
	}

	var body string
	switch m.state.Screen {
	case navigator.ScreenList:
		body = m.renderList()
	case navigator.ScreenViewing:
		body = m.renderViewing()
	case navigator.ScreenCreating, navigator.ScreenEditing:
		body = m.renderForm()
	case navigator.ScreenSearching:
		body = m.renderSearching()
	case navigator.ScreenSearchResults:
		body = m.renderResults()
	case navigator.ScreenConfirmingDelete:
		body = m.renderConfirmDelete()
	case navigator.ScreenConfirmingQuit:
		body = m.renderConfirmQuit()
	case navigator.ScreenMessage:
		body = m.renderNotice(m.styles.Accent, m.state.Text)
	case navigator.ScreenError:
		body = m.renderNotice(m.styles.Error, m.state.Text)
	case navigator.ScreenQuitting:
		return ""
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.titleBar(), body, m.statusBar())
}

func (m Model) titleBar() string {
	label := m.state.Screen.String()
	switch m.state.Screen {
	case navigator.ScreenViewing, navigator.ScreenEditing:
		label = m.state.Note.Title
	}
	return m.styles.Status.Render(
		m.styles.Title.Render("ansuz") + " " + m.styles.Muted.Render("• "+label))
}

func (m Model) statusBar() string {
	var km help.KeyMap
	switch m.state.Screen {
	case navigator.ScreenViewing:
		km = viewKeyMap{m.keys}
	case navigator.ScreenCreating, navigator.ScreenEditing:
		km = formKeyMap{m.keys}
	case navigator.ScreenSearching, navigator.ScreenConfirmingDelete:
		km = promptKeyMap{m.keys}
	case navigator.ScreenSearchResults:
		km = resultsKeyMap{m.keys}
	default:
		km = m.keys
	}
	return m.styles.Status.Render(m.help.View(km))
}

func (m Model) renderList() string {
	return m.styles.Border.Width(m.contentWidth()).Render(m.list.View())
}

func (m Model) renderViewing() string {
	n := m.state.Note
	meta := m.styles.Muted.Render(
		"created " + n.CreatedAt.Local().Format("2006-01-02 15:04") +
			"  updated " + n.UpdatedAt.Local().Format("2006-01-02 15:04"))
	return m.styles.Border.Width(m.contentWidth()).Render(meta + "\n\n" + m.view.View())
}

func (m Model) renderForm() string {
	hint := ""
	if m.state.Hint != "" {
		hint = "\n" + m.styles.Error.Render(m.state.Hint)
	}
	return m.styles.Border.Width(m.contentWidth()).Render(
		m.styles.Muted.Render("Title") + "\n" + m.title.View() + hint + "\n\n" +
			m.styles.Muted.Render("Content") + "\n" + m.body.View())
}

func (m Model) renderSearching() string {
	return m.styles.Border.Width(m.contentWidth()).Render(
		m.styles.Muted.Render("Search titles and content") + "\n\n" + m.query.View())
}

func (m Model) renderResults() string {
	header := m.styles.Muted.Render(
		fmt.Sprintf("%d matching %q", len(m.state.Notes), m.state.Query))
	return m.styles.Border.Width(m.contentWidth()).Render(header + "\n" + m.list.View())
}

func (m Model) renderConfirmDelete() string {
	return m.styles.Border.Width(m.contentWidth()).Render(
		m.styles.Error.Render(fmt.Sprintf("Delete %q?", m.state.Note.Title)) + "\n" +
			m.styles.Muted.Render("This cannot be undone. Type "+navigator.ConfirmToken+" to confirm.") + "\n\n" +
			m.token.View())
}

func (m Model) renderConfirmQuit() string {
	return m.styles.Border.Width(m.contentWidth()).Render(
		"Discard unsaved changes?" + "\n" +
			m.styles.Muted.Render("y: discard and quit  n: keep editing"))
}

func (m Model) renderNotice(style lipgloss.Style, text string) string {
	return m.styles.Border.Width(m.contentWidth()).Render(
		style.Render(text) + "\n" + m.styles.Muted.Render("press any key"))
}

func (m Model) contentWidth() int {
	return max(20, m.width-4)
}

func (m *Model) layout() {
	w := m.contentWidth()
	h := max(5, m.height-5)

	m.list.SetSize(w, h)
	m.view.Width = w
	m.view.Height = max(3, h-3)
	m.title.Width = min(64, w-2)
	m.query.Width = min(48, w-2)
	m.body.SetWidth(w)
	m.body.SetHeight(max(3, h-6))
}
