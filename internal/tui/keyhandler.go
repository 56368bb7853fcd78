package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/rssview/internal/feedreq"
)

type keyMap struct {
	Submit    key.Binding
	Open      key.Binding
	Focus     key.Binding
	Close     key.Binding
	Up        key.Binding
	Down      key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "get RSS"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter", "o"),
			key.WithHelp("enter/o", "open link"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "switch focus"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close preview"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// inputKeys is the help shown while the URL input has focus.
type inputKeys struct{ keyMap }

func (k inputKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Focus, k.Close, k.ForceQuit}
}

func (k inputKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

type listKeys struct{ keyMap }

func (k listKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Focus, k.Help, k.Quit}
}

func (k listKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open},
		{k.Focus, k.Close},
		{k.Help, k.Quit, k.ForceQuit},
	}
}

type KeyHandler struct {
	app  *App
	keys keyMap
}

func NewKeyHandler(app *App) *KeyHandler {
	return &KeyHandler{app: app, keys: newKeyMap()}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, kh.keys.ForceQuit):
		return kh.app, tea.Quit
	case key.Matches(msg, kh.keys.Focus):
		return kh.app, kh.toggleFocus()
	case key.Matches(msg, kh.keys.Close):
		return kh.app, kh.app.dispatch(feedreq.ClosePreview{})
	}

	if kh.app.focus == FocusInput {
		return kh.app, kh.handleInputKey(msg)
	}
	return kh.app, kh.handleListKey(msg)
}

// HelpKeys returns the bindings relevant to the focused component.
func (kh *KeyHandler) HelpKeys() help.KeyMap {
	if kh.app.focus == FocusList {
		return listKeys{kh.keys}
	}
	return inputKeys{kh.keys}
}

func (kh *KeyHandler) toggleFocus() tea.Cmd {
	a := kh.app
	if a.focus == FocusInput {
		if len(a.list.Items()) == 0 {
			return nil
		}
		a.focus = FocusList
		a.input.Blur()
		return kh.hoverSelected()
	}

	a.focus = FocusInput
	return a.input.Focus()
}

func (kh *KeyHandler) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	a := kh.app
	if key.Matches(msg, kh.keys.Submit) {
		return a.dispatch(feedreq.Submit{})
	}

	before := a.input.Value()
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	if after := a.input.Value(); after != before {
		return tea.Batch(cmd, a.dispatch(feedreq.InputChanged{Text: after}))
	}
	return cmd
}

func (kh *KeyHandler) handleListKey(msg tea.KeyMsg) tea.Cmd {
	a := kh.app
	switch {
	case key.Matches(msg, kh.keys.Quit):
		return tea.Quit
	case key.Matches(msg, kh.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		a.layout()
		return nil
	case key.Matches(msg, kh.keys.Open):
		if row, ok := a.list.SelectedItem().(feedRow); ok {
			return a.openLink(row.item.Link)
		}
		return nil
	}

	before := a.list.Index()
	var cmd tea.Cmd
	a.list, cmd = a.list.Update(msg)
	if a.list.Index() != before {
		return tea.Batch(cmd, kh.hoverSelected())
	}
	return cmd
}

// hoverSelected previews the row under the cursor.
func (kh *KeyHandler) hoverSelected() tea.Cmd {
	row, ok := kh.app.list.SelectedItem().(feedRow)
	if !ok {
		return nil
	}
	return kh.app.dispatch(feedreq.HoverItem{Item: row.item})
}
