package tui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/rssview/internal/config"
	"github.com/pders01/rssview/internal/feedreq"
)

// FeedGetter performs one backend request and classifies its result.
type FeedGetter interface {
	Get(ctx context.Context, raw string) feedreq.Outcome
}

type LinkOpener interface {
	Open(url string) error
}

const (
	placeholder     = "input RSS URL"
	submitLabel     = "get RSS"
	viewingLabel    = "view RSS"
	dateColumnWidth = 31
)

type App struct {
	ctx        context.Context
	config     *config.Config
	backend    FeedGetter
	opener     LinkOpener
	keyHandler *KeyHandler

	state feedreq.State

	input   textinput.Model
	list    list.Model
	preview viewport.Model
	spinner spinner.Model
	help    help.Model

	focus         Focus
	status        string
	statusKind    StatusKind
	submitOnStart bool

	width           int
	height          int
	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
}

func NewApp(backend FeedGetter, opener LinkOpener, cfg *config.Config) *App {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()

	items := list.New([]list.Item{}, rowDelegate{}, 0, 0)
	items.SetShowTitle(false)
	items.SetShowStatusBar(false)
	items.SetFilteringEnabled(false)
	items.SetShowHelp(false)
	items.DisableQuitKeybindings()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(AccentColor)

	app := &App{
		ctx:     context.Background(),
		config:  cfg,
		backend: backend,
		opener:  opener,
		state:   feedreq.New(),
		input:   ti,
		list:    items,
		preview: viewport.New(0, 0),
		spinner: sp,
		help:    help.New(),
		focus:   FocusInput,
		width:   80,
		height:  24,
	}
	app.keyHandler = NewKeyHandler(app)
	app.layout()

	return app
}

// WithContext sets the context backend requests run under.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Prefill types raw into the input and submits it once the program starts.
func (a *App) Prefill(raw string) {
	a.input.SetValue(raw)
	a.dispatch(feedreq.InputChanged{Text: raw})
	a.submitOnStart = true
}

// State returns the current request lifecycle snapshot.
func (a *App) State() feedreq.State {
	return a.state
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnterAltScreen, textinput.Blink}
	if a.submitOnStart {
		a.submitOnStart = false
		cmds = append(cmds, a.dispatch(feedreq.Submit{}))
	}
	return tea.Batch(cmds...)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout()
		a.syncPreview()

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		a.preview, cmd = a.preview.Update(msg)
		return a, cmd

	case responseMsg:
		return a, a.dispatch(feedreq.ResponseArrived{
			Seq:     msg.seq,
			URL:     msg.url,
			Outcome: msg.outcome,
		})

	case linkOpenedMsg:
		if msg.err != nil {
			a.setStatus(wrapErr("open link", msg.err).Error(), StatusError)
		} else {
			a.setStatus(MsgOpened(msg.url), StatusSuccess)
		}

	case spinner.TickMsg:
		if feedreq.PhaseOf(a.state.Request) != feedreq.PhaseLoading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

// dispatch moves the state machine forward and mirrors the new state into
// the components. The returned command runs whatever effect Update asked for.
func (a *App) dispatch(ev feedreq.Event) tea.Cmd {
	prev := a.state
	next, effect := feedreq.Update(prev, ev)
	a.state = next

	var cmds []tea.Cmd

	submitted := next.Seq() != prev.Seq()
	settled := feedreq.PhaseOf(prev.Request) == feedreq.PhaseLoading &&
		feedreq.PhaseOf(next.Request) != feedreq.PhaseLoading
	if submitted || settled {
		cmds = append(cmds, a.syncItems())
	}
	if submitted {
		a.setStatus("", StatusInfo)
		cmds = append(cmds, a.spinner.Tick)
	}
	if settled {
		if success, ok := next.Request.(feedreq.Success); ok {
			a.setStatus(MsgItemsCount(len(success.Items)), StatusSuccess)
		}
	}

	if prev.Preview != next.Preview {
		a.layout()
		a.syncPreview()
	}

	if effect != nil {
		cmds = append(cmds, a.runEffect(effect))
	}
	return tea.Batch(cmds...)
}

func (a *App) runEffect(effect feedreq.Effect) tea.Cmd {
	switch e := effect.(type) {
	case feedreq.FetchFeed:
		return a.fetchFeed(e.Seq, e.URL)
	default:
		return nil
	}
}

func (a *App) syncItems() tea.Cmd {
	items := a.state.Items()
	rows := make([]list.Item, len(items))
	for i, item := range items {
		rows[i] = feedRow{item: item}
	}
	cmd := a.list.SetItems(rows)
	a.list.ResetSelected()

	if len(rows) == 0 && a.focus == FocusList {
		a.focus = FocusInput
		return tea.Batch(cmd, a.input.Focus())
	}
	return cmd
}

func (a *App) syncPreview() {
	item, ok := a.state.Preview.Get()
	if !ok {
		a.preview.SetContent("")
		return
	}
	a.preview.SetContent(a.renderPreview(item))
	a.preview.GotoTop()
}

func (a *App) layout() {
	buttonWidth := lipgloss.Width(renderButton(submitLabel, true))
	a.input.Width = max(a.width-buttonWidth-6, 10)

	a.help.Width = a.width
	helpHeight := lipgloss.Height(a.help.View(a.keyHandler.HelpKeys()))

	// header, framed input, banner line and separator
	bodyHeight := max(a.height-6-helpHeight, 3)

	listWidth := a.width
	if a.state.Preview.IsSome() {
		listWidth = a.width / 2
		a.preview.Width = max(a.width-listWidth-3, 10)
		a.preview.Height = max(bodyHeight-1, 1)
	}
	a.list.SetSize(listWidth, bodyHeight)
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	wordWrapWidth := max(min(a.preview.Width-2, 120), 20)

	if a.glamourRenderer == nil || a.rendererWidth != wordWrapWidth {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}

	return a.glamourRenderer, nil
}

func (a *App) View() string {
	subtitle := ""
	if guard, ok := a.state.Guard.Get(); ok {
		subtitle = guard
	}

	label := submitLabel
	if guard, ok := a.state.Guard.Get(); ok && guard == a.state.Input {
		label = viewingLabel
	}
	inputRow := lipgloss.JoinHorizontal(
		lipgloss.Center,
		renderInputFrame(a.input.View(), a.focus == FocusInput, a.input.Width),
		" ",
		renderButton(label, feedreq.CanSubmit(a.state)),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		renderHeader(CompactLogo, subtitle, a.width),
		inputRow,
		a.bannerLine(),
		a.body(),
		renderSeparator(a.width),
		a.help.View(a.keyHandler.HelpKeys()),
	)
}

// bannerLine holds the error banner, the loading spinner or the last status.
func (a *App) bannerLine() string {
	switch req := a.state.Request.(type) {
	case feedreq.Failure:
		return renderErrorBanner(req.Message, a.width)
	case feedreq.Loading:
		return " " + a.spinner.View() + " " + renderMuted(MsgLoadingFeed)
	default:
		return " " + a.renderStatus()
	}
}

func (a *App) body() string {
	width, height := a.list.Width(), a.list.Height()

	switch a.state.Request.(type) {
	case feedreq.NotAsked:
		return renderCentered(a.width, height, GetWelcomeMessage())
	case feedreq.Loading, feedreq.Failure:
		return renderCentered(a.width, height, "")
	}

	if len(a.list.Items()) == 0 {
		return renderCentered(a.width, height, renderMuted(MsgNoItems))
	}

	listView := lipgloss.NewStyle().Width(width).Height(height).Render(a.list.View())
	if !a.state.Preview.IsSome() {
		return listView
	}

	panel := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(MutedColor).
		PaddingLeft(1).
		Height(height).
		Render(lipgloss.JoinVertical(
			lipgloss.Left,
			PreviewTitleStyle.Render("› preview")+" "+renderMuted("esc: close"),
			a.preview.View(),
		))

	return lipgloss.JoinHorizontal(lipgloss.Top, listView, panel)
}

// feedRow is one list entry: the publication date column and the title.
type feedRow struct {
	item feedreq.FeedItem
}

func (r feedRow) date() string {
	return r.item.PubDate.OrElse("-")
}

func (r feedRow) FilterValue() string { return r.item.Title }

type rowDelegate struct{}

func (rowDelegate) Height() int                             { return 1 }
func (rowDelegate) Spacing() int                            { return 0 }
func (rowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	row, ok := item.(feedRow)
	if !ok {
		return
	}

	date := padRight(truncateEnd(row.date(), dateColumnWidth), dateColumnWidth)
	title := truncateEnd(row.item.Title, m.Width()-dateColumnWidth-4)

	if index == m.Index() {
		fmt.Fprint(w, SelectedItemStyle.Render("› "+date+" "+title))
		return
	}
	fmt.Fprint(w, "  "+DateStyle.Render(date)+" "+ItemStyle.Render(title))
}
