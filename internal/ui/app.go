// Package ui provides a Bubble Tea terminal viewer for a session.
package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atikulmunna/logview/internal/model"
	"github.com/atikulmunna/logview/internal/recent"
	"github.com/atikulmunna/logview/internal/session"
	"github.com/atikulmunna/logview/internal/store"
)

// chromeHeight is the number of rows used by header and footer.
const chromeHeight = 3

// Options configures the UI.
type Options struct {
	Context context.Context
	Session *session.Session
	Views   <-chan model.View // hub subscription
	Recent  *recent.List      // optional
	Path    string            // opened on start when set
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx     context.Context
	session *session.Session
	views   <-chan model.View
	recent  *recent.List
	path    string
	keys    keyMap

	// UI state
	width    int
	height   int
	ready    bool
	showHelp bool
	status   string

	// Data state
	view model.View

	// Log state
	viewport viewport.Model

	// Search input
	searching bool
	search    textinput.Model

	// Recent files overlay
	showRecent  bool
	recentFiles []recent.File
	recentIdx   int
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "search messages, timestamps and levels"
	ti.CharLimit = 256

	return Model{
		ctx:     ctx,
		session: opts.Session,
		views:   opts.Views,
		recent:  opts.Recent,
		path:    opts.Path,
		keys:    defaultKeyMap(),
		search:  ti,
		view:    model.View{Kind: model.ViewClosed, Filter: string(store.FilterAll)},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForView(m.views)}
	if m.path != "" {
		cmds = append(cmds, m.openCmd(m.path))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, tea.Batch(cmd, m.scrolledCmd())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, m.bodyHeight())
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = m.bodyHeight()
		}
		m.search.Width = msg.Width - 2
		m.refreshViewport()
		return m, nil

	case viewMsg:
		m.applyView(model.View(msg))
		return m, waitForView(m.views)

	case viewsClosedMsg:
		return m, tea.Quit

	case errMsg:
		m.status = msg.Error()
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.showRecent {
		return m.renderRecent()
	}
	return m.renderMain()
}

func (m *Model) applyView(v model.View) {
	// Keep the reading position unless the window was rebuilt from scratch.
	resetScroll := v.Kind == model.ViewLoaded || v.Kind == model.ViewFiltered
	m.view = v
	if v.Err != "" {
		m.status = v.Err
	} else if v.Kind != model.ViewWindowed {
		m.status = ""
	}
	m.refreshViewport()
	if resetScroll {
		m.viewport.GotoTop()
	}
}

func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(renderEntries(m.view.Entries, m.view.Query))
}

func (m Model) bodyHeight() int {
	h := m.height - chromeHeight
	if h < 1 {
		return 1
	}
	return h
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}
	if m.showRecent {
		return m.handleRecentKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.SetValue(m.view.Query)
		m.search.CursorEnd()
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Escape):
		if m.view.Query != "" {
			return m, m.searchCmd("")
		}
		return m, nil
	case key.Matches(msg, m.keys.CycleFilter):
		return m, m.filterCmd(nextFilter(store.LevelFilter(m.view.Filter)))
	case key.Matches(msg, m.keys.FilterAll):
		return m, m.filterCmd(store.FilterAll)
	case key.Matches(msg, m.keys.FilterError):
		return m, m.filterCmd(store.FilterError)
	case key.Matches(msg, m.keys.FilterWarn):
		return m, m.filterCmd(store.FilterWarning)
	case key.Matches(msg, m.keys.FilterInfo):
		return m, m.filterCmd(store.FilterInfo)
	case key.Matches(msg, m.keys.LoadMore):
		return m, m.loadMoreCmd()
	case key.Matches(msg, m.keys.ClearNew):
		return m, m.clearNewCmd()
	case key.Matches(msg, m.keys.Recent):
		m.openRecent()
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
		return m, m.scrolledCmd()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, tea.Batch(cmd, m.scrolledCmd())
}

// handleSearchKey feeds the search input. Every edit is sent to the
// session, which debounces it.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.searching = false
		m.search.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Escape):
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		return m, m.searchCmd("")
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.searchCmd(m.search.Value()))
}

func (m *Model) openRecent() {
	if m.recent == nil {
		m.status = "no recent files"
		return
	}
	m.recentFiles = m.recent.Files()
	m.recentIdx = 0
	m.showRecent = true
}

func (m Model) handleRecentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Recent):
		m.showRecent = false
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.recentIdx > 0 {
			m.recentIdx--
		}
	case key.Matches(msg, m.keys.Down):
		if m.recentIdx < len(m.recentFiles)-1 {
			m.recentIdx++
		}
	case key.Matches(msg, m.keys.Confirm):
		m.showRecent = false
		if m.recentIdx < len(m.recentFiles) {
			return m, m.openCmd(m.recentFiles[m.recentIdx].Path)
		}
	}
	return m, nil
}

// nextFilter cycles all → error → warning → info → all.
func nextFilter(f store.LevelFilter) store.LevelFilter {
	switch f {
	case store.FilterAll:
		return store.FilterError
	case store.FilterError:
		return store.FilterWarning
	case store.FilterWarning:
		return store.FilterInfo
	default:
		return store.FilterAll
	}
}

// Messages

type viewMsg model.View

type viewsClosedMsg struct{}

type errMsg struct{ error }

// Commands

func waitForView(views <-chan model.View) tea.Cmd {
	if views == nil {
		return nil
	}
	return func() tea.Msg {
		v, ok := <-views
		if !ok {
			return viewsClosedMsg{}
		}
		return viewMsg(v)
	}
}

func (m Model) openCmd(path string) tea.Cmd {
	return m.sessionCmd(func(ctx context.Context) error { return m.session.Open(ctx, path) })
}

func (m Model) filterCmd(f store.LevelFilter) tea.Cmd {
	return m.sessionCmd(func(ctx context.Context) error { return m.session.SetFilter(ctx, f) })
}

func (m Model) searchCmd(query string) tea.Cmd {
	return m.sessionCmd(func(ctx context.Context) error { return m.session.Search(ctx, query) })
}

func (m Model) loadMoreCmd() tea.Cmd {
	return m.sessionCmd(func(ctx context.Context) error {
		_, err := m.session.LoadMore(ctx)
		return err
	})
}

func (m Model) clearNewCmd() tea.Cmd {
	return m.sessionCmd(func(ctx context.Context) error { return m.session.ClearNew(ctx) })
}

// scrolledCmd reports the scroll position so the session can grow the
// window when the end comes near.
func (m Model) scrolledCmd() tea.Cmd {
	if m.view.Remaining == 0 {
		return nil
	}
	offset, visible, content := m.viewport.YOffset, m.viewport.Height, m.viewport.TotalLineCount()
	return m.sessionCmd(func(ctx context.Context) error {
		_, err := m.session.Scrolled(ctx, offset, visible, content)
		return err
	})
}

func (m Model) sessionCmd(fn func(ctx context.Context) error) tea.Cmd {
	if m.session == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		if err := fn(ctx); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
