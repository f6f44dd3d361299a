// Package tui is the interactive terminal code view: one pane per view,
// an optional split pane, and live reload.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/leapcode/internal/render"
	"github.com/leapstack-labs/leapcode/internal/store"
	"github.com/leapstack-labs/leapcode/internal/ui/notifier"
	"github.com/leapstack-labs/leapcode/pkg/codeview"
	"github.com/leapstack-labs/leapcode/pkg/core"
)

// ErrNoViews is returned by New when there is nothing to show.
var ErrNoViews = errors.New("no views configured")

// Config configures the terminal view.
type Config struct {
	Store  *store.Store
	Loader *store.Loader
	Views  map[string]core.ViewConfig
	// Initial is the view shown first. Defaults to the first view by id.
	Initial  string
	Renderer *render.Terminal
	Logger   *slog.Logger
}

type (
	viewChangedMsg struct{}
	reloadedMsg    struct {
		viewID string
		err    error
	}
	splitMsg struct {
		viewID string
		err    error
	}
)

// Model is the bubbletea model of the terminal view.
type Model struct {
	ctx      context.Context
	store    *store.Store
	loader   *store.Loader
	views    map[string]core.ViewConfig
	ids      []string
	renderer render.Terminal
	logger   *slog.Logger

	updates chan struct{}
	splits  chan string

	current   int
	split     string
	focusLeft bool

	main     viewport.Model
	splitVP  viewport.Model
	keys     keyMap
	help     help.Model
	status   string
	failed   bool
	width    int
	height   int
	quitting bool
}

// New creates the model and installs its split dispatcher on cfg.Store.
// The store subscription lives until the model quits.
func New(ctx context.Context, cfg Config) (Model, error) {
	ids := make([]string, 0, len(cfg.Views))
	for id := range cfg.Views {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	if len(ids) == 0 {
		return Model{}, ErrNoViews
	}

	current := 0
	if cfg.Initial != "" {
		current = slices.Index(ids, cfg.Initial)
		if current < 0 {
			return Model{}, fmt.Errorf("unknown view %q", cfg.Initial)
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	renderer := render.Terminal{}
	if cfg.Renderer != nil {
		renderer = *cfg.Renderer
	}

	m := Model{
		ctx:       ctx,
		store:     cfg.Store,
		loader:    cfg.Loader,
		views:     cfg.Views,
		ids:       ids,
		renderer:  renderer,
		logger:    logger,
		updates:   cfg.Store.Subscribe(notifier.All),
		splits:    make(chan string, 1),
		current:   current,
		focusLeft: true,
		main:      viewport.New(0, 0),
		splitVP:   viewport.New(0, 0),
		keys:      defaultKeyMap(),
		help:      help.New(),
	}
	cfg.Store.SetDispatcher(m.dispatchSplit)
	return m, nil
}

// dispatchSplit hands a split request to the running model.
func (m Model) dispatchSplit(ctx context.Context, viewID string) error {
	select {
	case m.splits <- viewID:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return waitForChange(m.updates)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case viewChangedMsg:
		m.refresh()
		return m, waitForChange(m.updates)

	case reloadedMsg:
		m.failed = msg.err != nil
		if m.failed {
			m.logger.Warn("reload failed", slog.String("view", msg.viewID), slog.String("error", msg.err.Error()))
			m.status = msg.err.Error()
		} else {
			m.status = "reloaded " + msg.viewID
		}
		return m, nil

	case splitMsg:
		if msg.err != nil {
			m.status, m.failed = msg.err.Error(), true
			return m, nil
		}
		m.split = msg.viewID
		m.status, m.failed = "", false
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.store.Unsubscribe(m.updates)
		return m, tea.Quit

	case key.Matches(msg, m.keys.Next):
		m.current = (m.current + 1) % len(m.ids)
		m.main.GotoTop()
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Prev):
		m.current = (m.current - 1 + len(m.ids)) % len(m.ids)
		m.main.GotoTop()
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		m.status, m.failed = "reloading "+m.currentID()+"...", false
		return m, m.reload(m.currentID())

	case key.Matches(msg, m.keys.Split):
		return m, m.openSplit(m.currentID())

	case key.Matches(msg, m.keys.Close):
		m.split = ""
		m.focusLeft = true
		m.layout()
		return m, nil

	case key.Matches(msg, m.keys.Focus):
		if m.split != "" {
			m.focusLeft = !m.focusLeft
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.focusLeft || m.split == "" {
		m.main, cmd = m.main.Update(msg)
	} else {
		m.splitVP, cmd = m.splitVP.Update(msg)
	}
	return m, cmd
}

func (m Model) currentID() string {
	return m.ids[m.current]
}

func (m Model) reload(viewID string) tea.Cmd {
	ctx, st, loader, view := m.ctx, m.store, m.loader, m.views[viewID]
	return func() tea.Msg {
		if loader == nil {
			return reloadedMsg{viewID: viewID, err: store.ErrNoAdapter}
		}
		_, err := loader.Refresh(ctx, st, viewID, view)
		return reloadedMsg{viewID: viewID, err: err}
	}
}

func (m Model) openSplit(viewID string) tea.Cmd {
	ctx, st, splits := m.ctx, m.store, m.splits
	return func() tea.Msg {
		if err := st.SplitOpen(ctx, viewID); err != nil {
			return splitMsg{err: err}
		}
		select {
		case id := <-splits:
			return splitMsg{viewID: id}
		default:
			return nil
		}
	}
}

func waitForChange(updates chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-updates; !ok {
			return nil
		}
		return viewChangedMsg{}
	}
}

func (m Model) paneWidth() int {
	if m.split == "" {
		return m.width
	}
	return max((m.width-1)/2, 1)
}

// layout sizes the viewports for the window and redraws them.
func (m *Model) layout() {
	// One title line per pane and the help line.
	h := max(m.height-2, 1)
	w := m.paneWidth()
	m.main.Width, m.main.Height = w, h
	m.splitVP.Width, m.splitVP.Height = w, h
	m.refresh()
}

// refresh re-renders pane contents from the store.
func (m *Model) refresh() {
	r := m.renderer
	r.Width = m.paneWidth()
	m.main.SetContent(r.String(m.store.Prepare(m.currentID())))
	if m.split != "" {
		m.splitVP.SetContent(r.String(m.store.Prepare(m.split)))
	}
}

var (
	titleStyle       = lipgloss.NewStyle().Bold(true)
	mutedStyle       = lipgloss.NewStyle().Faint(true)
	focusedBarStyle  = lipgloss.NewStyle().Reverse(true)
	statusErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func (m Model) title(viewID string, focused bool) string {
	state := m.store.Prepare(viewID)
	label := viewID
	switch state.Kind {
	case codeview.StateReady:
		label += " · " + render.LanguageLabel(state.Code.Language)
	default:
		label += " · " + state.Kind.String()
	}
	if focused && m.split != "" {
		return focusedBarStyle.Render(label)
	}
	return titleStyle.Render(label)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "loading..."
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.title(m.currentID(), m.focusLeft),
		m.main.View())

	body := left
	if m.split != "" {
		right := lipgloss.JoinVertical(lipgloss.Left,
			m.title(m.split, !m.focusLeft),
			m.splitVP.View())
		sep := mutedStyle.Render(strings.TrimSuffix(strings.Repeat("│\n", max(m.height-1, 1)), "\n"))
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, sep, right)
	}

	footer := m.help.View(m.keys)
	switch {
	case m.failed:
		footer = statusErrorStyle.Render(m.status)
	case m.status != "":
		footer = mutedStyle.Render(m.status)
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, footer)
}

// Run starts the terminal view and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, cfg Config, opts ...tea.ProgramOption) error {
	m, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	final, err := tea.NewProgram(m, opts...).Run()
	if fm, ok := final.(Model); ok && !fm.quitting {
		cfg.Store.Unsubscribe(fm.updates)
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
