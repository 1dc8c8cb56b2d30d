// Package tui implements the interactive terminal browser on top of
// view.Controller.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Sternrassler/pokedex-client/pkg/view"
)

// screen is the page currently shown.
type screen int

const (
	screenList screen = iota
	screenDetail
)

// changedMsg is sent whenever the controller reports a state change.
type changedMsg struct{}

// ScrollSignal carries the controller's scroll-to-top requests to the model.
// Pass Hook to view.WithScrollHook and the signal to WithScrollSignal.
type ScrollSignal chan struct{}

// NewScrollSignal creates a signal holding at most one pending request.
func NewScrollSignal() ScrollSignal {
	return make(ScrollSignal, 1)
}

// Hook returns the function to install as the controller's scroll hook.
func (s ScrollSignal) Hook() func() {
	return func() {
		select {
		case s <- struct{}{}:
		default:
		}
	}
}

// Option configures a Model.
type Option func(*Model)

// WithScrollSignal makes the model move its cursor to the top whenever the
// controller fires the hook of s.
func WithScrollSignal(s ScrollSignal) Option {
	return func(m *Model) {
		m.scrolls = s
	}
}

// Model is the Bubble Tea model of the browser.
type Model struct {
	ctx     context.Context
	ctrl    *view.Controller
	changes chan struct{}
	scrolls ScrollSignal

	keys    keyMap
	help    help.Model
	spinner spinner.Model

	screen   screen
	cursor   int
	showHelp bool

	width  int
	height int
}

// New creates a browser model over ctrl. The controller is started by Init.
func New(ctx context.Context, ctrl *view.Controller, opts ...Option) Model {
	changes := make(chan struct{}, 1)
	ctrl.Subscribe(func() {
		// Coalesce: one pending notification is enough to re-render.
		select {
		case changes <- struct{}{}:
		default:
		}
	})

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:     ctx,
		ctrl:    ctrl,
		changes: changes,
		keys:    defaultKeyMap(),
		help:    help.New(),
		spinner: sp,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			ctrl.Start(ctx)
			return changedMsg{}
		},
		m.waitForChange(),
	)
}

// waitForChange blocks until the controller reports a change.
func (m Model) waitForChange() tea.Cmd {
	changes, done := m.changes, m.ctx.Done()
	return func() tea.Msg {
		select {
		case <-changes:
			return changedMsg{}
		case <-done:
			return nil
		}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case changedMsg:
		m.scrollToTop()
		m.clampCursor()
		return m, m.waitForChange()

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.Help) {
			m.showHelp = !m.showHelp
			return m, nil
		}
		if m.screen == screenDetail {
			return m.handleDetailKey(msg)
		}
		var cmd tea.Cmd
		m, cmd = m.handleListKey(msg)
		m.scrollToTop()
		return m, cmd
	}

	return m, nil
}

// handleListKey processes keyboard input on the list screen.
func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleMode):
		m.ctrl.ToggleMode(m.ctx)
		m.cursor = 0

	case key.Matches(msg, m.keys.NextPage):
		if m.ctrl.Mode() == view.ModePageControls {
			m.ctrl.NextPage(m.ctx)
		}

	case key.Matches(msg, m.keys.PrevPage):
		if m.ctrl.Mode() == view.ModePageControls {
			m.ctrl.PrevPage(m.ctx)
		}

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.ctrl.Items())-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.LoadMore):
		m.ctrl.LoadMore(m.ctx)

	case key.Matches(msg, m.keys.Retry):
		if m.ctrl.Status().Err != nil {
			m.ctrl.Retry(m.ctx)
		}

	case key.Matches(msg, m.keys.Open):
		items := m.ctrl.Items()
		if m.cursor >= 0 && m.cursor < len(items) && items[m.cursor].ID > 0 {
			m.ctrl.ShowDetail(m.ctx, items[m.cursor].ID)
			m.screen = screenDetail
		}
	}

	return m, nil
}

// handleDetailKey processes keyboard input on the detail screen.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.ctrl.CloseDetail(m.ctx)
		m.screen = screenList

	case key.Matches(msg, m.keys.Retry):
		if m.ctrl.Detail().IsError() {
			m.ctrl.RetryDetail(m.ctx)
		}
	}
	return m, nil
}

// scrollToTop consumes a pending scroll request. The controller fires its
// hook synchronously inside page changes, so the request is already queued
// when a key handler returns or the change notification arrives.
func (m *Model) scrollToTop() {
	select {
	case <-m.scrolls:
		m.cursor = 0
	default:
	}
}

// clampCursor keeps the cursor on an existing item.
func (m *Model) clampCursor() {
	n := len(m.ctrl.Items())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// listHeight returns the number of visible list rows.
func (m Model) listHeight() int {
	// title, tabs, blank, footer (2), help
	const chrome = 7
	h := m.height - chrome
	if h < 1 {
		h = 20
	}
	return h
}
