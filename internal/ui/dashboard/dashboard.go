// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dashboard provides the conversation list view for the TUI.
package dashboard

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/flamesai/flames-tui/internal/api"
	"github.com/flamesai/flames-tui/internal/history"
	"github.com/flamesai/flames-tui/internal/model"
	"github.com/flamesai/flames-tui/internal/ui/components"
	"github.com/flamesai/flames-tui/internal/ui/styles"
	"github.com/flamesai/flames-tui/internal/util"
)

// OpenMsg tells the shell to reopen a saved conversation.
type OpenMsg struct {
	ConversationID string
	Transcript     []model.Message
}

// listResultMsg carries the fetched conversation list.
type listResultMsg struct {
	items []model.ConversationSummary
	// cached is true when the backend was unreachable and the list came
	// from the local cache.
	cached bool
	err    error
}

// clearResultMsg carries the outcome of a history clear.
type clearResultMsg struct {
	err error
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the dashboard view.
type Model struct {
	theme   *styles.Theme
	client  *api.Client
	history *history.Store

	items    []model.ConversationSummary
	selected int
	loading  bool
	cached   bool
	email    string
	toasts   *components.ToastManager
	width    int
	height   int
}

// New creates the dashboard view. history may be nil when the local cache
// could not be opened.
func New(theme *styles.Theme, client *api.Client, hist *history.Store) *Model {
	return &Model{
		theme:   theme,
		client:  client,
		history: hist,
		toasts:  components.NewToastManager(),
	}
}

// SetSize records the terminal size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetEmail records the signed-in address for the account panel. An empty
// string renders as "-", matching the signed-out state.
func (m *Model) SetEmail(email string) {
	m.email = email
}

// Init fetches the conversation list.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	return tea.Batch(m.fetchCmd(), components.ToastTick())
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages for the dashboard.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
		case "down", "j":
			if m.selected < len(m.items)-1 {
				m.selected++
			}
		case "enter":
			if cmd := m.open(); cmd != nil {
				cmds = append(cmds, cmd)
			}
		case "r":
			m.loading = true
			cmds = append(cmds, m.fetchCmd())
		case "C":
			cmds = append(cmds, m.clearCmd())
		}

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)

	case components.ToastTickMsg:
		m.toasts.Prune()
		cmds = append(cmds, components.ToastTick())

	case listResultMsg:
		m.loading = false
		if msg.err != nil {
			m.toasts.Error("Could not load conversations: " + msg.err.Error())
			break
		}
		m.items = msg.items
		m.cached = msg.cached
		if m.selected >= len(m.items) {
			m.selected = 0
		}

	case clearResultMsg:
		if msg.err != nil {
			m.toasts.Error("Could not clear history: " + msg.err.Error())
			break
		}
		m.items = nil
		m.selected = 0
		m.toasts.Status("History cleared")
	}

	return m, tea.Batch(cmds...)
}

// open emits an OpenMsg for the selected conversation, restoring the
// transcript from the local cache when it is there.
func (m *Model) open() tea.Cmd {
	if m.selected >= len(m.items) {
		return nil
	}
	item := m.items[m.selected]
	hist := m.history

	return func() tea.Msg {
		var transcript []model.Message
		if hist != nil {
			if cached, err := hist.Load(item.ID); err == nil {
				transcript = cached
			}
		}
		return OpenMsg{ConversationID: item.ID, Transcript: transcript}
	}
}

// fetchCmd loads the conversation list, falling back to the local cache
// when the backend is unreachable.
func (m *Model) fetchCmd() tea.Cmd {
	client := m.client
	hist := m.history

	return func() tea.Msg {
		items, err := client.ListConversations(context.Background())
		if err == nil {
			return listResultMsg{items: items}
		}

		if hist != nil && errors.Is(err, api.ErrUnreachable) {
			if cached, cacheErr := hist.List(); cacheErr == nil {
				return listResultMsg{items: cached, cached: true}
			}
		}
		return listResultMsg{err: err}
	}
}

// clearCmd clears history on the server and in the local cache.
func (m *Model) clearCmd() tea.Cmd {
	client := m.client
	hist := m.history

	return func() tea.Msg {
		if err := client.ClearConversations(context.Background()); err != nil {
			return clearResultMsg{err: err}
		}
		if hist != nil {
			if err := hist.Clear(); err != nil {
				return clearResultMsg{err: err}
			}
		}
		return clearResultMsg{}
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the conversation list.
func (m *Model) View() string {
	var b strings.Builder

	title := "Your conversations"
	if m.cached {
		title += " (offline copy)"
	}
	b.WriteString(m.theme.ListTitle.Render(title))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(m.theme.EmptyState.Render("Loading..."))

	case len(m.items) == 0:
		b.WriteString(m.theme.EmptyState.Render("No conversations yet. Start chatting to create one."))

	default:
		maxTitle := m.width - 8
		if maxTitle < 16 {
			maxTitle = 16
		}
		for i, item := range m.items {
			line := util.TruncateRunes(item.DisplayTitle(), maxTitle)
			if i == m.selected {
				b.WriteString(m.theme.ListItemSelected.Render("> " + line))
			} else {
				b.WriteString(m.theme.ListItem.Render("  " + line))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.theme.ListMeta.Render("Switch between light and dark modes with ctrl+t."))
	b.WriteString("\n")
	email := m.email
	if email == "" {
		email = "-"
	}
	b.WriteString(m.theme.ListMeta.Render("Logged in as: " + email))
	b.WriteString("\n\n")
	b.WriteString(m.theme.ShortcutKey.Render("enter") + m.theme.ShortcutDesc.Render(" open  "))
	b.WriteString(m.theme.ShortcutKey.Render("r") + m.theme.ShortcutDesc.Render(" refresh  "))
	b.WriteString(m.theme.ShortcutKey.Render("C") + m.theme.ShortcutDesc.Render(" clear all"))

	out := m.theme.ListBox.Render(b.String())
	if toasts := components.RenderToasts(m.theme, m.toasts.Active()); toasts != "" {
		out += "\n" + toasts
	}
	return out
}
