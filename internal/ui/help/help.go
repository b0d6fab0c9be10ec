// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package help provides the rendered help page for the TUI.
package help

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/flamesai/flames-tui/internal/ui/styles"
)

// helpMarkdown is the help page source.
const helpMarkdown = `# flames help

flames is a terminal client for your AI assistant.

## Chatting

Type a message and press **Enter**. The assistant replies in the same
conversation; follow-up messages keep the context. While a reply is on
its way the input stays open, but a second send waits until the current
one finishes.

## Commands

| Command | Effect |
|---------|--------|
| ` + "`/upload <path>`" + ` | Attach a local file to your next message |
| ` + "`/detach`" + ` | Drop pending attachments |
| ` + "`/clear`" + ` | Start a fresh conversation |

## Voice input

Press **ctrl+r** to dictate a message. The mic hint only appears when a
speech transcriber is installed on this machine.

## Keyboard shortcuts

| Key | Action |
|-----|--------|
| ctrl+l | Log in or sign up |
| ctrl+d | Open the dashboard |
| ctrl+g | Open this help page |
| ctrl+t | Toggle light/dark theme |
| esc | Back to the chat |
| ctrl+c | Quit |

## Your account

Log in to keep conversations across devices. Your session is remembered
between runs; use the dashboard to revisit or clear old conversations.
`

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the help page.
type Model struct {
	theme    *styles.Theme
	viewport viewport.Model
	rendered string
	width    int
	height   int
	ready    bool
}

// New creates the help page.
func New(theme *styles.Theme) *Model {
	return &Model{theme: theme}
}

// SetSize lays the page out and re-renders the markdown at the new width.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	if !m.ready {
		m.viewport = viewport.New(width, max(height-1, 3))
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = max(height-1, 3)
	}

	m.render()
	m.viewport.SetContent(m.rendered)
}

// Init is a no-op; rendering happens on resize.
func (m *Model) Init() tea.Cmd {
	return nil
}

// render formats the help markdown for the current theme and width.
func (m *Model) render() {
	styleName := "light"
	if m.theme.IsDark {
		styleName = "dark"
	}

	wrap := m.width - 4
	if wrap < 40 {
		wrap = 40
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(styleName),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		m.rendered = helpMarkdown
		return
	}

	out, err := renderer.Render(helpMarkdown)
	if err != nil {
		m.rendered = helpMarkdown
		return
	}
	m.rendered = out
}

// Refresh re-renders after a theme change.
func (m *Model) Refresh() {
	if !m.ready {
		return
	}
	m.render()
	m.viewport.SetContent(m.rendered)
}

// Update handles scrolling.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.SetSize(size.Width, size.Height)
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the help page with a scroll hint.
func (m *Model) View() string {
	if !m.ready {
		return ""
	}
	hint := m.theme.ShortcutKey.Render("↑/↓") + m.theme.ShortcutDesc.Render(" scroll  ") +
		m.theme.ShortcutKey.Render("esc") + m.theme.ShortcutDesc.Render(" back")
	return m.viewport.View() + "\n" + hint
}
