// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the conversation view for the TUI.
package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/flamesai/flames-tui/internal/api"
	chatstate "github.com/flamesai/flames-tui/internal/chat"
	"github.com/flamesai/flames-tui/internal/history"
	"github.com/flamesai/flames-tui/internal/speech"
	"github.com/flamesai/flames-tui/internal/ui/components"
	"github.com/flamesai/flames-tui/internal/ui/styles"
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the conversation view.
type Model struct {
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Conversation state
	session *chatstate.Session
	client  *api.Client

	// Optional capabilities
	recognizer *speech.Recognizer
	autosaver  *history.Autosaver
	history    *history.Store

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	hero     *components.Hero
	toasts   *components.ToastManager

	// Transient state
	capturing bool
	signedIn  bool
	ready     bool
}

// New creates the conversation view.
func New(theme *styles.Theme, session *chatstate.Session, client *api.Client) *Model {
	input := textinput.New()
	input.Placeholder = "Type your message..."
	input.CharLimit = 4000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &Model{
		theme:   theme,
		session: session,
		client:  client,
		input:   input,
		spinner: sp,
		hero:    components.NewHero(theme),
		toasts:  components.NewToastManager(),
	}
}

// WithRecognizer enables voice input. A recognizer that probed as
// unavailable hides the mic hint entirely.
func (m *Model) WithRecognizer(r *speech.Recognizer) *Model {
	m.recognizer = r
	return m
}

// WithAutosaver enables local transcript caching.
func (m *Model) WithAutosaver(a *history.Autosaver) *Model {
	m.autosaver = a
	return m
}

// WithHistory wires the local cache so /clear empties it alongside the
// server-side clear.
func (m *Model) WithHistory(h *history.Store) *Model {
	m.history = h
	return m
}

// Refresh re-renders the transcript. The shell calls this when the view
// regains focus so exchanges that resolved while another view was active
// show up.
func (m *Model) Refresh() {
	m.refreshTranscript()
}

// SetSignedIn updates the auth indicator used by the hero banner.
func (m *Model) SetSignedIn(signedIn bool) {
	m.signedIn = signedIn
}

// SetSize lays the view out for the given terminal size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.hero.SetWidth(width)
	m.hero.SetCompact(height < 20)
	m.input.Width = width - 8

	viewportHeight := height - inputAreaHeight - statusBarHeight
	if viewportHeight < 3 {
		viewportHeight = 3
	}
	if !m.ready {
		m.viewport = viewport.New(width, viewportHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = viewportHeight
	}
	m.refreshTranscript()
}

// Init starts the spinner and toast ticker.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, components.ToastTick())
}

// Toast exposes the view's toast manager so the shell can surface
// app-level notices here.
func (m *Model) Toast() *components.ToastManager {
	return m.toasts
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages for the conversation view.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if cmd := m.submit(); cmd != nil {
				cmds = append(cmds, cmd)
			}
		case "ctrl+r":
			if cmd := m.startCapture(); cmd != nil {
				cmds = append(cmds, cmd)
			}
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case components.ToastTickMsg:
		m.toasts.Prune()
		cmds = append(cmds, components.ToastTick())

	case sendResultMsg:
		m.finishSend(msg)

	case uploadResultMsg:
		m.finishUpload(msg)

	case captureResultMsg:
		m.finishCapture(msg)

	case clearResultMsg:
		if msg.err != nil {
			// Local state is already cleared; server clear is best effort.
			m.toasts.Error("Could not clear server history: " + msg.err.Error())
		} else {
			m.toasts.Status("Conversation cleared")
		}

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// submit interprets the input line: a slash command or a chat message.
func (m *Model) submit() tea.Cmd {
	raw := strings.TrimSpace(m.input.Value())
	if raw == "" {
		return nil
	}

	if strings.HasPrefix(raw, "/") {
		return m.runCommand(raw)
	}

	out, err := m.session.BeginSend(raw)
	if err != nil {
		m.toasts.Error(sendErrorMessage(err))
		return nil
	}

	m.input.Reset()
	m.refreshTranscript()
	return m.sendCmd(out)
}

// runCommand executes a slash command from the input line.
func (m *Model) runCommand(raw string) tea.Cmd {
	fields := strings.Fields(raw)
	name := fields[0]
	args := fields[1:]

	switch name {
	case "/upload":
		m.input.Reset()
		if len(args) == 0 || args[0] == "" {
			// Choosing nothing is not an error.
			return nil
		}
		m.toasts.Status("Uploading " + args[0])
		return m.uploadCmd(strings.Join(args, " "))

	case "/detach":
		m.input.Reset()
		m.session.DetachAll()
		m.toasts.Status("Attachments removed")
		return nil

	case "/clear":
		m.input.Reset()
		m.session.Clear()
		if m.history != nil {
			if err := m.history.Clear(); err != nil {
				m.toasts.Error("Could not clear local history: " + err.Error())
			}
		}
		m.refreshTranscript()
		return m.clearCmd()

	default:
		m.toasts.Error("Unknown command: " + name)
		return nil
	}
}

// startCapture begins voice input when a transcriber is available.
func (m *Model) startCapture() tea.Cmd {
	if m.recognizer == nil || !m.recognizer.Available() || m.capturing {
		return nil
	}
	m.capturing = true
	return m.captureCmd()
}

// finishSend renders the outcome of an exchange. The session itself was
// already resolved by sendCmd.
func (m *Model) finishSend(msg sendResultMsg) {
	if msg.err != nil {
		m.toasts.Error(sendErrorMessage(msg.err))
	}
	m.refreshTranscript()
}

// finishUpload records an uploaded attachment.
func (m *Model) finishUpload(msg uploadResultMsg) {
	if msg.err != nil {
		m.toasts.Error("Upload failed: " + msg.err.Error())
		return
	}
	m.session.Attach(msg.ref)
	m.toasts.Status("Attached " + msg.ref.Name)
}

// finishCapture inserts recognized speech into the input.
func (m *Model) finishCapture(msg captureResultMsg) {
	m.capturing = false
	if msg.err != nil {
		m.toasts.Error("Voice input failed: " + msg.err.Error())
		return
	}

	current := m.input.Value()
	if current != "" && !strings.HasSuffix(current, " ") {
		current += " "
	}
	m.input.SetValue(current + msg.text)
	m.input.CursorEnd()
}

