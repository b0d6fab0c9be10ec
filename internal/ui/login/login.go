// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package login provides the login and signup form for the TUI.
package login

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/flamesai/flames-tui/internal/api"
	"github.com/flamesai/flames-tui/internal/model"
	"github.com/flamesai/flames-tui/internal/ui/components"
	"github.com/flamesai/flames-tui/internal/ui/styles"
)

// Mode selects between the two flavors of the form.
type Mode int

const (
	ModeLogin Mode = iota
	ModeSignup
)

// Title returns the form heading for the mode.
func (m Mode) Title() string {
	if m == ModeSignup {
		return "Create your account"
	}
	return "Welcome back"
}

// field indexes for focus cycling. The name field only exists in signup
// mode; cycling skips it while logging in.
const (
	fieldName = iota
	fieldEmail
	fieldPassword
	fieldCount
)

// SuccessMsg tells the shell a session was established.
type SuccessMsg struct {
	Token string
	User  model.UserProfile
}

// authResultMsg carries the backend's answer.
type authResultMsg struct {
	resp *api.AuthResponse
	err  error
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the login/signup form.
type Model struct {
	theme  *styles.Theme
	client *api.Client

	mode    Mode
	name    textinput.Model
	email   textinput.Model
	pass    textinput.Model
	focus   int
	busy    bool
	toasts  *components.ToastManager
	width   int
	height  int
}

// New creates the login form.
func New(theme *styles.Theme, client *api.Client) *Model {
	name := textinput.New()
	name.Placeholder = "your name"
	name.CharLimit = 100

	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 254
	email.Focus()

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '*'
	pass.CharLimit = 128

	return &Model{
		theme:  theme,
		client: client,
		name:   name,
		email:  email,
		pass:   pass,
		focus:  fieldEmail,
		toasts: components.NewToastManager(),
	}
}

// SetSize records the terminal size for centering.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Init starts the toast ticker.
func (m *Model) Init() tea.Cmd {
	return components.ToastTick()
}

// Reset clears the form for a fresh visit.
func (m *Model) Reset() {
	m.name.Reset()
	m.email.Reset()
	m.pass.Reset()
	m.focus = fieldEmail
	m.applyFocus()
	m.busy = false
	m.toasts.DismissAll()
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages for the form.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m.cycleFocus(msg.String())

		case "enter":
			if cmd := m.submit(); cmd != nil {
				cmds = append(cmds, cmd)
			}

		case "ctrl+s":
			m.toggleMode()

		default:
			cmds = append(cmds, m.updateFields(msg))
		}

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)

	case components.ToastTickMsg:
		m.toasts.Prune()
		cmds = append(cmds, components.ToastTick())

	case authResultMsg:
		m.busy = false
		if msg.err != nil {
			m.toasts.Error(authErrorMessage(msg.err))
			break
		}
		return m, func() tea.Msg {
			return SuccessMsg{Token: msg.resp.Token, User: msg.resp.User}
		}
	}

	return m, tea.Batch(cmds...)
}

// cycleFocus moves focus between the form fields, skipping the name field
// while in login mode.
func (m *Model) cycleFocus(key string) {
	step := 1
	if key == "shift+tab" || key == "up" {
		step = fieldCount - 1
	}
	m.focus = (m.focus + step) % fieldCount
	if m.mode == ModeLogin && m.focus == fieldName {
		m.focus = (m.focus + step) % fieldCount
	}
	m.applyFocus()
}

// applyFocus syncs the textinput focus states with m.focus.
func (m *Model) applyFocus() {
	m.name.Blur()
	m.email.Blur()
	m.pass.Blur()
	switch m.focus {
	case fieldName:
		m.name.Focus()
	case fieldEmail:
		m.email.Focus()
	default:
		m.pass.Focus()
	}
}

// toggleMode flips between login and signup.
func (m *Model) toggleMode() {
	if m.mode == ModeLogin {
		m.mode = ModeSignup
	} else {
		m.mode = ModeLogin
		if m.focus == fieldName {
			m.focus = fieldEmail
			m.applyFocus()
		}
	}
}

// updateFields routes key events to the focused input.
func (m *Model) updateFields(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case fieldName:
		m.name, cmd = m.name.Update(msg)
	case fieldEmail:
		m.email, cmd = m.email.Update(msg)
	default:
		m.pass, cmd = m.pass.Update(msg)
	}
	return cmd
}

// submit validates the form and calls the backend.
func (m *Model) submit() tea.Cmd {
	if m.busy {
		return nil
	}

	name := strings.TrimSpace(m.name.Value())
	email := strings.TrimSpace(m.email.Value())
	pass := m.pass.Value()

	if m.mode == ModeSignup && name == "" {
		m.toasts.Error("Enter your name")
		return nil
	}
	if email == "" || !strings.Contains(email, "@") {
		m.toasts.Error("Enter a valid email address")
		return nil
	}
	if pass == "" {
		m.toasts.Error("Enter your password")
		return nil
	}

	m.busy = true
	client := m.client
	mode := m.mode
	creds := api.Credentials{Email: email, Password: pass}
	if mode == ModeSignup {
		creds.Name = name
	}

	return func() tea.Msg {
		var resp *api.AuthResponse
		var err error
		if mode == ModeSignup {
			resp, err = client.Signup(context.Background(), creds)
		} else {
			resp, err = client.Login(context.Background(), creds)
		}
		return authResultMsg{resp: resp, err: err}
	}
}

// authErrorMessage maps auth failures to user-facing text.
func authErrorMessage(err error) string {
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		return "Email or password is incorrect"
	case errors.Is(err, api.ErrUnreachable):
		return "Could not reach the server. Check your connection"
	default:
		return "Sign-in failed: " + err.Error()
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the form centered on screen.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.theme.FormTitle.Render(m.mode.Title()))
	b.WriteString("\n\n")

	if m.mode == ModeSignup {
		b.WriteString(m.theme.FormLabel.Render("Name"))
		b.WriteString("\n")
		b.WriteString(m.fieldStyle(fieldName).Render(m.name.View()))
		b.WriteString("\n\n")
	}

	b.WriteString(m.theme.FormLabel.Render("Email"))
	b.WriteString("\n")
	b.WriteString(m.fieldStyle(fieldEmail).Render(m.email.View()))
	b.WriteString("\n\n")

	b.WriteString(m.theme.FormLabel.Render("Password"))
	b.WriteString("\n")
	b.WriteString(m.fieldStyle(fieldPassword).Render(m.pass.View()))
	b.WriteString("\n\n")

	button := "Log in"
	if m.mode == ModeSignup {
		button = "Sign up"
	}
	if m.busy {
		button = "Please wait..."
	}
	b.WriteString(m.theme.FormButton.Render(button))
	b.WriteString("\n\n")

	switcher := "Need an account? Press ctrl+s to sign up"
	if m.mode == ModeSignup {
		switcher = "Have an account? Press ctrl+s to log in"
	}
	b.WriteString(m.theme.FormSwitcher.Render(switcher))

	box := m.theme.FormBox.Render(b.String())

	if toasts := components.RenderToasts(m.theme, m.toasts.Active()); toasts != "" {
		box = box + "\n" + toasts
	}

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

// fieldStyle picks the focused or blurred border.
func (m *Model) fieldStyle(field int) lipgloss.Style {
	if m.focus == field {
		return m.theme.FormFocused
	}
	return m.theme.FormField
}
