// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui provides the top-level application shell for the flames TUI.
//
// The shell owns the header and the view stack. Exactly one view is
// active at a time; the shell routes input to it and swaps views on
// navigation keys. Session and theme state live in their managers, so a
// view switch never loses the conversation.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/flamesai/flames-tui/internal/api"
	"github.com/flamesai/flames-tui/internal/auth"
	chatstate "github.com/flamesai/flames-tui/internal/chat"
	"github.com/flamesai/flames-tui/internal/history"
	"github.com/flamesai/flames-tui/internal/speech"
	"github.com/flamesai/flames-tui/internal/theme"
	"github.com/flamesai/flames-tui/internal/ui/chat"
	"github.com/flamesai/flames-tui/internal/ui/components"
	"github.com/flamesai/flames-tui/internal/ui/dashboard"
	"github.com/flamesai/flames-tui/internal/ui/help"
	"github.com/flamesai/flames-tui/internal/ui/login"
	"github.com/flamesai/flames-tui/internal/ui/styles"
)

// View identifies the active top-level view.
type View int

const (
	ViewChat View = iota
	ViewLogin
	ViewDashboard
	ViewHelp
)

// headerHeight is the rows consumed by the header bar.
const headerHeight = 2

// =============================================================================
// APP MODEL
// =============================================================================

// App is the root Bubble Tea model.
type App struct {
	// Styling
	theme  *styles.Theme
	themes *theme.Manager

	// Session state
	authMgr *auth.Manager
	session *chatstate.Session
	client  *api.Client

	// Views
	active    View
	chatView  *chat.Model
	loginView *login.Model
	dashView  *dashboard.Model
	helpView  *help.Model
	header    *components.Header

	// Dimensions
	width  int
	height int
}

// Options carries the wired dependencies for the shell.
type Options struct {
	Theme      *styles.Theme
	Themes     *theme.Manager
	Auth       *auth.Manager
	Session    *chatstate.Session
	Client     *api.Client
	History    *history.Store
	Autosaver  *history.Autosaver
	Recognizer *speech.Recognizer
}

// NewApp assembles the application shell.
func NewApp(opts Options) *App {
	chatView := chat.New(opts.Theme, opts.Session, opts.Client)
	if opts.Recognizer != nil {
		chatView.WithRecognizer(opts.Recognizer)
	}
	if opts.Autosaver != nil {
		chatView.WithAutosaver(opts.Autosaver)
	}
	if opts.History != nil {
		chatView.WithHistory(opts.History)
	}

	app := &App{
		theme:     opts.Theme,
		themes:    opts.Themes,
		authMgr:   opts.Auth,
		session:   opts.Session,
		client:    opts.Client,
		chatView:  chatView,
		loginView: login.New(opts.Theme, opts.Client),
		dashView:  dashboard.New(opts.Theme, opts.Client, opts.History),
		helpView:  help.New(opts.Theme),
		header:    components.NewHeader(opts.Theme),
	}
	app.syncHeader()
	return app
}

// Init starts the active view.
func (a *App) Init() tea.Cmd {
	return a.chatView.Init()
}

// =============================================================================
// UPDATE
// =============================================================================

// Update routes messages to the shell and the active view.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layoutViews()
		return a, nil

	case tea.KeyMsg:
		if model, cmd, handled := a.handleGlobalKey(msg); handled {
			return model, cmd
		}

	case login.SuccessMsg:
		if err := a.authMgr.Establish(msg.Token, &msg.User); err != nil {
			a.chatView.Toast().Error("Could not save your session: " + err.Error())
		} else {
			a.chatView.Toast().Status("Signed in as " + msg.User.Email)
		}
		a.switchTo(ViewChat)
		return a, nil

	case dashboard.OpenMsg:
		a.session.Restore(msg.ConversationID, msg.Transcript)
		a.switchTo(ViewChat)
		return a, nil
	}

	return a, a.updateActive(msg)
}

// handleGlobalKey processes shell-level shortcuts before the views see
// them. Returns handled=false for keys the active view owns.
func (a *App) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit, true

	case "esc":
		if a.active != ViewChat {
			a.switchTo(ViewChat)
			return a, nil, true
		}
		return a, nil, false

	case "ctrl+t":
		a.toggleTheme()
		return a, nil, true

	case "ctrl+l":
		if a.authMgr.Current().Authenticated() {
			a.logout()
			return a, nil, true
		}
		a.loginView.Reset()
		a.switchTo(ViewLogin)
		return a, a.loginView.Init(), true

	case "ctrl+d":
		a.switchTo(ViewDashboard)
		return a, a.dashView.Init(), true

	case "ctrl+g":
		a.switchTo(ViewHelp)
		return a, a.helpView.Init(), true
	}

	return a, nil, false
}

// updateActive forwards a message to the active view only. Background
// views keep their state but receive nothing; this routing is purely
// about rendering. Session state is resolved inside the async commands
// themselves, so an exchange that finishes while its view is inactive
// still completes, and switchTo refreshes the chat transcript on return.
func (a *App) updateActive(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.active {
	case ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case ViewLogin:
		a.loginView, cmd = a.loginView.Update(msg)
	case ViewDashboard:
		a.dashView, cmd = a.dashView.Update(msg)
	case ViewHelp:
		a.helpView, cmd = a.helpView.Update(msg)
	}
	return cmd
}

// switchTo activates a view and refreshes the header.
func (a *App) switchTo(view View) {
	a.active = view
	if view == ViewChat {
		a.chatView.Refresh()
	}
	a.syncHeader()
}

// toggleTheme flips the persisted preference and rebuilds all styles.
func (a *App) toggleTheme() {
	if err := a.themes.Toggle(); err != nil {
		a.chatView.Toast().Error("Could not save theme preference: " + err.Error())
	}
	a.theme.Refresh()
	a.helpView.Refresh()
	a.syncHeader()
}

// logout clears the persisted session.
func (a *App) logout() {
	if err := a.authMgr.Clear(); err != nil {
		a.chatView.Toast().Error("Logout failed: " + err.Error())
		return
	}
	a.chatView.Toast().Status("Signed out")
	a.syncHeader()
}

// syncHeader mirrors auth, theme, and navigation state into the header.
func (a *App) syncHeader() {
	session := a.authMgr.Current()
	name := ""
	if session.User != nil {
		name = session.User.Email
	}
	a.header.SetAuth(session.Authenticated(), name)
	a.header.SetDarkMode(a.themes.Current() == theme.Dark)
	a.chatView.SetSignedIn(session.Authenticated())
	a.dashView.SetEmail(name)

	switch a.active {
	case ViewDashboard:
		a.header.SetActive(components.NavDashboard)
	case ViewHelp:
		a.header.SetActive(components.NavHelp)
	default:
		a.header.SetActive(components.NavChat)
	}
}

// layoutViews propagates the terminal size to every view.
func (a *App) layoutViews() {
	a.header.SetWidth(a.width)
	a.theme.SetSize(a.width, a.height)

	body := a.height - headerHeight
	if body < 5 {
		body = 5
	}
	a.chatView.SetSize(a.width, body)
	a.loginView.SetSize(a.width, body)
	a.dashView.SetSize(a.width, body)
	a.helpView.SetSize(a.width, body)
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the header and the active view.
func (a *App) View() string {
	var body string
	switch a.active {
	case ViewLogin:
		body = a.loginView.View()
	case ViewDashboard:
		body = a.dashView.View()
	case ViewHelp:
		body = a.helpView.View()
	default:
		body = a.chatView.View()
	}
	return a.header.View() + "\n" + body
}
