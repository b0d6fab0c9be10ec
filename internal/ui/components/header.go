// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/flamesai/flames-tui/internal/ui/styles"
	"github.com/flamesai/flames-tui/internal/util"
)

// =============================================================================
// HEADER
// =============================================================================

// NavTarget identifies one top-level view reachable from the header.
type NavTarget int

const (
	NavChat NavTarget = iota
	NavDashboard
	NavHelp
)

// navLabels are the header labels in display order.
var navLabels = []struct {
	target NavTarget
	label  string
}{
	{NavChat, "Chat"},
	{NavDashboard, "Dashboard"},
	{NavHelp, "Help"},
}

// Header renders the top bar: brand, navigation, auth state, theme badge.
type Header struct {
	theme *styles.Theme

	active   NavTarget
	userName string
	signedIn bool
	darkMode bool
	width    int
}

// NewHeader creates the header component.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{theme: theme}
}

// SetActive marks the current view in the navigation.
func (h *Header) SetActive(target NavTarget) {
	h.active = target
}

// SetAuth updates the signed-in indicator.
func (h *Header) SetAuth(signedIn bool, userName string) {
	h.signedIn = signedIn
	h.userName = userName
}

// SetDarkMode updates the theme badge.
func (h *Header) SetDarkMode(dark bool) {
	h.darkMode = dark
}

// SetWidth sets the render width.
func (h *Header) SetWidth(width int) {
	h.width = width
}

// View renders the header line.
func (h *Header) View() string {
	brand := h.theme.HeaderBrand.Render("flames")

	var nav []string
	for _, item := range navLabels {
		if item.target == h.active {
			nav = append(nav, h.theme.NavActive.Render(item.label))
		} else {
			nav = append(nav, h.theme.NavItem.Render(item.label))
		}
	}

	left := lipgloss.JoinHorizontal(lipgloss.Center,
		brand, "  ", strings.Join(nav, " "))

	right := h.rightSide()

	gap := h.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	line := left + strings.Repeat(" ", gap) + right
	return h.theme.Header.Width(max(h.width, lipgloss.Width(line))).Render(line)
}


// rightSide renders auth state and the theme badge.
func (h *Header) rightSide() string {
	themeBadge := "light"
	if h.darkMode {
		themeBadge = "dark"
	}

	auth := h.theme.NavItem.Render("Log in")
	if h.signedIn {
		name := h.userName
		if name == "" {
			name = "signed in"
		}
		auth = h.theme.AuthBadge.Render(util.TruncateRunes(name, 24))
	}

	return lipgloss.JoinHorizontal(lipgloss.Center,
		auth, h.theme.ThemeBadge.Render("["+themeBadge+"]"))
}
