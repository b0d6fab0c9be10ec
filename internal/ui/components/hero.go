// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/flamesai/flames-tui/internal/ui/styles"
)

// =============================================================================
// HERO BANNER
// =============================================================================

// heroLogo is the banner shown above an empty conversation.
const heroLogo = `
  __ _
 / _| | __ _ _ __ ___   ___  ___
| |_| |/ _' | '_ ' _ \ / _ \/ __|
|  _| | (_| | | | | | |  __/\__ \
|_| |_|\__,_|_| |_| |_|\___||___/
`

// Hero renders the welcome banner with the tagline and first-use hints.
type Hero struct {
	theme   *styles.Theme
	width   int
	compact bool
}

// NewHero creates the hero banner component.
func NewHero(theme *styles.Theme) *Hero {
	return &Hero{theme: theme}
}

// SetWidth sets the render width.
func (h *Hero) SetWidth(width int) {
	h.width = width
}

// SetCompact collapses the logo on short terminals.
func (h *Hero) SetCompact(compact bool) {
	h.compact = compact
}

// View renders the banner centered in the available width.
func (h *Hero) View(signedIn bool) string {
	var b strings.Builder

	if !h.compact {
		b.WriteString(h.theme.HeroTitle.Render(strings.Trim(heroLogo, "\n")))
		b.WriteString("\n\n")
	} else {
		b.WriteString(h.theme.HeroTitle.Render("flames"))
		b.WriteString("\n")
	}

	b.WriteString(h.theme.HeroSubtitle.Render("Ask anything. Your AI assistant is ready."))
	b.WriteString("\n\n")

	if signedIn {
		b.WriteString(h.theme.HeroHint.Render("Type a message and press Enter to start chatting"))
	} else {
		b.WriteString(h.theme.HeroHint.Render("Press ctrl+l to log in, or just start typing"))
	}

	box := h.theme.HeroBox.Render(b.String())
	if h.width > lipgloss.Width(box) {
		return lipgloss.PlaceHorizontal(h.width, lipgloss.Center, box)
	}
	return box
}
