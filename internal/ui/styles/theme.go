// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the flames TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header      lipgloss.Style
	HeaderBrand lipgloss.Style
	NavItem     lipgloss.Style
	NavActive   lipgloss.Style
	AuthBadge   lipgloss.Style
	ThemeBadge  lipgloss.Style

	// ==========================================================================
	// HERO BANNER STYLES
	// ==========================================================================

	HeroBox      lipgloss.Style
	HeroTitle    lipgloss.Style
	HeroSubtitle lipgloss.Style
	HeroHint     lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	BubbleMeta      lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style
	FileChip         lipgloss.Style
	MicBadge         lipgloss.Style
	MicActive        lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	SendingBadge lipgloss.Style

	// ==========================================================================
	// DASHBOARD STYLES
	// ==========================================================================

	ListBox          lipgloss.Style
	ListItem         lipgloss.Style
	ListItemSelected lipgloss.Style
	ListTitle        lipgloss.Style
	ListMeta         lipgloss.Style
	EmptyState       lipgloss.Style

	// ==========================================================================
	// LOGIN FORM STYLES
	// ==========================================================================

	FormBox      lipgloss.Style
	FormTitle    lipgloss.Style
	FormLabel    lipgloss.Style
	FormField    lipgloss.Style
	FormFocused  lipgloss.Style
	FormButton   lipgloss.Style
	FormSwitcher lipgloss.Style

	// ==========================================================================
	// TOAST STYLES
	// ==========================================================================

	ToastError lipgloss.Style
	ToastInfo  lipgloss.Style

	// ==========================================================================
	// STATUS MESSAGE STYLES
	// ==========================================================================

	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	InfoStyle    lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		IsDark:       lipgloss.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// Refresh rebuilds all styles. Call after the light/dark preference flips
// so adaptive colors resolve against the new background.
func (t *Theme) Refresh() {
	t.IsDark = lipgloss.HasDarkBackground()
	t.initStyles()
}

// SetSize records the terminal dimensions for width-aware styles.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.HeaderBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(Flame)
	t.NavItem = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)
	t.NavActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Underline(true).
		Padding(0, 1)
	t.AuthBadge = lipgloss.NewStyle().
		Foreground(Emerald)
	t.ThemeBadge = lipgloss.NewStyle().
		Foreground(TextMuted).
		Padding(0, 1)

	// Hero banner
	t.HeroBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Flame).
		Padding(1, 3).
		Align(lipgloss.Center)
	t.HeroTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(GradientStart)
	t.HeroSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary)
	t.HeroHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1)
	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		Background(AssistantBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 1)
	t.BubbleMeta = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(FocusRing).
		Padding(0, 1)
	t.InputPrompt = lipgloss.NewStyle().
		Bold(true).
		Foreground(Flame)
	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.FileChip = lipgloss.NewStyle().
		Foreground(Cyan).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.MicBadge = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.MicActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(Rose)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)
	t.ShortcutKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)
	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.SendingBadge = lipgloss.NewStyle().
		Bold(true).
		Foreground(Amber)

	// Dashboard
	t.ListBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.ListItem = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)
	t.ListItemSelected = lipgloss.NewStyle().
		Bold(true).
		Foreground(Flame).
		Background(SelectionBg).
		Padding(0, 1)
	t.ListTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)
	t.ListMeta = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.EmptyState = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true).
		Padding(1, 2)

	// Login form
	t.FormBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Indigo).
		Padding(1, 3)
	t.FormTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Flame)
	t.FormLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)
	t.FormField = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.FormFocused = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(FocusRing).
		Padding(0, 1)
	t.FormButton = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Flame).
		Padding(0, 2)
	t.FormSwitcher = lipgloss.NewStyle().
		Foreground(Cyan).
		Underline(true)

	// Toasts
	t.ToastError = lipgloss.NewStyle().
		Bold(true).
		Foreground(Rose).
		Background(RoseDeep).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Padding(0, 1)
	t.ToastInfo = lipgloss.NewStyle().
		Foreground(Cyan).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Cyan).
		Padding(0, 1)

	// Status messages
	t.SuccessStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Emerald)
	t.ErrorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Rose)
	t.InfoStyle = lipgloss.NewStyle().
		Foreground(Cyan)
}
