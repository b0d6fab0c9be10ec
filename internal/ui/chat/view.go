// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/flamesai/flames-tui/internal/model"
	"github.com/flamesai/flames-tui/internal/ui/components"
)

// Layout constants.
const (
	inputAreaHeight = 4
	statusBarHeight = 1
)

// View renders the conversation view.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if toasts := components.RenderToasts(m.theme, m.toasts.Active()); toasts != "" {
		b.WriteString(toasts)
		b.WriteString("\n")
	}

	b.WriteString(m.renderInputArea())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	return b.String()
}

// refreshTranscript rebuilds the viewport content from the session.
func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}

	transcript := m.session.Transcript()
	if len(transcript) == 0 {
		m.viewport.SetContent(m.hero.View(m.signedIn))
		return
	}

	bubbleWidth := m.width * 3 / 4
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}

	var lines []string
	for _, msg := range transcript {
		lines = append(lines, m.renderMessage(msg, bubbleWidth))
	}

	if m.session.Sending() {
		thinking := m.spinner.View() + " " + m.theme.SendingBadge.Render("Assistant is thinking...")
		lines = append(lines, thinking)
	}

	m.viewport.SetContent(strings.Join(lines, "\n\n"))
	m.viewport.GotoBottom()
}

// renderMessage renders one transcript entry as a bubble.
func (m *Model) renderMessage(msg model.Message, bubbleWidth int) string {
	meta := m.theme.BubbleMeta.Render(
		msg.Role.DisplayName() + " " + msg.Timestamp.Format("15:04"))

	var bubble string
	if msg.Role == model.RoleUser {
		bubble = m.theme.UserBubble.MaxWidth(bubbleWidth).Render(msg.Content)
		block := meta + "\n" + bubble
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Right, block)
	}

	body := components.RenderMessageBody(msg.Content, bubbleWidth, m.theme.IsDark)
	bubble = m.theme.AssistantBubble.MaxWidth(bubbleWidth).Render(body)
	return meta + "\n" + bubble
}

// renderInputArea renders the prompt, pending attachments, and mic state.
func (m *Model) renderInputArea() string {
	var b strings.Builder

	if chips := m.renderFileChips(); chips != "" {
		b.WriteString(chips)
		b.WriteString("\n")
	}

	prompt := m.theme.InputPrompt.Render("> ")
	b.WriteString(m.theme.InputContainer.Width(max(m.width-2, 10)).Render(prompt + m.input.View()))

	return b.String()
}

// renderFileChips renders the pending attachments as chips.
func (m *Model) renderFileChips() string {
	attachments := m.session.Attachments()
	if len(attachments) == 0 {
		return ""
	}

	chips := make([]string, 0, len(attachments))
	for _, ref := range attachments {
		chips = append(chips, m.theme.FileChip.Render("@ "+ref.Name))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, chips...)
}

// renderStatusBar renders shortcuts and the busy indicator.
func (m *Model) renderStatusBar() string {
	var parts []string

	if m.session.Sending() {
		parts = append(parts, m.spinner.View()+m.theme.SendingBadge.Render("sending"))
	}

	parts = append(parts,
		m.theme.ShortcutKey.Render("enter")+m.theme.ShortcutDesc.Render(" send"),
		m.theme.ShortcutKey.Render("/upload <path>")+m.theme.ShortcutDesc.Render(" attach"),
		m.theme.ShortcutKey.Render("/clear")+m.theme.ShortcutDesc.Render(" reset"),
	)

	if m.recognizer != nil && m.recognizer.Available() {
		if m.capturing {
			parts = append(parts, m.theme.MicActive.Render("* listening"))
		} else {
			parts = append(parts, m.theme.ShortcutKey.Render("ctrl+r")+m.theme.ShortcutDesc.Render(" voice"))
		}
	}

	return m.theme.StatusBar.Width(max(m.width, 10)).Render(strings.Join(parts, "  "))
}
