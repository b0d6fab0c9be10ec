// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package help

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/flamesai/flames-tui/internal/ui/styles"
)

func TestRenderIncludesCoreTopics(t *testing.T) {
	m := New(styles.NewTheme())
	m.SetSize(100, 30)

	// glamour styles the heading as separate ANSI segments; strip the
	// escape sequences so the plain text can be matched.
	out := ansi.Strip(m.View())
	if !strings.Contains(out, "flames help") {
		t.Errorf("title missing: %q", out)
	}
}

func TestRenderedContentCoversCommands(t *testing.T) {
	m := New(styles.NewTheme())
	m.SetSize(120, 50)

	for _, topic := range []string{"/upload", "/clear", "ctrl+r", "ctrl+t"} {
		if !strings.Contains(m.rendered, topic) {
			t.Errorf("help should document %s", topic)
		}
	}
}

func TestViewBeforeSizeIsEmpty(t *testing.T) {
	m := New(styles.NewTheme())
	if m.View() != "" {
		t.Error("view before sizing should be empty")
	}
}
