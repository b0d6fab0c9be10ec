// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package theme manages the light/dark preference: hydrated from the
// persisted store, toggled by the user, and applied to the render root so
// lipgloss adaptive colors pick the right palette.
package theme

import (
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/flamesai/flames-tui/internal/store"
)

// Preference is the user's color scheme choice.
type Preference string

const (
	Light Preference = "light"
	Dark  Preference = "dark"
)

// Manager owns the current preference and keeps the store and renderer in
// sync.
type Manager struct {
	mu      sync.Mutex
	store   *store.Store
	current Preference

	// apply pushes the preference onto the render root. Swappable in tests.
	apply func(Preference)
}

// NewManager creates a manager hydrated from the store, defaulting to Light,
// and applies the hydrated preference immediately.
func NewManager(st *store.Store) *Manager {
	m := &Manager{
		store:   st,
		current: Light,
		apply:   applyToRenderer,
	}
	if v, ok := st.Read(store.KeyTheme); ok && Preference(v) == Dark {
		m.current = Dark
	}
	m.apply(m.current)
	return m
}

// Current returns the active preference.
func (m *Manager) Current() Preference {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Toggle flips light and dark, persists the new preference, and applies it.
func (m *Manager) Toggle() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := Dark
	if m.current == Dark {
		next = Light
	}
	if err := m.store.Write(store.KeyTheme, string(next)); err != nil {
		return err
	}

	m.current = next
	m.apply(next)
	return nil
}

// applyToRenderer is the terminal analog of toggling a dark class on the
// document root: adaptive colors resolve against this flag.
func applyToRenderer(p Preference) {
	lipgloss.SetHasDarkBackground(p == Dark)
}
