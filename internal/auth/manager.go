// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth provides the client-side auth session: the bearer token and
// user profile held in memory and mirrored into the persisted store. It
// performs no network calls.
package auth

import (
	"encoding/json"
	"sync"

	"github.com/flamesai/flames-tui/internal/model"
	"github.com/flamesai/flames-tui/internal/store"
)

// Session is the authenticated identity held by the client. Token and User
// are set and cleared together: a session either has both or neither.
type Session struct {
	Token string
	User  *model.UserProfile
}

// Authenticated reports whether the session carries a token.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Manager owns the in-memory session and keeps the persisted store in sync.
type Manager struct {
	mu      sync.Mutex
	store   *store.Store
	current Session
}

// NewManager creates a manager hydrated from the persisted store. Malformed
// or partial stored state is treated as no session rather than an error.
func NewManager(st *store.Store) *Manager {
	m := &Manager{store: st}

	token, ok := st.Read(store.KeyToken)
	if !ok || token == "" {
		return m
	}
	raw, ok := st.Read(store.KeyUser)
	if !ok {
		return m
	}
	var user model.UserProfile
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return m
	}

	m.current = Session{Token: token, User: &user}
	return m
}

// Current returns the in-memory session.
func (m *Manager) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Token returns the current bearer token, or "" when unauthenticated. It
// satisfies the gateway's token-provider contract.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current.Token
}

// Establish replaces the session wholesale and persists both fields. Any
// non-empty token is accepted; the profile is stored as JSON.
func (m *Manager) Establish(token string, user *model.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := m.store.Write(store.KeyToken, token); err != nil {
		return err
	}
	if err := m.store.Write(store.KeyUser, string(data)); err != nil {
		// Keep the invariant: roll the token back rather than persist a
		// token-without-user state.
		m.store.Remove(store.KeyToken)
		return err
	}

	m.current = Session{Token: token, User: user}
	return nil
}

// Clear drops the session in memory and removes both persisted fields.
// Idempotent.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Remove(store.KeyToken); err != nil {
		return err
	}
	if err := m.store.Remove(store.KeyUser); err != nil {
		return err
	}

	m.current = Session{}
	return nil
}
