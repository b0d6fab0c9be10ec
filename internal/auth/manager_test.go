// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flamesai/flames-tui/internal/model"
	"github.com/flamesai/flames-tui/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.NewWithDir(t.TempDir())
	require.NoError(t, err)
	return st
}

// checkInvariant asserts the token-present-iff-user-present invariant.
func checkInvariant(t *testing.T, s Session) {
	t.Helper()
	if (s.Token != "") != (s.User != nil) {
		t.Fatalf("invariant violated: token=%q user=%v", s.Token, s.User)
	}
}

func TestManager_EstablishClearInvariant(t *testing.T) {
	m := NewManager(newTestStore(t))
	checkInvariant(t, m.Current())

	user := &model.UserProfile{ID: float64(1), Email: "a@b.com"}

	// Arbitrary sequences of establish/clear keep the invariant.
	require.NoError(t, m.Establish("t1", user))
	checkInvariant(t, m.Current())

	require.NoError(t, m.Establish("t2", user))
	checkInvariant(t, m.Current())

	require.NoError(t, m.Clear())
	checkInvariant(t, m.Current())

	// Clear is idempotent.
	require.NoError(t, m.Clear())
	checkInvariant(t, m.Current())

	require.NoError(t, m.Establish("t3", user))
	checkInvariant(t, m.Current())
	assert.True(t, m.Current().Authenticated())
	assert.Equal(t, "t3", m.Token())
}

func TestManager_RoundTrip(t *testing.T) {
	st := newTestStore(t)

	m1 := NewManager(st)
	require.NoError(t, m1.Establish("t1", &model.UserProfile{Email: "a@b.com", Name: "Ada"}))

	// A fresh manager over the same store simulates a reload.
	m2 := NewManager(st)
	s := m2.Current()
	require.NotNil(t, s.User)
	assert.Equal(t, "t1", s.Token)
	assert.Equal(t, "a@b.com", s.User.Email)
	assert.Equal(t, "Ada", s.User.Name)
}

func TestManager_MalformedStoredUser(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Write(store.KeyToken, "t1"))
	require.NoError(t, st.Write(store.KeyUser, "{not json"))

	m := NewManager(st)
	s := m.Current()
	assert.False(t, s.Authenticated(), "malformed stored user should yield no session")
	checkInvariant(t, s)
}

func TestManager_TokenWithoutUser(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Write(store.KeyToken, "t1"))

	m := NewManager(st)
	assert.False(t, m.Current().Authenticated())
	checkInvariant(t, m.Current())
}

func TestManager_ClearRemovesPersistedState(t *testing.T) {
	st := newTestStore(t)
	m := NewManager(st)
	require.NoError(t, m.Establish("t1", &model.UserProfile{Email: "a@b.com"}))
	require.NoError(t, m.Clear())

	if _, ok := st.Read(store.KeyToken); ok {
		t.Error("token should be removed from the store")
	}
	if _, ok := st.Read(store.KeyUser); ok {
		t.Error("user should be removed from the store")
	}
}
