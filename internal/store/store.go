// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store provides the persisted key/value store backing the auth
// session and theme preference. It is the terminal-client counterpart of the
// browser's origin-scoped local storage: writes are immediately visible to
// subsequent reads and survive restarts until explicitly removed.
package store

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/flamesai/flames-tui/internal/util"
)

// Well-known keys. Each manager owns a disjoint set, so no cross-manager
// coordination is needed.
const (
	KeyToken = "token"
	KeyUser  = "user"
	KeyTheme = "theme"
)

// Store persists string values under named keys, one file per key.
type Store struct {
	// BaseDir is the directory holding the key files.
	// Default: ~/.flames/state/
	BaseDir string
}

// New creates a store rooted at the default state directory.
func New() (*Store, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewWithDir(filepath.Join(homeDir, ".flames", "state"))
}

// NewWithDir creates a store rooted at a custom directory.
func NewWithDir(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, err
	}
	return &Store{BaseDir: baseDir}, nil
}

// Read returns the value stored under key, or ok=false when absent.
func (s *Store) Read(key string) (string, bool) {
	data, err := os.ReadFile(s.filePath(key))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Write stores value under key. The write is atomic and durable.
func (s *Store) Write(key, value string) error {
	return util.AtomicWriteFile(s.filePath(key), []byte(value), 0600)
}

// Remove deletes the value stored under key. Removing an absent key is not
// an error.
func (s *Store) Remove(key string) error {
	err := os.Remove(s.filePath(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// filePath returns the file path for a key. Keys are reduced to a safe
// character set so no key, including "..", can escape the base directory.
func (s *Store) filePath(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	name := b.String()
	if name == "" {
		name = "_"
	}
	return filepath.Join(s.BaseDir, name)
}
