// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStore_ReadWriteRemove(t *testing.T) {
	s, err := NewWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewWithDir() error = %v", err)
	}

	if _, ok := s.Read(KeyToken); ok {
		t.Error("Read() before any write should report absent")
	}

	if err := s.Write(KeyToken, "t1"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, ok := s.Read(KeyToken)
	if !ok || got != "t1" {
		t.Errorf("Read() = (%q, %v), want (%q, true)", got, ok, "t1")
	}

	// Overwrite replaces the value.
	if err := s.Write(KeyToken, "t2"); err != nil {
		t.Fatalf("Write() overwrite error = %v", err)
	}
	if got, _ := s.Read(KeyToken); got != "t2" {
		t.Errorf("Read() after overwrite = %q, want %q", got, "t2")
	}

	if err := s.Remove(KeyToken); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, ok := s.Read(KeyToken); ok {
		t.Error("Read() after Remove() should report absent")
	}

	// Remove is idempotent.
	if err := s.Remove(KeyToken); err != nil {
		t.Errorf("Remove() of absent key should be nil, got %v", err)
	}
}

func TestStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	s1, _ := NewWithDir(dir)
	if err := s1.Write(KeyTheme, "dark"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	// A fresh store over the same directory simulates a process restart.
	s2, _ := NewWithDir(dir)
	got, ok := s2.Read(KeyTheme)
	if !ok || got != "dark" {
		t.Errorf("Read() from new instance = (%q, %v), want (%q, true)", got, ok, "dark")
	}
}

func TestStore_KeySanitized(t *testing.T) {
	s, _ := NewWithDir(t.TempDir())
	if err := s.Write("../escape", "x"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if got, ok := s.Read("../escape"); !ok || got != "x" {
		t.Errorf("Read() = (%q, %v), want (%q, true)", got, ok, "x")
	}
}

func TestStore_KeyCannotEscapeBaseDir(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "state")
	s, err := NewWithDir(dir)
	if err != nil {
		t.Fatalf("NewWithDir() error = %v", err)
	}

	for _, key := range []string{"..", "../escape", "../../escape", "a/../../b"} {
		if err := s.Write(key, "x"); err != nil {
			t.Fatalf("Write(%q) error = %v", key, err)
		}
	}

	// Every write must land inside the store directory.
	entries, err := os.ReadDir(parent)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "state" {
		t.Errorf("store wrote outside its base directory: %v", entries)
	}
}
