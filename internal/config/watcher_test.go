// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"testing"
	"time"
)

func TestWatcherReloadsOnFileChange(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := Default()
	cfg.Backend.BaseURL = "https://before.example.com"
	if err := Save(cfg); err != nil {
		t.Fatal(err)
	}
	SetGlobal(cfg)

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(func(c *Config) {
		select {
		case reloaded <- c:
		default:
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { w.Close() })
	if err := w.Watch(); err != nil {
		t.Fatal(err)
	}

	next := Default()
	next.Backend.BaseURL = "https://after.example.com"
	if err := Save(next); err != nil {
		t.Fatal(err)
	}

	select {
	case c := <-reloaded:
		if c.Backend.BaseURL != "https://after.example.com" {
			t.Errorf("reloaded base URL = %s, want the new value", c.Backend.BaseURL)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("config change was never reloaded")
	}
}
