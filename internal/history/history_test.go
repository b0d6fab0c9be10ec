// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/flamesai/flames-tui/internal/model"
)

func openTestStore(t *testing.T, limit int) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"), limit)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndLoad(t *testing.T) {
	store := openTestStore(t, 0)

	transcript := []model.Message{
		model.NewUserMessage("what is Go?"),
		model.NewAssistantMessage("a programming language"),
	}
	if err := store.SaveConversation("conv_1", "what is Go?", transcript); err != nil {
		t.Fatalf("SaveConversation failed: %v", err)
	}

	loaded, err := store.Load("conv_1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(loaded))
	}
	if loaded[0].Role != model.RoleUser || loaded[0].Content != "what is Go?" {
		t.Errorf("first message mismatch: %+v", loaded[0])
	}
	if loaded[1].Role != model.RoleAssistant {
		t.Errorf("second message role mismatch: %s", loaded[1].Role)
	}
}

func TestSaveReplacesTranscript(t *testing.T) {
	store := openTestStore(t, 0)

	first := []model.Message{model.NewUserMessage("one")}
	store.SaveConversation("conv_1", "t", first)

	second := append(first, model.NewAssistantMessage("two"), model.NewUserMessage("three"))
	if err := store.SaveConversation("conv_1", "t", second); err != nil {
		t.Fatalf("SaveConversation failed: %v", err)
	}

	loaded, err := store.Load("conv_1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 3 {
		t.Errorf("expected 3 messages, got %d", len(loaded))
	}
}

func TestLoadMissing(t *testing.T) {
	store := openTestStore(t, 0)
	if _, err := store.Load("conv_none"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListMostRecentFirst(t *testing.T) {
	store := openTestStore(t, 0)

	store.SaveConversation("conv_old", "older", nil)
	time.Sleep(5 * time.Millisecond)
	store.SaveConversation("conv_new", "newer", nil)

	items, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID != "conv_new" {
		t.Errorf("expected most recent first, got %s", items[0].ID)
	}
}

func TestClear(t *testing.T) {
	store := openTestStore(t, 0)
	store.SaveConversation("conv_1", "a", []model.Message{model.NewUserMessage("hi")})
	store.SaveConversation("conv_2", "b", nil)

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	n, err := store.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("expected empty cache, got %d conversations", n)
	}
	if _, err := store.Load("conv_1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("messages should cascade on clear, got %v", err)
	}
}

func TestLimitTrimsOldest(t *testing.T) {
	store := openTestStore(t, 2)

	for i := 0; i < 3; i++ {
		id := fmt.Sprintf("conv_%d", i)
		if err := store.SaveConversation(id, id, nil); err != nil {
			t.Fatalf("SaveConversation failed: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	n, err := store.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("expected 2 conversations after trim, got %d", n)
	}
	if _, err := store.Load("conv_0"); !errors.Is(err, ErrNotFound) {
		t.Errorf("oldest conversation should be trimmed, got %v", err)
	}
}

func TestAutosaverCoalescesWrites(t *testing.T) {
	store := openTestStore(t, 0)

	saver := NewAutosaver(store, time.Hour, nil)
	defer saver.Close()

	// First notify is saved promptly (limiter starts with one token).
	saver.Notify(Snapshot{
		ConversationID: "conv_1",
		Title:          "first",
		Transcript:     []model.Message{model.NewUserMessage("one")},
	})

	deadline := time.Now().Add(2 * time.Second)
	for {
		if n, _ := store.Count(); n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("first snapshot never saved")
		}
		time.Sleep(20 * time.Millisecond)
	}

	// Subsequent notifies are held back by the limiter until Flush.
	saver.Notify(Snapshot{
		ConversationID: "conv_1",
		Title:          "second",
		Transcript: []model.Message{
			model.NewUserMessage("one"),
			model.NewAssistantMessage("two"),
		},
	})
	time.Sleep(300 * time.Millisecond)

	loaded, err := store.Load("conv_1")
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 1 {
		t.Fatalf("limiter should hold the second snapshot, found %d messages", len(loaded))
	}

	saver.Flush()
	loaded, err = store.Load("conv_1")
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 2 {
		t.Errorf("flush should write the pending snapshot, found %d messages", len(loaded))
	}
}

func TestAutosaverIgnoresUnassignedConversations(t *testing.T) {
	store := openTestStore(t, 0)

	saver := NewAutosaver(store, time.Millisecond, nil)
	defer saver.Close()

	saver.Notify(Snapshot{ConversationID: "", Transcript: []model.Message{model.NewUserMessage("hi")}})
	saver.Flush()

	n, err := store.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("snapshot without conversation id should be ignored, got %d", n)
	}
}
