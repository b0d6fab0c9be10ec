// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package speech

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestProbeMissingCommand(t *testing.T) {
	cap := Probe("definitely-not-a-real-transcriber-cmd")
	if cap.Available {
		t.Error("probe should fail for missing command")
	}
}

func TestProbeEmptyCommand(t *testing.T) {
	cap := Probe("")
	if cap.Available {
		t.Error("empty command means speech disabled")
	}
}

func TestProbeFindsCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on sh")
	}
	cap := Probe("sh")
	if !cap.Available {
		t.Fatal("sh should be on PATH")
	}
	if cap.Command == "" {
		t.Error("resolved command path should be set")
	}
}

// fakeTranscriber writes a script that prints the given text and returns
// a recognizer wired to it.
func fakeTranscriber(t *testing.T, script string) *Recognizer {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("relies on sh scripts")
	}
	path := filepath.Join(t.TempDir(), "transcriber")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0700); err != nil {
		t.Fatal(err)
	}
	return NewRecognizer(Capability{Available: true, Command: path})
}

func TestCaptureReturnsTranscript(t *testing.T) {
	r := fakeTranscriber(t, "echo '  hello from voice  '")

	text, err := r.Capture(context.Background())
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if text != "hello from voice" {
		t.Errorf("unexpected transcript: %q", text)
	}
}

func TestCaptureNoSpeech(t *testing.T) {
	r := fakeTranscriber(t, "true")
	if _, err := r.Capture(context.Background()); !errors.Is(err, ErrNoSpeech) {
		t.Errorf("expected ErrNoSpeech, got %v", err)
	}
}

func TestCaptureFailure(t *testing.T) {
	r := fakeTranscriber(t, "echo 'mic not found' >&2; exit 1")
	_, err := r.Capture(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "transcriber failed: mic not found" {
		t.Errorf("unexpected error: %v", got)
	}
}

func TestCaptureTimeout(t *testing.T) {
	r := fakeTranscriber(t, "sleep 5").WithTimeout(50 * time.Millisecond)
	if _, err := r.Capture(context.Background()); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline error, got %v", err)
	}
}

func TestCaptureUnavailable(t *testing.T) {
	r := NewRecognizer(Capability{})
	if _, err := r.Capture(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}
