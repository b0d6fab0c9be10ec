// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package speech provides optional voice input through an external
// transcriber command.
//
// Not every machine has speech tooling installed, so availability is
// probed once at startup. When the configured command is missing from
// PATH the UI hides the mic control entirely, and a capture attempt
// returns ErrUnavailable.
package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Error variables for speech capture.
var (
	// ErrUnavailable indicates no transcriber command is installed.
	ErrUnavailable = errors.New("speech input unavailable")

	// ErrNoSpeech indicates the transcriber produced no text.
	ErrNoSpeech = errors.New("no speech detected")
)

// DefaultCaptureTimeout bounds a single capture run.
const DefaultCaptureTimeout = 30 * time.Second

// =============================================================================
// CAPABILITY PROBE
// =============================================================================

// Capability reports what the probe found.
type Capability struct {
	// Available is true when the transcriber command is on PATH.
	Available bool

	// Command is the resolved absolute path, or "" when unavailable.
	Command string
}

// Probe checks whether the transcriber command exists on PATH. An empty
// command name means speech was disabled in the config.
func Probe(command string) Capability {
	if command == "" {
		return Capability{}
	}
	path, err := exec.LookPath(command)
	if err != nil {
		return Capability{}
	}
	return Capability{Available: true, Command: path}
}

// =============================================================================
// RECOGNIZER
// =============================================================================

// Recognizer captures one utterance at a time via the transcriber command.
type Recognizer struct {
	capability Capability
	timeout    time.Duration
}

// NewRecognizer creates a recognizer for a probed capability.
func NewRecognizer(capability Capability) *Recognizer {
	return &Recognizer{
		capability: capability,
		timeout:    DefaultCaptureTimeout,
	}
}

// WithTimeout sets the capture timeout.
func (r *Recognizer) WithTimeout(timeout time.Duration) *Recognizer {
	r.timeout = timeout
	return r
}

// Available reports whether capture can work on this machine.
func (r *Recognizer) Available() bool {
	return r.capability.Available
}

// Capture runs the transcriber and returns the recognized text. The
// command is expected to record until silence and print a transcript
// on stdout.
func (r *Recognizer) Capture(ctx context.Context) (string, error) {
	if !r.capability.Available {
		return "", ErrUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.capability.Command)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("speech capture timed out: %w", ctx.Err())
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("transcriber failed: %s", msg)
		}
		return "", fmt.Errorf("transcriber failed: %w", err)
	}

	text := strings.TrimSpace(stdout.String())
	if text == "" {
		return "", ErrNoSpeech
	}
	return text, nil
}
