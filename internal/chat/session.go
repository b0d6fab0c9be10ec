// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat tracks the state of the active conversation.
//
// A Session owns the transcript, the server-side conversation identifier,
// and any pending file attachments. Sends follow a strict lifecycle: a
// BeginSend appends the user message and marks the session busy, then
// exactly one of CompleteSend or FailSend finishes the exchange. A second
// send while busy is rejected with ErrBusy rather than queued.
package chat

import (
	"errors"
	"sync"

	"github.com/flamesai/flames-tui/internal/model"
)

// ErrBusy indicates a send is already in flight.
var ErrBusy = errors.New("a message is already being sent")

// ErrEmptyMessage indicates a send with no content.
var ErrEmptyMessage = errors.New("message is empty")

// =============================================================================
// SESSION
// =============================================================================

// Session is the state of the active conversation.
type Session struct {
	mu sync.Mutex

	transcript     []model.Message
	conversationID string
	attachments    []model.FileRef
	sending        bool
}

// NewSession creates an empty chat session.
func NewSession() *Session {
	return &Session{}
}

// =============================================================================
// READ ACCESSORS
// =============================================================================

// Transcript returns a copy of the message transcript.
func (s *Session) Transcript() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// ConversationID returns the server-side conversation identifier, or ""
// before the first successful exchange.
func (s *Session) ConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversationID
}

// Attachments returns a copy of the pending file attachments.
func (s *Session) Attachments() []model.FileRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.FileRef, len(s.attachments))
	copy(out, s.attachments)
	return out
}

// Sending reports whether a send is in flight.
func (s *Session) Sending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sending
}

// Empty reports whether the transcript has no messages.
func (s *Session) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transcript) == 0
}

// =============================================================================
// SEND LIFECYCLE
// =============================================================================

// Outbound describes a send accepted by BeginSend.
type Outbound struct {
	// Message is the user message already appended to the transcript.
	Message model.Message

	// ConversationID is the conversation to continue, or "" for a new one.
	ConversationID string

	// FileIDs are the attachment references consumed by this send.
	FileIDs []string
}

// BeginSend appends the user message, consumes pending attachments, and
// marks the session busy. It fails with ErrBusy while another send is in
// flight and ErrEmptyMessage when content is blank.
func (s *Session) BeginSend(content string) (*Outbound, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sending {
		return nil, ErrBusy
	}
	if content == "" {
		return nil, ErrEmptyMessage
	}

	msg := model.NewUserMessage(content)
	s.transcript = append(s.transcript, msg)

	fileIDs := make([]string, 0, len(s.attachments))
	for _, ref := range s.attachments {
		fileIDs = append(fileIDs, ref.ID)
	}
	s.attachments = nil
	s.sending = true

	return &Outbound{
		Message:        msg,
		ConversationID: s.conversationID,
		FileIDs:        fileIDs,
	}, nil
}

// CompleteSend records the assistant reply and adopts the conversation
// identifier returned by the backend.
func (s *Session) CompleteSend(conversationID, reply string) model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conversationID != "" {
		s.conversationID = conversationID
	}
	msg := model.NewAssistantMessage(reply)
	s.transcript = append(s.transcript, msg)
	s.sending = false
	return msg
}

// FailSend clears the busy flag after a failed exchange. The user message
// stays in the transcript; no assistant message is appended.
func (s *Session) FailSend() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sending = false
}

// =============================================================================
// ATTACHMENTS
// =============================================================================

// Attach adds an uploaded file to the pending attachments.
func (s *Session) Attach(ref model.FileRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attachments = append(s.attachments, ref)
}

// DetachAll drops all pending attachments.
func (s *Session) DetachAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attachments = nil
}

// =============================================================================
// RESET AND RESTORE
// =============================================================================

// Clear resets the session to its initial state. It always succeeds
// locally; callers clear server-side history separately.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = nil
	s.conversationID = ""
	s.attachments = nil
	s.sending = false
}

// Restore replaces the session contents with a previously saved
// conversation. Any in-flight send state is discarded.
func (s *Session) Restore(conversationID string, transcript []model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversationID = conversationID
	s.transcript = make([]model.Message, len(transcript))
	copy(s.transcript, transcript)
	s.attachments = nil
	s.sending = false
}
