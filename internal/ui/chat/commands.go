// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/flamesai/flames-tui/internal/api"
	chatstate "github.com/flamesai/flames-tui/internal/chat"
	"github.com/flamesai/flames-tui/internal/history"
	"github.com/flamesai/flames-tui/internal/model"
)

// =============================================================================
// ASYNC MESSAGES
// =============================================================================

// sendResultMsg carries the outcome of a message exchange.
type sendResultMsg struct {
	conversationID string
	reply          string
	err            error
}

// uploadResultMsg carries the outcome of a file upload.
type uploadResultMsg struct {
	ref model.FileRef
	err error
}

// captureResultMsg carries the outcome of a voice capture.
type captureResultMsg struct {
	text string
	err  error
}

// clearResultMsg carries the outcome of a server-side history clear.
type clearResultMsg struct {
	err error
}

// =============================================================================
// COMMANDS
// =============================================================================

// sendCmd performs the network exchange for an accepted send. The session
// state machine is resolved here, in the command goroutine, so Sending
// always returns to Idle when the request finishes even if the user has
// switched to another view and the result message is never delivered.
func (m *Model) sendCmd(out *chatstate.Outbound) tea.Cmd {
	client := m.client
	session := m.session
	autosaver := m.autosaver
	return func() tea.Msg {
		resp, err := client.SendMessage(context.Background(), out.Message.Content, out.ConversationID, out.FileIDs)
		if err != nil {
			session.FailSend()
			return sendResultMsg{err: err}
		}
		session.CompleteSend(resp.ConversationID, resp.Response)
		notifyAutosave(session, autosaver)
		return sendResultMsg{conversationID: resp.ConversationID, reply: resp.Response}
	}
}

// notifyAutosave pushes the current transcript to the local cache.
func notifyAutosave(session *chatstate.Session, autosaver *history.Autosaver) {
	if autosaver == nil {
		return
	}
	transcript := session.Transcript()
	title := ""
	if len(transcript) > 0 {
		title = transcript[0].Preview(60)
	}
	autosaver.Notify(history.Snapshot{
		ConversationID: session.ConversationID(),
		Title:          title,
		Transcript:     transcript,
	})
}

// uploadCmd uploads a local file as an attachment.
func (m *Model) uploadCmd(path string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ref, err := client.UploadFile(context.Background(), path)
		if err != nil {
			return uploadResultMsg{err: err}
		}
		return uploadResultMsg{ref: *ref}
	}
}

// captureCmd runs the speech transcriber.
func (m *Model) captureCmd() tea.Cmd {
	recognizer := m.recognizer
	return func() tea.Msg {
		text, err := recognizer.Capture(context.Background())
		return captureResultMsg{text: text, err: err}
	}
}

// clearCmd clears server-side history. The local reset already happened.
func (m *Model) clearCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return clearResultMsg{err: client.ClearConversations(context.Background())}
	}
}

// sendErrorMessage maps send failures to user-facing text.
func sendErrorMessage(err error) string {
	switch {
	case errors.Is(err, chatstate.ErrBusy):
		return "Hold on, the assistant is still replying"
	case errors.Is(err, chatstate.ErrEmptyMessage):
		return "Nothing to send"
	case errors.Is(err, api.ErrUnauthorized):
		return "Your session expired. Please log in again"
	case errors.Is(err, api.ErrUnreachable):
		return "Could not reach the assistant. Check your connection"
	default:
		return "Message failed: " + err.Error()
	}
}
