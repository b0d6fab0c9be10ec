// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/flamesai/flames-tui/internal/api"
	chatstate "github.com/flamesai/flames-tui/internal/chat"
	"github.com/flamesai/flames-tui/internal/history"
	"github.com/flamesai/flames-tui/internal/model"
	"github.com/flamesai/flames-tui/internal/ui/styles"
)

func newTestModel() *Model {
	return newTestModelWith(api.NewClient("http://example.invalid", nil))
}

func newTestModelWith(client *api.Client) *Model {
	m := New(styles.NewTheme(), chatstate.NewSession(), client)
	m.SetSize(100, 30)
	return m
}

// chatBackend serves a fixed reply for every chat exchange.
func chatBackend(t *testing.T, conversationID, reply string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"conversation_id": conversationID,
			"response":        reply,
		})
	}))
	t.Cleanup(server.Close)
	return server
}

// execCmd runs a command the way the bubbletea runtime does, recursively
// unwrapping tea.BatchMsg, and returns the leaf messages it produced.
func execCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, execCmd(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func pressKey(m *Model, key string) tea.Cmd {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func TestSubmitAppendsUserMessage(t *testing.T) {
	m := newTestModel()
	m.input.SetValue("hello there")

	cmd := pressKey(m, "enter")
	if cmd == nil {
		t.Fatal("submit should produce a send command")
	}

	transcript := m.session.Transcript()
	if len(transcript) != 1 || transcript[0].Content != "hello there" {
		t.Fatalf("unexpected transcript: %+v", transcript)
	}
	if !m.session.Sending() {
		t.Error("session should be busy after submit")
	}
	if m.input.Value() != "" {
		t.Error("input should reset after submit")
	}
}

func TestSubmitEmptyIsNoop(t *testing.T) {
	m := newTestModel()
	if cmd := pressKey(m, "enter"); cmd != nil {
		t.Error("empty submit should not produce a command")
	}
	if !m.session.Empty() {
		t.Error("empty submit should not touch the transcript")
	}
}

func TestSubmitWhileBusyShowsToast(t *testing.T) {
	m := newTestModel()
	m.input.SetValue("first")
	pressKey(m, "enter")

	m.input.SetValue("second")
	pressKey(m, "enter")

	if got := len(m.session.Transcript()); got != 1 {
		t.Errorf("busy submit should be rejected, transcript has %d messages", got)
	}

	found := false
	for _, toast := range m.toasts.Active() {
		if strings.Contains(toast.Message, "still replying") {
			found = true
		}
	}
	if !found {
		t.Error("busy rejection should surface a toast")
	}
}

func TestSendExchangeSuccess(t *testing.T) {
	server := chatBackend(t, "conv_1", "answer")
	m := newTestModelWith(api.NewClient(server.URL, nil))
	m.input.SetValue("question")

	cmd := pressKey(m, "enter")
	if cmd == nil {
		t.Fatal("submit should produce a send command")
	}
	for _, msg := range execCmd(cmd) {
		m.Update(msg)
	}

	transcript := m.session.Transcript()
	if len(transcript) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(transcript))
	}
	if transcript[1].Role != model.RoleAssistant || transcript[1].Content != "answer" {
		t.Errorf("unexpected assistant message: %+v", transcript[1])
	}
	if m.session.ConversationID() != "conv_1" {
		t.Errorf("conversation id not adopted: %s", m.session.ConversationID())
	}
	if m.session.Sending() {
		t.Error("session should be idle after reply")
	}
}

func TestSendExchangeFailureKeepsUserMessage(t *testing.T) {
	m := newTestModelWith(api.NewClient("http://127.0.0.1:1", nil))
	m.input.SetValue("doomed")

	cmd := pressKey(m, "enter")
	if cmd == nil {
		t.Fatal("submit should produce a send command")
	}
	for _, msg := range execCmd(cmd) {
		m.Update(msg)
	}

	transcript := m.session.Transcript()
	if len(transcript) != 1 || transcript[0].Role != model.RoleUser {
		t.Fatalf("failure should keep only the user message: %+v", transcript)
	}
	if m.session.Sending() {
		t.Error("session should recover after failure")
	}

	found := false
	for _, toast := range m.toasts.Active() {
		if strings.Contains(toast.Message, "connection") {
			found = true
		}
	}
	if !found {
		t.Error("network failure should surface a friendly toast")
	}
}

func TestSendResolvesSessionWhileViewInactive(t *testing.T) {
	server := chatBackend(t, "conv_1", "answer")
	m := newTestModelWith(api.NewClient(server.URL, nil))
	m.input.SetValue("hello")

	cmd := pressKey(m, "enter")
	if cmd == nil {
		t.Fatal("submit should produce a send command")
	}

	// The exchange resolves while another view has focus: the command
	// runs, but its result message is never delivered to this view.
	execCmd(cmd)

	if m.session.Sending() {
		t.Error("session must return to idle once the request resolves")
	}
	if _, err := m.session.BeginSend("follow-up"); err != nil {
		t.Errorf("follow-up send should be accepted, got %v", err)
	}
}

func TestSendFailureResolvesSessionWhileViewInactive(t *testing.T) {
	m := newTestModelWith(api.NewClient("http://127.0.0.1:1", nil))
	m.input.SetValue("doomed")

	cmd := pressKey(m, "enter")
	execCmd(cmd)

	if m.session.Sending() {
		t.Error("session must return to idle after an undelivered failure")
	}
	if _, err := m.session.BeginSend("follow-up"); err != nil {
		t.Errorf("follow-up send should be accepted, got %v", err)
	}
}

func TestUploadCommandWithoutPathIsNoop(t *testing.T) {
	m := newTestModel()
	m.input.SetValue("/upload")

	if cmd := pressKey(m, "enter"); cmd != nil {
		t.Error("upload without a path should do nothing")
	}
	if len(m.toasts.Active()) != 0 {
		t.Error("upload without a path should not toast")
	}
}

func TestUploadResultAttaches(t *testing.T) {
	m := newTestModel()
	m.Update(uploadResultMsg{ref: model.FileRef{ID: "file_1", Name: "doc.pdf"}})

	attachments := m.session.Attachments()
	if len(attachments) != 1 || attachments[0].ID != "file_1" {
		t.Fatalf("unexpected attachments: %+v", attachments)
	}

	if chips := m.renderFileChips(); !strings.Contains(chips, "doc.pdf") {
		t.Errorf("file chip missing: %q", chips)
	}
}

func TestClearCommandResetsSession(t *testing.T) {
	m := newTestModel()
	m.session.Restore("conv_1", []model.Message{
		model.NewUserMessage("hello"),
		model.NewAssistantMessage("hi"),
	})

	m.input.SetValue("/clear")
	cmd := pressKey(m, "enter")
	if cmd == nil {
		t.Fatal("clear should schedule a server-side clear")
	}

	if !m.session.Empty() {
		t.Error("local transcript should clear immediately")
	}
	if m.session.ConversationID() != "" {
		t.Error("conversation id should reset")
	}

	// Server failure does not undo the local clear.
	m.Update(clearResultMsg{err: api.ErrUnreachable})
	if !m.session.Empty() {
		t.Error("server failure must not restore local state")
	}
}

func TestClearCommandEmptiesLocalCache(t *testing.T) {
	hist, err := history.Open(filepath.Join(t.TempDir(), "history.db"), 0)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer hist.Close()

	seed := []model.Message{model.NewUserMessage("hello"), model.NewAssistantMessage("hi")}
	if err := hist.SaveConversation("conv_9", "old chat", seed); err != nil {
		t.Fatalf("seed history: %v", err)
	}

	m := newTestModel().WithHistory(hist)
	m.input.SetValue("/clear")
	pressKey(m, "enter")

	n, err := hist.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("clear should empty the local cache, %d conversations remain", n)
	}
}

func TestUnknownCommandToasts(t *testing.T) {
	m := newTestModel()
	m.input.SetValue("/bogus")
	pressKey(m, "enter")

	found := false
	for _, toast := range m.toasts.Active() {
		if strings.Contains(toast.Message, "/bogus") {
			found = true
		}
	}
	if !found {
		t.Error("unknown command should surface a toast")
	}
}

func TestCaptureResultAppendsToInput(t *testing.T) {
	m := newTestModel()
	m.input.SetValue("note:")
	m.capturing = true

	m.Update(captureResultMsg{text: "dictated words"})

	if got := m.input.Value(); got != "note: dictated words" {
		t.Errorf("unexpected input value: %q", got)
	}
	if m.capturing {
		t.Error("capture flag should reset")
	}
}

func TestEmptyTranscriptShowsHero(t *testing.T) {
	m := newTestModel()
	m.refreshTranscript()

	if out := m.viewport.View(); !strings.Contains(out, "Ask anything") {
		t.Errorf("hero banner missing from empty view: %q", out)
	}
}

func TestStatusBarHidesMicWithoutRecognizer(t *testing.T) {
	m := newTestModel()
	if bar := m.renderStatusBar(); strings.Contains(bar, "voice") {
		t.Errorf("mic hint shown without recognizer: %q", bar)
	}
}
