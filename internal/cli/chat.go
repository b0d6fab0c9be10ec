// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Plain-terminal chat REPL with input history.
//
// The REPL shares the session state machine and API client with the TUI, so
// slash commands and conversation continuation behave identically.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/flamesai/flames-tui/internal/api"
	"github.com/flamesai/flames-tui/internal/chat"
	"github.com/flamesai/flames-tui/internal/config"
	"github.com/flamesai/flames-tui/internal/history"
)

// =============================================================================
// INPUT
// =============================================================================

// replInput wraps liner with persistent input history.
type replInput struct {
	line        *liner.State
	historyFile string
}

func newReplInput() *replInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.Dir()
	if err != nil {
		dir = os.TempDir()
	}
	in := &replInput{
		line:        line,
		historyFile: filepath.Join(dir, "chat_history"),
	}

	if f, err := os.Open(in.historyFile); err == nil {
		in.line.ReadHistory(f)
		f.Close()
	}
	return in
}

// Read reads one line with history navigation. Non-empty input is appended
// to the history.
func (in *replInput) Read(prompt string) (string, error) {
	input, err := in.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		in.line.AppendHistory(input)
	}
	return input, nil
}

// Close persists history and releases the terminal.
func (in *replInput) Close() {
	if err := config.EnsureDir(); err == nil {
		if f, err := os.OpenFile(in.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			in.line.WriteHistory(f)
			f.Close()
		}
	}
	in.line.Close()
}

// =============================================================================
// HANDLE CHAT
// =============================================================================

// HandleChat handles the "chat" command.
func HandleChat(args Args) error {
	e, err := newEnv(args)
	if err != nil {
		return err
	}

	session := chat.NewSession()
	input := newReplInput()
	defer input.Close()

	if !args.Quiet {
		fmt.Println(titleStyle.Render("flames chat"))
		if account := e.auth.Current(); account.Authenticated() && account.User != nil {
			fmt.Println(dimStyle.Render("Signed in as " + account.User.Email))
		} else {
			fmt.Println(dimStyle.Render("Not signed in. Run 'flames login' to keep conversations."))
		}
		fmt.Println(dimStyle.Render("Type /help for commands, /quit to exit."))
		fmt.Println()
	}

	for {
		line, err := input.Read(promptStyle.Render("you> "))
		if err != nil {
			// Ctrl+C or EOF both end the REPL
			fmt.Println()
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			keepGoing, err := handleReplCommand(line, e, session)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
			}
			if !keepGoing {
				return nil
			}
			continue
		}
		if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
			return nil
		}

		if err := replSend(e, session, line); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
		}
	}
}

// replSend runs one send exchange against the backend.
func replSend(e *env, session *chat.Session, content string) error {
	out, err := session.BeginSend(content)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.Timeout())
	defer cancel()

	resp, err := e.client.SendMessage(ctx, out.Message.Content, out.ConversationID, out.FileIDs)
	if err != nil {
		session.FailSend()
		return replSendError(err)
	}

	session.CompleteSend(resp.ConversationID, resp.Response)
	fmt.Println(assistantStyle.Render(resp.Response))
	fmt.Println()
	return nil
}

func replSendError(err error) error {
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		return errors.New("your session expired; run 'flames login'")
	case errors.Is(err, api.ErrUnreachable):
		return errors.New("could not reach the backend; check your connection")
	default:
		return err
	}
}

// handleReplCommand executes a slash command. The returned bool reports
// whether the REPL should keep running.
func handleReplCommand(line string, e *env, session *chat.Session) (bool, error) {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "/quit", "/exit":
		return false, nil

	case "/help":
		fmt.Println(dimStyle.Render("  /upload <path>  attach a file to the next message"))
		fmt.Println(dimStyle.Render("  /detach         drop pending attachments"))
		fmt.Println(dimStyle.Render("  /clear          start a fresh conversation"))
		fmt.Println(dimStyle.Render("  /quit           leave the REPL"))
		return true, nil

	case "/upload":
		if rest == "" {
			return true, errors.New("usage: /upload <path>")
		}
		ctx, cancel := context.WithTimeout(context.Background(), e.cfg.Timeout())
		defer cancel()
		ref, err := e.client.UploadFile(ctx, rest)
		if err != nil {
			if errors.Is(err, api.ErrFileTooLarge) {
				return true, fmt.Errorf("%s is too large to upload", filepath.Base(rest))
			}
			return true, replSendError(err)
		}
		session.Attach(*ref)
		fmt.Println(okStyle.Render("[OK]"), "Attached", ref.Name)
		return true, nil

	case "/detach":
		session.DetachAll()
		fmt.Println(dimStyle.Render("Attachments dropped"))
		return true, nil

	case "/clear":
		session.Clear()
		clearLocalCache(e)
		ctx, cancel := context.WithTimeout(context.Background(), e.cfg.Timeout())
		defer cancel()
		if err := e.client.ClearConversations(ctx); err != nil {
			return true, fmt.Errorf("local transcript cleared, but the server could not be cleared: %w", replSendError(err))
		}
		fmt.Println(okStyle.Render("[OK]"), "Conversation cleared")
		return true, nil

	default:
		return true, fmt.Errorf("unknown command: %s (try /help)", cmd)
	}
}

// clearLocalCache empties the offline conversation cache so it cannot
// resurrect conversations a clear just deleted. Best effort.
func clearLocalCache(e *env) {
	path, err := history.DefaultPath()
	if err != nil {
		return
	}
	hist, err := history.Open(path, e.cfg.UI.HistoryLimit)
	if err != nil {
		return
	}
	hist.Clear()
	hist.Close()
}
