// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// sessions.go - Conversation listing and management from the command line.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/flamesai/flames-tui/internal/api"
	"github.com/flamesai/flames-tui/internal/history"
	"github.com/flamesai/flames-tui/internal/model"
)

// HandleSessions handles the "sessions" command.
func HandleSessions(args Args) error {
	switch args.Subcommand {
	case "", "list":
		return listSessions(args)
	case "clear", "delete-all":
		return clearSessions(args)
	default:
		return fmt.Errorf("unknown sessions subcommand: %s\nUsage: flames sessions [list|clear]", args.Subcommand)
	}
}

func listSessions(args Args) error {
	e, err := newEnv(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.Timeout())
	defer cancel()

	cached := false
	items, err := e.client.ListConversations(ctx)
	if errors.Is(err, api.ErrUnreachable) {
		// Backend down: fall back to the local history cache
		items, err = listCached(e)
		cached = true
	}
	if err != nil {
		return err
	}

	if args.JSON {
		return printSessionsJSON(items, cached)
	}

	title := "Conversations"
	if cached {
		title += " (offline copy)"
	}
	fmt.Println(titleStyle.Render(title))
	if len(items) == 0 {
		fmt.Println(dimStyle.Render("  No conversations yet"))
		return nil
	}
	for _, item := range items {
		fmt.Println(statusLine(item.ID, item.DisplayTitle()))
	}
	return nil
}

func listCached(e *env) ([]model.ConversationSummary, error) {
	path, err := history.DefaultPath()
	if err != nil {
		return nil, err
	}
	hist, err := history.Open(path, e.cfg.UI.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("backend unreachable and local cache unavailable: %w", err)
	}
	defer hist.Close()
	return hist.List()
}

func clearSessions(args Args) error {
	if !args.Confirm {
		return errors.New("clearing deletes every conversation; re-run with --confirm")
	}
	e, err := newEnv(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.Timeout())
	defer cancel()

	if err := e.client.ClearConversations(ctx); err != nil {
		return err
	}

	// Keep the offline cache in step with the server
	clearLocalCache(e)

	if !args.Quiet {
		fmt.Println(okStyle.Render("[OK]"), "All conversations deleted")
	}
	return nil
}

func printSessionsJSON(items []model.ConversationSummary, cached bool) error {
	resp := newJSONResponse("sessions", struct {
		Cached        bool                        `json:"cached"`
		Conversations []model.ConversationSummary `json:"conversations"`
	}{Cached: cached, Conversations: items})
	return resp.Print()
}
