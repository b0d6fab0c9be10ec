// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - System status reporting.
package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flamesai/flames-tui/internal/api"
	"github.com/flamesai/flames-tui/internal/config"
	"github.com/flamesai/flames-tui/internal/history"
	"github.com/flamesai/flames-tui/internal/speech"
)

// probeTimeout caps the backend reachability check so a dead backend does
// not stall the status command.
const probeTimeout = 3 * time.Second

// statusData is the --json payload for the status command.
type statusData struct {
	Backend struct {
		URL       string `json:"url"`
		Reachable bool   `json:"reachable"`
		Detail    string `json:"detail,omitempty"`
	} `json:"backend"`
	Account struct {
		SignedIn bool   `json:"signed_in"`
		Email    string `json:"email,omitempty"`
	} `json:"account"`
	Speech struct {
		Available bool   `json:"available"`
		Command   string `json:"command,omitempty"`
	} `json:"speech"`
	History struct {
		Conversations int    `json:"conversations"`
		Path          string `json:"path,omitempty"`
	} `json:"history"`
	ConfigPath string `json:"config_path,omitempty"`
}

// HandleStatus handles the "status" command.
func HandleStatus(args Args) error {
	e, err := newEnv(args)
	if err != nil {
		return err
	}
	data := collectStatus(e)

	if args.JSON {
		return newJSONResponse("status", data).Print()
	}

	separator := strings.Repeat("=", 41)
	fmt.Println()
	fmt.Println(titleStyle.Render("flames Status"))
	fmt.Println(separatorStyle.Render(separator))
	fmt.Println()

	fmt.Println(sectionStyle.Render("Backend"))
	fmt.Println(statusLine("URL", data.Backend.URL))
	if data.Backend.Reachable {
		fmt.Println(statusLine("State", okStyle.Render("reachable")))
	} else {
		fmt.Println(statusLine("State", errorStyle.Render("unreachable")))
		if data.Backend.Detail != "" {
			fmt.Println(statusLine("", dimStyle.Render(data.Backend.Detail)))
		}
	}
	fmt.Println()

	fmt.Println(sectionStyle.Render("Account"))
	if data.Account.SignedIn {
		fmt.Println(statusLine("Signed in", data.Account.Email))
	} else {
		fmt.Println(statusLine("Signed in", dimStyle.Render("no (run 'flames login')")))
	}
	fmt.Println()

	fmt.Println(sectionStyle.Render("Voice input"))
	if data.Speech.Available {
		fmt.Println(statusLine("Transcriber", data.Speech.Command))
	} else {
		fmt.Println(statusLine("Transcriber", warnStyle.Render("not found (dictation disabled)")))
	}
	fmt.Println()

	fmt.Println(sectionStyle.Render("Local cache"))
	fmt.Println(statusLine("Conversations", fmt.Sprintf("%d", data.History.Conversations)))
	if data.ConfigPath != "" {
		fmt.Println(statusLine("Config", dimStyle.Render(data.ConfigPath)))
	}
	fmt.Println()

	return nil
}

func collectStatus(e *env) statusData {
	var data statusData

	data.Backend.URL = e.cfg.Backend.BaseURL
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	_, err := e.client.ListConversations(ctx)
	switch {
	case err == nil:
		data.Backend.Reachable = true
	case errors.Is(err, api.ErrUnauthorized):
		// Reachable, just not signed in
		data.Backend.Reachable = true
	default:
		data.Backend.Detail = err.Error()
	}

	session := e.auth.Current()
	data.Account.SignedIn = session.Authenticated()
	if session.User != nil {
		data.Account.Email = session.User.Email
	}

	capability := speech.Probe(e.cfg.Speech.Transcriber)
	data.Speech.Available = capability.Available
	data.Speech.Command = capability.Command

	if path, err := history.DefaultPath(); err == nil {
		data.History.Path = path
		if hist, err := history.Open(path, e.cfg.UI.HistoryLimit); err == nil {
			if n, err := hist.Count(); err == nil {
				data.History.Conversations = n
			}
			hist.Close()
		}
	}

	if path, err := config.Path(); err == nil {
		data.ConfigPath = path
	}

	return data
}
