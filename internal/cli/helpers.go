// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// helpers.go - Shared wiring for CLI command handlers.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/flamesai/flames-tui/internal/api"
	"github.com/flamesai/flames-tui/internal/auth"
	"github.com/flamesai/flames-tui/internal/config"
	"github.com/flamesai/flames-tui/internal/store"
)

// env bundles the pieces every CLI handler needs: the active config, the
// persisted state store, the auth manager reading from it, and an API client
// that picks up the session token automatically.
type env struct {
	cfg    *config.Config
	store  *store.Store
	auth   *auth.Manager
	client *api.Client
}

// newEnv loads configuration and wires the handler environment. An alternate
// config path from --config is installed as the global config first.
func newEnv(args Args) (*env, error) {
	if args.Config != "" {
		cfg, err := config.LoadFromPath(args.Config)
		if err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", args.Config, err)
		}
		config.SetGlobal(cfg)
	}
	cfg := config.Global()

	st, err := store.New()
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}
	mgr := auth.NewManager(st)
	client := api.NewClient(cfg.Backend.BaseURL, mgr.Token).WithTimeout(cfg.Timeout())

	return &env{cfg: cfg, store: st, auth: mgr, client: client}, nil
}

// readLine prompts on stderr and reads one line from stdin.
func readLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readPassword prompts on stderr and reads a password without echoing.
func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	passBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimSpace(string(passBytes)), nil
}
