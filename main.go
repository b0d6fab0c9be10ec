// flames - terminal client for the Flames AI assistant.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/flamesai/flames-tui/internal/api"
	"github.com/flamesai/flames-tui/internal/auth"
	"github.com/flamesai/flames-tui/internal/chat"
	"github.com/flamesai/flames-tui/internal/cli"
	"github.com/flamesai/flames-tui/internal/config"
	"github.com/flamesai/flames-tui/internal/history"
	"github.com/flamesai/flames-tui/internal/logging"
	"github.com/flamesai/flames-tui/internal/speech"
	"github.com/flamesai/flames-tui/internal/store"
	"github.com/flamesai/flames-tui/internal/theme"
	"github.com/flamesai/flames-tui/internal/ui"
	"github.com/flamesai/flames-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// autosaveInterval throttles transcript writes to the local history cache.
const autosaveInterval = 2 * time.Second

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse(os.Args[1:])

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdLogin:
		exitOnError(cli.HandleLogin(args))
	case cli.CmdSignup:
		exitOnError(cli.HandleSignup(args))
	case cli.CmdLogout:
		exitOnError(cli.HandleLogout(args))
	case cli.CmdChat:
		exitOnError(cli.HandleChat(args))
	case cli.CmdSessions:
		exitOnError(cli.HandleSessions(args))
	case cli.CmdStatus:
		exitOnError(cli.HandleStatus(args))
	case cli.CmdVersion:
		cli.HandleVersion(args)
	case cli.CmdHelp:
		if args.Subcommand != "" {
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args.Subcommand)
		}
		cli.PrintUsage()
	}
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runTUI wires the full application and hands control to Bubble Tea.
func runTUI(args cli.Args) {
	if args.Config != "" {
		cfg, err := config.LoadFromPath(args.Config)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to load config %s: %v\n", args.Config, err)
			os.Exit(1)
		}
		config.SetGlobal(cfg)
	}
	cfg := config.Global()

	logger := logging.New()
	defer logger.Sync()

	st, err := store.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open state store: %v\n", err)
		os.Exit(1)
	}
	authMgr := auth.NewManager(st)
	themeMgr := theme.NewManager(st)

	client := api.NewClient(cfg.Backend.BaseURL, authMgr.Token).
		WithTimeout(cfg.Timeout()).
		WithLogger(logger)

	session := chat.NewSession()

	// History cache is best-effort: the app runs without it
	var hist *history.Store
	var autosaver *history.Autosaver
	if path, err := history.DefaultPath(); err == nil {
		if hist, err = history.Open(path, cfg.UI.HistoryLimit); err != nil {
			logger.Warn("history cache unavailable", zap.Error(err))
			hist = nil
		}
	}
	if hist != nil {
		autosaver = history.NewAutosaver(hist, autosaveInterval, func(err error) {
			logger.Warn("autosave failed", zap.Error(err))
		})
		defer autosaver.Close()
		defer hist.Close()
	}

	var recognizer *speech.Recognizer
	if capability := speech.Probe(cfg.Speech.Transcriber); capability.Available {
		recognizer = speech.NewRecognizer(capability)
	}

	app := ui.NewApp(ui.Options{
		Theme:      styles.NewTheme(),
		Themes:     themeMgr,
		Auth:       authMgr,
		Session:    session,
		Client:     client,
		History:    hist,
		Autosaver:  autosaver,
		Recognizer: recognizer,
	})

	// Pick up config edits while the TUI is running
	watcher, err := config.NewWatcher(func(next *config.Config) {
		logger.Info("configuration reloaded", zap.String("backend", next.Backend.BaseURL))
	})
	if err == nil {
		defer watcher.Close()
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running flames: %v\n", err)
		os.Exit(1)
	}
}
