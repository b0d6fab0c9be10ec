// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for flames.
package cli

import (
	"fmt"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdSignup
	CmdLogout
	CmdChat
	CmdSessions
	CmdStatus
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool
	Config  string // alternate config file path

	// Command-specific
	Email      string
	Subcommand string
	Confirm    bool

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `flames - terminal client for the Flames AI assistant

Flames is a chat assistant client for the command line.

It provides:
  - A full-screen TUI with themed chat, dashboard, and help views
  - A plain REPL for scripting-friendly terminals
  - File attachments and voice dictation (when a transcriber is installed)
  - A local history cache that works when the backend is unreachable

Usage:
  flames                      Start TUI (default)
  flames login [--email E]    Log in to the backend
  flames signup [--email E]   Create an account
  flames logout               Discard the saved session
  flames chat                 Interactive chat REPL (no TUI)
  flames sessions [list|clear] Conversation management
  flames status, s            Show backend, account, and speech status
  flames version              Show version information
  flames help                 Show this help

Chat REPL Commands:
  /upload <path>              Attach a file to the next message
  /detach                     Drop pending attachments
  /clear                      Start a fresh conversation
  /quit, exit                 Leave the REPL

Session Commands:
  flames sessions list        List conversations (falls back to local cache)
  flames sessions clear --confirm
                              Delete all conversations

Global Flags:
  --config PATH               Use an alternate config file
  --json                      Output in JSON format (status)
  -q, --quiet                 Suppress non-essential output
  -v, --verbose               Show extra detail

Examples:
  flames
  flames login --email dev@example.com
  flames chat
  flames status --json
`

// PrintUsage prints the top-level usage text.
func PrintUsage() {
	fmt.Print(usageText)
}

// HandleVersion handles the "version" command.
func HandleVersion(args Args) {
	if args.JSON {
		fmt.Printf("{\"version\":%q,\"commit\":%q,\"built\":%q}\n", Version, GitCommit, BuildDate)
		return
	}
	fmt.Printf("flames %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}

// =============================================================================
// PARSING
// =============================================================================

// Parse parses os.Args-style arguments into a command and its options.
func Parse(argv []string) (Command, Args) {
	remaining, parsed := parseGlobalFlags(argv)

	// No remaining args: default to the TUI
	if len(remaining) == 0 {
		return CmdTUI, parsed
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsed.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsed

	case "login":
		return CmdLogin, parsed

	case "signup", "register":
		return CmdSignup, parsed

	case "logout":
		return CmdLogout, parsed

	case "chat":
		return CmdChat, parsed

	case "sessions", "session", "conversations":
		if len(remaining) > 0 {
			parsed.Subcommand = remaining[0]
		}
		return CmdSessions, parsed

	case "status", "s":
		return CmdStatus, parsed

	case "version", "--version", "-V":
		return CmdVersion, parsed

	case "help", "--help", "-h":
		return CmdHelp, parsed

	default:
		// Unknown command: show help rather than guessing
		parsed.Subcommand = cmd
		return CmdHelp, parsed
	}
}

// parseGlobalFlags strips global flags from the argument list, returning the
// remaining positional arguments and the parsed flag set.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var remaining []string
	var parsed Args

	i := 0
	for i < len(argv) {
		arg := argv[i]

		switch arg {
		case "-q", "--quiet":
			parsed.Quiet = true
		case "-v", "--verbose":
			parsed.Verbose = true
		case "--json":
			parsed.JSON = true
		case "--confirm":
			parsed.Confirm = true
		case "--email":
			if i+1 < len(argv) {
				i++
				parsed.Email = argv[i]
			}
		case "--config":
			if i+1 < len(argv) {
				i++
				parsed.Config = argv[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--email="):
				parsed.Email = strings.TrimPrefix(arg, "--email=")
			case strings.HasPrefix(arg, "--config="):
				parsed.Config = strings.TrimPrefix(arg, "--config=")
			default:
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsed
}
