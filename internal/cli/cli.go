// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - command parsing and dispatch table for the mia binary.
package cli

import (
	"fmt"
	"strings"
)

// Version information (can be overridden at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdSessions
	CmdModels
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	ConfigPath string
	Mode       string // behavior mode override (--mode)
	Offline    bool
	Quiet      bool

	// Command-specific
	Query      string
	Subcommand string

	// Raw args remaining after the command name.
	Raw []string
}

const usageText = `mia - your local AI companion

Mia runs a local language model for private, offline-capable chat.
Conversations persist across runs; fact-checking mode grounds replies
in live web search.

Usage:
  mia                      Start the chat TUI (default)
  mia ask "question"       Ask a single question and exit
  mia chat                 Interactive chat in the terminal (no TUI)
  mia sessions [list|show|delete]  Manage saved conversations
  mia models [list|scan]   Manage the model catalog
  mia config [show|path|init]      Configuration
  mia version              Show version
  mia help                 Show this help

Modes (switchable at runtime with /mode):
  auto        Pick casual or reflective per message (default)
  casual      Friendly everyday assistant
  reflective  Philosophical, poetic answers
  factcheck   Web-grounded answers with source citations

Flags:
  --config PATH   Use an alternate config file
  --mode NAME     Start in the given behavior mode
  --offline       Disable web retrieval for this run
  -q, --quiet     Minimal output

Examples:
  mia ask "what is the capital of Hungary?"
  mia ask --mode factcheck "when is the next solar eclipse?"
  mia sessions list
  mia models scan
`

// Usage returns the top-level help text.
func Usage() string {
	return usageText
}

// Parse interprets argv (without the program name) into a command and its
// arguments.
func Parse(argv []string) (Command, Args) {
	args := Args{}

	// Strip global flags wherever they appear.
	rest := make([]string, 0, len(argv))
	for i := 0; i < len(argv); i++ {
		switch arg := argv[i]; {
		case arg == "--config" && i+1 < len(argv):
			args.ConfigPath = argv[i+1]
			i++
		case strings.HasPrefix(arg, "--config="):
			args.ConfigPath = strings.TrimPrefix(arg, "--config=")
		case arg == "--mode" && i+1 < len(argv):
			args.Mode = argv[i+1]
			i++
		case strings.HasPrefix(arg, "--mode="):
			args.Mode = strings.TrimPrefix(arg, "--mode=")
		case arg == "--offline":
			args.Offline = true
		case arg == "-q" || arg == "--quiet":
			args.Quiet = true
		default:
			rest = append(rest, arg)
		}
	}

	if len(rest) == 0 {
		return CmdTUI, args
	}

	cmd := rest[0]
	rest = rest[1:]
	args.Raw = rest
	if len(rest) > 0 {
		args.Subcommand = rest[0]
	}

	switch cmd {
	case "ask":
		args.Query = strings.Join(rest, " ")
		args.Subcommand = ""
		return CmdAsk, args
	case "chat":
		return CmdChat, args
	case "sessions", "session":
		return CmdSessions, args
	case "models", "model":
		return CmdModels, args
	case "config":
		return CmdConfig, args
	case "version", "--version", "-v":
		return CmdVersion, args
	case "help", "--help", "-h":
		return CmdHelp, args
	default:
		// Unknown word: treat the whole line as an ask query, so
		// `mia what time is it` just works.
		args.Query = strings.TrimSpace(cmd + " " + strings.Join(rest, " "))
		args.Subcommand = ""
		return CmdAsk, args
	}
}

// RunVersion prints version information.
func RunVersion() {
	fmt.Printf("mia %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}
