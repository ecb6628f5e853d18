// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import "testing"

func TestParseDefaultsToTUI(t *testing.T) {
	cmd, args := Parse(nil)
	if cmd != CmdTUI {
		t.Fatalf("Parse(nil) = %v, want CmdTUI", cmd)
	}
	if args.ConfigPath != "" || args.Mode != "" || args.Offline || args.Quiet {
		t.Errorf("Parse(nil) produced non-zero args: %+v", args)
	}
}

func TestParseCommands(t *testing.T) {
	tests := []struct {
		argv []string
		want Command
	}{
		{[]string{"ask", "hello"}, CmdAsk},
		{[]string{"chat"}, CmdChat},
		{[]string{"sessions"}, CmdSessions},
		{[]string{"session", "list"}, CmdSessions},
		{[]string{"models"}, CmdModels},
		{[]string{"model", "scan"}, CmdModels},
		{[]string{"config", "show"}, CmdConfig},
		{[]string{"version"}, CmdVersion},
		{[]string{"--version"}, CmdVersion},
		{[]string{"help"}, CmdHelp},
		{[]string{"-h"}, CmdHelp},
	}
	for _, tt := range tests {
		if cmd, _ := Parse(tt.argv); cmd != tt.want {
			t.Errorf("Parse(%v) = %v, want %v", tt.argv, cmd, tt.want)
		}
	}
}

func TestParseAskJoinsQuery(t *testing.T) {
	cmd, args := Parse([]string{"ask", "what", "is", "love"})
	if cmd != CmdAsk {
		t.Fatalf("cmd = %v, want CmdAsk", cmd)
	}
	if args.Query != "what is love" {
		t.Errorf("Query = %q, want %q", args.Query, "what is love")
	}
	if args.Subcommand != "" {
		t.Errorf("Subcommand = %q, want empty", args.Subcommand)
	}
}

func TestParseUnknownWordBecomesAskQuery(t *testing.T) {
	cmd, args := Parse([]string{"what", "time", "is", "it"})
	if cmd != CmdAsk {
		t.Fatalf("cmd = %v, want CmdAsk", cmd)
	}
	if args.Query != "what time is it" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParseGlobalFlagsAnywhere(t *testing.T) {
	cmd, args := Parse([]string{"ask", "--mode", "factcheck", "who", "won", "--offline", "-q"})
	if cmd != CmdAsk {
		t.Fatalf("cmd = %v, want CmdAsk", cmd)
	}
	if args.Mode != "factcheck" {
		t.Errorf("Mode = %q, want factcheck", args.Mode)
	}
	if !args.Offline {
		t.Error("Offline not set")
	}
	if !args.Quiet {
		t.Error("Quiet not set")
	}
	if args.Query != "who won" {
		t.Errorf("Query = %q, want %q", args.Query, "who won")
	}
}

func TestParseEqualsFlagForms(t *testing.T) {
	cmd, args := Parse([]string{"--config=/tmp/mia.toml", "--mode=reflective", "chat"})
	if cmd != CmdChat {
		t.Fatalf("cmd = %v, want CmdChat", cmd)
	}
	if args.ConfigPath != "/tmp/mia.toml" {
		t.Errorf("ConfigPath = %q", args.ConfigPath)
	}
	if args.Mode != "reflective" {
		t.Errorf("Mode = %q", args.Mode)
	}
}

func TestParseSubcommandAndRaw(t *testing.T) {
	cmd, args := Parse([]string{"sessions", "show", "3f2a"})
	if cmd != CmdSessions {
		t.Fatalf("cmd = %v, want CmdSessions", cmd)
	}
	if args.Subcommand != "show" {
		t.Errorf("Subcommand = %q, want show", args.Subcommand)
	}
	if len(args.Raw) != 2 || args.Raw[1] != "3f2a" {
		t.Errorf("Raw = %v", args.Raw)
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{5 << 20, "5.0 MiB"},
		{3 << 30, "3.0 GiB"},
	}
	for _, tt := range tests {
		if got := formatSize(tt.n); got != tt.want {
			t.Errorf("formatSize(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
