// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - one-shot question command.
//
// Command: ask
// Short:   Ask a single question and exit
//
// Examples:
//   mia ask "what is a monad?"
//   mia ask --mode factcheck "who won the 2024 olympics marathon?"
//   mia ask --offline "summarize the stoics"
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// RunAsk handles `mia ask`. The question lands in the active conversation
// (created on first use), so a later `mia chat` continues the thread.
func RunAsk(args Args) int {
	if args.Query == "" {
		fmt.Fprintln(os.Stderr, errorStyle.Render("usage: mia ask \"question\""))
		return 2
	}

	app, err := NewApp(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("mia: "+err.Error()))
		return 1
	}
	defer app.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Assistant.LoadModel(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("mia: "+err.Error()))
		return 1
	}

	if app.Assistant.ActiveConversation() == "" {
		if _, err := app.Assistant.NewConversation(); err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render("mia: "+err.Error()))
			return 1
		}
	}

	reply, err := app.Assistant.Ask(ctx, args.Query, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("mia: "+err.Error()))
		return 1
	}

	fmt.Println(renderReply(app.Cfg, reply.Content))
	printSources(reply.Sources)
	if !args.Quiet {
		printStats(reply.TokenCount, reply.TokensPerSecond, reply.Truncated)
	}
	return 0
}
