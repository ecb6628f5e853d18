// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// sessions.go - saved conversation management.
//
// Command: sessions
// Short:   Manage saved conversations
//
// Examples:
//   mia sessions list
//   mia sessions show 3f2a
//   mia sessions delete 3f2a
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/jeranaias/mia-companion/internal/chat"
)

// RunSessions handles `mia sessions`.
func RunSessions(args Args) int {
	app, err := NewApp(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("mia: "+err.Error()))
		return 1
	}
	defer app.Close()

	switch args.Subcommand {
	case "", "list":
		return sessionsList(app)
	case "show":
		return sessionsShow(app, args)
	case "delete":
		return sessionsDelete(app, args)
	default:
		fmt.Fprintln(os.Stderr, errorStyle.Render("usage: mia sessions [list|show <id>|delete <id>]"))
		return 2
	}
}

func sessionsList(app *App) int {
	summaries := app.Assistant.Conversations()
	if len(summaries) == 0 {
		fmt.Println(infoStyle.Render("no conversations yet"))
		return 0
	}
	active := app.Assistant.ActiveConversation()
	for _, s := range summaries {
		marker := "  "
		if s.ID == active {
			marker = promptStyle.Render("* ")
		}
		when := time.UnixMilli(s.LastActive).Format("2006-01-02 15:04")
		fmt.Printf("%s%s  %s  %s\n", marker, chat.ShortID(s.ID), infoStyle.Render(when), s.Name)
	}
	return 0
}

func sessionsShow(app *App, args Args) int {
	if len(args.Raw) < 2 {
		fmt.Fprintln(os.Stderr, errorStyle.Render("usage: mia sessions show <id>"))
		return 2
	}
	id, err := resolveConversation(app, args.Raw[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		return 1
	}
	for _, msg := range app.Assistant.History(id) {
		when := time.UnixMilli(msg.Timestamp).Format("15:04:05")
		fmt.Printf("%s %s: %s\n", statStyle.Render(when), promptStyle.Render(msg.Role.DisplayName()), msg.Content)
		for _, s := range msg.Sources {
			fmt.Printf("    %s %s\n", sourceStyle.Render(s.Title), statStyle.Render(s.URL))
		}
	}
	return 0
}

func sessionsDelete(app *App, args Args) int {
	if len(args.Raw) < 2 {
		fmt.Fprintln(os.Stderr, errorStyle.Render("usage: mia sessions delete <id>"))
		return 2
	}
	id, err := resolveConversation(app, args.Raw[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		return 1
	}
	if err := app.Assistant.DeleteConversation(id); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		return 1
	}
	fmt.Println(infoStyle.Render("deleted " + chat.ShortID(id)))
	return 0
}
