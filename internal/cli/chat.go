// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - interactive chat REPL.
//
// Command: chat
// Short:   Interactive chat in the terminal (line-based, no TUI)
//
// Interactive commands:
//   /help            Show commands
//   /new             Start a new conversation
//   /list            List conversations
//   /switch <id>     Switch conversation (id prefix is enough)
//   /delete <id>     Delete a conversation
//   /mode [name]     Show or set the behavior mode
//   /history         Show the current conversation
//   /quit            Exit
//   Ctrl+C           Cancel the current generation
//   Ctrl+D           Exit
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/peterh/liner"

	"github.com/jeranaias/mia-companion/internal/chat"
	"github.com/jeranaias/mia-companion/internal/mode"
	"github.com/jeranaias/mia-companion/internal/model"
)

// chatREPL wraps liner with persistent input history.
type chatREPL struct {
	line        *liner.State
	historyFile string
}

func newChatREPL(dataDir string) *chatREPL {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	r := &chatREPL{
		line:        line,
		historyFile: filepath.Join(dataDir, "input_history"),
	}
	if f, err := os.Open(r.historyFile); err == nil {
		r.line.ReadHistory(f)
		f.Close()
	}
	return r
}

func (r *chatREPL) readInput(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

func (r *chatREPL) close() {
	if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
		r.line.WriteHistory(f)
		f.Close()
	}
	r.line.Close()
}

// RunChat handles `mia chat`.
func RunChat(args Args) int {
	app, err := NewApp(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("mia: "+err.Error()))
		return 1
	}
	defer app.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()

	fmt.Println(miaStyle.Render("Mia") + infoStyle.Render(" · local companion · /help for commands"))
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
	printGreeting(app)

	repl := newChatREPL(app.Cfg.DataDir())
	defer repl.close()

	for {
		input, err := repl.readInput(promptStyle.Render("you> "))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				continue
			}
			// Ctrl+D or closed stdin.
			fmt.Println()
			return 0
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if quit := runSlashCommand(app, input); quit {
				return 0
			}
			continue
		}

		if code := askOnce(ctx, app, input, args.Quiet); code != 0 {
			return code
		}
	}
}

// askOnce runs one turn with Ctrl+C wired to cancel just this generation.
func askOnce(ctx context.Context, app *App, input string, quiet bool) int {
	turnCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	fmt.Print(miaStyle.Render("mia> "))
	streamed := false
	reply, err := app.Assistant.Ask(turnCtx, input, func(piece string) {
		streamed = true
		fmt.Print(piece)
	})
	fmt.Println()

	switch {
	case errors.Is(err, context.Canceled):
		fmt.Println(warnStyle.Render("(cancelled)"))
		return 0
	case err != nil:
		fmt.Fprintln(os.Stderr, errorStyle.Render("mia: "+err.Error()))
		return 0
	}

	// The stream already printed the raw text; re-render only when the
	// reply benefits from it.
	if !streamed || app.Cfg.UI.Markdown {
		fmt.Println(renderReply(app.Cfg, reply.Content))
	}
	printSources(reply.Sources)
	if !quiet {
		printStats(reply.TokenCount, reply.TokensPerSecond, reply.Truncated)
	}
	return 0
}

func printGreeting(app *App) {
	history := app.Assistant.History("")
	if len(history) == 1 {
		fmt.Println(miaStyle.Render("mia> ") + history[0].Content)
	}
}

// runSlashCommand executes one /command; returns true to exit the REPL.
func runSlashCommand(app *App, input string) bool {
	fields := strings.Fields(input)
	cmd, rest := fields[0], fields[1:]

	switch cmd {
	case "/quit", "/q", "/exit":
		return true

	case "/help", "/h":
		fmt.Println(infoStyle.Render(strings.TrimSpace(`
/new             start a new conversation
/list            list conversations
/switch <id>     switch conversation (id prefix works)
/delete <id>     delete a conversation
/mode [name]     show or set mode (auto, casual, reflective, factcheck)
/history         show the current conversation
/quit            exit`)))

	case "/new":
		if _, err := app.Assistant.NewConversation(); err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
			break
		}
		printGreeting(app)

	case "/list":
		active := app.Assistant.ActiveConversation()
		for _, s := range app.Assistant.Conversations() {
			marker := "  "
			if s.ID == active {
				marker = promptStyle.Render("* ")
			}
			when := time.UnixMilli(s.LastActive).Format("Jan 02 15:04")
			fmt.Printf("%s%s  %s  %s\n", marker, chat.ShortID(s.ID), infoStyle.Render(when), s.Name)
		}

	case "/switch":
		if len(rest) == 0 {
			fmt.Println(warnStyle.Render("usage: /switch <id>"))
			break
		}
		id, err := resolveConversation(app, rest[0])
		if err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
			break
		}
		if err := app.Assistant.SwitchConversation(id); err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
		}

	case "/delete":
		if len(rest) == 0 {
			fmt.Println(warnStyle.Render("usage: /delete <id>"))
			break
		}
		id, err := resolveConversation(app, rest[0])
		if err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
			break
		}
		if err := app.Assistant.DeleteConversation(id); err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
		}

	case "/mode":
		if len(rest) == 0 {
			fmt.Println(infoStyle.Render("mode: " + app.Assistant.Mode().String()))
			break
		}
		m, err := mode.Parse(rest[0])
		if err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
			break
		}
		app.Assistant.SetMode(m)
		fmt.Println(infoStyle.Render("mode: " + m.String()))

	case "/history":
		for _, msg := range app.Assistant.History("") {
			name := promptStyle.Render(msg.Role.DisplayName())
			if msg.Role == model.RoleAssistant {
				name = miaStyle.Render(msg.Role.DisplayName())
			}
			fmt.Printf("%s: %s\n", name, msg.Content)
		}

	default:
		fmt.Println(warnStyle.Render("unknown command " + cmd + " (try /help)"))
	}
	return false
}

// resolveConversation matches an id prefix against the stored conversations.
func resolveConversation(app *App, prefix string) (string, error) {
	var match string
	for _, s := range app.Assistant.Conversations() {
		if strings.HasPrefix(s.ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("id prefix %q is ambiguous", prefix)
			}
			match = s.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("no conversation matches %q", prefix)
	}
	return match, nil
}
