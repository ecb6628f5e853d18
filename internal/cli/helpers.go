// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// helpers.go - terminal rendering helpers shared by ask and chat.
package cli

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"

	"github.com/jeranaias/mia-companion/internal/config"
	"github.com/jeranaias/mia-companion/internal/model"
)

var codeBlockRegex = regexp.MustCompile("(?s)```([a-zA-Z0-9_+-]*)\n(.*?)```")

// renderReply renders an assistant reply for the terminal. With markdown
// enabled the whole reply goes through glamour; otherwise only fenced code
// blocks are syntax highlighted and the rest passes through as-is.
func renderReply(cfg *config.Config, content string) string {
	if cfg.UI.Markdown {
		if out, err := renderMarkdown(cfg, content); err == nil {
			return out
		}
	}
	return highlightCodeBlocks(content)
}

func renderMarkdown(cfg *config.Config, content string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(glamourStyle(cfg)),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	out, err := r.Render(content)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}

func glamourStyle(cfg *config.Config) string {
	switch cfg.UI.Theme {
	case "dark":
		return "dark"
	case "light":
		return "light"
	default:
		if termenv.HasDarkBackground() {
			return "dark"
		}
		return "light"
	}
}

// highlightCodeBlocks syntax-highlights fenced code blocks in plain-text
// mode, leaving the surrounding prose untouched.
func highlightCodeBlocks(content string) string {
	return codeBlockRegex.ReplaceAllStringFunc(content, func(block string) string {
		m := codeBlockRegex.FindStringSubmatch(block)
		if m == nil {
			return block
		}
		lang, code := m[1], m[2]
		if lang == "" {
			lang = "text"
		}
		var b strings.Builder
		if err := quick.Highlight(&b, code, lang, "terminal256", "monokai"); err != nil {
			return block
		}
		return b.String()
	})
}

// printSources prints web source citations under a fact-checked reply.
func printSources(sources []model.Source) {
	if len(sources) == 0 {
		return
	}
	fmt.Println(infoStyle.Render("Sources:"))
	for i, s := range sources {
		fmt.Printf("  %s %s\n", sourceStyle.Render(fmt.Sprintf("[%d] %s", i+1, s.Title)), statStyle.Render(s.URL))
	}
}

// printStats prints the generation statistics line.
func printStats(tokens int, speed float64, truncated bool) {
	line := fmt.Sprintf("%d tokens · %.1f tok/s", tokens, speed)
	if truncated {
		line += " · reply truncated"
	}
	fmt.Fprintln(os.Stderr, statStyle.Render(line))
}
