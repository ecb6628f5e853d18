// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// models.go - model catalog management.
//
// Command: models
// Short:   Manage the model catalog
//
// Examples:
//   mia models list
//   mia models scan
package cli

import (
	"fmt"
	"os"
)

// RunModels handles `mia models`.
func RunModels(args Args) int {
	app, err := NewApp(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("mia: "+err.Error()))
		return 1
	}
	defer app.Close()

	switch args.Subcommand {
	case "", "list":
		// Open already ran a scan; just print.
	case "scan":
		if err := app.Catalog.Scan(); err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render("mia: "+err.Error()))
			return 1
		}
	default:
		fmt.Fprintln(os.Stderr, errorStyle.Render("usage: mia models [list|scan]"))
		return 2
	}

	entries, err := app.Catalog.List()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("mia: "+err.Error()))
		return 1
	}
	if len(entries) == 0 {
		fmt.Println(infoStyle.Render("no models in " + app.Cfg.ModelsDir()))
		fmt.Println(infoStyle.Render("drop a .gguf file there and run `mia models scan`"))
		return 0
	}

	configured := app.Cfg.ModelPath()
	for _, e := range entries {
		marker := "  "
		if e.Path == configured {
			marker = promptStyle.Render("* ")
		}
		fmt.Printf("%s%-30s %s\n", marker, e.Name, statStyle.Render(formatSize(e.SizeBytes)))
	}
	return 0
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1f GiB", float64(n)/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
