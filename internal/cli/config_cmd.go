// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - configuration inspection and bootstrap.
//
// Command: config
// Short:   Configuration
//
// Examples:
//   mia config show
//   mia config path
//   mia config init
package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/mia-companion/internal/config"
)

// RunConfig handles `mia config`. It works without the full App: config
// inspection must not prompt for passphrases or touch the model.
func RunConfig(args Args) int {
	path := args.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}

	switch args.Subcommand {
	case "", "show":
		cfg, err := config.Load(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render("mia: "+err.Error()))
			return 1
		}
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render("mia: "+err.Error()))
			return 1
		}
		fmt.Print(buf.String())
		return 0

	case "path":
		fmt.Println(path)
		return 0

	case "init":
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintln(os.Stderr, warnStyle.Render("config already exists: "+path))
			return 1
		}
		if err := config.DefaultConfig().Save(path); err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render("mia: "+err.Error()))
			return 1
		}
		fmt.Println(infoStyle.Render("wrote " + path))
		return 0

	default:
		fmt.Fprintln(os.Stderr, errorStyle.Render("usage: mia config [show|path|init]"))
		return 2
	}
}
