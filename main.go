// mia - your local AI companion in the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	"github.com/jeranaias/mia-companion/internal/cli"
	"github.com/jeranaias/mia-companion/internal/engine"
	"github.com/jeranaias/mia-companion/internal/engine/echo"
	"github.com/jeranaias/mia-companion/internal/ui"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate

	// Inference drivers register here. Echo is the built-in pure-Go
	// driver; native llama.cpp builds register their own name.
	engine.Register(echo.DriverName, echo.New())
}

func main() {
	cmd, args := cli.Parse(os.Args[1:])

	switch cmd {
	case cli.CmdTUI:
		os.Exit(runTUI(args))
	case cli.CmdAsk:
		os.Exit(cli.RunAsk(args))
	case cli.CmdChat:
		os.Exit(cli.RunChat(args))
	case cli.CmdSessions:
		os.Exit(cli.RunSessions(args))
	case cli.CmdModels:
		os.Exit(cli.RunModels(args))
	case cli.CmdConfig:
		os.Exit(cli.RunConfig(args))
	case cli.CmdVersion:
		cli.RunVersion()
	case cli.CmdHelp:
		fmt.Print(cli.Usage())
	}
}

// runTUI wires the app and hands control to the full-screen UI.
func runTUI(args cli.Args) int {
	app, err := cli.NewApp(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "mia: "+err.Error())
		return 1
	}
	defer app.Close()

	if err := ui.Run(app.Cfg, app.Assistant); err != nil {
		fmt.Fprintln(os.Stderr, "mia: "+err.Error())
		return 1
	}
	return 0
}
