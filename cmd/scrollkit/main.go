package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/agiangrant/scrollkit"
	"github.com/agiangrant/scrollkit/cmd/scrollkit/commands"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "simulate":
		err = commands.Simulate(args)
	case "config":
		err = commands.Config(args)
	case "version", "-v", "--version":
		fmt.Printf("scrollkit version %s (%s)\n", version, scrollkit.CurrentPlatform())
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		slog.Error("command failed", slog.String("command", cmd), slog.Any("error", err))
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`scrollkit - soft keyboard layout coordination

Usage: scrollkit <command> [options]

Commands:
  simulate        Replay a keyboard timeline through a manager
  config          Print or check a scrollkit.toml file
  version         Print version information
  help            Show this help message

Examples:
  scrollkit simulate form.toml                      Print margin and offset after each step
  scrollkit simulate --watch form.toml              Re-run whenever the timeline changes
  scrollkit config print --file scrollkit.toml      Show the effective configuration
  scrollkit config check scrollkit.toml             Validate a configuration file

Configuration:
  Settings are read from scrollkit.toml (see 'scrollkit config print').
  SCROLLKIT_FILTER_DELAY and SCROLLKIT_LOG_LEVEL override the file.`)
}
