// Package main is the entry point for the weekdeck CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/weekdeck/weekdeck/internal/app"
	"github.com/weekdeck/weekdeck/internal/cli"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) (err error) {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	// Create dependency injection container
	container, err := app.New(ctx, cwd)
	if err != nil {
		return runWithoutContainer(ctx, fmt.Errorf("failed to initialize: %w", err))
	}
	defer func() {
		err = errors.Join(err, container.Close())
	}()

	// Create and execute root command
	rootCmd := cli.NewRootCommand(container, version)
	return rootCmd.ExecuteContext(ctx)
}

// runWithoutContainer handles a broken configuration.
// Help, version and the config template still work so the user can repair it.
func runWithoutContainer(ctx context.Context, initErr error) error {
	if canRunWithoutContainer(os.Args[1:]) {
		return cli.NewRootCommand(nil, version).ExecuteContext(ctx)
	}
	return initErr
}

func canRunWithoutContainer(args []string) bool {
	if len(args) == 0 {
		return false
	}
	switch args[0] {
	case "help":
		return true
	case "config":
		return len(args) > 1 && args[1] == "template"
	}
	for _, arg := range args {
		if arg == "--version" || arg == "-v" || arg == "--help" || arg == "-h" || strings.HasPrefix(arg, "--help=") {
			return true
		}
	}
	return false
}
