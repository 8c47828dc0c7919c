package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/weekdeck/weekdeck/internal/app"
	"github.com/weekdeck/weekdeck/internal/tui"
)

// launchTUI runs the interactive board.
func launchTUI(ctx context.Context, c *app.Container) error {
	return tui.Run(ctx, c)
}

// newTUICommand creates the tui command for launching the interactive board.
// This is the same as running `weekdeck` without arguments.
func newTUICommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive board",
		Long: `Open the interactive terminal board.

Use the arrow keys to move between tasks, space to pick a task up and
drop it somewhere else, and ? for the full list of keys.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return launchTUIFunc(cmd.Context(), c)
		},
	}
}
