// Package cli provides the command-line interface for weekdeck.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weekdeck/weekdeck/internal/app"
)

// Command group IDs.
const (
	groupBoard       = "board"
	groupFiles       = "files"
	groupSetup       = "setup"
	groupInteractive = "interactive"
)

// launchTUIFunc is a function variable for launching the TUI, allowing it to be mocked in tests.
var launchTUIFunc = launchTUI

// NewRootCommand creates the root command for weekdeck.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "weekdeck",
		Short: "Weekly task board",
		Long: `weekdeck is a weekly task board: seven day columns holding ordered
lists of small task cards.

Run without arguments to open the interactive board. Every board operation
is also available as a command, addressing tasks as <day> <position>
(positions start at 1):

  weekdeck add mon "Write report"
  weekdeck mv mon 1 fri
  weekdeck color fri 1 blue`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil {
				return nil
			}
			if c.AppConfig != nil {
				for _, w := range c.AppConfig.Warnings {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
				}
			}
			if c.Degraded() {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", c.StorageWarning)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Default: launch the interactive board
			return launchTUIFunc(cmd.Context(), c)
		},
	}

	// Define command groups
	root.AddGroup(
		&cobra.Group{ID: groupBoard, Title: "Board Commands:"},
		&cobra.Group{ID: groupFiles, Title: "File Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupInteractive, Title: "Interactive Commands:"},
	)

	boardCmds := []*cobra.Command{
		newShowCommand(c),
		newAddCommand(c),
		newRmCommand(c),
		newCpCommand(c),
		newMvCommand(c),
		newReorderCommand(c),
		newColorCommand(c),
		newHighlightCommand(c),
		newDoneCommand(c),
		newEditCommand(c),
		newClearCommand(c),
		newTitleCommand(c),
		newThemeCommand(c),
		newWeekendCommand(c),
	}
	fileCmds := []*cobra.Command{
		newExportCommand(c),
		newImportCommand(c),
		newHistoryCommand(c),
		newRestoreCommand(c),
		newResetCommand(c),
	}
	setupCmds := []*cobra.Command{
		newConfigCommand(c),
	}
	interactiveCmds := []*cobra.Command{
		newTUICommand(c),
		newServeCommand(c),
	}

	for _, group := range []struct {
		id   string
		cmds []*cobra.Command
	}{
		{groupBoard, boardCmds},
		{groupFiles, fileCmds},
		{groupSetup, setupCmds},
		{groupInteractive, interactiveCmds},
	} {
		for _, cmd := range group.cmds {
			cmd.GroupID = group.id
			root.AddCommand(cmd)
		}
	}

	return root
}
