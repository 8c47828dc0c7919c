package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/weekdeck/weekdeck/internal/app"
	"github.com/weekdeck/weekdeck/internal/board"
	"github.com/weekdeck/weekdeck/internal/domain"
	"github.com/weekdeck/weekdeck/internal/infra/fileio"
	"github.com/weekdeck/weekdeck/internal/usecase"
)

// bindStdio points the file exchange at the command's streams so that the
// "-" path follows cmd.SetIn/SetOut.
func bindStdio(cmd *cobra.Command, c *app.Container, overwrite bool) {
	if ex, ok := c.Files.(*fileio.Exchange); ok {
		ex.WithStdio(cmd.InOrStdin(), cmd.OutOrStdout()).WithOverwrite(overwrite)
	}
}

// newExportCommand creates the export command.
func newExportCommand(c *app.Container) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export the board to a .wdeck file",
		Long: `Export the board to a .wdeck file.

Without a file name the board is written to <title>_<date>.wdeck in the
export directory ([export] dir, default: current directory). An existing
file is kept and a numbered name is used unless --force is given.
Use "-" to write the document to standard output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bindStdio(cmd, c, force)
			in := usecase.ExportBoardInput{}
			if len(args) == 1 {
				in.FileName = args[0]
			}

			return withBoard(cmd, c, func(s *board.Store) error {
				in.Board = s.Snapshot()
				out, err := c.ExportBoardUseCase().Execute(cmd.Context(), in)
				if err != nil {
					if errors.Is(err, domain.ErrCancelled) {
						_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Export cancelled")
						return nil
					}
					return err
				}
				if out.Path != fileio.StdioPath {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d tasks to %s\n", out.Tasks, out.Path)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}

// newImportCommand creates the import command.
func newImportCommand(c *app.Container) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the board with a .wdeck file",
		Long: `Replace the whole board with the content of a .wdeck file.

The file is validated first; if it cannot be read the board is left as it
was. Use "-" to read the document from standard input, or --list to see
the .wdeck files in the export directory.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if list {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				return listDocuments(cmd, c)
			}
			bindStdio(cmd, c, false)

			return withBoard(cmd, c, func(s *board.Store) error {
				out, err := c.ImportBoardUseCase(s).Execute(cmd.Context(), usecase.ImportBoardInput{Path: args[0]})
				if err != nil {
					return fmt.Errorf("import %s: %w", args[0], err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks from %s\n", out.Board.Len(), args[0])
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "List .wdeck files in the export directory")

	return cmd
}

func listDocuments(cmd *cobra.Command, c *app.Container) error {
	ex, ok := c.Files.(*fileio.Exchange)
	if !ok {
		return errors.New("listing is not supported by this file backend")
	}
	files, err := ex.List()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No .wdeck files found")
		return nil
	}
	for _, f := range files {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), f)
	}
	return nil
}

// newHistoryCommand creates the history command.
func newHistoryCommand(c *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved revisions of the board",
		Long: `List saved revisions of the board, newest first.

Only the git storage backend keeps history ([storage] backend = "git").
Restore a revision with 'weekdeck restore <revision>'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.BoardHistoryUseCase().Execute(cmd.Context(), usecase.BoardHistoryInput{
				Key:   c.Config.StoreKey,
				Limit: limit,
			})
			if err != nil {
				return err
			}
			if len(out.Entries) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No saved revisions")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "REVISION\tSAVED\tTASKS\tTITLE")
			for _, e := range out.Entries {
				tasks := "?"
				if e.Tasks >= 0 {
					tasks = fmt.Sprint(e.Tasks)
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Short(), e.When.Local().Format("2006-01-02 15:04:05"), tasks, e.Title)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of revisions (0 for all)")

	return cmd
}

// newRestoreCommand creates the restore command.
func newRestoreCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <revision>",
		Short: "Replace the board with a saved revision",
		Long: `Replace the board with a revision listed by 'weekdeck history'.
The current board stays in the history, so a restore can be undone.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(cmd, c, func(s *board.Store) error {
				out, err := c.RestoreRevisionUseCase(s).Execute(cmd.Context(), usecase.RestoreRevisionInput{
					Key:      c.Config.StoreKey,
					Revision: args[0],
				})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Restored %s (%d tasks)\n", args[0], out.Board.Len())
				return nil
			})
		},
	}
}

// newResetCommand creates the reset command.
func newResetCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Seed bool
		Yes  bool
	}

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard the board and start over",
		Long: `Discard every task and start from an empty board with the configured
defaults. With --seed the tutorial cards are restored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !opts.Yes {
				return errors.New("reset discards every task; run again with --yes to confirm")
			}
			return withBoard(cmd, c, func(s *board.Store) error {
				_, err := c.ResetBoardUseCase(s).Execute(cmd.Context(), usecase.ResetBoardInput{
					Key:      c.Config.StoreKey,
					Defaults: usecase.DefaultsFromConfig(c.AppConfig),
					Seed:     opts.Seed,
				})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Board reset")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&opts.Seed, "seed", false, "Restore the tutorial cards")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Confirm the reset")

	return cmd
}
