package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/weekdeck/weekdeck/internal/app"
	"github.com/weekdeck/weekdeck/internal/board"
	"github.com/weekdeck/weekdeck/internal/domain"
)

// errNoChange is returned by board operations that left the board as it was.
var errNoChange = errors.New("nothing changed")

// withBoard opens the board, runs fn and waits for the result to be saved.
// errNoChange from fn is reported as a notice, not a failure.
func withBoard(cmd *cobra.Command, c *app.Container, fn func(*board.Store) error) error {
	b, err := c.OpenBoard(cmd.Context())
	if err != nil {
		return err
	}
	runErr := fn(b.Store)
	closeErr := b.Close()

	if errors.Is(runErr, errNoChange) {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No change")
		runErr = nil
	}
	if runErr != nil {
		return runErr
	}
	if closeErr != nil {
		return fmt.Errorf("save board: %w", closeErr)
	}
	return nil
}

// taskRef addresses a task as a day and a 1-based position.
type taskRef struct {
	Day   domain.Day
	Index int // 0-based
}

func (r taskRef) String() string {
	return fmt.Sprintf("%s #%d", r.Day, r.Index+1)
}

// parsePosition parses a 1-based position into a 0-based index.
func parsePosition(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q (positions start at 1)", domain.ErrInvalidPosition, s)
	}
	return n - 1, nil
}

// parseTaskRef parses "<day> <position>" arguments.
func parseTaskRef(dayArg, posArg string) (taskRef, error) {
	day, err := domain.ParseDay(dayArg)
	if err != nil {
		return taskRef{}, err
	}
	index, err := parsePosition(posArg)
	if err != nil {
		return taskRef{}, err
	}
	return taskRef{Day: day, Index: index}, nil
}

// lookup returns the task ref points at.
func lookup(s *board.Store, ref taskRef) (domain.Task, error) {
	task, ok := s.TaskAt(ref.Day, ref.Index)
	if !ok {
		return domain.Task{}, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, ref)
	}
	return task, nil
}

// changed maps a mutation result to errNoChange.
func changed(ok bool) error {
	if !ok {
		return errNoChange
	}
	return nil
}

// newAddCommand creates the add command.
func newAddCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Color       string
		Description string
		Highlight   bool
	}

	cmd := &cobra.Command{
		Use:   "add <day> <title>...",
		Short: "Add a task to a day",
		Long: `Add a task at the end of a day column.

Titles may use **bold**, *italic* and __underline__ markers; they are kept
as typed and rendered by the interactive board.

Examples:
  weekdeck add mon Write report
  weekdeck add friday "Demo prep" --color red --highlight`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := domain.ParseDay(args[0])
			if err != nil {
				return err
			}
			title := strings.Join(args[1:], " ")
			color, err := domain.ParseColor(opts.Color)
			if err != nil {
				return err
			}

			return withBoard(cmd, c, func(s *board.Store) error {
				task, ok := s.AddTask(day, title)
				if !ok {
					return domain.ErrEmptyTitle
				}
				snap := s.Snapshot()
				ref := taskRef{Day: day, Index: len(snap.Column(day)) - 1}
				if !color.IsEmpty() {
					s.SetColor(ref.Day, ref.Index, color)
				}
				if opts.Highlight {
					s.ToggleHighlight(ref.Day, ref.Index)
				}
				if opts.Description != "" {
					s.SetDescription(ref.Day, ref.Index, opts.Description)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s\n", ref, task.Title)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.Color, "color", "", "Tag color (red, yellow, blue, green, gray)")
	cmd.Flags().BoolVar(&opts.Highlight, "highlight", false, "Fill the card background (requires --color)")
	cmd.Flags().StringVar(&opts.Description, "desc", "", "Task description")

	return cmd
}

// newRmCommand creates the rm command.
func newRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <day> <position>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseTaskRef(args[0], args[1])
			if err != nil {
				return err
			}
			return withBoard(cmd, c, func(s *board.Store) error {
				task, err := lookup(s, ref)
				if err != nil {
					return err
				}
				s.DeleteTask(ref.Day, ref.Index)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s: %s\n", ref, task.Title)
				return nil
			})
		},
	}
}

// newCpCommand creates the cp command.
func newCpCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "cp <day> <position>",
		Aliases: []string{"duplicate"},
		Short:   "Duplicate a task",
		Long: `Insert a copy of a task directly below it.

The copy keeps color, highlight and description, gets " (copy)" appended to
its title and starts not completed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseTaskRef(args[0], args[1])
			if err != nil {
				return err
			}
			return withBoard(cmd, c, func(s *board.Store) error {
				dup, ok := s.DuplicateTask(ref.Day, ref.Index)
				if !ok {
					return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, ref)
				}
				at := taskRef{Day: ref.Day, Index: ref.Index + 1}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Duplicated to %s: %s\n", at, dup.Title)
				return nil
			})
		},
	}
}

// newMvCommand creates the mv command.
func newMvCommand(c *app.Container) *cobra.Command {
	var at int

	cmd := &cobra.Command{
		Use:   "mv <day> <position> <to-day>",
		Short: "Move a task to another day",
		Long: `Move a task to another day, at the end of the column or before the
task at --at. Moving within the same day reorders.

Examples:
  weekdeck mv mon 2 fri
  weekdeck mv mon 2 fri --at 1`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseTaskRef(args[0], args[1])
			if err != nil {
				return err
			}
			to, err := domain.ParseDay(args[2])
			if err != nil {
				return err
			}
			toIndex := board.End
			if at > 0 {
				toIndex = at - 1
			} else if at < 0 {
				return fmt.Errorf("%w: --at %d", domain.ErrInvalidPosition, at)
			}

			return withBoard(cmd, c, func(s *board.Store) error {
				task, err := lookup(s, ref)
				if err != nil {
					return err
				}
				var ok bool
				if to == ref.Day {
					ok = s.ReorderWithinDay(ref.Day, ref.Index, toIndex)
				} else {
					ok = s.MoveToDayAt(ref.Day, ref.Index, to, toIndex)
				}
				if !ok {
					return errNoChange
				}
				day, index, _ := s.Find(task.ID)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Moved to %s: %s\n", taskRef{Day: day, Index: index}, task.Title)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&at, "at", 0, "Insert before this position (default: end of day)")

	return cmd
}

// newReorderCommand creates the reorder command.
func newReorderCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <day> <position> <to|top|bottom>",
		Short: "Reorder a task within its day",
		Long: `Move a task within its day column.

The target position is counted after the task is taken out, so
"reorder mon 1 3" makes the first task the third one.

Examples:
  weekdeck reorder mon 3 top
  weekdeck reorder mon 1 bottom
  weekdeck reorder mon 1 2`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseTaskRef(args[0], args[1])
			if err != nil {
				return err
			}
			target := strings.ToLower(args[2])
			var toIndex int
			if target != "top" && target != "bottom" {
				if toIndex, err = parsePosition(target); err != nil {
					return err
				}
			}

			return withBoard(cmd, c, func(s *board.Store) error {
				task, err := lookup(s, ref)
				if err != nil {
					return err
				}
				var ok bool
				switch target {
				case "top":
					ok = s.MoveToTop(ref.Day, ref.Index)
				case "bottom":
					ok = s.MoveToBottom(ref.Day, ref.Index)
				default:
					ok = s.ReorderWithinDay(ref.Day, ref.Index, toIndex)
				}
				if !ok {
					return errNoChange
				}
				day, index, _ := s.Find(task.ID)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Moved to %s: %s\n", taskRef{Day: day, Index: index}, task.Title)
				return nil
			})
		},
	}
}

// newColorCommand creates the color command.
func newColorCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "color <day> <position> <color|none|next>",
		Short: "Set the color tag of a task",
		Long: `Set the color tag of a task.

Colors: red, yellow, blue, green, gray, or a palette hex value.
"none" clears the color (and the highlight); "next" cycles the palette.
Completed tasks cannot carry a color.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseTaskRef(args[0], args[1])
			if err != nil {
				return err
			}
			next := strings.EqualFold(args[2], "next")
			var color domain.Color
			if !next {
				if color, err = domain.ParseColor(args[2]); err != nil {
					return err
				}
			}

			return withBoard(cmd, c, func(s *board.Store) error {
				task, err := lookup(s, ref)
				if err != nil {
					return err
				}
				if next {
					color = task.Color.Next()
				}
				if err := changed(s.SetColor(ref.Day, ref.Index, color)); err != nil {
					return err
				}
				task, _ = lookup(s, ref)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: color %s\n", ref, colorName(task.Color))
				return nil
			})
		},
	}
}

// newHighlightCommand creates the highlight command.
func newHighlightCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "highlight <day> <position>",
		Short: "Toggle the background fill of a colored task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseTaskRef(args[0], args[1])
			if err != nil {
				return err
			}
			return withBoard(cmd, c, func(s *board.Store) error {
				task, err := lookup(s, ref)
				if err != nil {
					return err
				}
				if task.Color.IsEmpty() {
					return fmt.Errorf("%s has no color; set one with 'weekdeck color' first", ref)
				}
				s.ToggleHighlight(ref.Day, ref.Index)
				task, _ = lookup(s, ref)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: highlight %s\n", ref, onOff(task.Highlighted))
				return nil
			})
		},
	}
}

// newDoneCommand creates the done command.
func newDoneCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "done <day> <position>",
		Short: "Toggle the completion of a task",
		Long: `Toggle the completion of a task.

Completing a task removes its color and highlight.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseTaskRef(args[0], args[1])
			if err != nil {
				return err
			}
			return withBoard(cmd, c, func(s *board.Store) error {
				if _, err := lookup(s, ref); err != nil {
					return err
				}
				s.ToggleCompleted(ref.Day, ref.Index)
				task, _ := lookup(s, ref)
				state := "not done"
				if task.Completed {
					state = "done"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", ref, state)
				return nil
			})
		},
	}
}

// newEditCommand creates the edit command.
func newEditCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title       string
		Description string
	}

	cmd := &cobra.Command{
		Use:   "edit <day> <position>",
		Short: "Edit the title or description of a task",
		Long: `Edit the title or description of a task.

Examples:
  weekdeck edit tue 1 --title "Call **Bob**"
  weekdeck edit tue 1 --desc "Ask about the invoice"
  weekdeck edit tue 1 --desc ""`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			titleSet := cmd.Flags().Changed("title")
			descSet := cmd.Flags().Changed("desc")
			if !titleSet && !descSet {
				return errors.New("nothing to edit: use --title and/or --desc")
			}
			title := domain.NormalizeTitle(opts.Title)
			if titleSet && title == "" {
				return domain.ErrEmptyTitle
			}
			ref, err := parseTaskRef(args[0], args[1])
			if err != nil {
				return err
			}

			return withBoard(cmd, c, func(s *board.Store) error {
				if _, err := lookup(s, ref); err != nil {
					return err
				}
				ok := false
				if titleSet {
					ok = s.SetTitle(ref.Day, ref.Index, title) || ok
				}
				if descSet {
					ok = s.SetDescription(ref.Day, ref.Index, opts.Description) || ok
				}
				if !ok {
					return errNoChange
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", ref)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "New title")
	cmd.Flags().StringVar(&opts.Description, "desc", "", "New description (empty clears it)")

	return cmd
}

// newClearCommand creates the clear command.
func newClearCommand(c *app.Container) *cobra.Command {
	var completed bool

	cmd := &cobra.Command{
		Use:   "clear <day|all>",
		Short: "Remove the tasks of a day",
		Long: `Remove every task of a day, or only the completed ones with --completed.
Use "all" to clear every day.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var days []domain.Day
			if strings.EqualFold(args[0], "all") {
				days = domain.AllDays()
			} else {
				day, err := domain.ParseDay(args[0])
				if err != nil {
					return err
				}
				days = []domain.Day{day}
			}

			return withBoard(cmd, c, func(s *board.Store) error {
				snapBefore := s.Snapshot()
				before := snapBefore.Len()
				for _, day := range days {
					if completed {
						s.ClearCompleted(day)
					} else {
						s.ClearDay(day)
					}
				}
				snapAfter := s.Snapshot()
				removed := before - snapAfter.Len()
				if removed == 0 {
					return errNoChange
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d task(s)\n", removed)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&completed, "completed", false, "Only remove completed tasks")

	return cmd
}

// newTitleCommand creates the title command.
func newTitleCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "title [new title]...",
		Short: "Show or set the board title",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(cmd, c, func(s *board.Store) error {
				if len(args) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), s.Snapshot().Title)
					return nil
				}
				if err := changed(s.SetPageTitle(strings.Join(args, " "))); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Title set to %q\n", s.Snapshot().Title)
				return nil
			})
		},
	}
}

// newThemeCommand creates the theme command.
func newThemeCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "theme [default|dark|blue|next]",
		Short: "Show or set the board theme",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var theme domain.Theme
			next := len(args) == 1 && strings.EqualFold(args[0], "next")
			if len(args) == 1 && !next {
				th, err := domain.ParseTheme(args[0])
				if err != nil {
					return err
				}
				theme = th
			}

			return withBoard(cmd, c, func(s *board.Store) error {
				current := s.Snapshot().Theme
				if len(args) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), current)
					return nil
				}
				if next {
					theme = current.Next()
				}
				if err := changed(s.SetTheme(theme)); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Theme set to %s\n", theme)
				return nil
			})
		},
	}
}

// newWeekendCommand creates the weekend command.
func newWeekendCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:       "weekend [show|hide|toggle]",
		Short:     "Show or hide the Saturday and Sunday columns",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"show", "hide", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(cmd, c, func(s *board.Store) error {
				hidden := s.Snapshot().WeekendHidden
				if len(args) == 0 {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "weekend %s\n", shownHidden(hidden))
					return nil
				}
				switch args[0] {
				case "show":
					hidden = false
				case "hide":
					hidden = true
				default:
					hidden = !hidden
				}
				if err := changed(s.SetWeekendHidden(hidden)); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "weekend %s\n", shownHidden(hidden))
				return nil
			})
		},
	}
}

func colorName(c domain.Color) string {
	if c.IsEmpty() {
		return "none"
	}
	return string(c)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func shownHidden(hidden bool) string {
	if hidden {
		return "hidden"
	}
	return "shown"
}
