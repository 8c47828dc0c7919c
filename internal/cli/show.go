package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/weekdeck/weekdeck/internal/app"
	"github.com/weekdeck/weekdeck/internal/board"
	"github.com/weekdeck/weekdeck/internal/codec"
	"github.com/weekdeck/weekdeck/internal/domain"
)

// Output formats of the show command.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// newShowCommand creates the show command.
func newShowCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Format string
		All    bool
	}

	cmd := &cobra.Command{
		Use:     "show [day]",
		Aliases: []string{"ls"},
		Short:   "Show the board or one day",
		Long: `Show the board, or a single day.

Formats:
  text  numbered task list per day (default)
  json  the .wdeck document
  yaml  the columns as YAML`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var only *domain.Day
			if len(args) == 1 {
				day, err := domain.ParseDay(args[0])
				if err != nil {
					return err
				}
				only = &day
			}

			return withBoard(cmd, c, func(s *board.Store) error {
				b := s.Snapshot()
				days := b.VisibleDays()
				if opts.All {
					days = domain.AllDays()
				}
				if only != nil {
					days = []domain.Day{*only}
				}

				w := cmd.OutOrStdout()
				switch opts.Format {
				case formatText:
					renderBoard(w, b, days)
					return nil
				case formatJSON:
					data, err := codec.Marshal(b, c.Clock.Now())
					if err != nil {
						return err
					}
					_, _ = fmt.Fprintln(w, string(data))
					return nil
				case formatYAML:
					return renderYAML(w, b, days)
				default:
					return fmt.Errorf("unknown format %q (text, json, yaml)", opts.Format)
				}
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", formatText, "Output format: text, json, yaml")
	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "Include hidden weekend columns")

	return cmd
}

// renderBoard writes a numbered task list per day.
func renderBoard(w io.Writer, b domain.Board, days []domain.Day) {
	_, _ = fmt.Fprintf(w, "%s  (%d tasks, theme %s)\n", b.Title, b.Len(), b.Theme)
	for _, day := range days {
		col := b.Column(day)
		_, _ = fmt.Fprintf(w, "\n%s\n", day)
		if len(col) == 0 {
			_, _ = fmt.Fprintln(w, "  (empty)")
			continue
		}
		for i, t := range col {
			_, _ = fmt.Fprintf(w, "  %d. %s\n", i+1, formatTaskLine(t))
			if t.Description != "" {
				for _, line := range strings.Split(t.Description, "\n") {
					_, _ = fmt.Fprintf(w, "       %s\n", line)
				}
			}
		}
	}
}

// formatTaskLine renders "[x] title {color, highlighted}".
func formatTaskLine(t domain.Task) string {
	var sb strings.Builder
	if t.Completed {
		sb.WriteString("[x] ")
	} else {
		sb.WriteString("[ ] ")
	}
	sb.WriteString(t.Title)
	if !t.Color.IsEmpty() {
		sb.WriteString(" {")
		sb.WriteString(string(t.Color))
		if t.Highlighted {
			sb.WriteString(", highlighted")
		}
		sb.WriteString("}")
	}
	return sb.String()
}

// yamlBoard is the YAML view of a board.
type yamlBoard struct {
	Title   string          `yaml:"title"`
	Theme   string          `yaml:"theme"`
	Weekend string          `yaml:"weekend"`
	Days    []yamlDayColumn `yaml:"days"`
}

type yamlDayColumn struct {
	Day   string        `yaml:"day"`
	Tasks []domain.Task `yaml:"tasks"`
}

func renderYAML(w io.Writer, b domain.Board, days []domain.Day) error {
	view := yamlBoard{
		Title:   b.Title,
		Theme:   string(b.Theme),
		Weekend: shownHidden(b.WeekendHidden),
	}
	for _, day := range days {
		tasks := b.Column(day)
		if tasks == nil {
			tasks = []domain.Task{}
		}
		view.Days = append(view.Days, yamlDayColumn{Day: day.String(), Tasks: tasks})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(view); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
