package domain

import (
	"fmt"
	"strings"
)

// DefaultBoardTitle is the page title of a fresh board.
const DefaultBoardTitle = "WeekDeck"

// Theme is the board color theme.
type Theme string

// Available themes.
const (
	ThemeDefault Theme = "default"
	ThemeDark    Theme = "dark"
	ThemeBlue    Theme = "blue"
)

// AllThemes returns every theme in menu order.
func AllThemes() []Theme {
	return []Theme{ThemeDefault, ThemeDark, ThemeBlue}
}

// ParseTheme parses a theme name case-insensitively.
func ParseTheme(s string) (Theme, error) {
	v := Theme(strings.ToLower(strings.TrimSpace(s)))
	for _, t := range AllThemes() {
		if v == t {
			return t, nil
		}
	}
	return ThemeDefault, fmt.Errorf("%w: %q", ErrInvalidTheme, s)
}

// Next cycles to the following theme.
func (t Theme) Next() Theme {
	all := AllThemes()
	for i, th := range all {
		if th == t {
			return all[(i+1)%len(all)]
		}
	}
	return ThemeDefault
}

// Board is the complete application state: seven day columns plus metadata.
// The Board is the unit of persistence.
// Fields are ordered to minimize memory padding.
type Board struct {
	Columns       [DayCount][]Task // Ordered tasks per day, indexed by Day
	Title         string           // Page title
	Theme         Theme            // Active theme
	WeekendHidden bool             // Saturday/Sunday columns hidden
}

// NewBoard returns an empty board with default metadata.
func NewBoard() Board {
	return Board{
		Title: DefaultBoardTitle,
		Theme: ThemeDefault,
	}
}

// Column returns the tasks of day. The returned slice must not be modified.
func (b *Board) Column(day Day) []Task {
	if !day.IsValid() {
		return nil
	}
	return b.Columns[day]
}

// TaskAt returns the task at index in day.
func (b *Board) TaskAt(day Day, index int) (Task, bool) {
	col := b.Column(day)
	if index < 0 || index >= len(col) {
		return Task{}, false
	}
	return col[index], true
}

// Len returns the total number of tasks on the board.
func (b *Board) Len() int {
	n := 0
	for _, col := range b.Columns {
		n += len(col)
	}
	return n
}

// IsEmpty reports whether no column holds a task.
func (b *Board) IsEmpty() bool {
	return b.Len() == 0
}

// Find locates the task with the given id.
func (b *Board) Find(id string) (Day, int, bool) {
	for d, col := range b.Columns {
		for i, t := range col {
			if t.ID == id {
				return Day(d), i, true
			}
		}
	}
	return 0, 0, false
}

// HasID reports whether any task on the board uses id.
func (b *Board) HasID(id string) bool {
	_, _, ok := b.Find(id)
	return ok
}

// VisibleDays returns the days shown on the board, honoring WeekendHidden.
func (b *Board) VisibleDays() []Day {
	days := make([]Day, 0, DayCount)
	for _, d := range AllDays() {
		if b.WeekendHidden && d.IsWeekend() {
			continue
		}
		days = append(days, d)
	}
	return days
}

// Clone returns a deep copy of the board. Snapshots handed to readers and
// background writers are always clones, never the live board.
func (b Board) Clone() Board {
	out := b
	for d, col := range b.Columns {
		if col == nil {
			out.Columns[d] = nil
			continue
		}
		cp := make([]Task, len(col))
		copy(cp, col)
		out.Columns[d] = cp
	}
	return out
}

// Repair normalizes every task, replaces empty or duplicated ids using ids,
// and falls back to the default theme when the theme is unknown.
// It reports whether anything changed. Repairing a valid board is a no-op.
func (b *Board) Repair(ids IDGenerator) bool {
	changed := false
	if _, err := ParseTheme(string(b.Theme)); err != nil {
		b.Theme = ThemeDefault
		changed = true
	}
	seen := make(map[string]struct{}, b.Len())
	for d := range b.Columns {
		col := b.Columns[d]
		for i := range col {
			t := &col[i]
			if t.Normalize() {
				changed = true
			}
			if _, dup := seen[t.ID]; t.ID == "" || dup {
				t.ID = freshID(ids, func(id string) bool {
					_, taken := seen[id]
					return taken || b.HasID(id)
				})
				changed = true
			}
			seen[t.ID] = struct{}{}
		}
	}
	return changed
}

// NewID returns an id from ids that is not used anywhere on the board.
func (b *Board) NewID(ids IDGenerator) string {
	return freshID(ids, b.HasID)
}

func freshID(ids IDGenerator, taken func(string) bool) string {
	for {
		id := ids.NewID()
		if id != "" && !taken(id) {
			return id
		}
	}
}
