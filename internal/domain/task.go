// Package domain contains core business entities and interfaces.
package domain

import "strings"

// CopySuffix is appended to the title of a duplicated task.
const CopySuffix = " (copy)"

// Task is a single card on the board.
// Fields are ordered to minimize memory padding.
type Task struct {
	ID          string `json:"id" yaml:"id"`                         // Stable identity, never reused
	Title       string `json:"title" yaml:"title"`                   // Raw title text (emphasis markers kept)
	Description string `json:"desc" yaml:"desc,omitempty"`           // Optional free text
	Color       Color  `json:"color" yaml:"color,omitempty"`         // Tag color (empty = none)
	Highlighted bool   `json:"bgFill" yaml:"bgFill,omitempty"`       // Filled background, requires a color
	Completed   bool   `json:"completed" yaml:"completed,omitempty"` // Done flag, clears color state
}

// Normalize repairs the task so that it satisfies the color invariants:
// a completed task carries no color state, and a highlight requires a color.
// It reports whether anything changed. Normalize is idempotent.
func (t *Task) Normalize() bool {
	changed := false
	if t.Completed && (t.Color != ColorNone || t.Highlighted) {
		t.Color = ColorNone
		t.Highlighted = false
		changed = true
	}
	if t.Highlighted && t.Color.IsEmpty() {
		t.Highlighted = false
		changed = true
	}
	return changed
}

// IsValid reports whether the task already satisfies the color invariants.
func (t Task) IsValid() bool {
	if t.Completed && (t.Color != ColorNone || t.Highlighted) {
		return false
	}
	return !t.Highlighted || !t.Color.IsEmpty()
}

// Duplicate returns a copy of t with a new id, the copy suffix and the
// completion flag cleared. Color, highlight and description are inherited.
func (t Task) Duplicate(id string) Task {
	dup := t
	dup.ID = id
	dup.Title = t.Title + CopySuffix
	dup.Completed = false
	dup.Normalize()
	return dup
}

// NormalizeTitle trims surrounding whitespace from a user-entered title.
func NormalizeTitle(title string) string {
	return strings.TrimSpace(title)
}
