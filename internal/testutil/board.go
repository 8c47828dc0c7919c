package testutil

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/weekdeck/weekdeck/internal/domain"
)

// AssertBoardInvariants checks the task invariants and id uniqueness of b.
func AssertBoardInvariants(t *testing.T, b domain.Board) bool {
	t.Helper()
	ok := true
	seen := make(map[string]domain.Day)
	for d, col := range b.Columns {
		for i, task := range col {
			if task.Highlighted {
				ok = assert.NotEmpty(t, task.Color, "%s[%d]: highlighted task without color", domain.Day(d), i) && ok
			}
			if task.Completed {
				ok = assert.Empty(t, task.Color, "%s[%d]: completed task with color", domain.Day(d), i) && ok
				ok = assert.False(t, task.Highlighted, "%s[%d]: completed task highlighted", domain.Day(d), i) && ok
			}
			ok = assert.NotEmpty(t, task.ID, "%s[%d]: empty id", domain.Day(d), i) && ok
			if prev, dup := seen[task.ID]; dup {
				ok = assert.Failf(t, "duplicate id", "%q appears on %s and %s", task.ID, prev, domain.Day(d)) && ok
			}
			seen[task.ID] = domain.Day(d)
		}
	}
	return ok
}

// BoardWith returns a board whose columns hold tasks with the given titles.
// Task ids are "<day short>-<n>", e.g. "Mon-1".
func BoardWith(columns map[domain.Day][]string) domain.Board {
	b := domain.NewBoard()
	for day, ts := range columns {
		for i, title := range ts {
			b.Columns[day] = append(b.Columns[day], domain.Task{
				ID:    day.Short() + "-" + strconv.Itoa(i+1),
				Title: title,
			})
		}
	}
	return b
}
