// Package board holds the live weekly board and its mutation primitives.
//
// Every mutation is total: out-of-range positions and degenerate arguments
// are no-ops, and calls that would break a task invariant are repaired
// instead of rejected. Each successful mutation is announced to OnChange
// subscribers with an immutable snapshot of the resulting board.
package board

import (
	"slices"
	"sync"

	"github.com/weekdeck/weekdeck/internal/domain"
)

// End is the position meaning "after the last task" for ReorderWithinDay and MoveToDayAt.
const End = -1

// Op names the mutation that produced a Change.
type Op string

// Mutation names.
const (
	OpAdd             Op = "add"
	OpDelete          Op = "delete"
	OpDuplicate       Op = "duplicate"
	OpMoveToTop       Op = "move_top"
	OpMoveToBottom    Op = "move_bottom"
	OpMoveToDay       Op = "move_day"
	OpReorder         Op = "reorder"
	OpSetColor        Op = "set_color"
	OpToggleHighlight Op = "toggle_highlight"
	OpToggleCompleted Op = "toggle_completed"
	OpSetTitle        Op = "set_title"
	OpSetDescription  Op = "set_description"
	OpClearDay        Op = "clear_day"
	OpClearCompleted  Op = "clear_completed"
	OpSetPageTitle    Op = "set_page_title"
	OpSetTheme        Op = "set_theme"
	OpSetWeekend      Op = "set_weekend"
	OpReplace         Op = "replace"
)

// Change describes a committed mutation.
// Fields are ordered to minimize memory padding.
type Change struct {
	Board domain.Board // Snapshot after the mutation; safe to keep and read concurrently
	Op    Op
	Day   domain.Day // Day the mutation applied to (source day for moves)
	Rev   uint64     // Store revision of Board; strictly increasing per store
}

// Store owns the board and serializes access to it.
type Store struct {
	ids         domain.IDGenerator
	subscribers map[int]func(Change)
	board       domain.Board
	mu          sync.Mutex
	subMu       sync.Mutex
	nextSubID   int
	rev         uint64
}

// New creates a Store holding initial. The board is repaired first so that the
// store never starts from a state violating the task invariants.
func New(initial domain.Board, ids domain.IDGenerator) *Store {
	if ids == nil {
		ids = domain.UUIDGenerator{}
	}
	b := initial.Clone()
	b.Repair(ids)
	return &Store{
		ids:         ids,
		board:       b,
		subscribers: make(map[int]func(Change)),
	}
}

// OnChange registers fn to be called synchronously after every successful
// mutation. The returned function removes the subscription.
// Changes from concurrent mutations may reach fn out of order; Change.Rev
// tells which snapshot is newer.
func (s *Store) OnChange(fn func(Change)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subscribers, id)
	}
}

// Snapshot returns a deep copy of the current board for read-only use.
func (s *Store) Snapshot() domain.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Clone()
}

// TaskAt returns the task at index in day.
func (s *Store) TaskAt(day domain.Day, index int) (domain.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.TaskAt(day, index)
}

// Find locates a task by id.
func (s *Store) Find(id string) (domain.Day, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Find(id)
}

// Replace swaps the whole board atomically. The new board is repaired before it
// becomes visible; readers never observe a partially replaced board.
func (s *Store) Replace(b domain.Board) {
	next := b.Clone()
	next.Repair(s.ids)
	s.mutate(OpReplace, domain.Monday, func(cur *domain.Board) bool {
		*cur = next
		return true
	})
}

// AddTask appends a new task titled title to day. A title that is empty after
// trimming is rejected and ok is false.
func (s *Store) AddTask(day domain.Day, title string) (task domain.Task, ok bool) {
	title = domain.NormalizeTitle(title)
	if title == "" || !day.IsValid() {
		return domain.Task{}, false
	}
	ok = s.mutate(OpAdd, day, func(b *domain.Board) bool {
		task = domain.Task{
			ID:    b.NewID(s.ids),
			Title: title,
		}
		b.Columns[day] = append(b.Columns[day], task)
		return true
	})
	return task, ok
}

// DeleteTask removes the task at index in day.
func (s *Store) DeleteTask(day domain.Day, index int) bool {
	return s.mutate(OpDelete, day, func(b *domain.Board) bool {
		if !inRange(b, day, index) {
			return false
		}
		b.Columns[day] = slices.Delete(b.Columns[day], index, index+1)
		return true
	})
}

// DuplicateTask inserts a copy of the task at index directly after it.
// The copy gets a fresh id, the " (copy)" title suffix and is not completed.
func (s *Store) DuplicateTask(day domain.Day, index int) (dup domain.Task, ok bool) {
	ok = s.mutate(OpDuplicate, day, func(b *domain.Board) bool {
		if !inRange(b, day, index) {
			return false
		}
		dup = b.Columns[day][index].Duplicate(b.NewID(s.ids))
		b.Columns[day] = slices.Insert(b.Columns[day], index+1, dup)
		return true
	})
	return dup, ok
}

// MoveToTop moves the task at index to the start of its day.
func (s *Store) MoveToTop(day domain.Day, index int) bool {
	return s.mutate(OpMoveToTop, day, func(b *domain.Board) bool {
		if !inRange(b, day, index) || index == 0 {
			return false
		}
		relocate(b, day, index, day, 0)
		return true
	})
}

// MoveToBottom moves the task at index to the end of its day.
func (s *Store) MoveToBottom(day domain.Day, index int) bool {
	return s.mutate(OpMoveToBottom, day, func(b *domain.Board) bool {
		if !inRange(b, day, index) || index == len(b.Columns[day])-1 {
			return false
		}
		relocate(b, day, index, day, End)
		return true
	})
}

// MoveToDay moves the task at index in from to the end of to.
func (s *Store) MoveToDay(from domain.Day, index int, to domain.Day) bool {
	return s.MoveToDayAt(from, index, to, End)
}

// MoveToDayAt moves the task at index in from so that it lands before the task
// currently at toIndex in to. End, or any position past the last task, appends.
// Moving within the same day is a no-op; use ReorderWithinDay for that.
func (s *Store) MoveToDayAt(from domain.Day, index int, to domain.Day, toIndex int) bool {
	return s.mutate(OpMoveToDay, from, func(b *domain.Board) bool {
		if from == to || !to.IsValid() || !inRange(b, from, index) {
			return false
		}
		relocate(b, from, index, to, toIndex)
		return true
	})
}

// ReorderWithinDay removes the task at from and re-inserts it at to. The
// insertion position is taken relative to the sequence after removal, so
// moving index 2 "before index 2" leaves the order unchanged. End, or any
// position past the last task, appends.
func (s *Store) ReorderWithinDay(day domain.Day, from, to int) bool {
	return s.mutate(OpReorder, day, func(b *domain.Board) bool {
		return reorder(b, day, from, to)
	})
}

// MoveIfID moves the task at index in from, but only while it still has the
// given id. The check and the move happen under one lock. Within a day it
// reorders like ReorderWithinDay, across days it moves like MoveToDayAt.
// found is false when the position is empty or holds another task.
func (s *Store) MoveIfID(id string, from domain.Day, index int, to domain.Day, toIndex int) (moved, found bool) {
	op := OpMoveToDay
	if from == to {
		op = OpReorder
	}
	moved = s.mutate(op, from, func(b *domain.Board) bool {
		task, ok := b.TaskAt(from, index)
		if !ok || task.ID != id {
			return false
		}
		found = true
		if from == to {
			return reorder(b, from, index, toIndex)
		}
		if !to.IsValid() {
			return false
		}
		relocate(b, from, index, to, toIndex)
		return true
	})
	return moved, found
}

// SetColor tags the task at index with color. Clearing the color also clears
// the highlight; a completed task never carries a color.
func (s *Store) SetColor(day domain.Day, index int, color domain.Color) bool {
	return s.updateTask(OpSetColor, day, index, func(t *domain.Task) {
		t.Color = color
		if color.IsEmpty() {
			t.Highlighted = false
		}
	})
}

// ToggleHighlight flips the highlight of the task at index. Tasks without a
// color cannot be highlighted.
func (s *Store) ToggleHighlight(day domain.Day, index int) bool {
	return s.updateTask(OpToggleHighlight, day, index, func(t *domain.Task) {
		if !t.Color.IsEmpty() {
			t.Highlighted = !t.Highlighted
		}
	})
}

// ToggleCompleted flips the completion flag of the task at index. Completing a
// task clears its color and highlight.
func (s *Store) ToggleCompleted(day domain.Day, index int) bool {
	return s.updateTask(OpToggleCompleted, day, index, func(t *domain.Task) {
		t.Completed = !t.Completed
		if t.Completed {
			t.Color = domain.ColorNone
			t.Highlighted = false
		}
	})
}

// SetTitle replaces the title of the task at index.
func (s *Store) SetTitle(day domain.Day, index int, title string) bool {
	return s.updateTask(OpSetTitle, day, index, func(t *domain.Task) {
		t.Title = title
	})
}

// SetDescription replaces the description of the task at index.
func (s *Store) SetDescription(day domain.Day, index int, desc string) bool {
	return s.updateTask(OpSetDescription, day, index, func(t *domain.Task) {
		t.Description = desc
	})
}

// ClearDay removes every task from day.
func (s *Store) ClearDay(day domain.Day) bool {
	return s.mutate(OpClearDay, day, func(b *domain.Board) bool {
		if !day.IsValid() || len(b.Columns[day]) == 0 {
			return false
		}
		b.Columns[day] = nil
		return true
	})
}

// ClearCompleted removes the completed tasks of day, keeping the others in order.
func (s *Store) ClearCompleted(day domain.Day) bool {
	return s.mutate(OpClearCompleted, day, func(b *domain.Board) bool {
		if !day.IsValid() {
			return false
		}
		before := len(b.Columns[day])
		b.Columns[day] = slices.DeleteFunc(b.Columns[day], func(t domain.Task) bool {
			return t.Completed
		})
		return len(b.Columns[day]) != before
	})
}

// SetPageTitle sets the board title.
func (s *Store) SetPageTitle(title string) bool {
	return s.mutate(OpSetPageTitle, domain.Monday, func(b *domain.Board) bool {
		if b.Title == title {
			return false
		}
		b.Title = title
		return true
	})
}

// SetTheme sets the board theme.
func (s *Store) SetTheme(theme domain.Theme) bool {
	if _, err := domain.ParseTheme(string(theme)); err != nil {
		return false
	}
	return s.mutate(OpSetTheme, domain.Monday, func(b *domain.Board) bool {
		if b.Theme == theme {
			return false
		}
		b.Theme = theme
		return true
	})
}

// SetWeekendHidden shows or hides the Saturday and Sunday columns.
func (s *Store) SetWeekendHidden(hidden bool) bool {
	return s.mutate(OpSetWeekend, domain.Saturday, func(b *domain.Board) bool {
		if b.WeekendHidden == hidden {
			return false
		}
		b.WeekendHidden = hidden
		return true
	})
}

// updateTask applies fn to the task at index and repairs the result.
// It reports a change only if the task actually differs afterwards.
func (s *Store) updateTask(op Op, day domain.Day, index int, fn func(*domain.Task)) bool {
	return s.mutate(op, day, func(b *domain.Board) bool {
		if !inRange(b, day, index) {
			return false
		}
		t := &b.Columns[day][index]
		before := *t
		fn(t)
		t.Normalize()
		return *t != before
	})
}

// mutate runs fn under the lock and, if fn reports a change, notifies
// subscribers with a snapshot after the lock is released. The revision is
// taken under the lock so it orders snapshots even when publishes race.
func (s *Store) mutate(op Op, day domain.Day, fn func(*domain.Board) bool) bool {
	s.mu.Lock()
	changed := fn(&s.board)
	var c Change
	if changed {
		s.rev++
		c = Change{Op: op, Day: day, Board: s.board.Clone(), Rev: s.rev}
	}
	s.mu.Unlock()

	if changed {
		s.publish(c)
	}
	return changed
}

func (s *Store) publish(c Change) {
	s.subMu.Lock()
	ids := make([]int, 0, len(s.subscribers))
	for id := range s.subscribers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(Change), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subscribers[id])
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}

// reorder moves the task at from to to within day, to counted after removal.
func reorder(b *domain.Board, day domain.Day, from, to int) bool {
	if !inRange(b, day, from) {
		return false
	}
	last := len(b.Columns[day]) - 1
	if to < 0 || to > last {
		to = last
	}
	if to == from {
		return false
	}
	relocate(b, day, from, day, to)
	return true
}

func inRange(b *domain.Board, day domain.Day, index int) bool {
	return day.IsValid() && index >= 0 && index < len(b.Columns[day])
}

// relocate removes the task at (from, index) and inserts it at toIndex in to,
// where toIndex is relative to the destination after removal. Out-of-range
// destinations append.
func relocate(b *domain.Board, from domain.Day, index int, to domain.Day, toIndex int) {
	task := b.Columns[from][index]
	b.Columns[from] = slices.Delete(b.Columns[from], index, index+1)
	dest := b.Columns[to]
	if toIndex < 0 || toIndex > len(dest) {
		toIndex = len(dest)
	}
	b.Columns[to] = slices.Insert(dest, toIndex, task)
}
