// Package drag implements the drag gesture state machine used to move tasks.
//
// A Session only records where a task was lifted and where it currently
// hovers. Drop is the single transition that mutates the board.
package drag

import (
	"fmt"
	"sync"

	"github.com/weekdeck/weekdeck/internal/board"
	"github.com/weekdeck/weekdeck/internal/domain"
)

// Mover is the subset of the board store a drop resolves to.
type Mover interface {
	TaskAt(day domain.Day, index int) (domain.Task, bool)
	MoveIfID(id string, from domain.Day, index int, to domain.Day, toIndex int) (moved, found bool)
}

// State is the session state.
type State int

// Session states.
const (
	StateIdle State = iota
	StateDragging
	StateHovering
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StateHovering:
		return "hovering"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// TargetKind is the kind of drop region.
type TargetKind int

// Drop region kinds.
const (
	// BeforeTask drops before the task at Target.Index.
	BeforeTask TargetKind = iota
	// ColumnEnd drops after the last task of the column.
	ColumnEnd
	// Column drops anywhere in the column; the task is appended.
	Column
)

func (k TargetKind) String() string {
	switch k {
	case BeforeTask:
		return "before"
	case ColumnEnd:
		return "end"
	case Column:
		return "column"
	default:
		return fmt.Sprintf("TargetKind(%d)", int(k))
	}
}

// Source is the lifted task.
// Fields are ordered to minimize memory padding.
type Source struct {
	TaskID string // Id captured at start; checked again on drop
	Day    domain.Day
	Index  int
}

// Target is a drop candidate. Index is only meaningful for BeforeTask.
type Target struct {
	Day   domain.Day
	Index int
	Kind  TargetKind
}

// Outcome reports what a drop or cancel did.
type Outcome int

// Drop outcomes.
const (
	// Cancelled means there was nothing to drop on; the board is unchanged.
	Cancelled Outcome = iota
	// Moved means the board changed.
	Moved
	// NoOp means the drop resolved to a move that changed nothing.
	NoOp
	// SourceMissing means the lifted task was no longer at its source position.
	SourceMissing
)

func (o Outcome) String() string {
	switch o {
	case Cancelled:
		return "cancelled"
	case Moved:
		return "moved"
	case NoOp:
		return "noop"
	case SourceMissing:
		return "source_missing"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result describes a finished session.
// Fields are ordered to minimize memory padding.
type Result struct {
	Op      board.Op // Mutation the drop resolved to; empty when cancelled
	Source  Source
	Target  Target
	Outcome Outcome
}

// Status is a read-only view of the session for renderers.
type Status struct {
	Source    Source
	Target    Target
	State     State
	HasTarget bool
}

// Session tracks at most one drag gesture at a time.
type Session struct {
	store  Mover
	source Source
	target Target
	mu     sync.Mutex
	state  State
}

// NewSession creates an idle Session that drops onto store.
func NewSession(store Mover) *Session {
	return &Session{store: store}
}

// Start lifts the task at (day, index). Any active gesture is discarded first.
// It reports false, leaving the session idle, if there is no such task.
func (s *Session) Start(day domain.Day, index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
	task, ok := s.store.TaskAt(day, index)
	if !ok {
		return false
	}
	s.source = Source{Day: day, Index: index, TaskID: task.ID}
	s.state = StateDragging
	return true
}

// Hover records t as the current drop candidate.
// Targets that would leave the task where it is (its own position, or its own
// column as a whole) clear the candidate instead. It reports whether the
// session is now hovering a target.
func (s *Session) Hover(t Target) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateIdle {
		return false
	}
	if !t.Day.IsValid() || s.isOwnPosition(t) {
		s.state = StateDragging
		s.target = Target{}
		return false
	}
	if t.Kind != BeforeTask {
		t.Index = board.End
	}
	s.target = t
	s.state = StateHovering
	return true
}

// Leave clears the drop candidate, as when the pointer leaves a drop region.
func (s *Session) Leave() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateHovering {
		s.state = StateDragging
		s.target = Target{}
	}
}

// Drop commits the gesture and always returns the session to idle.
// Without a target it behaves like Cancel.
// The session is idle before the store is touched, so store subscribers may
// call back into the session.
func (s *Session) Drop() Result {
	s.mu.Lock()
	hovering := s.state == StateHovering
	src, dst := s.source, s.target
	s.reset()
	s.mu.Unlock()

	res := Result{Source: src, Target: dst, Outcome: Cancelled}
	if !hovering {
		return res
	}

	res.Op = board.OpMoveToDay
	if src.Day == dst.Day {
		res.Op = board.OpReorder
	}
	moved, found := s.store.MoveIfID(src.TaskID, src.Day, src.Index, dst.Day, dst.Index)
	switch {
	case !found:
		res.Op = ""
		res.Outcome = SourceMissing
	case moved:
		res.Outcome = Moved
	default:
		res.Outcome = NoOp
	}
	return res
}

// Cancel abandons the gesture without touching the board.
// It reports whether a gesture was active.
func (s *Session) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := s.state != StateIdle
	s.reset()
	return active
}

// Status returns the current session state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Status{
		State:     s.state,
		Source:    s.source,
		Target:    s.target,
		HasTarget: s.state == StateHovering,
	}
}

// Active reports whether a gesture is in progress.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != StateIdle
}

func (s *Session) isOwnPosition(t Target) bool {
	if t.Day != s.source.Day {
		return false
	}
	return t.Kind == Column || (t.Kind == BeforeTask && t.Index == s.source.Index)
}

func (s *Session) reset() {
	s.state = StateIdle
	s.source = Source{}
	s.target = Target{}
}
