package drag

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weekdeck/weekdeck/internal/board"
	"github.com/weekdeck/weekdeck/internal/domain"
	"github.com/weekdeck/weekdeck/internal/testutil"
)

func newStore(t *testing.T, columns map[domain.Day][]string) *board.Store {
	t.Helper()
	return board.New(testutil.BoardWith(columns), testutil.NewSeqIDGenerator("t"))
}

func titles(s *board.Store, day domain.Day) []string {
	snap := s.Snapshot()
	out := []string{}
	for _, task := range snap.Columns[day] {
		out = append(out, task.Title)
	}
	return out
}

func TestSession_DropAtOtherColumnEndThenCancel(t *testing.T) {
	s := newStore(t, map[domain.Day][]string{
		domain.Monday:  {"M1", "M2"},
		domain.Tuesday: {"T1"},
	})
	sess := NewSession(s)

	require.True(t, sess.Start(domain.Monday, 0))
	require.True(t, sess.Hover(Target{Day: domain.Tuesday, Kind: ColumnEnd}))
	res := sess.Drop()

	assert.Equal(t, Moved, res.Outcome)
	assert.Equal(t, board.OpMoveToDay, res.Op)
	assert.Equal(t, []string{"M2"}, titles(s, domain.Monday))
	assert.Equal(t, []string{"T1", "M1"}, titles(s, domain.Tuesday))
	assert.Equal(t, StateIdle, sess.Status().State)

	before := s.Snapshot()
	require.True(t, sess.Start(domain.Tuesday, 1))
	require.True(t, sess.Hover(Target{Day: domain.Wednesday, Kind: Column}))
	assert.True(t, sess.Cancel())
	assert.Equal(t, before, s.Snapshot())
	assert.False(t, sess.Active())
}

func TestSession_Drop(t *testing.T) {
	tests := []struct {
		name    string
		want    map[domain.Day][]string
		target  Target
		index   int
		outcome Outcome
		op      board.Op
	}{
		{
			name:    "before task in other day",
			index:   1,
			target:  Target{Day: domain.Tuesday, Index: 0, Kind: BeforeTask},
			outcome: Moved,
			op:      board.OpMoveToDay,
			want: map[domain.Day][]string{
				domain.Monday:  {"M1", "M3"},
				domain.Tuesday: {"M2", "T1", "T2"},
			},
		},
		{
			name:    "before out of range index appends",
			index:   0,
			target:  Target{Day: domain.Tuesday, Index: 9, Kind: BeforeTask},
			outcome: Moved,
			op:      board.OpMoveToDay,
			want: map[domain.Day][]string{
				domain.Monday:  {"M2", "M3"},
				domain.Tuesday: {"T1", "T2", "M1"},
			},
		},
		{
			name:    "column of other day appends",
			index:   2,
			target:  Target{Day: domain.Friday, Kind: Column},
			outcome: Moved,
			op:      board.OpMoveToDay,
			want: map[domain.Day][]string{
				domain.Monday: {"M1", "M2"},
				domain.Friday: {"M3"},
			},
		},
		{
			name:    "same day before later task",
			index:   0,
			target:  Target{Day: domain.Monday, Index: 2, Kind: BeforeTask},
			outcome: Moved,
			op:      board.OpReorder,
			want: map[domain.Day][]string{
				domain.Monday: {"M2", "M3", "M1"},
			},
		},
		{
			name:    "same day before earlier task",
			index:   2,
			target:  Target{Day: domain.Monday, Index: 0, Kind: BeforeTask},
			outcome: Moved,
			op:      board.OpReorder,
			want: map[domain.Day][]string{
				domain.Monday: {"M3", "M1", "M2"},
			},
		},
		{
			name:    "same day end",
			index:   0,
			target:  Target{Day: domain.Monday, Kind: ColumnEnd},
			outcome: Moved,
			op:      board.OpReorder,
			want: map[domain.Day][]string{
				domain.Monday: {"M2", "M3", "M1"},
			},
		},
		{
			name:    "same day end for last task",
			index:   2,
			target:  Target{Day: domain.Monday, Kind: ColumnEnd},
			outcome: NoOp,
			op:      board.OpReorder,
			want: map[domain.Day][]string{
				domain.Monday: {"M1", "M2", "M3"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t, map[domain.Day][]string{
				domain.Monday:  {"M1", "M2", "M3"},
				domain.Tuesday: {"T1", "T2"},
			})
			before := s.Snapshot()
			total := before.Len()
			sess := NewSession(s)

			require.True(t, sess.Start(domain.Monday, tt.index))
			require.True(t, sess.Hover(tt.target))
			res := sess.Drop()

			assert.Equal(t, tt.outcome, res.Outcome)
			assert.Equal(t, tt.op, res.Op)
			for day, want := range tt.want {
				assert.Equal(t, want, titles(s, day), day.String())
			}
			after := s.Snapshot()
			assert.Equal(t, total, after.Len())
			testutil.AssertBoardInvariants(t, s.Snapshot())
			assert.False(t, sess.Active())
		})
	}
}

func TestSession_HoverOwnPositionIsFiltered(t *testing.T) {
	s := newStore(t, map[domain.Day][]string{domain.Monday: {"M1", "M2"}})
	sess := NewSession(s)
	require.True(t, sess.Start(domain.Monday, 1))

	require.True(t, sess.Hover(Target{Day: domain.Tuesday, Kind: Column}))
	assert.Equal(t, StateHovering, sess.Status().State)

	assert.False(t, sess.Hover(Target{Day: domain.Monday, Index: 1, Kind: BeforeTask}))
	st := sess.Status()
	assert.Equal(t, StateDragging, st.State)
	assert.False(t, st.HasTarget)

	assert.False(t, sess.Hover(Target{Day: domain.Monday, Kind: Column}))
	assert.Equal(t, StateDragging, sess.Status().State)

	before := s.Snapshot()
	res := sess.Drop()
	assert.Equal(t, Cancelled, res.Outcome)
	assert.Equal(t, before, s.Snapshot())
}

func TestSession_HoverReplacesTarget(t *testing.T) {
	s := newStore(t, map[domain.Day][]string{domain.Monday: {"M1"}})
	sess := NewSession(s)
	require.True(t, sess.Start(domain.Monday, 0))

	require.True(t, sess.Hover(Target{Day: domain.Tuesday, Kind: Column}))
	require.True(t, sess.Hover(Target{Day: domain.Thursday, Index: 3, Kind: ColumnEnd}))

	st := sess.Status()
	assert.Equal(t, domain.Thursday, st.Target.Day)
	assert.Equal(t, ColumnEnd, st.Target.Kind)
	assert.Equal(t, board.End, st.Target.Index)

	res := sess.Drop()
	assert.Equal(t, Moved, res.Outcome)
	assert.Equal(t, []string{"M1"}, titles(s, domain.Thursday))
	assert.Empty(t, titles(s, domain.Tuesday))
}

func TestSession_LeaveThenDropCancels(t *testing.T) {
	s := newStore(t, map[domain.Day][]string{domain.Monday: {"M1"}})
	sess := NewSession(s)
	require.True(t, sess.Start(domain.Monday, 0))
	require.True(t, sess.Hover(Target{Day: domain.Tuesday, Kind: Column}))

	sess.Leave()
	assert.Equal(t, StateDragging, sess.Status().State)

	res := sess.Drop()
	assert.Equal(t, Cancelled, res.Outcome)
	assert.Equal(t, []string{"M1"}, titles(s, domain.Monday))
}

func TestSession_StartOnMissingTaskStaysIdle(t *testing.T) {
	s := newStore(t, map[domain.Day][]string{domain.Monday: {"M1"}})
	sess := NewSession(s)

	assert.False(t, sess.Start(domain.Monday, 1))
	assert.False(t, sess.Start(domain.Day(9), 0))
	assert.False(t, sess.Active())
	assert.False(t, sess.Hover(Target{Day: domain.Tuesday, Kind: Column}))
	assert.Equal(t, Cancelled, sess.Drop().Outcome)
	assert.False(t, sess.Cancel())
}

func TestSession_RestartReplacesSession(t *testing.T) {
	s := newStore(t, map[domain.Day][]string{
		domain.Monday:  {"M1"},
		domain.Tuesday: {"T1"},
	})
	sess := NewSession(s)

	require.True(t, sess.Start(domain.Monday, 0))
	require.True(t, sess.Hover(Target{Day: domain.Wednesday, Kind: Column}))

	require.True(t, sess.Start(domain.Tuesday, 0))
	st := sess.Status()
	assert.Equal(t, StateDragging, st.State)
	assert.Equal(t, domain.Tuesday, st.Source.Day)

	require.True(t, sess.Hover(Target{Day: domain.Monday, Kind: ColumnEnd}))
	assert.Equal(t, Moved, sess.Drop().Outcome)
	assert.Equal(t, []string{"M1", "T1"}, titles(s, domain.Monday))
	assert.Empty(t, titles(s, domain.Wednesday))
}

func TestSession_SourceDeletedWhileDragging(t *testing.T) {
	s := newStore(t, map[domain.Day][]string{domain.Monday: {"M1", "M2"}})
	sess := NewSession(s)

	require.True(t, sess.Start(domain.Monday, 0))
	require.True(t, sess.Hover(Target{Day: domain.Tuesday, Kind: Column}))
	require.True(t, s.DeleteTask(domain.Monday, 0))

	before := s.Snapshot()
	res := sess.Drop()
	assert.Equal(t, SourceMissing, res.Outcome)
	assert.Equal(t, before, s.Snapshot())
	assert.False(t, sess.Active())
}

func TestSession_StoreSubscriberReadsSessionDuringDrop(t *testing.T) {
	s := newStore(t, map[domain.Day][]string{domain.Monday: {"M1"}})
	sess := NewSession(s)

	var seen []State
	s.OnChange(func(board.Change) {
		seen = append(seen, sess.Status().State)
	})

	require.True(t, sess.Start(domain.Monday, 0))
	require.True(t, sess.Hover(Target{Day: domain.Friday, Kind: Column}))

	done := make(chan Result, 1)
	go func() { done <- sess.Drop() }()

	select {
	case res := <-done:
		assert.Equal(t, Moved, res.Outcome)
	case <-time.After(2 * time.Second):
		t.Fatal("Drop did not return while a store subscriber read the session")
	}
	assert.Equal(t, []State{StateIdle}, seen)
	assert.Equal(t, []string{"M1"}, titles(s, domain.Friday))
}

func TestSession_InvalidTargetDayIsFiltered(t *testing.T) {
	s := newStore(t, map[domain.Day][]string{domain.Monday: {"M1"}})
	sess := NewSession(s)
	require.True(t, sess.Start(domain.Monday, 0))

	assert.False(t, sess.Hover(Target{Day: domain.Day(-1), Kind: Column}))
	assert.Equal(t, StateDragging, sess.Status().State)
}
