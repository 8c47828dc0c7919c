package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weekdeck/weekdeck/internal/codec"
	"github.com/weekdeck/weekdeck/internal/domain"
	"github.com/weekdeck/weekdeck/internal/testutil"
)

func TestExportCommand(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "mon", "a")
	env.mustRun(t, "add", "tue", "b")

	out := env.mustRun(t, "export")
	assert.Equal(t, "Exported 2 tasks to /exports/WeekDeck_2026-03-06.wdeck\n", out)
	assert.Contains(t, env.files.Saved["WeekDeck_2026-03-06.wdeck"], `"title": "a"`)

	out = env.mustRun(t, "export", "week.wdeck")
	assert.Equal(t, "Exported 2 tasks to /exports/week.wdeck\n", out)
}

func TestExportCommand_Cancelled(t *testing.T) {
	env := newTestEnv(t)
	env.files.SaveErr = domain.ErrCancelled

	out, err := env.run(t, "export")
	require.NoError(t, err)
	assert.Contains(t, out, "Export cancelled")
}

func TestImportCommand(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "mon", "old")

	src := testutil.BoardWith(map[domain.Day][]string{
		domain.Tuesday:  {"x", "y"},
		domain.Saturday: {"z"},
	})
	data, err := codec.Marshal(src, time.Now())
	require.NoError(t, err)
	env.files.Files["plan.wdeck"] = string(data)

	out := env.mustRun(t, "import", "plan.wdeck")
	assert.Equal(t, "Imported 3 tasks from plan.wdeck\n", out)

	out = env.mustRun(t, "show", "--all")
	assert.NotContains(t, out, "old")
	assert.Contains(t, out, "Tuesday\n  1. [ ] x\n  2. [ ] y\n")
}

func TestImportCommand_Rejected(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "mon", "keep")
	env.files.Files["bad.wdeck"] = `{"version":"1.0"}`

	_, err := env.run(t, "import", "bad.wdeck")
	var de *codec.DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, codec.KindMissingTasks, de.Kind)

	_, err = env.run(t, "import", "missing.wdeck")
	assert.Error(t, err)

	out := env.mustRun(t, "show", "mon")
	assert.Contains(t, out, "keep")
}

func TestImportCommand_ListRequiresFileBackend(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "import", "--list")
	assert.Error(t, err)

	_, err = env.run(t, "import")
	assert.Error(t, err)
}

func TestHistoryCommand_NotSupported(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "history")
	assert.ErrorIs(t, err, domain.ErrNoHistory)
}

func TestHistoryAndRestore(t *testing.T) {
	storage := testutil.NewMockRevisionStore()
	env := newTestEnvWithStorage(t, storage)

	out := env.mustRun(t, "history")
	assert.Equal(t, "No saved revisions\n", out)

	older := testutil.BoardWith(map[domain.Day][]string{domain.Monday: {"first"}})
	older.Title = "Week 1"
	data, err := codec.Marshal(older, time.Now())
	require.NoError(t, err)
	key := env.c.Config.StoreKey
	storage.AddRevision(key, "aaaaaaaa1111", string(data), time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	storage.AddRevision(key, "bbbbbbbb2222", "not json", time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))

	out = env.mustRun(t, "history")
	assert.Contains(t, out, "REVISION")
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "aaaaaaaa")
	assert.Contains(t, out, "Week 1")
	assert.Contains(t, out, "?", "unreadable revisions show an unknown task count")

	out = env.mustRun(t, "restore", "aaaa")
	assert.Equal(t, "Restored aaaa (1 tasks)\n", out)
	assert.Equal(t, "Week 1\n", env.mustRun(t, "title"))

	_, err = env.run(t, "restore", "cccc")
	assert.Error(t, err)
}

func TestResetCommand(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "mon", "a")
	env.mustRun(t, "title", "Sprint")

	_, err := env.run(t, "reset")
	assert.Error(t, err, "reset needs --yes")
	assert.Equal(t, "Sprint\n", env.mustRun(t, "title"))

	assert.Equal(t, "Board reset\n", env.mustRun(t, "reset", "--yes"))
	assert.Equal(t, "WeekDeck\n", env.mustRun(t, "title"))
	assert.Contains(t, env.mustRun(t, "show", "mon"), "(empty)")
}
