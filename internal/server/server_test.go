package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weekdeck/weekdeck/internal/app"
	"github.com/weekdeck/weekdeck/internal/board"
	"github.com/weekdeck/weekdeck/internal/domain"
	"github.com/weekdeck/weekdeck/internal/infra/memstore"
	"github.com/weekdeck/weekdeck/internal/testutil"
)

func newTestServer(t *testing.T, b domain.Board) (*Server, *board.Store) {
	t.Helper()
	clock := &testutil.MockClock{NowTime: time.Date(2026, 3, 6, 12, 0, 0, 0, time.UTC)}
	ids := testutil.NewSeqIDGenerator("id-")
	c := app.NewWithDeps(app.Config{}, memstore.New(), testutil.NewMockFileExchange(), clock, ids, nil)
	store := board.New(b, ids)
	return New(c, store), store
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func titles(b domain.Board, day domain.Day) []string {
	var out []string
	for _, t := range b.Column(day) {
		out = append(out, t.Title)
	}
	return out
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t, domain.NewBoard())
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/healthz", "").Code)
}

func TestGetBoard(t *testing.T) {
	s, _ := newTestServer(t, testutil.BoardWith(map[domain.Day][]string{domain.Monday: {"a"}}))

	rec := do(t, s, http.MethodGet, "/api/board", "")
	require.Equal(t, http.StatusOK, rec.Code)

	doc := decode(t, rec)
	assert.Equal(t, "1.0", doc["version"])
	assert.Equal(t, "WeekDeck", doc["pageTitle"])
	tasks := doc["tasks"].(map[string]any)
	assert.Len(t, tasks, domain.DayCount)
	monday := tasks["Monday"].([]any)
	require.Len(t, monday, 1)
	assert.Equal(t, "a", monday[0].(map[string]any)["title"])
}

func TestAddTask(t *testing.T) {
	s, store := newTestServer(t, domain.NewBoard())

	rec := do(t, s, http.MethodPost, "/api/days/fri/tasks", `{"title":"  Ship it ","color":"blue","bgFill":true,"desc":"v2"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	task, ok := store.TaskAt(domain.Friday, 0)
	require.True(t, ok)
	assert.Equal(t, "Ship it", task.Title)
	assert.Equal(t, domain.ColorBlue, task.Color)
	assert.True(t, task.Highlighted)
	assert.Equal(t, "v2", task.Description)

	out := decode(t, rec)
	assert.Equal(t, true, out["changed"])
	assert.Equal(t, task.ID, out["task"].(map[string]any)["id"])
}

func TestAddTask_Errors(t *testing.T) {
	s, store := newTestServer(t, domain.NewBoard())

	tests := []struct {
		name string
		path string
		body string
		code int
	}{
		{"empty title", "/api/days/mon/tasks", `{"title":"   "}`, http.StatusBadRequest},
		{"bad day", "/api/days/someday/tasks", `{"title":"a"}`, http.StatusBadRequest},
		{"bad color", "/api/days/mon/tasks", `{"title":"a","color":"purple"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, do(t, s, http.MethodPost, tt.path, tt.body).Code)
		})
	}
	cleared := store.Snapshot()
	assert.True(t, cleared.IsEmpty())
}

func TestUpdateTask(t *testing.T) {
	s, store := newTestServer(t, testutil.BoardWith(map[domain.Day][]string{domain.Monday: {"a"}}))

	rec := do(t, s, http.MethodPatch, "/api/days/mon/tasks/0", `{"title":"b","color":"red","bgFill":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	task, _ := store.TaskAt(domain.Monday, 0)
	assert.Equal(t, "b", task.Title)
	assert.Equal(t, domain.ColorRed, task.Color)
	assert.True(t, task.Highlighted)

	rec = do(t, s, http.MethodPatch, "/api/days/mon/tasks/0", `{"completed":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	task, _ = store.TaskAt(domain.Monday, 0)
	assert.True(t, task.Completed)
	assert.Empty(t, task.Color)
	assert.False(t, task.Highlighted)

	rec = do(t, s, http.MethodPatch, "/api/days/mon/tasks/0", `{"completed":true}`)
	assert.Equal(t, false, decode(t, rec)["changed"])
}

func TestUpdateTask_Errors(t *testing.T) {
	s, _ := newTestServer(t, testutil.BoardWith(map[domain.Day][]string{domain.Monday: {"a"}}))

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodPatch, "/api/days/mon/tasks/3", `{"title":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPatch, "/api/days/mon/tasks/-1", `{"title":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPatch, "/api/days/mon/tasks/0", `{"title":""}`).Code)
}

func TestDeleteAndDuplicate(t *testing.T) {
	s, store := newTestServer(t, testutil.BoardWith(map[domain.Day][]string{domain.Monday: {"a", "b"}}))

	rec := do(t, s, http.MethodPost, "/api/days/mon/tasks/0/duplicate", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []string{"a", "a (copy)", "b"}, titles(store.Snapshot(), domain.Monday))

	rec = do(t, s, http.MethodDelete, "/api/days/mon/tasks/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"a", "a (copy)"}, titles(store.Snapshot(), domain.Monday))
}

func TestMoveTask(t *testing.T) {
	s, store := newTestServer(t, testutil.BoardWith(map[domain.Day][]string{
		domain.Monday:  {"a", "b", "c"},
		domain.Tuesday: {"x"},
	}))

	do(t, s, http.MethodPost, "/api/days/mon/tasks/2/move", `{"position":"top"}`)
	assert.Equal(t, []string{"c", "a", "b"}, titles(store.Snapshot(), domain.Monday))

	do(t, s, http.MethodPost, "/api/days/mon/tasks/0/move", `{"position":"bottom"}`)
	assert.Equal(t, []string{"a", "b", "c"}, titles(store.Snapshot(), domain.Monday))

	do(t, s, http.MethodPost, "/api/days/mon/tasks/0/move", `{"index":1}`)
	assert.Equal(t, []string{"b", "a", "c"}, titles(store.Snapshot(), domain.Monday))

	rec := do(t, s, http.MethodPost, "/api/days/mon/tasks/2/move", `{"day":"tue","index":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"c", "x"}, titles(store.Snapshot(), domain.Tuesday))

	do(t, s, http.MethodPost, "/api/days/mon/tasks/0/move", `{"day":"tue"}`)
	assert.Equal(t, []string{"c", "x", "b"}, titles(store.Snapshot(), domain.Tuesday))

	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/api/days/mon/tasks/0/move", `{"position":"middle"}`).Code)
}

func TestClearDay(t *testing.T) {
	b := testutil.BoardWith(map[domain.Day][]string{domain.Monday: {"a", "b"}})
	b.Columns[domain.Monday][0].Completed = true
	s, store := newTestServer(t, b)

	do(t, s, http.MethodDelete, "/api/days/mon/tasks?completed=true", "")
	assert.Equal(t, []string{"b"}, titles(store.Snapshot(), domain.Monday))

	do(t, s, http.MethodDelete, "/api/days/mon/tasks", "")
	current := store.Snapshot()
	assert.Empty(t, current.Column(domain.Monday))
}

func TestBoardSettings(t *testing.T) {
	s, store := newTestServer(t, domain.NewBoard())

	assert.Equal(t, http.StatusOK, do(t, s, http.MethodPut, "/api/board/title", `{"title":"Sprint"}`).Code)
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodPut, "/api/board/theme", `{"theme":"Blue"}`).Code)
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodPut, "/api/board/weekend", `{"hidden":true}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPut, "/api/board/theme", `{"theme":"neon"}`).Code)

	snap := store.Snapshot()
	assert.Equal(t, "Sprint", snap.Title)
	assert.Equal(t, domain.ThemeBlue, snap.Theme)
	assert.True(t, snap.WeekendHidden)
}

func TestDrag(t *testing.T) {
	s, store := newTestServer(t, testutil.BoardWith(map[domain.Day][]string{
		domain.Monday:  {"a", "b"},
		domain.Tuesday: {"x"},
	}))

	rec := do(t, s, http.MethodPost, "/api/drag/start", `{"day":"Monday","index":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dragging", decode(t, rec)["state"])

	rec = do(t, s, http.MethodPost, "/api/drag/hover", `{"day":"Monday","index":0}`)
	assert.Equal(t, "dragging", decode(t, rec)["state"], "own position is not a target")

	rec = do(t, s, http.MethodPost, "/api/drag/hover", `{"day":"Tuesday","kind":"end"}`)
	out := decode(t, rec)
	assert.Equal(t, "hovering", out["state"])
	assert.Equal(t, "Tuesday", out["target"].(map[string]any)["day"])

	rec = do(t, s, http.MethodPost, "/api/drag/drop", "")
	require.Equal(t, http.StatusOK, rec.Code)
	out = decode(t, rec)
	assert.Equal(t, "moved", out["outcome"])
	assert.Equal(t, "move_day", out["op"])

	snap := store.Snapshot()
	assert.Equal(t, []string{"b"}, titles(snap, domain.Monday))
	assert.Equal(t, []string{"x", "a"}, titles(snap, domain.Tuesday))

	rec = do(t, s, http.MethodGet, "/api/drag", "")
	assert.Equal(t, "idle", decode(t, rec)["state"])
}

func TestDrag_LeaveAndCancel(t *testing.T) {
	b := testutil.BoardWith(map[domain.Day][]string{domain.Monday: {"a", "b"}})
	s, store := newTestServer(t, b)

	do(t, s, http.MethodPost, "/api/drag/start", `{"day":"mon","index":0}`)
	do(t, s, http.MethodPost, "/api/drag/hover", `{"day":"mon","kind":"end"}`)
	rec := do(t, s, http.MethodPost, "/api/drag/leave", "")
	assert.Equal(t, "dragging", decode(t, rec)["state"])

	rec = do(t, s, http.MethodPost, "/api/drag/drop", "")
	assert.Equal(t, "cancelled", decode(t, rec)["outcome"])
	assert.Equal(t, b, store.Snapshot())

	do(t, s, http.MethodPost, "/api/drag/start", `{"day":"mon","index":1}`)
	rec = do(t, s, http.MethodPost, "/api/drag/cancel", "")
	assert.Equal(t, true, decode(t, rec)["cancelled"])
	rec = do(t, s, http.MethodPost, "/api/drag/cancel", "")
	assert.Equal(t, false, decode(t, rec)["cancelled"])
}

func TestDrag_Errors(t *testing.T) {
	s, _ := newTestServer(t, testutil.BoardWith(map[domain.Day][]string{domain.Monday: {"a"}}))

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodPost, "/api/drag/start", `{"day":"tue","index":0}`).Code)
	assert.Equal(t, http.StatusConflict, do(t, s, http.MethodPost, "/api/drag/hover", `{"day":"tue","kind":"end"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/api/drag/hover", `{"day":"tue","kind":"side"}`).Code)
}

func TestExportImport(t *testing.T) {
	s, store := newTestServer(t, testutil.BoardWith(map[domain.Day][]string{domain.Wednesday: {"keep"}}))

	rec := do(t, s, http.MethodGet, "/api/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="WeekDeck_2026-03-06.wdeck"`)
	exported := rec.Body.String()

	store.ClearDay(domain.Wednesday)
	reset := store.Snapshot()
	require.True(t, reset.IsEmpty())

	rec = do(t, s, http.MethodPost, "/api/import", exported)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, float64(1), decode(t, rec)["imported"])
	assert.Equal(t, []string{"keep"}, titles(store.Snapshot(), domain.Wednesday))
}

func TestImport_Rejected(t *testing.T) {
	s, store := newTestServer(t, testutil.BoardWith(map[domain.Day][]string{domain.Monday: {"a"}}))

	assert.Equal(t, http.StatusUnprocessableEntity, do(t, s, http.MethodPost, "/api/import", `{not json`).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(t, s, http.MethodPost, "/api/import", `{"version":"1.0"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/api/import", "  ").Code)
	assert.Equal(t, []string{"a"}, titles(store.Snapshot(), domain.Monday))
}
