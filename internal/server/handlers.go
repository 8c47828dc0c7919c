package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/weekdeck/weekdeck/internal/board"
	"github.com/weekdeck/weekdeck/internal/codec"
	"github.com/weekdeck/weekdeck/internal/domain"
	"github.com/weekdeck/weekdeck/internal/usecase"
)

// boardResponse is returned by every mutation.
type boardResponse struct {
	Task    *domain.Task   `json:"task,omitempty"`
	Board   codec.Document `json:"board"`
	Changed bool           `json:"changed"`
}

type titleRequest struct {
	Title string `json:"title"`
}

type themeRequest struct {
	Theme string `json:"theme"`
}

type weekendRequest struct {
	Hidden bool `json:"hidden"`
}

type addRequest struct {
	Title       string `json:"title"`
	Description string `json:"desc"`
	Color       string `json:"color"`
	Highlighted bool   `json:"bgFill"`
}

// updateRequest carries the fields to change; absent fields are left alone.
type updateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"desc"`
	Color       *string `json:"color"`
	Highlighted *bool   `json:"bgFill"`
	Completed   *bool   `json:"completed"`
}

// moveRequest moves a task to Day at Index (end when absent), or to the top or
// bottom of its own day when Position is "top" or "bottom".
type moveRequest struct {
	Index    *int   `json:"index"`
	Day      string `json:"day"`
	Position string `json:"position"`
}

func (s *Server) healthz(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func (s *Server) document() codec.Document {
	return codec.Encode(s.store.Snapshot(), s.container.Clock.Now())
}

func (s *Server) respond(c echo.Context, status int, changed bool, task *domain.Task) error {
	return c.JSON(status, boardResponse{Changed: changed, Task: task, Board: s.document()})
}

func (s *Server) getBoard(c echo.Context) error {
	return c.JSON(http.StatusOK, s.document())
}

func (s *Server) putTitle(c echo.Context) error {
	var req titleRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	return s.respond(c, http.StatusOK, s.store.SetPageTitle(req.Title), nil)
}

func (s *Server) putTheme(c echo.Context) error {
	var req themeRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	theme, err := domain.ParseTheme(req.Theme)
	if err != nil {
		return badRequest(err)
	}
	return s.respond(c, http.StatusOK, s.store.SetTheme(theme), nil)
}

func (s *Server) putWeekend(c echo.Context) error {
	var req weekendRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	return s.respond(c, http.StatusOK, s.store.SetWeekendHidden(req.Hidden), nil)
}

func (s *Server) addTask(c echo.Context) error {
	day, err := dayParam(c)
	if err != nil {
		return err
	}
	var req addRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	color, err := domain.ParseColor(req.Color)
	if err != nil {
		return badRequest(err)
	}

	task, ok := s.store.AddTask(day, req.Title)
	if !ok {
		return badRequest(domain.ErrEmptyTitle)
	}
	_, index, _ := s.store.Find(task.ID)
	if req.Description != "" {
		s.store.SetDescription(day, index, req.Description)
	}
	if !color.IsEmpty() {
		s.store.SetColor(day, index, color)
		if req.Highlighted {
			s.store.ToggleHighlight(day, index)
		}
	}
	task, _ = s.store.TaskAt(day, index)
	return s.respond(c, http.StatusCreated, true, &task)
}

func (s *Server) clearDay(c echo.Context) error {
	day, err := dayParam(c)
	if err != nil {
		return err
	}
	if completed, _ := strconv.ParseBool(c.QueryParam("completed")); completed {
		return s.respond(c, http.StatusOK, s.store.ClearCompleted(day), nil)
	}
	return s.respond(c, http.StatusOK, s.store.ClearDay(day), nil)
}

func (s *Server) updateTask(c echo.Context) error {
	day, index, task, err := s.taskParam(c)
	if err != nil {
		return err
	}
	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	var color domain.Color
	if req.Color != nil {
		if color, err = domain.ParseColor(*req.Color); err != nil {
			return badRequest(err)
		}
	}
	if req.Title != nil && domain.NormalizeTitle(*req.Title) == "" {
		return badRequest(domain.ErrEmptyTitle)
	}

	changed := false
	if req.Title != nil {
		changed = s.store.SetTitle(day, index, domain.NormalizeTitle(*req.Title)) || changed
	}
	if req.Description != nil {
		changed = s.store.SetDescription(day, index, *req.Description) || changed
	}
	if req.Color != nil {
		changed = s.store.SetColor(day, index, color) || changed
	}
	if req.Highlighted != nil {
		if cur, _ := s.store.TaskAt(day, index); cur.Highlighted != *req.Highlighted {
			changed = s.store.ToggleHighlight(day, index) || changed
		}
	}
	if req.Completed != nil && task.Completed != *req.Completed {
		changed = s.store.ToggleCompleted(day, index) || changed
	}

	task, _ = s.store.TaskAt(day, index)
	return s.respond(c, http.StatusOK, changed, &task)
}

func (s *Server) deleteTask(c echo.Context) error {
	day, index, _, err := s.taskParam(c)
	if err != nil {
		return err
	}
	return s.respond(c, http.StatusOK, s.store.DeleteTask(day, index), nil)
}

func (s *Server) duplicateTask(c echo.Context) error {
	day, index, _, err := s.taskParam(c)
	if err != nil {
		return err
	}
	dup, ok := s.store.DuplicateTask(day, index)
	return s.respond(c, http.StatusCreated, ok, &dup)
}

func (s *Server) moveTask(c echo.Context) error {
	day, index, task, err := s.taskParam(c)
	if err != nil {
		return err
	}
	var req moveRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	var changed bool
	switch strings.ToLower(req.Position) {
	case "top":
		changed = s.store.MoveToTop(day, index)
	case "bottom":
		changed = s.store.MoveToBottom(day, index)
	case "":
		to := day
		if req.Day != "" {
			if to, err = domain.ParseDay(req.Day); err != nil {
				return badRequest(err)
			}
		}
		at := board.End
		if req.Index != nil {
			at = *req.Index
		}
		if to == day {
			changed = s.store.ReorderWithinDay(day, index, at)
		} else {
			changed = s.store.MoveToDayAt(day, index, to, at)
		}
	default:
		return badRequest(fmt.Errorf("%w: %q (use top or bottom)", domain.ErrInvalidPosition, req.Position))
	}

	task, _ = s.lookupID(task.ID)
	return s.respond(c, http.StatusOK, changed, &task)
}

func (s *Server) exportBoard(c echo.Context) error {
	snap := s.store.Snapshot()
	now := s.container.Clock.Now()
	data, err := codec.Marshal(snap, now)
	if err != nil {
		return err
	}
	name := domain.ExportFileName(snap.Title, now)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
}

func (s *Server) importBoard(c echo.Context) error {
	data, err := io.ReadAll(io.LimitReader(c.Request().Body, maxImportSize+1))
	if err != nil {
		return badRequest(err)
	}
	if len(data) > maxImportSize {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "document too large")
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return badRequest(errors.New("empty document"))
	}

	in := usecase.ImportBoardInput{Path: "upload", Content: string(data)}
	out, err := s.container.ImportBoardUseCase(s.store).Execute(c.Request().Context(), in)
	if err != nil {
		var de *codec.DecodeError
		if errors.As(err, &de) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"imported": out.Board.Len(),
		"board":    s.document(),
	})
}

// dayParam parses the :day path parameter.
func dayParam(c echo.Context) (domain.Day, error) {
	day, err := domain.ParseDay(c.Param("day"))
	if err != nil {
		return 0, badRequest(err)
	}
	return day, nil
}

// taskParam parses :day and :index and returns the task they address.
func (s *Server) taskParam(c echo.Context) (domain.Day, int, domain.Task, error) {
	day, err := dayParam(c)
	if err != nil {
		return 0, 0, domain.Task{}, err
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		return 0, 0, domain.Task{}, badRequest(fmt.Errorf("%w: %q", domain.ErrInvalidPosition, c.Param("index")))
	}
	task, ok := s.store.TaskAt(day, index)
	if !ok {
		return 0, 0, domain.Task{}, echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("%s: %s #%d", domain.ErrTaskNotFound, day, index))
	}
	return day, index, task, nil
}

func (s *Server) lookupID(id string) (domain.Task, bool) {
	day, index, ok := s.store.Find(id)
	if !ok {
		return domain.Task{}, false
	}
	return s.store.TaskAt(day, index)
}

func badRequest(err error) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}
