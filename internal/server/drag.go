package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/weekdeck/weekdeck/internal/codec"
	"github.com/weekdeck/weekdeck/internal/domain"
	"github.com/weekdeck/weekdeck/internal/drag"
)

// dragPoint is a source or target position in a drag status.
type dragPoint struct {
	TaskID string `json:"taskId,omitempty"`
	Day    string `json:"day"`
	Kind   string `json:"kind,omitempty"`
	Index  int    `json:"index"`
}

type dragStatusResponse struct {
	Source *dragPoint `json:"source,omitempty"`
	Target *dragPoint `json:"target,omitempty"`
	State  string     `json:"state"`
}

type dragDropResponse struct {
	Source  dragPoint      `json:"source"`
	Outcome string         `json:"outcome"`
	Op      string         `json:"op,omitempty"`
	Board   codec.Document `json:"board"`
}

// dragRequest is the body of start and hover. Kind is "before" (default),
// "end" or "column".
type dragRequest struct {
	Day   string `json:"day"`
	Kind  string `json:"kind"`
	Index int    `json:"index"`
}

func statusResponse(st drag.Status) dragStatusResponse {
	resp := dragStatusResponse{State: st.State.String()}
	if st.State != drag.StateIdle {
		resp.Source = &dragPoint{TaskID: st.Source.TaskID, Day: st.Source.Day.String(), Index: st.Source.Index}
	}
	if st.HasTarget {
		resp.Target = &dragPoint{Day: st.Target.Day.String(), Index: st.Target.Index, Kind: st.Target.Kind.String()}
	}
	return resp
}

func (s *Server) dragStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, statusResponse(s.session.Status()))
}

func (s *Server) dragStart(c echo.Context) error {
	var req dragRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	day, err := domain.ParseDay(req.Day)
	if err != nil {
		return badRequest(err)
	}
	if !s.session.Start(day, req.Index) {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("%s: %s #%d", domain.ErrTaskNotFound, day, req.Index))
	}
	return c.JSON(http.StatusOK, statusResponse(s.session.Status()))
}

func (s *Server) dragHover(c echo.Context) error {
	var req dragRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	day, err := domain.ParseDay(req.Day)
	if err != nil {
		return badRequest(err)
	}
	kind, err := parseTargetKind(req.Kind)
	if err != nil {
		return badRequest(err)
	}
	if !s.session.Active() {
		return echo.NewHTTPError(http.StatusConflict, "no drag in progress")
	}
	s.session.Hover(drag.Target{Day: day, Index: req.Index, Kind: kind})
	return c.JSON(http.StatusOK, statusResponse(s.session.Status()))
}

func (s *Server) dragLeave(c echo.Context) error {
	s.session.Leave()
	return c.JSON(http.StatusOK, statusResponse(s.session.Status()))
}

func (s *Server) dragDrop(c echo.Context) error {
	res := s.session.Drop()
	return c.JSON(http.StatusOK, dragDropResponse{
		Outcome: res.Outcome.String(),
		Op:      string(res.Op),
		Source:  dragPoint{TaskID: res.Source.TaskID, Day: res.Source.Day.String(), Index: res.Source.Index},
		Board:   s.document(),
	})
}

func (s *Server) dragCancel(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"cancelled": s.session.Cancel()})
}

func parseTargetKind(s string) (drag.TargetKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "before":
		return drag.BeforeTask, nil
	case "end":
		return drag.ColumnEnd, nil
	case "column":
		return drag.Column, nil
	}
	return drag.BeforeTask, fmt.Errorf("invalid target kind %q (use before, end or column)", s)
}
