// Package server exposes the board over a local HTTP API.
//
// Task positions in the API are 0-based indexes into a day column.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/weekdeck/weekdeck/internal/app"
	"github.com/weekdeck/weekdeck/internal/board"
	"github.com/weekdeck/weekdeck/internal/drag"
	"github.com/weekdeck/weekdeck/internal/infra/fileio"
)

// Server serves one board and one shared drag session.
type Server struct {
	echo      *echo.Echo
	container *app.Container
	store     *board.Store
	session   *drag.Session
	logger    *slog.Logger
}

// New creates a Server for store and registers all routes.
func New(c *app.Container, store *board.Store) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:      e,
		container: c,
		store:     store,
		session:   c.NewDragSession(store),
		logger:    c.Logger.With("component", "server"),
	}

	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("8M"))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelDebug
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			s.logger.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	}))

	s.register()
	return s
}

// register wires up all API routes.
func (s *Server) register() {
	s.echo.GET("/healthz", s.healthz)

	api := s.echo.Group("/api")
	api.GET("/board", s.getBoard)
	api.PUT("/board/title", s.putTitle)
	api.PUT("/board/theme", s.putTheme)
	api.PUT("/board/weekend", s.putWeekend)

	api.POST("/days/:day/tasks", s.addTask)
	api.DELETE("/days/:day/tasks", s.clearDay)
	api.PATCH("/days/:day/tasks/:index", s.updateTask)
	api.DELETE("/days/:day/tasks/:index", s.deleteTask)
	api.POST("/days/:day/tasks/:index/duplicate", s.duplicateTask)
	api.POST("/days/:day/tasks/:index/move", s.moveTask)

	api.GET("/drag", s.dragStatus)
	api.POST("/drag/start", s.dragStart)
	api.POST("/drag/hover", s.dragHover)
	api.POST("/drag/leave", s.dragLeave)
	api.POST("/drag/drop", s.dragDrop)
	api.POST("/drag/cancel", s.dragCancel)

	api.GET("/export", s.exportBoard)
	api.POST("/import", s.importBoard)
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown is called.
// It returns nil after a graceful shutdown.
func (s *Server) Start(addr string) error {
	s.logger.Info("listening", "addr", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for active ones to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Run serves on addr until ctx is done, then shuts down within timeout.
func (s *Server) Run(ctx context.Context, addr string, timeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// maxImportSize bounds the body of an import request.
const maxImportSize = fileio.MaxDocumentSize
