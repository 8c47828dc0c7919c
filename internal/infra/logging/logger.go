// Package logging provides file-based logging for weekdeck.
// Entries go to a single log file (<data dir>/logs/weekdeck.log), tagged with
// the component that wrote them (cli, tui, server).
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/weekdeck/weekdeck/internal/domain"
)

// Ensure Logger implements domain.Logger interface.
var _ domain.Logger = (*Logger)(nil)

// output is the log file shared by a logger and its children.
type output struct {
	file *os.File
	path string
	mu   sync.Mutex
}

// Logger writes formatted entries to the log file.
// Fields are ordered to minimize memory padding.
type Logger struct {
	out       *output
	clock     domain.Clock
	component string
	level     slog.Level
}

// New creates a new Logger that writes under dataDir.
// If dataDir is empty, logging is disabled (returns a no-op logger).
func New(dataDir string, level slog.Level) *Logger {
	var out *output
	if dataDir != "" {
		out = &output{path: domain.LogPath(dataDir)}
	}
	return &Logger{
		out:       out,
		clock:     domain.RealClock{},
		component: "main",
		level:     level,
	}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return New("", slog.LevelError)
}

// WithComponent returns a logger sharing the same file, tagged with component.
func (l *Logger) WithComponent(component string) *Logger {
	child := *l
	child.component = component
	return &child
}

// WithClock returns a logger sharing the same file that timestamps with clock.
func (l *Logger) WithClock(clock domain.Clock) *Logger {
	child := *l
	child.clock = clock
	return &child
}

// Path returns the log file path, or "" when logging is disabled.
func (l *Logger) Path() string {
	if l.out == nil {
		return ""
	}
	return l.out.path
}

// ParseLevel parses a log level string into slog.Level.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ensureFile opens or returns the log file. Callers hold out.mu.
func (o *output) ensureFile() (*os.File, error) {
	if o.file != nil {
		return o.file, nil
	}

	if err := os.MkdirAll(filepath.Dir(o.path), 0o750); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}

	f, err := os.OpenFile(o.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	o.file = f
	return f, nil
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l.out == nil {
		return nil
	}
	l.out.mu.Lock()
	defer l.out.mu.Unlock()

	if l.out.file == nil {
		return nil
	}
	err := l.out.file.Close()
	l.out.file = nil
	return err
}

// formatLog formats a log entry.
// Format: [2026-10-17 09:32:51] [INFO] [tui] [autosave] message
func formatLog(t time.Time, level slog.Level, component, category, msg string) string {
	return fmt.Sprintf("[%s] [%s] [%s] [%s] %s\n",
		t.Format("2006-01-02 15:04:05"),
		levelToString(level),
		component,
		category,
		msg,
	)
}

func levelToString(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

// Enabled reports whether entries at level are written.
func (l *Logger) Enabled(level slog.Level) bool {
	return l.out != nil && level >= l.level
}

func (l *Logger) log(level slog.Level, category, msg string) {
	if !l.Enabled(level) {
		return
	}

	entry := formatLog(l.clock.Now(), level, l.component, category, msg)

	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	if f, err := l.out.ensureFile(); err == nil {
		_, _ = io.WriteString(f, entry)
	}
}

// Info logs an info message.
func (l *Logger) Info(category, msg string) {
	l.log(slog.LevelInfo, category, msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(category, msg string) {
	l.log(slog.LevelDebug, category, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(category, msg string) {
	l.log(slog.LevelWarn, category, msg)
}

// Error logs an error message.
func (l *Logger) Error(category, msg string) {
	l.log(slog.LevelError, category, msg)
}

// Slog returns a *slog.Logger that writes through l.
// The "category" attribute, when present, becomes the entry category;
// other attributes are appended to the message as key=value pairs.
func (l *Logger) Slog() *slog.Logger {
	return slog.New(&handler{logger: l})
}

// handler adapts Logger to slog.Handler.
type handler struct {
	logger *Logger
	group  string
	attrs  []slog.Attr
}

func (h *handler) Enabled(_ context.Context, level slog.Level) bool {
	return h.logger.Enabled(level)
}

func (h *handler) Handle(_ context.Context, r slog.Record) error {
	category := "general"
	var b strings.Builder
	b.WriteString(r.Message)

	for _, a := range h.attrs {
		if a.Key == "category" {
			category = a.Value.String()
			continue
		}
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value.Any())
	}
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" {
			category = a.Value.String()
			return true
		}
		fmt.Fprintf(&b, " %s=%v", h.qualify(a.Key), a.Value.Any())
		return true
	})

	h.logger.log(r.Level, category, b.String())
	return nil
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		if a.Key != "category" {
			a.Key = h.qualify(a.Key)
		}
		next.attrs = append(next.attrs, a)
	}
	return &next
}

func (h *handler) qualify(key string) string {
	if h.group == "" {
		return key
	}
	return h.group + "." + key
}

func (h *handler) WithGroup(name string) slog.Handler {
	next := *h
	if next.group != "" {
		name = next.group + "." + name
	}
	next.group = name
	return &next
}
