package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Storage is synchronous key/value persistence for board snapshots.
type Storage interface {
	// Get returns the value stored under key. ok is false if the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// FileExchange moves documents between the board and user-chosen files.
type FileExchange interface {
	// PromptSave stores content under a file derived from filename and returns
	// the path written. Returns ErrCancelled if the user declines.
	PromptSave(ctx context.Context, filename, content string) (string, error)

	// PromptOpen returns the content of the file at path.
	// Returns ErrCancelled if the user declines.
	PromptOpen(ctx context.Context, path string) (string, error)
}

// Severity classifies a notification.
type Severity int

// Notification severities.
const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarning
	SeverityError
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeveritySuccess:
		return "success"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// Notifier receives fire-and-forget user feedback. It is never required for correctness.
type Notifier interface {
	Notify(message string, severity Severity)
}

// NopNotifier discards every notification.
type NopNotifier struct{}

// Notify does nothing.
func (NopNotifier) Notify(string, Severity) {}

// Logger writes diagnostic log entries grouped by category.
type Logger interface {
	Debug(category, msg string)
	Info(category, msg string)
	Warn(category, msg string)
	Error(category, msg string)
}

// IDGenerator produces opaque task ids.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator generates random UUID task ids.
type UUIDGenerator struct{}

// NewID returns a new random UUID string.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (global + project).
	Load() (*Config, error)

	// LoadGlobal returns only the global configuration.
	LoadGlobal() (*Config, error)
}

// ConfigManager manages configuration files.
type ConfigManager interface {
	GetProjectConfigInfo() ConfigInfo
	GetGlobalConfigInfo() ConfigInfo
	InitProjectConfig(cfg *Config) (string, error)
	InitGlobalConfig(cfg *Config) (string, error)
}

// Revision is one recorded version of a stored value.
type Revision struct {
	When    time.Time
	Hash    string
	Message string
}

// Short returns the abbreviated revision hash.
func (r Revision) Short() string {
	if len(r.Hash) > 8 {
		return r.Hash[:8]
	}
	return r.Hash
}

// RevisionStore is a Storage that keeps the history of each key.
type RevisionStore interface {
	Storage

	// History returns up to limit revisions of key, newest first.
	// A limit of zero or less returns the whole history.
	History(ctx context.Context, key string, limit int) ([]Revision, error)

	// ValueAt returns the value of key at revision. revision may be abbreviated.
	ValueAt(ctx context.Context, key, revision string) (string, error)
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
