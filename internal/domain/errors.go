package domain

import "errors"

// Domain errors.
var (
	ErrEmptyTitle          = errors.New("title cannot be empty")
	ErrInvalidDay          = errors.New("invalid day")
	ErrInvalidColor        = errors.New("invalid color")
	ErrInvalidTheme        = errors.New("invalid theme")
	ErrTaskNotFound        = errors.New("task not found")
	ErrInvalidPosition     = errors.New("invalid task position")
	ErrCancelled           = errors.New("cancelled by user")
	ErrStorageUnavailable  = errors.New("storage unavailable")
	ErrUnknownStoreBackend = errors.New("unknown storage backend")
	ErrConfigExists        = errors.New("config file already exists")
	ErrNoDataDir           = errors.New("cannot determine data directory")
	ErrNoHistory           = errors.New("storage backend does not keep history")
)
