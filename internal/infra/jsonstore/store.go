// Package jsonstore provides a JSON file-based implementation of domain.Storage.
package jsonstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/weekdeck/weekdeck/internal/domain"
)

// storeVersion is the current layout of the store file.
const storeVersion = 1

// storeData represents the JSON file structure.
// Fields are ordered to minimize memory padding.
type storeData struct {
	Entries map[string]entry `json:"entries"`
	Meta    meta             `json:"meta"`
}

// meta contains store metadata.
type meta struct {
	Updated time.Time `json:"updated"`
	Version int       `json:"version"`
}

// entry is a stored value with its last write time.
type entry struct {
	Updated time.Time `json:"updated"`
	Value   string    `json:"value"`
}

// Store implements domain.Storage using a single JSON file guarded by flock.
type Store struct {
	clock    domain.Clock
	path     string
	lockPath string
}

// New creates a new Store for the given file path.
// The file does not need to exist; it will be created on first write.
func New(path string) *Store {
	return &Store{
		clock:    domain.RealClock{},
		path:     path,
		lockPath: path + ".lock",
	}
}

// WithClock sets the clock used to stamp writes.
func (s *Store) WithClock(clock domain.Clock) *Store {
	s.clock = clock
	return s
}

// Path returns the store file path.
func (s *Store) Path() string {
	return s.path
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	var (
		value string
		found bool
	)
	err := s.withLock(func(data *storeData) error {
		e, ok := data.Entries[key]
		value, found = e.Value, ok
		return nil
	})
	return value, found, err
}

// Set stores value under key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.withLockWrite(func(data *storeData) error {
		now := s.clock.Now().UTC()
		data.Entries[key] = entry{Value: value, Updated: now}
		data.Meta.Updated = now
		return nil
	})
}

// Remove deletes key.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.withLockWrite(func(data *storeData) error {
		delete(data.Entries, key)
		data.Meta.Updated = s.clock.Now().UTC()
		return nil
	})
}

// Updated returns the last write time of key.
func (s *Store) Updated(key string) (time.Time, bool, error) {
	var (
		at    time.Time
		found bool
	)
	err := s.withLock(func(data *storeData) error {
		e, ok := data.Entries[key]
		at, found = e.Updated, ok
		return nil
	})
	return at, found, err
}

// IsInitialized checks if the store file exists.
func (s *Store) IsInitialized() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Initialize creates an empty store file if it doesn't exist.
func (s *Store) Initialize() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return nil // Already exists
	}

	return s.write(newStoreData())
}

// withLock executes fn with a shared (read) lock.
func (s *Store) withLock(fn func(*storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_SH)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	return fn(data)
}

// withLockWrite executes fn with an exclusive (write) lock and writes the result.
func (s *Store) withLockWrite(fn func(*storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	if err := fn(data); err != nil {
		return err
	}

	return s.write(data)
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	// Ensure lock file directory exists
	dir := filepath.Dir(s.lockPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

func (s *Store) read() (*storeData, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return newStoreData(), nil
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}

	var data storeData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse store file %s: %w", s.path, err)
	}
	if data.Meta.Version > storeVersion {
		return nil, fmt.Errorf("store file %s: unsupported version %d", s.path, data.Meta.Version)
	}

	// Ensure maps are initialized
	if data.Entries == nil {
		data.Entries = make(map[string]entry)
	}
	data.Meta.Version = storeVersion

	return &data, nil
}

func (s *Store) write(data *storeData) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store data: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath) // Clean up
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

func newStoreData() *storeData {
	return &storeData{
		Entries: make(map[string]entry),
		Meta:    meta{Version: storeVersion},
	}
}

// Ensure Store implements Storage.
var _ domain.Storage = (*Store)(nil)
