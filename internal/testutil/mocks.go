// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/weekdeck/weekdeck/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// SeqIDGenerator returns ids "<prefix>1", "<prefix>2", ...
type SeqIDGenerator struct {
	prefix string
	mu     sync.Mutex
	n      int
}

// NewSeqIDGenerator creates a SeqIDGenerator.
func NewSeqIDGenerator(prefix string) *SeqIDGenerator {
	return &SeqIDGenerator{prefix: prefix}
}

// NewID returns the next sequential id.
func (g *SeqIDGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s%d", g.prefix, g.n)
}

// FixedIDGenerator returns the configured ids in order, then "<last>-<n>".
type FixedIDGenerator struct {
	ids []string
	mu  sync.Mutex
	n   int
}

// NewFixedIDGenerator creates a FixedIDGenerator.
func NewFixedIDGenerator(ids ...string) *FixedIDGenerator {
	return &FixedIDGenerator{ids: ids}
}

// NewID returns the next configured id.
func (g *FixedIDGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	if g.n <= len(g.ids) {
		return g.ids[g.n-1]
	}
	last := "id"
	if len(g.ids) > 0 {
		last = g.ids[len(g.ids)-1]
	}
	return fmt.Sprintf("%s-%d", last, g.n)
}

// MockStorage is a test double for domain.Storage.
// Fields are ordered to minimize memory padding.
type MockStorage struct {
	Data      map[string]string
	GetErr    error
	SetErr    error
	RemoveErr error
	mu        sync.Mutex
	SetCalls  int
}

// NewMockStorage creates a MockStorage with an initialized map.
func NewMockStorage() *MockStorage {
	return &MockStorage{Data: make(map[string]string)}
}

// Get returns the stored value.
func (m *MockStorage) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	v, ok := m.Data[key]
	return v, ok, nil
}

// Set stores value under key.
func (m *MockStorage) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Data[key] = value
	return nil
}

// Remove deletes key.
func (m *MockStorage) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	delete(m.Data, key)
	return nil
}

// Value returns the stored value for key, for assertions.
func (m *MockStorage) Value(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.Data[key]
	return v, ok
}

// SetError changes the error returned by Set.
func (m *MockStorage) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetErr = err
}

// Notification is a message recorded by MockNotifier.
type Notification struct {
	Message  string
	Severity domain.Severity
}

// MockNotifier records notifications.
type MockNotifier struct {
	Notifications []Notification
	mu            sync.Mutex
}

// Notify records the notification.
func (m *MockNotifier) Notify(message string, severity domain.Severity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notifications = append(m.Notifications, Notification{Message: message, Severity: severity})
}

// All returns a copy of the recorded notifications.
func (m *MockNotifier) All() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Notification(nil), m.Notifications...)
}

// LogEntry is a line recorded by MockLogger.
type LogEntry struct {
	Level    string
	Category string
	Msg      string
}

// MockLogger records log entries.
type MockLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

func (m *MockLogger) add(level, category, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, LogEntry{Level: level, Category: category, Msg: msg})
}

// Debug records a debug entry.
func (m *MockLogger) Debug(category, msg string) { m.add("debug", category, msg) }

// Info records an info entry.
func (m *MockLogger) Info(category, msg string) { m.add("info", category, msg) }

// Warn records a warn entry.
func (m *MockLogger) Warn(category, msg string) { m.add("warn", category, msg) }

// Error records an error entry.
func (m *MockLogger) Error(category, msg string) { m.add("error", category, msg) }

// MockFileExchange is a test double for domain.FileExchange.
// Fields are ordered to minimize memory padding.
type MockFileExchange struct {
	Saved     map[string]string
	Files     map[string]string
	SaveErr   error
	OpenErr   error
	SavedPath string
}

// NewMockFileExchange creates a MockFileExchange with initialized maps.
func NewMockFileExchange() *MockFileExchange {
	return &MockFileExchange{
		Saved: make(map[string]string),
		Files: make(map[string]string),
	}
}

// PromptSave records content under filename.
func (m *MockFileExchange) PromptSave(_ context.Context, filename, content string) (string, error) {
	if m.SaveErr != nil {
		return "", m.SaveErr
	}
	m.Saved[filename] = content
	m.SavedPath = "/exports/" + filename
	return m.SavedPath, nil
}

// PromptOpen returns the file registered under path.
func (m *MockFileExchange) PromptOpen(_ context.Context, path string) (string, error) {
	if m.OpenErr != nil {
		return "", m.OpenErr
	}
	content, ok := m.Files[path]
	if !ok {
		return "", fmt.Errorf("open %s: file does not exist", path)
	}
	return content, nil
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config  *domain.Config
	LoadErr error
}

// Load returns the configured config or a default one.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Config == nil {
		return domain.NewDefaultConfig(), nil
	}
	return m.Config, nil
}

// LoadGlobal returns the same as Load.
func (m *MockConfigLoader) LoadGlobal() (*domain.Config, error) {
	return m.Load()
}

// MockConfigManager is a test double for domain.ConfigManager.
// Fields are ordered to minimize memory padding.
type MockConfigManager struct {
	InitProjectErr    error
	InitGlobalErr     error
	ProjectConfigInfo domain.ConfigInfo
	GlobalConfigInfo  domain.ConfigInfo
	InitProjectCalled bool
	InitGlobalCalled  bool
}

// NewMockConfigManager creates a MockConfigManager with placeholder paths.
func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		ProjectConfigInfo: domain.ConfigInfo{Path: "/project/.weekdeck/config.toml"},
		GlobalConfigInfo:  domain.ConfigInfo{Path: "/home/test/.config/weekdeck/config.toml"},
	}
}

// GetProjectConfigInfo returns the configured project info.
func (m *MockConfigManager) GetProjectConfigInfo() domain.ConfigInfo {
	return m.ProjectConfigInfo
}

// GetGlobalConfigInfo returns the configured global info.
func (m *MockConfigManager) GetGlobalConfigInfo() domain.ConfigInfo {
	return m.GlobalConfigInfo
}

// InitProjectConfig records the call and returns the project path.
func (m *MockConfigManager) InitProjectConfig(_ *domain.Config) (string, error) {
	m.InitProjectCalled = true
	if m.InitProjectErr != nil {
		return "", m.InitProjectErr
	}
	return m.ProjectConfigInfo.Path, nil
}

// InitGlobalConfig records the call and returns the global path.
func (m *MockConfigManager) InitGlobalConfig(_ *domain.Config) (string, error) {
	m.InitGlobalCalled = true
	if m.InitGlobalErr != nil {
		return "", m.InitGlobalErr
	}
	return m.GlobalConfigInfo.Path, nil
}

// MockRevisionStore is a MockStorage that also serves canned history.
// Fields are ordered to minimize memory padding.
type MockRevisionStore struct {
	*MockStorage
	Revisions  map[string][]domain.Revision // Per key, newest first
	Values     map[string]string            // Value by full revision hash
	HistoryErr error
}

// NewMockRevisionStore creates a MockRevisionStore with initialized maps.
func NewMockRevisionStore() *MockRevisionStore {
	return &MockRevisionStore{
		MockStorage: NewMockStorage(),
		Revisions:   make(map[string][]domain.Revision),
		Values:      make(map[string]string),
	}
}

// AddRevision records value as the newest revision of key.
func (m *MockRevisionStore) AddRevision(key, hash, value string, when time.Time) {
	rev := domain.Revision{Hash: hash, When: when, Message: "set " + key}
	m.Revisions[key] = append([]domain.Revision{rev}, m.Revisions[key]...)
	m.Values[hash] = value
}

// History returns the recorded revisions of key.
func (m *MockRevisionStore) History(_ context.Context, key string, limit int) ([]domain.Revision, error) {
	if m.HistoryErr != nil {
		return nil, m.HistoryErr
	}
	revs := m.Revisions[key]
	if limit > 0 && len(revs) > limit {
		revs = revs[:limit]
	}
	return revs, nil
}

// ValueAt returns the value recorded for the revision with the given hash prefix.
func (m *MockRevisionStore) ValueAt(_ context.Context, key, revision string) (string, error) {
	for _, r := range m.Revisions[key] {
		if revision != "" && strings.HasPrefix(r.Hash, revision) {
			return m.Values[r.Hash], nil
		}
	}
	return "", fmt.Errorf("revision not found: %s", revision)
}

// Ensure mocks implement their interfaces.
var (
	_ domain.Storage       = (*MockStorage)(nil)
	_ domain.RevisionStore = (*MockRevisionStore)(nil)
	_ domain.ConfigManager = (*MockConfigManager)(nil)
	_ domain.FileExchange  = (*MockFileExchange)(nil)
	_ domain.ConfigLoader  = (*MockConfigLoader)(nil)
	_ domain.Notifier      = (*MockNotifier)(nil)
	_ domain.Logger        = (*MockLogger)(nil)
)
