package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/weekdeck/weekdeck/internal/domain"
)

// Manager manages configuration files.
type Manager struct {
	projectDir    string // Path to the .weekdeck directory of the current project
	globalConfDir string // Path to global config directory (e.g., ~/.config/weekdeck)
}

// NewManager creates a new Manager for the project rooted at workDir.
func NewManager(workDir string) *Manager {
	return &Manager{
		projectDir:    domain.ProjectConfigDir(workDir),
		globalConfDir: DefaultGlobalConfigDir(),
	}
}

// NewManagerWithGlobalDir creates a new Manager with a custom global config directory.
// This is useful for testing.
func NewManagerWithGlobalDir(workDir, globalConfDir string) *Manager {
	return &Manager{
		projectDir:    domain.ProjectConfigDir(workDir),
		globalConfDir: globalConfDir,
	}
}

// GetProjectConfigInfo returns information about the project config file.
func (m *Manager) GetProjectConfigInfo() domain.ConfigInfo {
	return m.getConfigInfo(filepath.Join(m.projectDir, domain.ConfigFileName))
}

// GetGlobalConfigInfo returns information about the global config file.
func (m *Manager) GetGlobalConfigInfo() domain.ConfigInfo {
	if m.globalConfDir == "" {
		return domain.ConfigInfo{}
	}
	return m.getConfigInfo(filepath.Join(m.globalConfDir, domain.ConfigFileName))
}

// getConfigInfo reads a config file and returns its info.
func (m *Manager) getConfigInfo(path string) domain.ConfigInfo {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.ConfigInfo{
			Path:   path,
			Exists: false,
		}
	}
	return domain.ConfigInfo{
		Path:    path,
		Content: string(content),
		Exists:  true,
	}
}

// InitProjectConfig creates a project config file with the default template.
func (m *Manager) InitProjectConfig(cfg *domain.Config) (string, error) {
	return m.initConfig(m.projectDir, cfg)
}

// InitGlobalConfig creates a global config file with the default template.
func (m *Manager) InitGlobalConfig(cfg *domain.Config) (string, error) {
	if m.globalConfDir == "" {
		return "", errors.New("global config directory not available")
	}
	return m.initConfig(m.globalConfDir, cfg)
}

// initConfig creates dir/config.toml with the default template.
func (m *Manager) initConfig(dir string, cfg *domain.Config) (string, error) {
	path := filepath.Join(dir, domain.ConfigFileName)

	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return path, domain.ErrConfigExists
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}

	content := domain.RenderConfigTemplate(cfg)
	return path, os.WriteFile(path, []byte(content), 0o600)
}
