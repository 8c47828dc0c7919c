// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/weekdeck/weekdeck/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files.
type Loader struct {
	projectDir    string // Path to the .weekdeck directory of the current project
	globalConfDir string // Path to global config directory (e.g., ~/.config/weekdeck)
}

// NewLoader creates a new Loader for the project rooted at workDir.
func NewLoader(workDir string) *Loader {
	return &Loader{
		projectDir:    domain.ProjectConfigDir(workDir),
		globalConfDir: DefaultGlobalConfigDir(),
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(workDir, globalConfDir string) *Loader {
	return &Loader{
		projectDir:    domain.ProjectConfigDir(workDir),
		globalConfDir: globalConfDir,
	}
}

// DefaultGlobalConfigDir returns the default global config directory.
func DefaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// DefaultDataDir returns the default data directory (XDG_DATA_HOME aware).
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return domain.DataDir(dataHome)
}

// Load returns the merged configuration (defaults <- global <- project).
// Project config takes precedence over global config.
func (l *Loader) Load() (*domain.Config, error) {
	cfg := domain.NewDefaultConfig()

	if l.globalConfDir != "" {
		if err := applyFile(cfg, filepath.Join(l.globalConfDir, domain.ConfigFileName)); err != nil {
			return nil, err
		}
	}
	if err := applyFile(cfg, filepath.Join(l.projectDir, domain.ConfigFileName)); err != nil {
		return nil, err
	}

	sort.Strings(cfg.Warnings)
	return cfg, nil
}

// LoadGlobal returns the defaults overlaid with the global configuration only.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	cfg := domain.NewDefaultConfig()
	if l.globalConfDir == "" {
		return cfg, nil
	}
	if err := applyFile(cfg, filepath.Join(l.globalConfDir, domain.ConfigFileName)); err != nil {
		return nil, err
	}
	sort.Strings(cfg.Warnings)
	return cfg, nil
}

// applyFile overlays the settings in path onto cfg. A missing file is not an error.
func applyFile(cfg *domain.Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	for _, w := range apply(cfg, raw) {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("%s: %s", path, w))
	}
	return nil
}

// apply overlays raw onto cfg and returns warnings for unknown or mistyped keys.
func apply(cfg *domain.Config, raw map[string]any) []string {
	var warnings []string

	for section, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown key: %s", section))
			continue
		}
		switch section {
		case "storage":
			warnings = append(warnings, applyStorage(&cfg.Storage, m)...)
		case "board":
			warnings = append(warnings, applySection("board", m, map[string]any{
				"title":         &cfg.Board.Title,
				"theme":         &cfg.Board.Theme,
				"hide_weekend":  &cfg.Board.HideWeekend,
				"seed_tutorial": &cfg.Board.SeedTutorial,
			})...)
		case "export":
			warnings = append(warnings, applySection("export", m, map[string]any{
				"dir": &cfg.Export.Dir,
			})...)
		case "server":
			warnings = append(warnings, applySection("server", m, map[string]any{
				"addr": &cfg.Server.Addr,
			})...)
		case "log":
			warnings = append(warnings, applySection("log", m, map[string]any{
				"level": &cfg.Log.Level,
			})...)
		default:
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
		}
	}

	return warnings
}

func applyStorage(sc *domain.StorageConfig, m map[string]any) []string {
	var warnings []string
	fields := map[string]any{
		"backend":        &sc.Backend,
		"path":           &sc.Path,
		"key":            &sc.Key,
		"namespace":      &sc.Namespace,
		"encryption_key": &sc.EncryptionKey,
	}
	rest := make(map[string]any, len(m))
	for k, v := range m {
		if k != "redis" {
			rest[k] = v
			continue
		}
		sub, ok := v.(map[string]any)
		if !ok {
			warnings = append(warnings, "invalid value in [storage]: redis must be a table")
			continue
		}
		warnings = append(warnings, applySection("storage.redis", sub, map[string]any{
			"addr":     &sc.Redis.Addr,
			"password": &sc.Redis.Password,
			"db":       &sc.Redis.DB,
		})...)
	}
	return append(warnings, applySection("storage", rest, fields)...)
}

// applySection assigns each key of m to the matching target pointer.
// Targets are *string, *bool or *int.
func applySection(name string, m map[string]any, targets map[string]any) []string {
	var warnings []string
	for k, v := range m {
		target, ok := targets[k]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown key in [%s]: %s", name, k))
			continue
		}
		if !assign(target, v) {
			warnings = append(warnings, fmt.Sprintf("invalid value in [%s]: %s = %v", name, k, v))
		}
	}
	return warnings
}

func assign(target, v any) bool {
	switch t := target.(type) {
	case *string:
		s, ok := v.(string)
		if ok {
			*t = s
		}
		return ok
	case *bool:
		b, ok := v.(bool)
		if ok {
			*t = b
		}
		return ok
	case *int:
		n, ok := v.(int64)
		if ok {
			*t = int(n)
		}
		return ok
	default:
		return false
	}
}
