package domain

import (
	"bytes"
	_ "embed"
	"path/filepath"
	"text/template"
)

//go:embed config_template.toml
var configTemplateContent string

// ConfigFileName is the name of the configuration file.
const ConfigFileName = "config.toml"

// Config defaults.
const (
	DefaultLogLevel     = "info"
	DefaultStoreBackend = StoreBackendFile
	DefaultStoreKey     = "weekdeck-board"
	DefaultNamespace    = "weekdeck"
	DefaultServerAddr   = "127.0.0.1:7070"
	DefaultRedisAddr    = "127.0.0.1:6379"
)

// Storage backends selectable with [storage] backend.
const (
	StoreBackendFile   = "file"
	StoreBackendGit    = "git"
	StoreBackendRedis  = "redis"
	StoreBackendMemory = "memory"
)

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string      `toml:"-"`
	Storage  StorageConfig `toml:"storage"`
	Board    BoardConfig   `toml:"board"`
	Export   ExportConfig  `toml:"export"`
	Server   ServerConfig  `toml:"server"`
	Log      LogConfig     `toml:"log"`
}

// StorageConfig holds settings from the [storage] section.
type StorageConfig struct {
	Backend       string      `toml:"backend,omitempty"`        // "file" (default), "git", "redis" or "memory"
	Path          string      `toml:"path,omitempty"`           // File store path or git repository path
	Key           string      `toml:"key,omitempty"`            // Key the board snapshot is stored under
	Namespace     string      `toml:"namespace,omitempty"`      // Git ref namespace (default: "weekdeck")
	EncryptionKey string      `toml:"encryption_key,omitempty"` // AES-256 key or passphrase for the git backend (optional)
	Redis         RedisConfig `toml:"redis"`
}

// RedisConfig holds settings from the [storage.redis] section.
type RedisConfig struct {
	Addr     string `toml:"addr,omitempty"`
	Password string `toml:"password,omitempty"`
	DB       int    `toml:"db,omitempty"`
}

// BoardConfig holds defaults for a new board from the [board] section.
type BoardConfig struct {
	Title        string `toml:"title,omitempty"`
	Theme        string `toml:"theme,omitempty"`
	HideWeekend  bool   `toml:"hide_weekend,omitempty"`
	SeedTutorial bool   `toml:"seed_tutorial"`
}

// ExportConfig holds settings from the [export] section.
type ExportConfig struct {
	Dir string `toml:"dir,omitempty"` // Directory .wdeck files are written to (default: current directory)
}

// ServerConfig holds settings from the [server] section.
type ServerConfig struct {
	Addr string `toml:"addr,omitempty"`
}

// LogConfig holds logging settings from the [log] section.
type LogConfig struct {
	Level string `toml:"level,omitempty"` // Log level: debug, info, warn, error
}

// NewDefaultConfig returns a Config populated with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:   DefaultStoreBackend,
			Key:       DefaultStoreKey,
			Namespace: DefaultNamespace,
			Redis: RedisConfig{
				Addr: DefaultRedisAddr,
			},
		},
		Board: BoardConfig{
			Title:        DefaultBoardTitle,
			Theme:        string(ThemeDefault),
			SeedTutorial: true,
		},
		Server: ServerConfig{
			Addr: DefaultServerAddr,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// NewBoardFromConfig returns an empty board carrying the configured defaults.
func (c *Config) NewBoardFromConfig() Board {
	b := NewBoard()
	if c.Board.Title != "" {
		b.Title = c.Board.Title
	}
	if th, err := ParseTheme(c.Board.Theme); err == nil {
		b.Theme = th
	}
	b.WeekendHidden = c.Board.HideWeekend
	return b
}

// GlobalConfigDir returns the global config directory under configHome.
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, "weekdeck")
}

// ProjectConfigDir returns the project config directory under dir.
func ProjectConfigDir(dir string) string {
	return filepath.Join(dir, ".weekdeck")
}

// RenderConfigTemplate renders the commented config file written by 'config init'.
func RenderConfigTemplate(cfg *Config) string {
	tmpl, err := template.New("config").Delims("<<", ">>").Parse(configTemplateContent)
	if err != nil {
		return configTemplateContent
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, cfg); err != nil {
		return configTemplateContent
	}
	return buf.String()
}

// ConfigInfo describes a configuration file on disk.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}
