package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weekdeck/weekdeck/internal/domain"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.ConfigFileName), []byte(content), 0o600))
}

func TestLoader_Defaults(t *testing.T) {
	loader := NewLoaderWithGlobalDir(t.TempDir(), t.TempDir())

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.NewDefaultConfig(), cfg)
}

func TestLoader_ProjectOverridesGlobal(t *testing.T) {
	workDir := t.TempDir()
	globalDir := t.TempDir()

	writeConfig(t, globalDir, `
[storage]
backend = "git"
namespace = "global-ns"

[storage.redis]
addr = "redis.local:6379"
db = 2

[board]
title = "Global"
hide_weekend = true

[log]
level = "debug"
`)
	writeConfig(t, domain.ProjectConfigDir(workDir), `
[storage]
backend = "redis"

[board]
title = "Project"
seed_tutorial = false
hide_weekend = false

[server]
addr = ":9000"
`)

	cfg, err := NewLoaderWithGlobalDir(workDir, globalDir).Load()
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Storage.Backend)
	assert.Equal(t, "global-ns", cfg.Storage.Namespace)
	assert.Equal(t, domain.DefaultStoreKey, cfg.Storage.Key)
	assert.Equal(t, "redis.local:6379", cfg.Storage.Redis.Addr)
	assert.Equal(t, 2, cfg.Storage.Redis.DB)
	assert.Equal(t, "Project", cfg.Board.Title)
	assert.False(t, cfg.Board.SeedTutorial)
	assert.False(t, cfg.Board.HideWeekend)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Empty(t, cfg.Warnings)
}

func TestLoader_LoadGlobal(t *testing.T) {
	workDir := t.TempDir()
	globalDir := t.TempDir()
	writeConfig(t, globalDir, "[board]\ntitle = \"Global\"\n")
	writeConfig(t, domain.ProjectConfigDir(workDir), "[board]\ntitle = \"Project\"\n")

	cfg, err := NewLoaderWithGlobalDir(workDir, globalDir).LoadGlobal()
	require.NoError(t, err)
	assert.Equal(t, "Global", cfg.Board.Title)

	cfg, err = NewLoaderWithGlobalDir(workDir, "").LoadGlobal()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultBoardTitle, cfg.Board.Title)
}

func TestLoader_Warnings(t *testing.T) {
	workDir := t.TempDir()
	projectDir := domain.ProjectConfigDir(workDir)
	writeConfig(t, projectDir, `
stray = 1

[storage]
backend = "file"
compress = true

[storage.redis]
cluster = true

[board]
title = 42

[colors]
red = "#ff0000"
`)

	cfg, err := NewLoaderWithGlobalDir(workDir, "").Load()
	require.NoError(t, err)

	path := filepath.Join(projectDir, domain.ConfigFileName)
	assert.Equal(t, []string{
		path + ": invalid value in [board]: title = 42",
		path + ": unknown key in [storage.redis]: cluster",
		path + ": unknown key in [storage]: compress",
		path + ": unknown key: stray",
		path + ": unknown section: colors",
	}, cfg.Warnings)
	assert.Equal(t, domain.DefaultBoardTitle, cfg.Board.Title)
}

func TestLoader_ParseError(t *testing.T) {
	workDir := t.TempDir()
	writeConfig(t, domain.ProjectConfigDir(workDir), "[board\ntitle = ")

	_, err := NewLoaderWithGlobalDir(workDir, "").Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoader_RenderedTemplateLoadsCleanly(t *testing.T) {
	workDir := t.TempDir()
	writeConfig(t, domain.ProjectConfigDir(workDir), domain.RenderConfigTemplate(domain.NewDefaultConfig()))

	cfg, err := NewLoaderWithGlobalDir(workDir, "").Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Warnings)
	assert.Equal(t, domain.NewDefaultConfig(), cfg)
}

func TestDefaultDirs(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_DATA_HOME", "/xdg/data")

	assert.Equal(t, "/xdg/config/weekdeck", DefaultGlobalConfigDir())
	assert.Equal(t, "/xdg/data/weekdeck", DefaultDataDir())
}
