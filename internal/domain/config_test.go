package domain

import (
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigPaths(t *testing.T) {
	assert.Equal(t, "/home/u/.config/weekdeck", GlobalConfigDir("/home/u/.config"))
	assert.Equal(t, "/work/.weekdeck", ProjectConfigDir("/work"))
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, StoreBackendFile, cfg.Storage.Backend)
	assert.Equal(t, DefaultStoreKey, cfg.Storage.Key)
	assert.Equal(t, DefaultNamespace, cfg.Storage.Namespace)
	assert.Equal(t, DefaultRedisAddr, cfg.Storage.Redis.Addr)
	assert.Equal(t, DefaultBoardTitle, cfg.Board.Title)
	assert.Equal(t, "default", cfg.Board.Theme)
	assert.True(t, cfg.Board.SeedTutorial)
	assert.False(t, cfg.Board.HideWeekend)
	assert.Equal(t, DefaultServerAddr, cfg.Server.Addr)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
}

func TestConfig_NewBoardFromConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Board.Title = "Team"
	cfg.Board.Theme = "blue"
	cfg.Board.HideWeekend = true

	b := cfg.NewBoardFromConfig()
	assert.Equal(t, "Team", b.Title)
	assert.Equal(t, ThemeBlue, b.Theme)
	assert.True(t, b.WeekendHidden)
	assert.True(t, b.IsEmpty())

	cfg.Board.Title = ""
	cfg.Board.Theme = "neon"
	b = cfg.NewBoardFromConfig()
	assert.Equal(t, DefaultBoardTitle, b.Title)
	assert.Equal(t, ThemeDefault, b.Theme)
}

func TestRenderConfigTemplate(t *testing.T) {
	out := RenderConfigTemplate(NewDefaultConfig())

	assert.Contains(t, out, "[storage]")
	assert.Contains(t, out, "[board]")
	assert.NotContains(t, out, "<<", "template actions are rendered")

	// The rendered template is itself a valid config.
	var cfg Config
	require.NoError(t, toml.Unmarshal([]byte(out), &cfg))
}
