package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weekdeck/weekdeck/internal/domain"
	"github.com/weekdeck/weekdeck/internal/testutil"
	"github.com/weekdeck/weekdeck/internal/usecase"
)

func TestShowConfig_Execute(t *testing.T) {
	t.Run("returns both config infos and effective config", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()
		manager.ProjectConfigInfo = domain.ConfigInfo{
			Path:    "/work/.weekdeck/config.toml",
			Content: "[board]\ntitle = \"Team\"",
			Exists:  true,
		}
		manager.GlobalConfigInfo = domain.ConfigInfo{
			Path:    "/home/test/.config/weekdeck/config.toml",
			Content: "[log]\nlevel = \"debug\"",
			Exists:  true,
		}
		cfg := domain.NewDefaultConfig()
		cfg.Board.Title = "Team"
		loader := &testutil.MockConfigLoader{Config: cfg}

		uc := usecase.NewShowConfig(manager, loader)
		out, err := uc.Execute(context.Background(), usecase.ShowConfigInput{})

		require.NoError(t, err)
		assert.Equal(t, "/work/.weekdeck/config.toml", out.ProjectConfig.Path)
		assert.True(t, out.ProjectConfig.Exists)
		assert.Equal(t, "[log]\nlevel = \"debug\"", out.GlobalConfig.Content)
		assert.Equal(t, "Team", out.EffectiveConfig.Board.Title)
	})

	t.Run("returns loader errors", func(t *testing.T) {
		uc := usecase.NewShowConfig(testutil.NewMockConfigManager(), &testutil.MockConfigLoader{LoadErr: assert.AnError})
		_, err := uc.Execute(context.Background(), usecase.ShowConfigInput{})

		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestInitConfig_Execute(t *testing.T) {
	t.Run("initializes project config", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()

		uc := usecase.NewInitConfig(manager)
		out, err := uc.Execute(context.Background(), usecase.InitConfigInput{})

		require.NoError(t, err)
		assert.True(t, manager.InitProjectCalled)
		assert.False(t, manager.InitGlobalCalled)
		assert.Equal(t, manager.ProjectConfigInfo.Path, out.Path)
	})

	t.Run("initializes global config", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()

		uc := usecase.NewInitConfig(manager)
		out, err := uc.Execute(context.Background(), usecase.InitConfigInput{Global: true})

		require.NoError(t, err)
		assert.True(t, manager.InitGlobalCalled)
		assert.Equal(t, manager.GlobalConfigInfo.Path, out.Path)
	})

	t.Run("propagates existing file error", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()
		manager.InitProjectErr = domain.ErrConfigExists

		uc := usecase.NewInitConfig(manager)
		_, err := uc.Execute(context.Background(), usecase.InitConfigInput{})

		assert.ErrorIs(t, err, domain.ErrConfigExists)
	})
}
