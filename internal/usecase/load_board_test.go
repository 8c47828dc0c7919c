package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weekdeck/weekdeck/internal/codec"
	"github.com/weekdeck/weekdeck/internal/domain"
	"github.com/weekdeck/weekdeck/internal/testutil"
	"github.com/weekdeck/weekdeck/internal/usecase"
)

func storedBoard(t *testing.T, b domain.Board) string {
	t.Helper()
	data, err := codec.Marshal(b, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return string(data)
}

func TestLoadBoard_Execute(t *testing.T) {
	defaults := usecase.BoardDefaults{Board: domain.NewBoard(), Seed: true}

	t.Run("decodes the stored board", func(t *testing.T) {
		stored := testutil.BoardWith(map[domain.Day][]string{
			domain.Monday: {"Write report", "Call Bob"},
			domain.Friday: {"Ship it"},
		})
		stored.Title = "Sprint 12"
		storage := testutil.NewMockStorage()
		storage.Data["board"] = storedBoard(t, stored)

		uc := usecase.NewLoadBoard(storage, testutil.NewSeqIDGenerator("id"), &testutil.MockLogger{}, nil)
		out, err := uc.Execute(context.Background(), usecase.LoadBoardInput{Key: "board", Defaults: defaults})

		require.NoError(t, err)
		assert.Equal(t, usecase.SourceStored, out.Source)
		assert.Equal(t, stored, out.Board)
	})

	t.Run("seeds tutorial cards when nothing is stored", func(t *testing.T) {
		uc := usecase.NewLoadBoard(testutil.NewMockStorage(), testutil.NewSeqIDGenerator("id"), nil, nil)
		out, err := uc.Execute(context.Background(), usecase.LoadBoardInput{Defaults: defaults})

		require.NoError(t, err)
		assert.Equal(t, usecase.SourceSeed, out.Source)
		assert.Equal(t, 3, out.Board.Len())
		task, ok := out.Board.TaskAt(domain.Monday, 0)
		require.True(t, ok)
		assert.Equal(t, "tutorial-1", task.ID)
		assert.Equal(t, domain.ColorBlue, task.Color)
	})

	t.Run("starts empty when seeding is disabled", func(t *testing.T) {
		cfg := domain.NewDefaultConfig()
		cfg.Board.SeedTutorial = false
		cfg.Board.Title = "Home"
		cfg.Board.HideWeekend = true

		uc := usecase.NewLoadBoard(testutil.NewMockStorage(), testutil.NewSeqIDGenerator("id"), nil, nil)
		out, err := uc.Execute(context.Background(), usecase.LoadBoardInput{Defaults: usecase.DefaultsFromConfig(cfg)})

		require.NoError(t, err)
		assert.Equal(t, usecase.SourceNew, out.Source)
		assert.True(t, out.Board.IsEmpty())
		assert.Equal(t, "Home", out.Board.Title)
		assert.True(t, out.Board.WeekendHidden)
	})

	t.Run("sets aside a corrupt value", func(t *testing.T) {
		storage := testutil.NewMockStorage()
		storage.Data["board"] = "{not json"
		logger := &testutil.MockLogger{}
		notifier := &testutil.MockNotifier{}

		uc := usecase.NewLoadBoard(storage, testutil.NewSeqIDGenerator("id"), logger, notifier)
		out, err := uc.Execute(context.Background(), usecase.LoadBoardInput{Key: "board", Defaults: defaults})

		require.NoError(t, err)
		assert.Equal(t, usecase.SourceRecovered, out.Source)
		assert.True(t, out.Board.IsEmpty())

		backup, ok := storage.Value("board.corrupt")
		require.True(t, ok)
		assert.Equal(t, "{not json", backup)

		require.Len(t, notifier.All(), 1)
		assert.Equal(t, domain.SeverityWarning, notifier.All()[0].Severity)
		require.NotEmpty(t, logger.Entries)
		assert.Equal(t, "warn", logger.Entries[0].Level)
	})

	t.Run("wraps storage errors", func(t *testing.T) {
		storage := testutil.NewMockStorage()
		storage.GetErr = assert.AnError

		uc := usecase.NewLoadBoard(storage, testutil.NewSeqIDGenerator("id"), nil, nil)
		_, err := uc.Execute(context.Background(), usecase.LoadBoardInput{Defaults: defaults})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
		assert.ErrorIs(t, err, assert.AnError)
	})
}
