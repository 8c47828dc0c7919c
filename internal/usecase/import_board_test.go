package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weekdeck/weekdeck/internal/board"
	"github.com/weekdeck/weekdeck/internal/codec"
	"github.com/weekdeck/weekdeck/internal/domain"
	"github.com/weekdeck/weekdeck/internal/testutil"
	"github.com/weekdeck/weekdeck/internal/usecase"
)

func TestImportBoard_Execute(t *testing.T) {
	current := testutil.BoardWith(map[domain.Day][]string{domain.Sunday: {"Existing"}})

	t.Run("replaces the board", func(t *testing.T) {
		incoming := testutil.BoardWith(map[domain.Day][]string{
			domain.Monday:    {"One"},
			domain.Wednesday: {"Two", "Three"},
		})
		incoming.Theme = domain.ThemeDark
		files := testutil.NewMockFileExchange()
		files.Files["week.wdeck"] = storedBoard(t, incoming)
		store := board.New(current, testutil.NewSeqIDGenerator("id"))
		notifier := &testutil.MockNotifier{}

		uc := usecase.NewImportBoard(files, testutil.NewSeqIDGenerator("id"), store, notifier, nil)
		out, err := uc.Execute(context.Background(), usecase.ImportBoardInput{Path: "week.wdeck"})

		require.NoError(t, err)
		assert.Equal(t, incoming, out.Board)
		assert.Equal(t, incoming, store.Snapshot())
		require.Len(t, notifier.All(), 1)
		assert.Equal(t, "Imported 3 tasks", notifier.All()[0].Message)
	})

	t.Run("accepts content directly", func(t *testing.T) {
		store := board.New(current, testutil.NewSeqIDGenerator("id"))

		uc := usecase.NewImportBoard(testutil.NewMockFileExchange(), testutil.NewSeqIDGenerator("id"), store, nil, nil)
		_, err := uc.Execute(context.Background(), usecase.ImportBoardInput{
			Content: `{"tasks":{"Friday":[{"id":"f","title":"Demo"}]}}`,
		})

		require.NoError(t, err)
		task, ok := store.TaskAt(domain.Friday, 0)
		require.True(t, ok)
		assert.Equal(t, "Demo", task.Title)
	})

	t.Run("rejected documents leave the board unchanged", func(t *testing.T) {
		tests := []struct {
			name    string
			content string
			want    error
			message string
		}{
			{"malformed", "{{{", codec.ErrMalformedDocument, "Error reading the file"},
			{"no tasks", `{"version":"1.0"}`, codec.ErrMissingTasks, "Invalid file format"},
			{"no days", `{"tasks":{"Funday":[]}}`, codec.ErrNoValidDays, "Invalid file format"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				files := testutil.NewMockFileExchange()
				files.Files["bad.wdeck"] = tt.content
				store := board.New(current, testutil.NewSeqIDGenerator("id"))
				notifier := &testutil.MockNotifier{}
				logger := &testutil.MockLogger{}

				uc := usecase.NewImportBoard(files, testutil.NewSeqIDGenerator("id"), store, notifier, logger)
				_, err := uc.Execute(context.Background(), usecase.ImportBoardInput{Path: "bad.wdeck"})

				assert.ErrorIs(t, err, tt.want)
				assert.Equal(t, current, store.Snapshot())
				require.Len(t, notifier.All(), 1)
				assert.Equal(t, tt.message, notifier.All()[0].Message)
				assert.Equal(t, domain.SeverityError, notifier.All()[0].Severity)
				assert.Len(t, logger.Entries, 1)
			})
		}
	})

	t.Run("cancel leaves the board unchanged", func(t *testing.T) {
		files := testutil.NewMockFileExchange()
		files.OpenErr = domain.ErrCancelled
		store := board.New(current, testutil.NewSeqIDGenerator("id"))
		notifier := &testutil.MockNotifier{}

		uc := usecase.NewImportBoard(files, testutil.NewSeqIDGenerator("id"), store, notifier, nil)
		_, err := uc.Execute(context.Background(), usecase.ImportBoardInput{Path: "x.wdeck"})

		assert.ErrorIs(t, err, domain.ErrCancelled)
		assert.Equal(t, current, store.Snapshot())
		assert.Empty(t, notifier.All())
	})
}
