package app

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weekdeck/weekdeck/internal/domain"
	"github.com/weekdeck/weekdeck/internal/infra/gitstore"
	"github.com/weekdeck/weekdeck/internal/infra/jsonstore"
	"github.com/weekdeck/weekdeck/internal/infra/memstore"
	"github.com/weekdeck/weekdeck/internal/infra/redisstore"
	"github.com/weekdeck/weekdeck/internal/testutil"
	"github.com/weekdeck/weekdeck/internal/usecase"
)

func newTestContainer(storage domain.Storage) *Container {
	clock := &testutil.MockClock{NowTime: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	return NewWithDeps(Config{}, storage, testutil.NewMockFileExchange(), clock, testutil.NewSeqIDGenerator("id"), nil)
}

func TestNewConfig(t *testing.T) {
	appConfig := domain.NewDefaultConfig()
	appConfig.Export.Dir = "exports"

	cfg := newConfig("/work", "/data/weekdeck", appConfig)

	assert.Equal(t, "/data/weekdeck/store.json", cfg.StorePath)
	assert.Equal(t, "/work/exports", cfg.ExportDir)
	assert.Equal(t, domain.DefaultStoreKey, cfg.StoreKey)

	appConfig.Storage.Path = "board.json"
	cfg = newConfig("/work", "", appConfig)
	assert.Equal(t, "/work/board.json", cfg.StorePath)
}

func TestOpenStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("file", func(t *testing.T) {
		cfg := Config{StorePath: filepath.Join(t.TempDir(), "store.json")}
		storage, closer, err := openStorage(ctx, domain.NewDefaultConfig(), cfg)
		require.NoError(t, err)
		assert.Nil(t, closer)
		assert.IsType(t, &jsonstore.Store{}, storage)
		assert.FileExists(t, cfg.StorePath, "the store file is created on open")
	})

	t.Run("file without data dir", func(t *testing.T) {
		_, _, err := openStorage(ctx, domain.NewDefaultConfig(), Config{})
		assert.ErrorIs(t, err, domain.ErrNoDataDir)
	})

	t.Run("git", func(t *testing.T) {
		dir := t.TempDir()
		_, err := git.PlainInit(dir, false)
		require.NoError(t, err)

		appConfig := domain.NewDefaultConfig()
		appConfig.Storage.Backend = domain.StoreBackendGit
		storage, _, err := openStorage(ctx, appConfig, Config{WorkDir: dir})
		require.NoError(t, err)
		assert.IsType(t, &gitstore.Store{}, storage)
	})

	t.Run("git outside a repository", func(t *testing.T) {
		appConfig := domain.NewDefaultConfig()
		appConfig.Storage.Backend = domain.StoreBackendGit
		_, _, err := openStorage(ctx, appConfig, Config{WorkDir: t.TempDir()})
		assert.Error(t, err)
	})

	t.Run("redis", func(t *testing.T) {
		srv := miniredis.RunT(t)
		appConfig := domain.NewDefaultConfig()
		appConfig.Storage.Backend = domain.StoreBackendRedis
		appConfig.Storage.Redis.Addr = srv.Addr()

		storage, closer, err := openStorage(ctx, appConfig, Config{})
		require.NoError(t, err)
		require.NotNil(t, closer)
		defer closer.Close()
		assert.IsType(t, &redisstore.Store{}, storage)
	})

	t.Run("memory", func(t *testing.T) {
		appConfig := domain.NewDefaultConfig()
		appConfig.Storage.Backend = domain.StoreBackendMemory
		storage, _, err := openStorage(ctx, appConfig, Config{})
		require.NoError(t, err)
		assert.IsType(t, &memstore.Store{}, storage)
	})

	t.Run("unknown backend", func(t *testing.T) {
		appConfig := domain.NewDefaultConfig()
		appConfig.Storage.Backend = "floppy"
		_, _, err := openStorage(ctx, appConfig, Config{})
		assert.ErrorIs(t, err, domain.ErrUnknownStoreBackend)
	})
}

func TestContainer_OpenBoard(t *testing.T) {
	t.Run("autosaves changes", func(t *testing.T) {
		storage := testutil.NewMockStorage()
		c := newTestContainer(storage)

		b, err := c.OpenBoard(context.Background())
		require.NoError(t, err)
		assert.Equal(t, usecase.SourceSeed, b.Source)

		_, ok := b.Store.AddTask(domain.Thursday, "Dentist")
		require.True(t, ok)
		require.NoError(t, b.Close())

		value, ok := storage.Value(domain.DefaultStoreKey)
		require.True(t, ok)
		assert.Contains(t, value, "Dentist")
	})

	t.Run("reopens the saved board", func(t *testing.T) {
		storage := memstore.New()
		c := newTestContainer(storage)

		first, err := c.OpenBoard(context.Background())
		require.NoError(t, err)
		first.Store.AddTask(domain.Monday, "Persist me")
		require.NoError(t, first.Close())

		second, err := c.OpenBoard(context.Background())
		require.NoError(t, err)
		defer second.Close()
		assert.Equal(t, usecase.SourceStored, second.Source)
		assert.Equal(t, first.Store.Snapshot(), second.Store.Snapshot())
	})

	t.Run("degrades to memory when storage fails", func(t *testing.T) {
		storage := testutil.NewMockStorage()
		storage.GetErr = assert.AnError
		c := newTestContainer(storage)
		var out bytes.Buffer
		c.Notifier.SetSink(NewWriterNotifier(&out, domain.SeverityInfo))

		b, err := c.OpenBoard(context.Background())
		require.NoError(t, err)
		defer b.Close()

		assert.True(t, c.Degraded())
		assert.IsType(t, &memstore.Store{}, c.Storage)
		assert.Contains(t, out.String(), "warning: Storage unavailable")
	})
}

func TestNotifications(t *testing.T) {
	n := NewNotifications(nil)
	n.Notify("dropped", domain.SeverityInfo)

	rec := &testutil.MockNotifier{}
	assert.Nil(t, n.SetSink(rec))
	n.Notify("kept", domain.SeveritySuccess)

	require.Len(t, rec.All(), 1)
	assert.Equal(t, "kept", rec.All()[0].Message)
}

func TestWriterNotifier(t *testing.T) {
	var out bytes.Buffer
	n := NewWriterNotifier(&out, domain.SeverityWarning)

	n.Notify("quiet", domain.SeverityInfo)
	n.Notify("loud", domain.SeverityError)

	assert.Equal(t, "error: loud\n", out.String())
}
