// Package app provides the dependency injection container for the application.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/weekdeck/weekdeck/internal/board"
	"github.com/weekdeck/weekdeck/internal/domain"
	"github.com/weekdeck/weekdeck/internal/drag"
	"github.com/weekdeck/weekdeck/internal/infra/config"
	"github.com/weekdeck/weekdeck/internal/infra/fileio"
	"github.com/weekdeck/weekdeck/internal/infra/gitstore"
	"github.com/weekdeck/weekdeck/internal/infra/jsonstore"
	"github.com/weekdeck/weekdeck/internal/infra/logging"
	"github.com/weekdeck/weekdeck/internal/infra/memstore"
	"github.com/weekdeck/weekdeck/internal/infra/redisstore"
	"github.com/weekdeck/weekdeck/internal/usecase"
)

// storageOpenTimeout bounds connecting to a remote storage backend at startup.
const storageOpenTimeout = 3 * time.Second

// Config holds the application paths.
type Config struct {
	WorkDir   string // Directory weekdeck was started in
	DataDir   string // Per-user data directory (logs, file store)
	StorePath string // Path to the JSON store file
	ExportDir string // Directory .wdeck files are written to
	StoreKey  string // Storage key of the board snapshot
}

// newConfig derives application paths from the working directory and the
// loaded configuration.
func newConfig(workDir, dataDir string, appConfig *domain.Config) Config {
	cfg := Config{
		WorkDir:   workDir,
		DataDir:   dataDir,
		ExportDir: workDir,
		StoreKey:  appConfig.Storage.Key,
	}
	if dataDir != "" {
		cfg.StorePath = domain.StorePath(dataDir)
	}
	if appConfig.Storage.Backend == domain.StoreBackendFile && appConfig.Storage.Path != "" {
		cfg.StorePath = resolvePath(workDir, appConfig.Storage.Path)
	}
	if appConfig.Export.Dir != "" {
		cfg.ExportDir = resolvePath(workDir, appConfig.Export.Dir)
	}
	if cfg.StoreKey == "" {
		cfg.StoreKey = domain.DefaultStoreKey
	}
	return cfg
}

func resolvePath(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Storage       domain.Storage
	Files         domain.FileExchange
	Clock         domain.Clock
	IDs           domain.IDGenerator
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager

	// Pointer fields
	Notifier   *Notifications
	Logger     *slog.Logger
	FileLogger *logging.Logger
	AppConfig  *domain.Config
	closer     io.Closer

	// Configuration
	Config Config

	// StorageWarning is set when the configured backend could not be opened
	// and the board is kept in memory only.
	StorageWarning string
}

// New creates a new Container for the given working directory.
func New(ctx context.Context, dir string) (*Container, error) {
	workDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve work dir: %w", err)
	}

	configLoader := config.NewLoader(workDir)
	appConfig, err := configLoader.Load()
	if err != nil {
		return nil, err
	}

	cfg := newConfig(workDir, config.DefaultDataDir(), appConfig)

	level := logging.ParseLevel(appConfig.Log.Level)
	fileLogger := logging.New(cfg.DataDir, level).WithComponent("app")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	c := &Container{
		Files:         fileio.New(cfg.ExportDir),
		Clock:         domain.RealClock{},
		IDs:           domain.UUIDGenerator{},
		ConfigLoader:  configLoader,
		ConfigManager: config.NewManager(workDir),
		Notifier:      NewNotifications(NewWriterNotifier(os.Stderr, domain.SeverityWarning)),
		Logger:        logger,
		FileLogger:    fileLogger,
		AppConfig:     appConfig,
		Config:        cfg,
	}

	storage, closer, err := openStorage(ctx, appConfig, cfg)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownStoreBackend) {
			return nil, err
		}
		c.degrade(err)
	} else {
		c.Storage = storage
		c.closer = closer
	}
	return c, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg Config, storage domain.Storage, files domain.FileExchange, clock domain.Clock, ids domain.IDGenerator, logger *slog.Logger) *Container {
	if cfg.StoreKey == "" {
		cfg.StoreKey = domain.DefaultStoreKey
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Container{
		Storage:    storage,
		Files:      files,
		Clock:      clock,
		IDs:        ids,
		Notifier:   NewNotifications(nil),
		Logger:     logger,
		FileLogger: logging.Nop(),
		AppConfig:  domain.NewDefaultConfig(),
		Config:     cfg,
	}
}

// openStorage opens the backend selected by [storage] backend.
// The returned closer may be nil.
func openStorage(ctx context.Context, appConfig *domain.Config, cfg Config) (domain.Storage, io.Closer, error) {
	sc := appConfig.Storage
	switch sc.Backend {
	case "", domain.StoreBackendFile:
		if cfg.StorePath == "" {
			return nil, nil, domain.ErrNoDataDir
		}
		store := jsonstore.New(cfg.StorePath)
		if err := store.Initialize(); err != nil {
			return nil, nil, err
		}
		return store, nil, nil

	case domain.StoreBackendGit:
		repoPath := cfg.WorkDir
		if sc.Path != "" {
			repoPath = resolvePath(cfg.WorkDir, sc.Path)
		}
		store, err := gitstore.NewWithEncryption(repoPath, sc.Namespace, sc.EncryptionKey)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil

	case domain.StoreBackendRedis:
		ctx, cancel := context.WithTimeout(ctx, storageOpenTimeout)
		defer cancel()
		store, err := redisstore.NewFromConfig(ctx, sc.Redis, sc.Namespace)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil

	case domain.StoreBackendMemory:
		return memstore.New(), nil, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", domain.ErrUnknownStoreBackend, sc.Backend)
	}
}

// degrade switches to in-memory storage after the configured backend failed.
func (c *Container) degrade(cause error) {
	c.Storage = memstore.New()
	c.StorageWarning = fmt.Sprintf("storage unavailable (%v); changes will not be saved", cause)
	c.FileLogger.Warn("storage", c.StorageWarning)
	c.Logger.Warn("storage unavailable, keeping board in memory", "error", cause)
}

// Degraded reports whether the board is kept in memory because the configured
// backend could not be used.
func (c *Container) Degraded() bool {
	return c.StorageWarning != ""
}

// Close releases the storage backend and the log file.
func (c *Container) Close() error {
	var errs []error
	if c.closer != nil {
		errs = append(errs, c.closer.Close())
	}
	if c.FileLogger != nil {
		errs = append(errs, c.FileLogger.Close())
	}
	return errors.Join(errs...)
}

// Board is a loaded board wired to the autosaver.
type Board struct {
	Store     *board.Store
	Autosaver *board.Autosaver
	detach    func()
	Source    usecase.BoardSource
}

// Close stops autosaving after writing the last pending snapshot.
func (b *Board) Close() error {
	b.detach()
	return b.Autosaver.Close()
}

// OpenBoard loads the board from storage and starts autosaving every change.
// If storage fails while loading, the container degrades to memory-only
// storage and the board starts from the configured defaults.
func (c *Container) OpenBoard(ctx context.Context) (*Board, error) {
	defaults := usecase.DefaultsFromConfig(c.AppConfig)
	in := usecase.LoadBoardInput{Key: c.Config.StoreKey, Defaults: defaults}

	out, err := c.LoadBoardUseCase().Execute(ctx, in)
	if err != nil {
		if !errors.Is(err, domain.ErrStorageUnavailable) {
			return nil, err
		}
		c.degrade(err)
		c.Notifier.Notify("Storage unavailable. Changes will not be saved.", domain.SeverityWarning)
		out, err = c.LoadBoardUseCase().Execute(ctx, in)
		if err != nil {
			return nil, err
		}
	}

	store := board.New(out.Board, c.IDs)
	saver := board.NewAutosaver(c.SaveBoardUseCase().Writer(c.Config.StoreKey), c.FileLogger.WithComponent("autosave"), c.Notifier)
	return &Board{
		Store:     store,
		Autosaver: saver,
		detach:    saver.Attach(store),
		Source:    out.Source,
	}, nil
}

// NewDragSession returns a drag session operating on store.
func (c *Container) NewDragSession(store *board.Store) *drag.Session {
	return drag.NewSession(store)
}

// UseCase factory methods

// LoadBoardUseCase returns a new LoadBoard use case.
func (c *Container) LoadBoardUseCase() *usecase.LoadBoard {
	return usecase.NewLoadBoard(c.Storage, c.IDs, c.FileLogger, c.Notifier)
}

// SaveBoardUseCase returns a new SaveBoard use case.
func (c *Container) SaveBoardUseCase() *usecase.SaveBoard {
	return usecase.NewSaveBoard(c.Storage, c.Clock)
}

// ExportBoardUseCase returns a new ExportBoard use case.
func (c *Container) ExportBoardUseCase() *usecase.ExportBoard {
	return usecase.NewExportBoard(c.Files, c.Clock, c.Notifier)
}

// ImportBoardUseCase returns a new ImportBoard use case that replaces target.
func (c *Container) ImportBoardUseCase(target usecase.BoardReplacer) *usecase.ImportBoard {
	return usecase.NewImportBoard(c.Files, c.IDs, target, c.Notifier, c.FileLogger)
}

// ResetBoardUseCase returns a new ResetBoard use case that replaces target.
func (c *Container) ResetBoardUseCase(target usecase.BoardReplacer) *usecase.ResetBoard {
	return usecase.NewResetBoard(c.Storage, target)
}

// BoardHistoryUseCase returns a new BoardHistory use case.
func (c *Container) BoardHistoryUseCase() *usecase.BoardHistory {
	return usecase.NewBoardHistory(c.Storage, c.IDs)
}

// RestoreRevisionUseCase returns a new RestoreRevision use case that replaces target.
func (c *Container) RestoreRevisionUseCase(target usecase.BoardReplacer) *usecase.RestoreRevision {
	return usecase.NewRestoreRevision(c.Storage, c.IDs, target)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}
