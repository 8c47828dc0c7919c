package usecase

import (
	"context"
	"fmt"

	"github.com/weekdeck/weekdeck/internal/domain"
)

// corruptSuffix is appended to the storage key a corrupt value is moved to.
const corruptSuffix = ".corrupt"

// LoadBoardInput contains the input for the LoadBoard use case.
// Fields are ordered to minimize memory padding.
type LoadBoardInput struct {
	Key      string        // Storage key of the board snapshot
	Defaults BoardDefaults // Board used when nothing usable is stored
}

// LoadBoardOutput contains the output of the LoadBoard use case.
type LoadBoardOutput struct {
	Board  domain.Board
	Source BoardSource
}

// LoadBoard restores the board from storage at startup.
type LoadBoard struct {
	storage  domain.Storage
	ids      domain.IDGenerator
	logger   domain.Logger
	notifier domain.Notifier
}

// NewLoadBoard creates a new LoadBoard use case.
func NewLoadBoard(storage domain.Storage, ids domain.IDGenerator, logger domain.Logger, notifier domain.Notifier) *LoadBoard {
	if notifier == nil {
		notifier = domain.NopNotifier{}
	}
	return &LoadBoard{
		storage:  storage,
		ids:      ids,
		logger:   logger,
		notifier: notifier,
	}
}

// Execute reads and decodes the stored snapshot.
// A missing value yields the seeded or empty default board. A value that
// fails to decode is copied to <key>.corrupt, reported, and replaced by an
// empty default board. Storage errors are returned wrapped in
// domain.ErrStorageUnavailable.
func (uc *LoadBoard) Execute(ctx context.Context, in LoadBoardInput) (*LoadBoardOutput, error) {
	key := in.Key
	if key == "" {
		key = domain.DefaultStoreKey
	}

	value, ok, err := uc.storage.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %w", domain.ErrStorageUnavailable, key, err)
	}
	if !ok {
		b, src := in.Defaults.fresh(true)
		uc.log("load", fmt.Sprintf("no stored board under %q, starting %s", key, src))
		return &LoadBoardOutput{Board: b, Source: src}, nil
	}

	b, err := decodeBoard(uc.ids, value)
	if err != nil {
		uc.recover(ctx, key, value, err)
		b, _ := in.Defaults.fresh(false)
		return &LoadBoardOutput{Board: b, Source: SourceRecovered}, nil
	}

	uc.log("load", fmt.Sprintf("loaded %d tasks from %q", b.Len(), key))
	return &LoadBoardOutput{Board: b, Source: SourceStored}, nil
}

func (uc *LoadBoard) recover(ctx context.Context, key, value string, cause error) {
	backup := key + corruptSuffix
	msg := fmt.Sprintf("stored board is unreadable (%v), starting with an empty board", cause)
	if err := uc.storage.Set(ctx, backup, value); err != nil {
		msg += fmt.Sprintf("; backup failed: %v", err)
	} else {
		msg += fmt.Sprintf("; previous data kept under %q", backup)
	}
	if uc.logger != nil {
		uc.logger.Warn("load", msg)
	}
	uc.notifier.Notify("Saved board could not be read. Started with an empty board.", domain.SeverityWarning)
}

func (uc *LoadBoard) log(category, msg string) {
	if uc.logger != nil {
		uc.logger.Info(category, msg)
	}
}
