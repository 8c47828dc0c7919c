package usecase

import (
	"context"
	"fmt"

	"github.com/weekdeck/weekdeck/internal/domain"
)

// ResetBoardInput contains the input for the ResetBoard use case.
// Fields are ordered to minimize memory padding.
type ResetBoardInput struct {
	Key      string
	Defaults BoardDefaults
	Seed     bool // Restore the tutorial cards when Defaults allow it
}

// ResetBoardOutput contains the output of the ResetBoard use case.
type ResetBoardOutput struct {
	Board  domain.Board
	Source BoardSource
}

// ResetBoard discards the stored board and starts over.
type ResetBoard struct {
	storage domain.Storage
	target  BoardReplacer
}

// NewResetBoard creates a new ResetBoard use case.
func NewResetBoard(storage domain.Storage, target BoardReplacer) *ResetBoard {
	return &ResetBoard{
		storage: storage,
		target:  target,
	}
}

// Execute removes the stored snapshot and replaces the board with a fresh one.
func (uc *ResetBoard) Execute(ctx context.Context, in ResetBoardInput) (*ResetBoardOutput, error) {
	key := in.Key
	if key == "" {
		key = domain.DefaultStoreKey
	}
	if err := uc.storage.Remove(ctx, key); err != nil {
		return nil, fmt.Errorf("remove %s: %w", key, err)
	}
	b, src := in.Defaults.fresh(in.Seed)
	uc.target.Replace(b)
	return &ResetBoardOutput{Board: b, Source: src}, nil
}
