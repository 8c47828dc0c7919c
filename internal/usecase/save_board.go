package usecase

import (
	"context"
	"fmt"

	"github.com/weekdeck/weekdeck/internal/board"
	"github.com/weekdeck/weekdeck/internal/codec"
	"github.com/weekdeck/weekdeck/internal/domain"
)

// SaveBoardInput contains the input for the SaveBoard use case.
type SaveBoardInput struct {
	Key   string
	Board domain.Board
}

// SaveBoardOutput contains the output of the SaveBoard use case.
type SaveBoardOutput struct {
	Bytes int // Size of the written document
}

// SaveBoard encodes a board snapshot and writes it to storage.
type SaveBoard struct {
	storage domain.Storage
	clock   domain.Clock
}

// NewSaveBoard creates a new SaveBoard use case.
func NewSaveBoard(storage domain.Storage, clock domain.Clock) *SaveBoard {
	return &SaveBoard{
		storage: storage,
		clock:   clock,
	}
}

// Execute writes in.Board under in.Key.
func (uc *SaveBoard) Execute(ctx context.Context, in SaveBoardInput) (*SaveBoardOutput, error) {
	key := in.Key
	if key == "" {
		key = domain.DefaultStoreKey
	}
	data, err := codec.Marshal(in.Board, uc.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("encode board: %w", err)
	}
	if err := uc.storage.Set(ctx, key, string(data)); err != nil {
		return nil, fmt.Errorf("save board: %w", err)
	}
	return &SaveBoardOutput{Bytes: len(data)}, nil
}

// Writer returns a snapshot writer for the autosaver that saves under key.
func (uc *SaveBoard) Writer(key string) board.SnapshotWriter {
	return func(ctx context.Context, b domain.Board) error {
		_, err := uc.Execute(ctx, SaveBoardInput{Key: key, Board: b})
		return err
	}
}
