package usecase

import (
	"context"
	"fmt"

	"github.com/weekdeck/weekdeck/internal/domain"
)

// RestoreRevisionInput contains the input for the RestoreRevision use case.
type RestoreRevisionInput struct {
	Key      string
	Revision string // Full or abbreviated revision hash
}

// RestoreRevisionOutput contains the output of the RestoreRevision use case.
type RestoreRevisionOutput struct {
	Board domain.Board
}

// RestoreRevision replaces the board with a previously saved revision.
// The restored board is saved again as a new revision by the autosaver.
type RestoreRevision struct {
	storage domain.Storage
	ids     domain.IDGenerator
	target  BoardReplacer
}

// NewRestoreRevision creates a new RestoreRevision use case.
func NewRestoreRevision(storage domain.Storage, ids domain.IDGenerator, target BoardReplacer) *RestoreRevision {
	return &RestoreRevision{
		storage: storage,
		ids:     ids,
		target:  target,
	}
}

// Execute loads the revision and replaces the board with it.
func (uc *RestoreRevision) Execute(ctx context.Context, in RestoreRevisionInput) (*RestoreRevisionOutput, error) {
	rs, ok := uc.storage.(domain.RevisionStore)
	if !ok {
		return nil, domain.ErrNoHistory
	}
	key := in.Key
	if key == "" {
		key = domain.DefaultStoreKey
	}

	value, err := rs.ValueAt(ctx, key, in.Revision)
	if err != nil {
		return nil, fmt.Errorf("read revision %s: %w", in.Revision, err)
	}
	b, err := decodeBoard(uc.ids, value)
	if err != nil {
		return nil, fmt.Errorf("revision %s: %w", in.Revision, err)
	}

	uc.target.Replace(b)
	return &RestoreRevisionOutput{Board: b}, nil
}
