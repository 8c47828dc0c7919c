package usecase

import (
	"context"
	"fmt"

	"github.com/weekdeck/weekdeck/internal/domain"
)

// BoardHistoryInput contains the input for the BoardHistory use case.
type BoardHistoryInput struct {
	Key   string
	Limit int // Zero lists every revision
}

// BoardHistoryEntry is one revision of the stored board.
// Fields are ordered to minimize memory padding.
type BoardHistoryEntry struct {
	domain.Revision
	Title string // Page title at that revision
	Tasks int    // Number of tasks at that revision, -1 if unreadable
}

// BoardHistoryOutput contains the output of the BoardHistory use case.
type BoardHistoryOutput struct {
	Entries []BoardHistoryEntry
}

// BoardHistory lists the saved revisions of the board.
// Only storage backends implementing domain.RevisionStore keep history.
type BoardHistory struct {
	storage domain.Storage
	ids     domain.IDGenerator
}

// NewBoardHistory creates a new BoardHistory use case.
func NewBoardHistory(storage domain.Storage, ids domain.IDGenerator) *BoardHistory {
	return &BoardHistory{
		storage: storage,
		ids:     ids,
	}
}

// Execute returns the revisions of in.Key, newest first.
func (uc *BoardHistory) Execute(ctx context.Context, in BoardHistoryInput) (*BoardHistoryOutput, error) {
	rs, ok := uc.storage.(domain.RevisionStore)
	if !ok {
		return nil, domain.ErrNoHistory
	}
	key := in.Key
	if key == "" {
		key = domain.DefaultStoreKey
	}

	revs, err := rs.History(ctx, key, in.Limit)
	if err != nil {
		return nil, fmt.Errorf("history of %s: %w", key, err)
	}

	entries := make([]BoardHistoryEntry, 0, len(revs))
	for _, rev := range revs {
		entry := BoardHistoryEntry{Revision: rev, Tasks: -1}
		if value, err := rs.ValueAt(ctx, key, rev.Hash); err == nil && value != "" {
			if b, err := decodeBoard(uc.ids, value); err == nil {
				entry.Title = b.Title
				entry.Tasks = b.Len()
			}
		}
		entries = append(entries, entry)
	}
	return &BoardHistoryOutput{Entries: entries}, nil
}
