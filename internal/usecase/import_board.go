package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/weekdeck/weekdeck/internal/codec"
	"github.com/weekdeck/weekdeck/internal/domain"
)

// ImportBoardInput contains the input for the ImportBoard use case.
type ImportBoardInput struct {
	Path    string // File to read; ignored when Content is set
	Content string // Document already in hand (HTTP upload)
}

// ImportBoardOutput contains the output of the ImportBoard use case.
type ImportBoardOutput struct {
	Board domain.Board
}

// ImportBoard replaces the board with the content of a .wdeck document.
type ImportBoard struct {
	files    domain.FileExchange
	ids      domain.IDGenerator
	target   BoardReplacer
	notifier domain.Notifier
	logger   domain.Logger
}

// NewImportBoard creates a new ImportBoard use case.
func NewImportBoard(files domain.FileExchange, ids domain.IDGenerator, target BoardReplacer, notifier domain.Notifier, logger domain.Logger) *ImportBoard {
	if notifier == nil {
		notifier = domain.NopNotifier{}
	}
	return &ImportBoard{
		files:    files,
		ids:      ids,
		target:   target,
		notifier: notifier,
		logger:   logger,
	}
}

// Execute reads and decodes the document and replaces the board.
// On any error the board is left unchanged. Decode failures are reported
// through the notifier and returned as *codec.DecodeError.
func (uc *ImportBoard) Execute(ctx context.Context, in ImportBoardInput) (*ImportBoardOutput, error) {
	content := in.Content
	if content == "" {
		var err error
		content, err = uc.files.PromptOpen(ctx, in.Path)
		if err != nil {
			if errors.Is(err, domain.ErrCancelled) {
				return nil, err
			}
			uc.notifier.Notify(fmt.Sprintf("Import failed: %v", err), domain.SeverityError)
			return nil, fmt.Errorf("read import: %w", err)
		}
	}

	b, err := decodeBoard(uc.ids, content)
	if err != nil {
		var de *codec.DecodeError
		msg := "Invalid file format"
		if errors.As(err, &de) && de.Kind == codec.KindMalformed {
			msg = "Error reading the file"
		}
		uc.notifier.Notify(msg, domain.SeverityError)
		if uc.logger != nil {
			uc.logger.Warn("import", fmt.Sprintf("rejected %q: %v", in.Path, err))
		}
		return nil, err
	}

	uc.target.Replace(b)
	uc.notifier.Notify(fmt.Sprintf("Imported %d tasks", b.Len()), domain.SeveritySuccess)
	if uc.logger != nil {
		uc.logger.Info("import", fmt.Sprintf("imported %d tasks from %q", b.Len(), in.Path))
	}
	return &ImportBoardOutput{Board: b}, nil
}
