package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/weekdeck/weekdeck/internal/codec"
	"github.com/weekdeck/weekdeck/internal/domain"
)

// ExportBoardInput contains the input for the ExportBoard use case.
type ExportBoardInput struct {
	Board    domain.Board
	FileName string // Overrides the <title>_<date>.wdeck name when set
}

// ExportBoardOutput contains the output of the ExportBoard use case.
type ExportBoardOutput struct {
	Path     string // Where the document was written
	FileName string
	Tasks    int
}

// ExportBoard writes the board to a .wdeck file.
type ExportBoard struct {
	files    domain.FileExchange
	clock    domain.Clock
	notifier domain.Notifier
}

// NewExportBoard creates a new ExportBoard use case.
func NewExportBoard(files domain.FileExchange, clock domain.Clock, notifier domain.Notifier) *ExportBoard {
	if notifier == nil {
		notifier = domain.NopNotifier{}
	}
	return &ExportBoard{
		files:    files,
		clock:    clock,
		notifier: notifier,
	}
}

// Execute encodes the board and hands it to the file exchange.
// domain.ErrCancelled is returned unchanged and is not reported.
func (uc *ExportBoard) Execute(ctx context.Context, in ExportBoardInput) (*ExportBoardOutput, error) {
	now := uc.clock.Now()
	data, err := codec.Marshal(in.Board, now)
	if err != nil {
		return nil, fmt.Errorf("encode board: %w", err)
	}

	name := in.FileName
	if name == "" {
		name = domain.ExportFileName(in.Board.Title, now)
	}

	path, err := uc.files.PromptSave(ctx, name, string(data))
	if err != nil {
		if errors.Is(err, domain.ErrCancelled) {
			return nil, err
		}
		uc.notifier.Notify(fmt.Sprintf("Export failed: %v", err), domain.SeverityError)
		return nil, fmt.Errorf("export board: %w", err)
	}

	uc.notifier.Notify("Board exported to "+path, domain.SeveritySuccess)
	return &ExportBoardOutput{
		Path:     path,
		FileName: name,
		Tasks:    in.Board.Len(),
	}, nil
}
