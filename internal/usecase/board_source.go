// Package usecase contains the application use cases.
package usecase

import (
	"github.com/weekdeck/weekdeck/internal/codec"
	"github.com/weekdeck/weekdeck/internal/domain"
)

// BoardReplacer receives a whole board that replaces the current one.
// *board.Store satisfies it.
type BoardReplacer interface {
	Replace(b domain.Board)
}

// BoardSource tells where a loaded board came from.
type BoardSource string

// Board sources.
const (
	SourceStored    BoardSource = "stored"    // Decoded from storage
	SourceSeed      BoardSource = "seed"      // Tutorial cards for a first run
	SourceNew       BoardSource = "new"       // Empty board with configured defaults
	SourceRecovered BoardSource = "recovered" // Stored value was corrupt and set aside
)

// BoardDefaults describes the board created when nothing usable is stored.
// Fields are ordered to minimize memory padding.
type BoardDefaults struct {
	Board domain.Board // Metadata (title, theme, weekend) for a fresh board
	Seed  bool         // Populate the tutorial cards
}

// DefaultsFromConfig derives BoardDefaults from the [board] config section.
func DefaultsFromConfig(cfg *domain.Config) BoardDefaults {
	if cfg == nil {
		return BoardDefaults{Board: domain.NewBoard()}
	}
	return BoardDefaults{
		Board: cfg.NewBoardFromConfig(),
		Seed:  cfg.Board.SeedTutorial,
	}
}

// fresh builds a new board from defaults. A seed that fails to parse yields
// the empty board.
func (d BoardDefaults) fresh(seed bool) (domain.Board, BoardSource) {
	b := d.Board.Clone()
	if !seed || !d.Seed {
		return b, SourceNew
	}
	s, err := domain.SeedBoard()
	if err != nil {
		return b, SourceNew
	}
	b.Columns = s.Columns
	return b, SourceSeed
}

// decodeBoard decodes a stored or imported document.
func decodeBoard(ids domain.IDGenerator, content string) (domain.Board, error) {
	return codec.NewDecoder(ids).Decode([]byte(content))
}
