package domain

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedContent []byte

// SeedBoard returns a board populated with the tutorial cards shown to a
// first-time user.
func SeedBoard() (Board, error) {
	var raw map[string][]Task
	if err := yaml.Unmarshal(seedContent, &raw); err != nil {
		return Board{}, fmt.Errorf("parse seed: %w", err)
	}

	b := NewBoard()
	for name, tasks := range raw {
		day, ok := DayFromName(name)
		if !ok {
			return Board{}, fmt.Errorf("seed: %w: %q", ErrInvalidDay, name)
		}
		for i := range tasks {
			tasks[i].Normalize()
		}
		b.Columns[day] = tasks
	}
	return b, nil
}
