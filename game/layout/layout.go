package layout

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"

	"github.com/wricardo/battleships/game/engine"
	"github.com/wricardo/battleships/game/match"
)

var ErrInvalidLayout = errors.New("invalid layout")

// Placement is one ship of a layout
type Placement struct {
	Row        int  `json:"row"`
	Col        int  `json:"col"`
	Length     int  `json:"length"`
	Horizontal bool `json:"horizontal"`
}

func (p Placement) String() string {
	dir := "v"
	if p.Horizontal {
		dir = "h"
	}
	return fmt.Sprintf("length %d at (%d,%d) %s", p.Length, p.Row, p.Col, dir)
}

// Layout is a complete, named fleet arrangement
type Layout struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Ships       []Placement `json:"ships"`
}

// Parse decodes and validates a layout document
func Parse(data []byte) (*Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// Load reads a layout file from disk
func Load(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout file: %w", err)
	}
	return Parse(data)
}

// Validate checks that the layout holds exactly the standard fleet and
// that every ship is accepted, in order, by an empty board
func (l *Layout) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidLayout)
	}

	lengths := make([]int, 0, len(l.Ships))
	for _, p := range l.Ships {
		lengths = append(lengths, p.Length)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(lengths)))
	if !slices.Equal(lengths, engine.StandardFleet) {
		return fmt.Errorf("%w: fleet lengths %v, want %v", ErrInvalidLayout, lengths, engine.StandardFleet)
	}

	return l.Apply(engine.NewBoard())
}

// Apply places every ship of the layout on the board. On the first rejected
// ship the ships placed so far are undone and the board is left unchanged.
func (l *Layout) Apply(b *engine.Board) error {
	for i, p := range l.Ships {
		ok, err := b.PlaceShip(p.Row, p.Col, p.Length, p.Horizontal)
		if err == nil && ok {
			continue
		}

		for j := 0; j < i; j++ {
			b.UndoLastShip()
		}
		if err != nil {
			return fmt.Errorf("%w: ship %d (%s): %v", ErrInvalidLayout, i+1, p, err)
		}
		return fmt.Errorf("%w: ship %d (%s) is off the board or touches another ship", ErrInvalidLayout, i+1, p)
	}
	return nil
}

// PlaceInto places the layout for the seat currently placing in m, taking
// the pieces from its remaining pool. On failure the placed pieces are undone.
func (l *Layout) PlaceInto(m *match.Match) error {
	for i, p := range l.Ships {
		ok, err := m.PlaceShip(p.Row, p.Col, p.Length, p.Horizontal)
		if err == nil && ok {
			continue
		}

		for j := 0; j < i; j++ {
			if undoErr := m.UndoLastShip(); undoErr != nil {
				return undoErr
			}
		}
		if err != nil {
			return fmt.Errorf("ship %d (%s): %w", i+1, p, err)
		}
		return fmt.Errorf("%w: ship %d (%s) is off the board or touches another ship", ErrInvalidLayout, i+1, p)
	}
	return nil
}
