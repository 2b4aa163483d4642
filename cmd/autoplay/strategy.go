package main

import (
	"github.com/wricardo/battleships/game/engine"
)

// Strategy picks shots from the opponent board as the player sees it.
// It hunts on a checkerboard until something is hit, then works along the
// hit ship until it sinks. Cells the no-touch rule rules out are never
// fired at while another option exists.
type Strategy struct {
	// Parity of the hunting checkerboard, 0 or 1
	parity int
}

// NewStrategy creates a strategy hunting on the given checkerboard parity
func NewStrategy(parity int) *Strategy {
	return &Strategy{parity: parity & 1}
}

type grid [engine.BoardSize][engine.BoardSize]byte

func gridOf(view engine.BoardView) grid {
	var g grid
	for row := range g {
		for col := range g[row] {
			g[row][col] = engine.MarkUnknown
			if row < len(view.Rows) && col < len(view.Rows[row]) {
				g[row][col] = view.Rows[row][col]
			}
		}
	}
	return g
}

func (g *grid) at(row, col int) byte {
	if row < 0 || col < 0 || row >= engine.BoardSize || col >= engine.BoardSize {
		return 0
	}
	return g[row][col]
}

// NextShot returns the next cell to attack, or false when no unknown cell
// is left
func (s *Strategy) NextShot(view engine.BoardView) (engine.Coordinate, bool) {
	g := gridOf(view)
	excluded := excludedCells(&g)

	if c, ok := target(&g, excluded); ok {
		return c, true
	}

	// Hunt: checkerboard first, then anything not ruled out, then anything
	var fallback, last *engine.Coordinate
	for row := 0; row < engine.BoardSize; row++ {
		for col := 0; col < engine.BoardSize; col++ {
			if g[row][col] != engine.MarkUnknown {
				continue
			}
			c := engine.Coordinate{Row: row, Col: col}
			if last == nil {
				last = &c
			}
			if excluded[row][col] {
				continue
			}
			if (row+col)%2 == s.parity {
				return c, true
			}
			if fallback == nil {
				fallback = &c
			}
		}
	}

	switch {
	case fallback != nil:
		return *fallback, true
	case last != nil:
		return *last, true
	}
	return engine.Coordinate{}, false
}

// excludedCells marks unknown cells that cannot hold a ship: the ring
// around sunk ships and the diagonal neighbours of hits
func excludedCells(g *grid) [engine.BoardSize][engine.BoardSize]bool {
	var excluded [engine.BoardSize][engine.BoardSize]bool
	for row := 0; row < engine.BoardSize; row++ {
		for col := 0; col < engine.BoardSize; col++ {
			switch g[row][col] {
			case engine.MarkSunk:
				for dr := -1; dr <= 1; dr++ {
					for dc := -1; dc <= 1; dc++ {
						markExcluded(&excluded, row+dr, col+dc)
					}
				}
			case engine.MarkHit:
				for _, d := range [][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}} {
					markExcluded(&excluded, row+d[0], col+d[1])
				}
			}
		}
	}
	return excluded
}

func markExcluded(excluded *[engine.BoardSize][engine.BoardSize]bool, row, col int) {
	if row >= 0 && col >= 0 && row < engine.BoardSize && col < engine.BoardSize {
		excluded[row][col] = true
	}
}

// target looks for an unsunk hit and returns the next cell along its
// ship: the ends of a line of hits when the orientation is known, else
// any open neighbour
func target(g *grid, excluded [engine.BoardSize][engine.BoardSize]bool) (engine.Coordinate, bool) {
	open := func(row, col int) bool {
		return g.at(row, col) == engine.MarkUnknown && !excluded[row][col]
	}

	for row := 0; row < engine.BoardSize; row++ {
		for col := 0; col < engine.BoardSize; col++ {
			if g[row][col] != engine.MarkHit {
				continue
			}

			horizontal := g.at(row, col-1) == engine.MarkHit || g.at(row, col+1) == engine.MarkHit
			vertical := g.at(row-1, col) == engine.MarkHit || g.at(row+1, col) == engine.MarkHit

			if horizontal {
				start, end := col, col
				for g.at(row, start-1) == engine.MarkHit {
					start--
				}
				for g.at(row, end+1) == engine.MarkHit {
					end++
				}
				if open(row, start-1) {
					return engine.Coordinate{Row: row, Col: start - 1}, true
				}
				if open(row, end+1) {
					return engine.Coordinate{Row: row, Col: end + 1}, true
				}
				continue
			}
			if vertical {
				start, end := row, row
				for g.at(start-1, col) == engine.MarkHit {
					start--
				}
				for g.at(end+1, col) == engine.MarkHit {
					end++
				}
				if open(start-1, col) {
					return engine.Coordinate{Row: start - 1, Col: col}, true
				}
				if open(end+1, col) {
					return engine.Coordinate{Row: end + 1, Col: col}, true
				}
				continue
			}

			for _, d := range [][2]int{{-1, 0}, {0, 1}, {1, 0}, {0, -1}} {
				if open(row+d[0], col+d[1]) {
					return engine.Coordinate{Row: row + d[0], Col: col + d[1]}, true
				}
			}
		}
	}
	return engine.Coordinate{}, false
}
