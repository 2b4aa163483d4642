package engine

import "strings"

// Cell markers used in BoardView rows
const (
	MarkUnknown = '.'
	MarkShip    = 'S'
	MarkHit     = 'X'
	MarkMiss    = 'o'
	MarkSunk    = '#'
)

// BoardView is a read-only snapshot of a board for presentation
type BoardView struct {
	Rows           []string   `json:"rows"`
	Ships          []ShipView `json:"ships"`
	AttackedCount  int        `json:"attacked_count"`
	ShipsRemaining int        `json:"ships_remaining"`
}

// ShipView describes one placed ship. Hits and Cells are only filled in
// when the owner is looking or the ship has sunk, so an opponent cannot
// tell which ship a hit landed on.
type ShipView struct {
	Name   string       `json:"name"`
	Length int          `json:"length"`
	Hits   int          `json:"hits"`
	Sunk   bool         `json:"sunk"`
	Cells  []Coordinate `json:"cells,omitempty"`
}

// View snapshots the board. With reveal set, intact ship cells are shown;
// otherwise only what the opponent has learned through attacks is visible.
func (b *Board) View(reveal bool) BoardView {
	view := BoardView{
		Rows:           make([]string, BoardSize),
		Ships:          make([]ShipView, 0, len(b.ships)),
		AttackedCount:  len(b.attacked),
		ShipsRemaining: b.ShipsRemaining(),
	}

	var sb strings.Builder
	for row := 0; row < BoardSize; row++ {
		sb.Reset()
		for col := 0; col < BoardSize; col++ {
			sb.WriteByte(b.markAt(row, col, reveal))
		}
		view.Rows[row] = sb.String()
	}

	for _, ship := range b.ships {
		sv := ShipView{
			Name:   ShipNames[ship.length],
			Length: ship.length,
			Sunk:   ship.IsDestroyed(),
		}
		if reveal || sv.Sunk {
			sv.Hits = ship.hits
			sv.Cells = ship.Footprint()
		}
		view.Ships = append(view.Ships, sv)
	}

	return view
}

// Hidden returns the view an opponent would get: intact ship cells are
// masked and only sunk ships keep their cells
func (v BoardView) Hidden() BoardView {
	hidden := BoardView{
		Rows:           make([]string, len(v.Rows)),
		Ships:          make([]ShipView, len(v.Ships)),
		AttackedCount:  v.AttackedCount,
		ShipsRemaining: v.ShipsRemaining,
	}
	for i, row := range v.Rows {
		hidden.Rows[i] = strings.ReplaceAll(row, string(rune(MarkShip)), string(rune(MarkUnknown)))
	}
	for i, ship := range v.Ships {
		if !ship.Sunk {
			ship.Hits = 0
			ship.Cells = nil
		}
		hidden.Ships[i] = ship
	}
	return hidden
}

// String renders the board with row and column headers
func (v BoardView) String() string {
	var sb strings.Builder
	sb.WriteString("  0123456789\n")
	for i, row := range v.Rows {
		sb.WriteByte(byte('0' + i))
		sb.WriteByte(' ')
		sb.WriteString(row)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (b *Board) markAt(row, col int, reveal bool) byte {
	ship := b.grid[row][col]
	attacked := b.IsAttacked(row, col)

	switch {
	case ship != nil && ship.IsDestroyed():
		return MarkSunk
	case ship != nil && attacked:
		return MarkHit
	case ship != nil && reveal:
		return MarkShip
	case attacked && ship == nil:
		return MarkMiss
	default:
		return MarkUnknown
	}
}
