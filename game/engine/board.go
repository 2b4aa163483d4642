package engine

import "sort"

// Board is one side's 10x10 grid together with the ships placed on it
// and the registry of coordinates already attacked.
type Board struct {
	grid     [BoardSize][BoardSize]*Ship
	ships    []*Ship
	attacked map[Coordinate]struct{}
}

// NewBoard creates an empty board
func NewBoard() *Board {
	return &Board{
		ships:    make([]*Ship, 0, len(StandardFleet)),
		attacked: make(map[Coordinate]struct{}),
	}
}

// PlaceShip places a ship of the given length with its anchor at (row, col),
// extending right when horizontal and down otherwise.
//
// It returns false without touching the board when the ship would leave the
// board or when any cell of its exclusion area (the footprint grown by one
// cell in every direction) is occupied. A length outside [2,5] is a caller
// error and is reported as *InvalidLengthError.
func (b *Board) PlaceShip(row, col, length int, horizontal bool) (bool, error) {
	if length < MinShipLength || length > MaxShipLength {
		return false, &InvalidLengthError{Length: length}
	}

	if !fits(row, col, length, horizontal) {
		return false, nil
	}

	area, empty := b.exclusionArea(row, col, length, horizontal)
	if !empty {
		return false, nil
	}

	ship, err := NewShip(length)
	if err != nil {
		return false, err
	}

	ship.footprint = footprint(row, col, length, horizontal)
	ship.area = area
	for _, c := range ship.footprint {
		b.grid[c.Row][c.Col] = ship
	}
	b.ships = append(b.ships, ship)

	return true, nil
}

// UndoLastShip removes the most recently placed ship. Every cell of its
// recorded area is cleared; no other ship can stand there while it exists.
func (b *Board) UndoLastShip() {
	if len(b.ships) == 0 {
		return
	}

	last := len(b.ships) - 1
	ship := b.ships[last]
	b.ships[last] = nil
	b.ships = b.ships[:last]

	for _, c := range ship.area {
		b.grid[c.Row][c.Col] = nil
	}
}

// ReceiveAttack resolves an attack on (row, col).
//
// A coordinate that was already attacked, directly or through a sink
// reveal, yields AttackRepeat and changes nothing. Sinking a ship marks
// its whole area as attacked. Coordinates off the board are a caller
// error; they resolve as AttackMiss and are not recorded.
func (b *Board) ReceiveAttack(row, col int) AttackResult {
	if !inBounds(row, col) {
		return AttackMiss
	}

	target := Coordinate{Row: row, Col: col}
	if _, seen := b.attacked[target]; seen {
		return AttackRepeat
	}
	b.attacked[target] = struct{}{}

	ship := b.grid[row][col]
	if ship == nil {
		return AttackMiss
	}

	ship.RegisterHit()
	if ship.IsDestroyed() {
		for _, c := range ship.area {
			b.attacked[c] = struct{}{}
		}
	}

	return AttackHit
}

// HasShips reports whether at least one placed ship is still afloat
func (b *Board) HasShips() bool {
	for _, ship := range b.ships {
		if !ship.IsDestroyed() {
			return true
		}
	}
	return false
}

// ShipAt returns the ship occupying (row, col), or nil for an empty or
// off-board cell
func (b *Board) ShipAt(row, col int) *Ship {
	if !inBounds(row, col) {
		return nil
	}
	return b.grid[row][col]
}

// Ships returns the placed ships in placement order
func (b *Board) Ships() []*Ship {
	return append([]*Ship(nil), b.ships...)
}

// ShipsRemaining returns the number of ships not yet destroyed
func (b *Board) ShipsRemaining() int {
	remaining := 0
	for _, ship := range b.ships {
		if !ship.IsDestroyed() {
			remaining++
		}
	}
	return remaining
}

// IsAttacked reports whether (row, col) is in the attack registry
func (b *Board) IsAttacked(row, col int) bool {
	_, ok := b.attacked[Coordinate{Row: row, Col: col}]
	return ok
}

// AttackedCount returns the size of the attack registry
func (b *Board) AttackedCount() int {
	return len(b.attacked)
}

// AttackedCoordinates returns the attack registry in row-major order
func (b *Board) AttackedCoordinates() []Coordinate {
	coords := make([]Coordinate, 0, len(b.attacked))
	for c := range b.attacked {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Row != coords[j].Row {
			return coords[i].Row < coords[j].Row
		}
		return coords[i].Col < coords[j].Col
	})
	return coords
}

// fits checks that the footprint anchored at (row, col) stays on the board
func fits(row, col, length int, horizontal bool) bool {
	if row < 0 || col < 0 {
		return false
	}
	if horizontal {
		return row < BoardSize && col+length <= BoardSize
	}
	return col < BoardSize && row+length <= BoardSize
}

func footprint(row, col, length int, horizontal bool) []Coordinate {
	cells := make([]Coordinate, 0, length)
	for i := 0; i < length; i++ {
		if horizontal {
			cells = append(cells, Coordinate{Row: row, Col: col + i})
		} else {
			cells = append(cells, Coordinate{Row: row + i, Col: col})
		}
	}
	return cells
}

// exclusionArea lists the footprint grown by one cell in every direction,
// clipped to the board, and reports whether all of those cells are empty
func (b *Board) exclusionArea(row, col, length int, horizontal bool) ([]Coordinate, bool) {
	endRow, endCol := row, col
	if horizontal {
		endCol = col + length - 1
	} else {
		endRow = row + length - 1
	}

	startRow, startCol := max(row-1, 0), max(col-1, 0)
	endRow, endCol = min(endRow+1, BoardSize-1), min(endCol+1, BoardSize-1)

	area := make([]Coordinate, 0, (endRow-startRow+1)*(endCol-startCol+1))
	empty := true
	for r := startRow; r <= endRow; r++ {
		for c := startCol; c <= endCol; c++ {
			area = append(area, Coordinate{Row: r, Col: c})
			if b.grid[r][c] != nil {
				empty = false
			}
		}
	}
	return area, empty
}
