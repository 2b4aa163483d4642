package engine

// Player owns one side's board and validates incoming attacks before
// handing them to it.
type Player struct {
	board *Board
}

// NewPlayer creates a player with an empty board
func NewPlayer() *Player {
	return &Player{board: NewBoard()}
}

// Board returns the player's own board
func (p *Player) Board() *Board {
	return p.board
}

// RegisterAttack resolves an attack against this player and reports
// whether the targeted cell holds a ship. A repeated shot at a ship cell
// still reports true.
func (p *Player) RegisterAttack(row, col int) (bool, error) {
	if _, err := p.Attack(row, col); err != nil {
		return false, err
	}
	return p.board.ShipAt(row, col) != nil, nil
}

// Attack resolves an attack against this player and returns the
// three-way result
func (p *Player) Attack(row, col int) (AttackResult, error) {
	if !inBounds(row, col) {
		return AttackMiss, &InvalidCoordinateError{Row: row, Col: col}
	}
	return p.board.ReceiveAttack(row, col), nil
}
