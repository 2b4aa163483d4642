package engine

import "fmt"

const (
	// BoardSize is the fixed width and height of every board
	BoardSize = 10

	// Ship length limits
	MinShipLength = 2
	MaxShipLength = 5
)

// StandardFleet lists the ship lengths each side places before battle:
// carrier, battleship, two cruisers and a destroyer.
var StandardFleet = []int{5, 4, 3, 3, 2}

// ShipNames maps a ship length to its conventional class name
var ShipNames = map[int]string{
	5: "carrier",
	4: "battleship",
	3: "cruiser",
	2: "destroyer",
}

// Coordinate identifies a single grid cell
type Coordinate struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Code returns the compact "<row><col>" identifier of the coordinate
func (c Coordinate) Code() string {
	return fmt.Sprintf("%d%d", c.Row, c.Col)
}

// String implements fmt.Stringer
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// InBounds reports whether the coordinate lies on the board
func (c Coordinate) InBounds() bool {
	return inBounds(c.Row, c.Col)
}

func inBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

// AttackResult is the outcome of resolving one attack against a board
type AttackResult int

const (
	AttackMiss AttackResult = iota
	AttackHit
	AttackRepeat
)

var attackResultNames = map[AttackResult]string{
	AttackMiss:   "miss",
	AttackHit:    "hit",
	AttackRepeat: "repeat",
}

// String implements fmt.Stringer
func (r AttackResult) String() string {
	if name, ok := attackResultNames[r]; ok {
		return name
	}
	return fmt.Sprintf("AttackResult(%d)", int(r))
}

// MarshalText encodes the result by name so JSON payloads read "hit", "miss" or "repeat"
func (r AttackResult) MarshalText() ([]byte, error) {
	name, ok := attackResultNames[r]
	if !ok {
		return nil, fmt.Errorf("unknown attack result %d", int(r))
	}
	return []byte(name), nil
}

// UnmarshalText decodes a result name produced by MarshalText
func (r *AttackResult) UnmarshalText(text []byte) error {
	for result, name := range attackResultNames {
		if name == string(text) {
			*r = result
			return nil
		}
	}
	return fmt.Errorf("unknown attack result %q", string(text))
}
