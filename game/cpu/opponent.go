// Package cpu implements the automated opponent: random fleet placement
// and random targeting over the cells it has not attacked yet.
package cpu

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/wricardo/battleships/game/engine"
)

const (
	// Random draws allowed for one piece before the fleet is restarted
	maxPlacementAttempts = 1000

	maxFleetRestarts = 20
)

var ErrPlacementExhausted = errors.New("could not place fleet")

// Opponent makes the automated player's decisions
type Opponent struct {
	rng *rand.Rand
}

// New creates an opponent with a deterministic seed
func New(seed int64) *Opponent {
	return &Opponent{
		rng: rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)),
	}
}

// NewRandom creates an opponent seeded from crypto/rand
func NewRandom() (*Opponent, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return nil, fmt.Errorf("read random seed: %w", err)
	}
	return New(int64(binary.LittleEndian.Uint64(b[:]))), nil
}

// PlaceFleet places one ship per entry of lengths on the board, drawing a
// random anchor and orientation until the board accepts each piece. When
// a piece cannot be placed the pieces placed by this call are undone and
// the whole fleet is tried again.
func (o *Opponent) PlaceFleet(b *engine.Board, lengths []int) error {
	for _, length := range lengths {
		if length < engine.MinShipLength || length > engine.MaxShipLength {
			return &engine.InvalidLengthError{Length: length}
		}
	}

	for restart := 0; restart <= maxFleetRestarts; restart++ {
		placed := 0
		for _, length := range lengths {
			if !o.placeOne(b, length) {
				break
			}
			placed++
		}
		if placed == len(lengths) {
			return nil
		}
		for i := 0; i < placed; i++ {
			b.UndoLastShip()
		}
	}

	return fmt.Errorf("%w: %v after %d restarts", ErrPlacementExhausted, lengths, maxFleetRestarts)
}

func (o *Opponent) placeOne(b *engine.Board, length int) bool {
	for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
		horizontal := o.rng.IntN(2) == 0
		row, col := o.rng.IntN(engine.BoardSize), o.rng.IntN(engine.BoardSize)
		if ok, _ := b.PlaceShip(row, col, length, horizontal); ok {
			return true
		}
	}
	return false
}

// ChooseTarget picks a coordinate of the target board that has not been
// attacked yet, uniformly at random. It returns false once every cell has
// been attacked.
func (o *Opponent) ChooseTarget(target *engine.Board) (engine.Coordinate, bool) {
	open := make([]engine.Coordinate, 0, engine.BoardSize*engine.BoardSize-target.AttackedCount())
	for row := 0; row < engine.BoardSize; row++ {
		for col := 0; col < engine.BoardSize; col++ {
			if !target.IsAttacked(row, col) {
				open = append(open, engine.Coordinate{Row: row, Col: col})
			}
		}
	}
	if len(open) == 0 {
		return engine.Coordinate{}, false
	}
	return open[o.rng.IntN(len(open))], true
}

// SendAttack fires at a fresh coordinate of the opposing player and
// reports whether a ship was hit
func (o *Opponent) SendAttack(target *engine.Player) (bool, engine.Coordinate, error) {
	at, ok := o.ChooseTarget(target.Board())
	if !ok {
		return false, at, errors.New("no untargeted cells left")
	}
	hit, err := target.RegisterAttack(at.Row, at.Col)
	return hit, at, err
}
