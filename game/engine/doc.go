// Package engine provides the board rules for the Battleships game.
//
// The engine package implements:
//   - Ships with hit tracking and destruction
//   - A fixed 10x10 board with placement validation
//   - The no-touching rule: a one-cell buffer around every ship
//   - Attack resolution with miss, hit and repeat outcomes
//   - Automatic reveal of the buffer around a sunk ship
//   - The win condition query
//
// Core Types:
//
// Board holds the grid, the ships in placement order and the registry of
// attacked coordinates. Ship tracks its length and hits. Player wraps a
// Board and validates attack coordinates. BoardView is a read-only
// snapshot for presentation layers.
//
// Usage:
//
//	board := engine.NewBoard()
//
//	ok, err := board.PlaceShip(2, 3, 5, true)
//	if err != nil {
//		log.Fatal(err) // length outside 2..5
//	}
//	if !ok {
//		// out of bounds, overlapping or touching another ship
//	}
//
//	switch board.ReceiveAttack(2, 4) {
//	case engine.AttackHit:
//	case engine.AttackMiss:
//	case engine.AttackRepeat:
//	}
//
//	gameOver := !board.HasShips()
//
// Placement Rules:
//
// A ship is anchored at its lowest row and column and extends right when
// horizontal, down otherwise. Placement is checked against the board
// bounds first and then against the exclusion area, the footprint grown
// by one cell in every direction. Every cell of that area must be empty.
// A rejected placement leaves the board unchanged.
//
// Errors:
//
// Only caller contract violations are errors: a ship length outside 2..5
// (*InvalidLengthError) and, at the Player boundary, a coordinate off the
// board (*InvalidCoordinateError). Rejected placements and repeated
// attacks are ordinary results.
package engine
