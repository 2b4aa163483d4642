// Package match runs a full Battleship game on top of the engine package.
//
// A Match owns two seats, each with its own engine.Player, and moves
// through three phases:
//
//   - placement: the current seat places the standard fleet (5, 4, 3, 3, 2)
//     piece by piece, undoes pieces or auto-places the rest
//   - battle: seats take turns firing; a hit keeps the turn, a miss passes it
//   - over: one seat has no ships left
//
// In single player mode seat 1 is driven by a cpu.Opponent. It places its
// fleet when seat 0 finishes placement and answers every miss with its own
// shots, which Attack returns as Turn.Replies.
//
// Usage:
//
//	m, _ := match.New(match.ModeSingle)
//	_ = m.AutoPlace()
//	_ = m.FinishPlacement()
//	turn, err := m.Attack(4, 4)
//
// Match is not safe for concurrent use; the service layer serializes access.
package match
