package match

import (
	"fmt"

	"github.com/wricardo/battleships/game/engine"
)

// View is what one seat is allowed to see of the match
type View struct {
	Mode      Mode             `json:"mode"`
	Phase     Phase            `json:"phase"`
	Seat      int              `json:"seat"`
	Current   int              `json:"current"`
	Winner    int              `json:"winner"`
	Own       engine.BoardView `json:"own"`
	Opponent  engine.BoardView `json:"opponent"`
	Remaining []int            `json:"remaining"`
	Shots     int              `json:"shots"`
}

// View builds the given seat's view: its own board fully revealed and the
// other board showing only attacked cells and sunk ships. Once the match
// is over both boards are revealed.
func (m *Match) View(seatIdx int) (*View, error) {
	if seatIdx != 0 && seatIdx != 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSeat, seatIdx)
	}

	own := m.seats[seatIdx]
	other := m.seats[1-seatIdx]

	shots := 0
	for _, s := range m.history {
		if s.Seat == seatIdx {
			shots++
		}
	}

	return &View{
		Mode:      m.mode,
		Phase:     m.phase,
		Seat:      seatIdx,
		Current:   m.current,
		Winner:    m.winner,
		Own:       own.player.Board().View(true),
		Opponent:  other.player.Board().View(m.phase == PhaseOver),
		Remaining: append([]int{}, own.remaining...),
		Shots:     shots,
	}, nil
}

// Banner is a one-line status for the given seat, used by text front ends
func (v *View) Banner() string {
	switch v.Phase {
	case PhasePlacement:
		if v.Current != v.Seat {
			return fmt.Sprintf("waiting for player %d to place ships", v.Current+1)
		}
		if len(v.Remaining) == 0 {
			return "fleet placed, ready to battle"
		}
		return fmt.Sprintf("place your ships, remaining lengths %v", v.Remaining)
	case PhaseBattle:
		if v.Current == v.Seat {
			return "your turn"
		}
		return fmt.Sprintf("player %d's turn", v.Current+1)
	default:
		if v.Winner == v.Seat {
			return "game over, you win"
		}
		return fmt.Sprintf("game over, player %d wins", v.Winner+1)
	}
}

// Redacted returns a copy safe to show spectators: until the match is over
// the seat's own intact ships are masked like the opponent's
func (v *View) Redacted() *View {
	r := *v
	r.Remaining = append([]int{}, v.Remaining...)
	if v.Phase != PhaseOver {
		r.Own = v.Own.Hidden()
	}
	return &r
}
