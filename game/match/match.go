package match

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/wricardo/battleships/game/cpu"
	"github.com/wricardo/battleships/game/engine"
)

var (
	ErrWrongPhase       = errors.New("operation not allowed in current phase")
	ErrPieceUnavailable = errors.New("no piece of that length left to place")
	ErrFleetIncomplete  = errors.New("fleet is not fully placed")
	ErrInvalidSeat      = errors.New("invalid seat")
	ErrInvalidMode      = errors.New("invalid game mode")
)

// Mode selects who sits in the second seat
type Mode string

const (
	ModeSingle Mode = "single" // seat 1 is the automated opponent
	ModeMulti  Mode = "multi"  // two humans share the screen
)

// ParseMode converts user input into a Mode. An empty string selects single player.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeSingle:
		return ModeSingle, nil
	case ModeMulti:
		return ModeMulti, nil
	default:
		return "", fmt.Errorf("%w: %q (use %q or %q)", ErrInvalidMode, s, ModeSingle, ModeMulti)
	}
}

// Phase is the stage a match is in
type Phase string

const (
	PhasePlacement Phase = "placement"
	PhaseBattle    Phase = "battle"
	PhaseOver      Phase = "over"
)

// NoWinner is the Winner value while the match is undecided
const NoWinner = -1

// Shot records one resolved attack
type Shot struct {
	Seat   int                 `json:"seat"`
	Target engine.Coordinate   `json:"target"`
	Result engine.AttackResult `json:"result"`
	Sunk   bool                `json:"sunk,omitempty"`
	Length int                 `json:"sunk_length,omitempty"`
	At     time.Time           `json:"at"`
}

// Turn is the outcome of one Attack call: the shot itself and, in single
// player, the automated opponent's replies until it missed or won
type Turn struct {
	Shot    Shot   `json:"shot"`
	Replies []Shot `json:"replies,omitempty"`
	Phase   Phase  `json:"phase"`
	Current int    `json:"current"`
	Winner  int    `json:"winner"`
}

type seat struct {
	player    *engine.Player
	remaining []int
	placed    []int
}

func newSeat() *seat {
	return &seat{
		player:    engine.NewPlayer(),
		remaining: append([]int(nil), engine.StandardFleet...),
	}
}

func (s *seat) takePiece(length int) bool {
	for i, l := range s.remaining {
		if l == length {
			s.remaining = append(s.remaining[:i], s.remaining[i+1:]...)
			return true
		}
	}
	return false
}

func (s *seat) returnPiece(length int) {
	s.remaining = append(s.remaining, length)
	sort.Sort(sort.Reverse(sort.IntSlice(s.remaining)))
}

// Match drives one game between two seats: placement, alternating
// attacks and the game over check
type Match struct {
	mode     Mode
	phase    Phase
	seats    [2]*seat
	current  int
	winner   int
	opponent *cpu.Opponent
	history  []Shot
	now      func() time.Time
}

// Option configures a Match
type Option func(*Match)

// WithOpponent sets the automated opponent used for random placement and
// single player turns
func WithOpponent(o *cpu.Opponent) Option {
	return func(m *Match) {
		m.opponent = o
	}
}

// WithClock overrides the time source used for shot timestamps
func WithClock(now func() time.Time) Option {
	return func(m *Match) {
		m.now = now
	}
}

// New creates a match in the placement phase with seat 0 placing first
func New(mode Mode, opts ...Option) (*Match, error) {
	if mode != ModeSingle && mode != ModeMulti {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	m := &Match{
		mode:   mode,
		phase:  PhasePlacement,
		seats:  [2]*seat{newSeat(), newSeat()},
		winner: NoWinner,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.opponent == nil {
		o, err := cpu.NewRandom()
		if err != nil {
			return nil, err
		}
		m.opponent = o
	}

	return m, nil
}

// Mode returns the match mode
func (m *Match) Mode() Mode {
	return m.mode
}

// Phase returns the current phase
func (m *Match) Phase() Phase {
	return m.phase
}

// Current returns the seat placing ships or holding the turn
func (m *Match) Current() int {
	return m.current
}

// Winner returns the winning seat, or NoWinner
func (m *Match) Winner() int {
	return m.winner
}

// Player returns the player in the given seat
func (m *Match) Player(seatIdx int) (*engine.Player, error) {
	if seatIdx != 0 && seatIdx != 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSeat, seatIdx)
	}
	return m.seats[seatIdx].player, nil
}

// Remaining returns the ship lengths the current seat still has to place
func (m *Match) Remaining() []int {
	return append([]int(nil), m.seats[m.current].remaining...)
}

// History returns every non-repeat shot in the order it was fired
func (m *Match) History() []Shot {
	return append([]Shot(nil), m.history...)
}

// PlaceShip places a piece of the current seat's fleet. A false result
// means the board rejected the position.
func (m *Match) PlaceShip(row, col, length int, horizontal bool) (bool, error) {
	if m.phase != PhasePlacement {
		return false, fmt.Errorf("%w: cannot place ships during %s", ErrWrongPhase, m.phase)
	}
	if length < engine.MinShipLength || length > engine.MaxShipLength {
		return false, &engine.InvalidLengthError{Length: length}
	}

	s := m.seats[m.current]
	if !containsLength(s.remaining, length) {
		return false, fmt.Errorf("%w: length %d", ErrPieceUnavailable, length)
	}

	ok, err := s.player.Board().PlaceShip(row, col, length, horizontal)
	if err != nil || !ok {
		return false, err
	}

	s.takePiece(length)
	s.placed = append(s.placed, length)
	return true, nil
}

// UndoLastShip removes the current seat's most recent ship and returns
// the piece to its pool
func (m *Match) UndoLastShip() error {
	if m.phase != PhasePlacement {
		return fmt.Errorf("%w: cannot undo during %s", ErrWrongPhase, m.phase)
	}

	s := m.seats[m.current]
	if len(s.placed) == 0 {
		return nil
	}

	s.player.Board().UndoLastShip()
	last := s.placed[len(s.placed)-1]
	s.placed = s.placed[:len(s.placed)-1]
	s.returnPiece(last)
	return nil
}

// AutoPlace places every remaining piece of the current seat at random
func (m *Match) AutoPlace() error {
	if m.phase != PhasePlacement {
		return fmt.Errorf("%w: cannot place ships during %s", ErrWrongPhase, m.phase)
	}

	s := m.seats[m.current]
	if len(s.remaining) == 0 {
		return nil
	}
	if err := m.opponent.PlaceFleet(s.player.Board(), s.remaining); err != nil {
		return err
	}

	s.placed = append(s.placed, s.remaining...)
	s.remaining = s.remaining[:0]
	return nil
}

// FinishPlacement ends the current seat's placement. In single player the
// automated opponent places its fleet and battle starts; in multiplayer the
// second seat places next.
func (m *Match) FinishPlacement() error {
	if m.phase != PhasePlacement {
		return fmt.Errorf("%w: placement already finished", ErrWrongPhase)
	}

	s := m.seats[m.current]
	if len(s.remaining) > 0 {
		return fmt.Errorf("%w: %v left", ErrFleetIncomplete, s.remaining)
	}

	if m.mode == ModeMulti && m.current == 0 {
		m.current = 1
		return nil
	}

	if m.mode == ModeSingle {
		m.current = 1
		if err := m.AutoPlace(); err != nil {
			m.current = 0
			return err
		}
	}

	m.current = 0
	m.phase = PhaseBattle
	return nil
}

// Attack fires the current seat's shot at the other seat's board.
//
// A hit keeps the turn and a miss passes it. A repeated coordinate is
// reported and ignored. In single player, when the turn passes to the
// automated opponent it fires until it misses or wins; those shots are
// returned as replies.
func (m *Match) Attack(row, col int) (*Turn, error) {
	if m.phase != PhaseBattle {
		return nil, fmt.Errorf("%w: cannot attack during %s", ErrWrongPhase, m.phase)
	}

	shot, err := m.fire(m.current, row, col)
	if err != nil {
		return nil, err
	}

	turn := &Turn{Shot: shot}
	if shot.Result == engine.AttackMiss {
		m.current = 1 - m.current
		if m.mode == ModeSingle && m.current == 1 {
			turn.Replies = m.opponentTurn()
		}
	}

	turn.Phase = m.phase
	turn.Current = m.current
	turn.Winner = m.winner
	return turn, nil
}

// opponentTurn lets the automated player in seat 1 fire until it misses or wins
func (m *Match) opponentTurn() []Shot {
	var replies []Shot
	target := m.seats[0].player.Board()

	for m.phase == PhaseBattle && m.current == 1 {
		at, ok := m.opponent.ChooseTarget(target)
		if !ok {
			break
		}
		shot, err := m.fire(1, at.Row, at.Col)
		if err != nil {
			break
		}
		replies = append(replies, shot)
		if shot.Result == engine.AttackMiss {
			m.current = 0
		}
	}

	return replies
}

func (m *Match) fire(attacker, row, col int) (Shot, error) {
	defender := m.seats[1-attacker].player

	result, err := defender.Attack(row, col)
	if err != nil {
		return Shot{}, err
	}

	shot := Shot{
		Seat:   attacker,
		Target: engine.Coordinate{Row: row, Col: col},
		Result: result,
		At:     m.now(),
	}
	if result == engine.AttackRepeat {
		return shot, nil
	}

	if result == engine.AttackHit {
		if ship := defender.Board().ShipAt(row, col); ship != nil && ship.IsDestroyed() {
			shot.Sunk = true
			shot.Length = ship.Length()
		}
		if !defender.Board().HasShips() {
			m.phase = PhaseOver
			m.winner = attacker
		}
	}

	m.history = append(m.history, shot)
	return shot, nil
}

func containsLength(lengths []int, length int) bool {
	for _, l := range lengths {
		if l == length {
			return true
		}
	}
	return false
}
