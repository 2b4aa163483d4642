package console

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	gui "github.com/grupawp/warships-gui/v2"
	"github.com/wricardo/battleships/game/engine"
	"github.com/wricardo/battleships/game/match"
	"github.com/wricardo/battleships/game/service"
)

// States converts a board view to the grid drawn by a gui.Board, indexed
// [column][row]. Sunk cells are drawn as hits.
func States(view engine.BoardView) [engine.BoardSize][engine.BoardSize]gui.State {
	var states [engine.BoardSize][engine.BoardSize]gui.State
	for col := range states {
		for row := range states[col] {
			states[col][row] = gui.Empty
			if row >= len(view.Rows) || col >= len(view.Rows[row]) {
				continue
			}
			switch view.Rows[row][col] {
			case engine.MarkShip:
				states[col][row] = gui.Ship
			case engine.MarkHit, engine.MarkSunk:
				states[col][row] = gui.Hit
			case engine.MarkMiss:
				states[col][row] = gui.Miss
			}
		}
	}
	return states
}

// ParseTarget converts a board coordinate such as "B7" (column letter A-J,
// row number 1-10) to zero-based row and column
func ParseTarget(s string) (row, col int, err error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return 0, 0, fmt.Errorf("invalid target %q", s)
	}
	col = int(s[0] - 'A')
	n, err := strconv.Atoi(s[1:])
	if err != nil || col < 0 || col >= engine.BoardSize || n < 1 || n > engine.BoardSize {
		return 0, 0, fmt.Errorf("invalid target %q", s)
	}
	return n - 1, col, nil
}

type boardDisplay interface {
	SetStates(states [engine.BoardSize][engine.BoardSize]gui.State)
}

type textDisplay interface {
	SetText(text string)
}

// Screen plays one session full screen: the player's fleet on the left and
// the opponent board on the right, fired at by clicking a cell. Fleets are
// placed from the layout or at random before the battle starts.
type Screen struct {
	service   service.GameService
	sessionID string
	mode      match.Mode

	own, opp       boardDisplay
	status, result textDisplay

	// set after a multiplayer miss until the next seat takes over
	handoff bool
}

// NewScreen creates a full screen front end for gameService
func NewScreen(gameService service.GameService) *Screen {
	return &Screen{service: gameService}
}

// Run creates a session, places the fleets and shows the boards until the
// window is closed or ctx is cancelled
func (s *Screen) Run(ctx context.Context, mode, layoutID string) error {
	view, err := s.setup(ctx, mode, layoutID)
	if err != nil {
		return err
	}
	defer s.service.DeleteSession(context.Background(), s.sessionID)

	ui := gui.NewGUI(true)
	own := gui.NewBoard(1, 6, nil)
	opp := gui.NewBoard(50, 6, nil)
	status := gui.NewText(1, 1, "", nil)
	result := gui.NewText(1, 3, "", nil)
	ui.Draw(gui.NewText(1, 4, "Your fleet", nil))
	ui.Draw(gui.NewText(50, 4, "Opponent", nil))
	ui.Draw(own)
	ui.Draw(opp)
	ui.Draw(status)
	ui.Draw(result)

	s.own, s.opp, s.status, s.result = own, opp, status, result
	s.show(view)
	s.result.SetText("Click a cell on the opponent board to fire. Ctrl+C quits.")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		for {
			target := opp.Listen(ctx)
			if ctx.Err() != nil {
				return
			}
			done, err := s.handle(ctx, target)
			if err != nil {
				s.result.SetText(describeError(err))
			}
			if done {
				return
			}
		}
	}()

	ui.Start(nil)
	return nil
}

// setup creates the session and finishes placement for every human seat
func (s *Screen) setup(ctx context.Context, mode, layoutID string) (*match.View, error) {
	info, err := s.service.CreateSession(ctx, mode, layoutID)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	s.sessionID = info.ID
	s.mode = info.Mode

	seats := 1
	if s.mode == match.ModeMulti {
		seats = 2
	}

	view := info.State
	for seat := 0; seat < seats; seat++ {
		if len(view.Remaining) > 0 {
			if view, err = s.service.AutoPlace(ctx, s.sessionID); err != nil {
				return nil, err
			}
		}
		if view, err = s.service.FinishPlacement(ctx, s.sessionID); err != nil {
			return nil, err
		}
	}

	if view, err = s.service.GetGameState(ctx, s.sessionID, service.CurrentSeat); err != nil {
		return nil, err
	}
	return view, nil
}

// handle fires at a clicked target; done reports that the game is over
func (s *Screen) handle(ctx context.Context, target string) (bool, error) {
	if s.handoff {
		view, err := s.service.GetGameState(ctx, s.sessionID, service.CurrentSeat)
		if err != nil {
			return false, err
		}
		s.handoff = false
		s.show(view)
		s.result.SetText(fmt.Sprintf("Player %d, fire when ready.", view.Seat+1))
		return false, nil
	}

	row, col, err := ParseTarget(target)
	if err != nil {
		return false, err
	}

	result, err := s.service.Attack(ctx, s.sessionID, row, col)
	if err != nil {
		if errors.Is(err, match.ErrWrongPhase) {
			return true, err
		}
		return false, err
	}

	s.show(result.State)
	message := result.Message
	if len(result.ReplyMessages) > 0 {
		message += " " + strings.Join(result.ReplyMessages, " ")
	}

	turn := result.Turn
	switch {
	case turn.Phase == match.PhaseOver:
		s.result.SetText(message)
		return true, nil
	case s.mode == match.ModeMulti && turn.Shot.Result == engine.AttackMiss:
		s.handoff = true
		message += fmt.Sprintf(" Pass the mouse to player %d and click any cell.", turn.Current+1)
	}
	s.result.SetText(message)
	return false, nil
}

func (s *Screen) show(view *match.View) {
	if view == nil {
		return
	}
	s.own.SetStates(States(view.Own))
	s.opp.SetStates(States(view.Opponent))

	label := seatLabel(s.mode, view.Seat)
	s.status.SetText(fmt.Sprintf("[%s] %s. Ships left: yours %d, opponent %d",
		label, view.Banner(), view.Own.ShipsRemaining, view.Opponent.ShipsRemaining))
}
