package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/wricardo/battleships/game/engine"
	"github.com/wricardo/battleships/game/match"
	"github.com/wricardo/battleships/game/service"
)

// Console plays one session on a terminal
type Console struct {
	service   service.GameService
	in        *bufio.Scanner
	out       io.Writer
	cpuDelay  time.Duration
	sessionID string
	mode      match.Mode
}

// Option configures a Console
type Option func(*Console)

// WithCPUDelay pauses between the cpu's replies so they can be followed
func WithCPUDelay(d time.Duration) Option {
	return func(c *Console) {
		c.cpuDelay = d
	}
}

// New creates a console reading commands from in and writing to out
func New(gameService service.GameService, in io.Reader, out io.Writer, opts ...Option) *Console {
	c := &Console{
		service: gameService,
		in:      bufio.NewScanner(in),
		out:     out,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run creates a session and reads commands until the game ends, the input
// runs out, quit is entered or ctx is cancelled
func (c *Console) Run(ctx context.Context, mode, layoutID string) error {
	info, err := c.service.CreateSession(ctx, mode, layoutID)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	c.sessionID = info.ID
	c.mode = info.Mode
	defer c.service.DeleteSession(context.Background(), c.sessionID)

	fmt.Fprintf(c.out, "Battleships, %s player. Type help for commands.\n\n", c.mode)
	c.printView(info.State)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(c.out, "> ")
		if !c.in.Scan() {
			fmt.Fprintln(c.out)
			return c.in.Err()
		}

		line := strings.TrimSpace(c.in.Text())
		if line == "" {
			continue
		}

		cmd, err := ParseCommand(line)
		if err != nil {
			fmt.Fprintln(c.out, err)
			continue
		}

		done, err := c.execute(ctx, cmd)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			fmt.Fprintln(c.out, describeError(err))
			continue
		}
		if done {
			return nil
		}
	}
}

// execute runs one command; done reports that the console should stop
func (c *Console) execute(ctx context.Context, cmd Command) (bool, error) {
	switch cmd.Name {
	case CmdHelp:
		fmt.Fprintln(c.out, helpText)

	case CmdQuit:
		fmt.Fprintln(c.out, "bye")
		return true, nil

	case CmdBoard:
		view, err := c.service.GetGameState(ctx, c.sessionID, service.CurrentSeat)
		if err != nil {
			return false, err
		}
		c.printView(view)

	case CmdHistory:
		return false, c.printHistory(ctx)

	case CmdLayouts:
		layouts, err := c.service.ListLayouts(ctx)
		if err != nil {
			return false, err
		}
		if len(layouts) == 0 {
			fmt.Fprintln(c.out, "no stored layouts")
		}
		for _, l := range layouts {
			fmt.Fprintf(c.out, "  %-12s %s\n", l.LayoutID, l.Description)
		}

	case CmdPlace:
		result, err := c.service.PlaceShip(ctx, c.sessionID, service.PlaceRequest{
			Row:        cmd.Row,
			Col:        cmd.Col,
			Length:     cmd.Length,
			Horizontal: cmd.Horizontal,
		})
		if err != nil {
			return false, err
		}
		fmt.Fprintln(c.out, result.Message)
		if result.Placed {
			c.printView(result.State)
		}

	case CmdUndo:
		return false, c.showAfter(c.service.UndoLastShip(ctx, c.sessionID))

	case CmdAuto:
		return false, c.showAfter(c.service.AutoPlace(ctx, c.sessionID))

	case CmdLayout:
		return false, c.showAfter(c.service.ApplyLayout(ctx, c.sessionID, cmd.Layout))

	case CmdReady:
		view, err := c.service.FinishPlacement(ctx, c.sessionID)
		if err != nil {
			return false, err
		}
		if c.mode == match.ModeMulti && view.Phase == match.PhasePlacement {
			fmt.Fprintf(c.out, "Pass the keyboard to player %d.\n\n", view.Current+1)
		}
		c.printView(view)

	case CmdFire:
		return c.fire(ctx, cmd.Row, cmd.Col)
	}

	return false, nil
}

func (c *Console) fire(ctx context.Context, row, col int) (bool, error) {
	result, err := c.service.Attack(ctx, c.sessionID, row, col)
	if err != nil {
		return false, err
	}

	fmt.Fprintln(c.out, strings.TrimSuffix(result.Message, ". "+result.Outcome))
	for _, reply := range result.ReplyMessages {
		if err := c.pause(ctx); err != nil {
			return false, err
		}
		fmt.Fprintln(c.out, reply)
	}

	turn := result.Turn
	if turn.Phase == match.PhaseOver {
		fmt.Fprintf(c.out, "\n%s\n", result.Outcome)
		c.printView(result.State)
		return true, nil
	}

	c.printView(result.State)
	if c.mode == match.ModeMulti && turn.Shot.Result == engine.AttackMiss {
		fmt.Fprintf(c.out, "Pass the keyboard to player %d, then type board.\n\n", turn.Current+1)
	}
	return false, nil
}

// pause waits out the cpu delay unless ctx ends first
func (c *Console) pause(ctx context.Context) error {
	if c.cpuDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(c.cpuDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Console) showAfter(view *match.View, err error) error {
	if err != nil {
		return err
	}
	c.printView(view)
	return nil
}

func (c *Console) printHistory(ctx context.Context) error {
	history, err := c.service.GetShotHistory(ctx, c.sessionID, service.HistoryOptions{Limit: 100, Order: "asc"})
	if err != nil {
		return err
	}
	if history.TotalShots == 0 {
		fmt.Fprintln(c.out, "no shots yet")
		return nil
	}
	for i, shot := range history.Shots {
		outcome := shot.Result.String()
		if shot.Sunk {
			outcome = "sunk " + engine.ShipNames[shot.Length]
		}
		fmt.Fprintf(c.out, "%3d. %-8s %s %s\n", i+1, seatLabel(c.mode, shot.Seat), shot.Target, outcome)
	}
	return nil
}

func (c *Console) printView(view *match.View) {
	if view == nil {
		return
	}
	fmt.Fprint(c.out, RenderBoards(view))
	fmt.Fprintln(c.out, view.Banner())
	fmt.Fprintln(c.out)
}

// RenderBoards draws the seat's own board and the opponent board side by side
func RenderBoards(view *match.View) string {
	own := strings.Split(strings.TrimSuffix(view.Own.String(), "\n"), "\n")
	opp := strings.Split(strings.TrimSuffix(view.Opponent.String(), "\n"), "\n")

	var b strings.Builder
	fmt.Fprintf(&b, "%-16s%s\n", "your fleet", "opponent")
	for i := range own {
		right := ""
		if i < len(opp) {
			right = opp[i]
		}
		fmt.Fprintf(&b, "%-16s%s\n", own[i], right)
	}
	fmt.Fprintf(&b, "ships left: %-4d ships left: %d\n", view.Own.ShipsRemaining, view.Opponent.ShipsRemaining)
	return b.String()
}

func seatLabel(mode match.Mode, seat int) string {
	if mode == match.ModeSingle {
		if seat == 0 {
			return "you"
		}
		return "cpu"
	}
	return fmt.Sprintf("player %d", seat+1)
}

func describeError(err error) string {
	var coord *engine.InvalidCoordinateError
	switch {
	case errors.As(err, &coord):
		return fmt.Sprintf("(%d,%d) is off the board, rows and columns run 0-%d", coord.Row, coord.Col, engine.BoardSize-1)
	case errors.Is(err, match.ErrPieceUnavailable):
		return "that ship is already placed, check the remaining lengths"
	case errors.Is(err, match.ErrFleetIncomplete):
		return "place every ship first (or type auto)"
	case errors.Is(err, match.ErrWrongPhase):
		return fmt.Sprintf("not now: %v", err)
	default:
		return err.Error()
	}
}
