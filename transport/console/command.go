package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrUnknownCommand = errors.New("unknown command")

// Command names
const (
	CmdPlace   = "place"
	CmdUndo    = "undo"
	CmdAuto    = "auto"
	CmdLayout  = "layout"
	CmdLayouts = "layouts"
	CmdReady   = "ready"
	CmdFire    = "fire"
	CmdBoard   = "board"
	CmdHistory = "history"
	CmdHelp    = "help"
	CmdQuit    = "quit"
)

var aliases = map[string]string{
	"p":      CmdPlace,
	"u":      CmdUndo,
	"a":      CmdAuto,
	"r":      CmdReady,
	"done":   CmdReady,
	"f":      CmdFire,
	"attack": CmdFire,
	"shoot":  CmdFire,
	"b":      CmdBoard,
	"show":   CmdBoard,
	"h":      CmdHistory,
	"?":      CmdHelp,
	"q":      CmdQuit,
	"exit":   CmdQuit,
}

// Command is one parsed line of input
type Command struct {
	Name       string
	Row        int
	Col        int
	Length     int
	Horizontal bool
	Layout     string
}

// ParseCommand parses a console line such as "place 0 0 5 h" or "fire 3 4"
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: empty input", ErrUnknownCommand)
	}

	name := fields[0]
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	args := fields[1:]
	cmd := Command{Name: name}

	switch name {
	case CmdPlace:
		if len(args) != 4 {
			return cmd, fmt.Errorf("usage: place ROW COL LENGTH h|v")
		}
		nums, err := parseInts(args[:3])
		if err != nil {
			return cmd, err
		}
		cmd.Row, cmd.Col, cmd.Length = nums[0], nums[1], nums[2]
		switch args[3] {
		case "h", "horizontal":
			cmd.Horizontal = true
		case "v", "vertical":
		default:
			return cmd, fmt.Errorf("orientation must be h or v, got %q", args[3])
		}

	case CmdFire:
		if len(args) != 2 {
			return cmd, fmt.Errorf("usage: fire ROW COL")
		}
		nums, err := parseInts(args)
		if err != nil {
			return cmd, err
		}
		cmd.Row, cmd.Col = nums[0], nums[1]

	case CmdLayout:
		if len(args) != 1 {
			return cmd, fmt.Errorf("usage: layout NAME")
		}
		cmd.Layout = args[0]

	case CmdUndo, CmdAuto, CmdLayouts, CmdReady, CmdBoard, CmdHistory, CmdHelp, CmdQuit:
		if len(args) != 0 {
			return cmd, fmt.Errorf("%s takes no arguments", name)
		}

	default:
		return cmd, fmt.Errorf("%w: %q (type help)", ErrUnknownCommand, fields[0])
	}

	return cmd, nil
}

func parseInts(args []string) ([]int, error) {
	nums := make([]int, len(args))
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", arg)
		}
		nums[i] = n
	}
	return nums, nil
}

const helpText = `Commands:
  place ROW COL LENGTH h|v   place a ship (h extends right, v extends down)
  undo                       remove your last ship
  auto                       place your remaining ships at random
  layout NAME                place a stored layout
  layouts                    list stored layouts
  ready                      finish placement
  fire ROW COL               attack a cell of the opponent's board
  board                      show the boards
  history                    show every shot so far
  help                       show this help
  quit                       leave the game

Legend: . unknown  S ship  X hit  o miss  # sunk`
