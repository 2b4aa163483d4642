// Command analyze measures the cpu opponent. It plays simulated battles in
// which the cpu fires at a fleet, either placed at random or taken from a
// stored layout, and prints how many shots each battle took along with a
// heatmap of how often random placement puts a ship on each cell.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/battleships/game/cpu"
	"github.com/wricardo/battleships/game/engine"
	"github.com/wricardo/battleships/game/layout"
)

// Stats accumulates the results of simulated battles
type Stats struct {
	Games    int
	Shots    int
	MinShots int
	MaxShots int

	// Occupied counts, per cell, the battles whose target fleet covered it
	Occupied [engine.BoardSize][engine.BoardSize]int
}

// Add records one finished battle against board
func (s *Stats) Add(shots int, board *engine.Board) {
	if s.Games == 0 || shots < s.MinShots {
		s.MinShots = shots
	}
	if shots > s.MaxShots {
		s.MaxShots = shots
	}
	s.Games++
	s.Shots += shots

	for _, ship := range board.Ships() {
		for _, c := range ship.Footprint() {
			s.Occupied[c.Row][c.Col]++
		}
	}
}

// Average returns the mean number of shots per battle
func (s *Stats) Average() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Shots) / float64(s.Games)
}

// Options controls a simulation run
type Options struct {
	Games int
	Seed  int64

	// Layout, when set, is used as the target fleet in every battle
	Layout *layout.Layout
}

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "simulate cpu battles and report shot statistics",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "games", Value: 1000, Usage: "number of battles to simulate"},
			&cli.Int64Flag{Name: "seed", Value: 1, Usage: "seed for placement and targeting"},
			&cli.StringFlag{Name: "layout", Usage: "layout file to use as the target fleet"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts := Options{
				Games: cmd.Int("games"),
				Seed:  cmd.Int64("seed"),
			}
			if path := cmd.String("layout"); path != "" {
				l, err := layout.Load(path)
				if err != nil {
					return err
				}
				opts.Layout = l
			}

			stats, err := Simulate(ctx, opts)
			if err != nil {
				return err
			}
			Report(os.Stdout, opts, stats)
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// Simulate plays opts.Games battles. The shooter and the placer use
// separate streams derived from opts.Seed so the same seed reproduces the
// same run.
func Simulate(ctx context.Context, opts Options) (*Stats, error) {
	if opts.Games <= 0 {
		return nil, fmt.Errorf("games must be positive, got %d", opts.Games)
	}

	placer := cpu.New(opts.Seed)
	shooter := cpu.New(opts.Seed + 1)
	stats := &Stats{}

	for i := 0; i < opts.Games; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		target := engine.NewPlayer()
		if opts.Layout != nil {
			if err := opts.Layout.Apply(target.Board()); err != nil {
				return nil, err
			}
		} else if err := placer.PlaceFleet(target.Board(), engine.StandardFleet); err != nil {
			return nil, err
		}

		shots, err := battle(shooter, target)
		if err != nil {
			return nil, fmt.Errorf("battle %d: %w", i+1, err)
		}
		stats.Add(shots, target.Board())
	}

	return stats, nil
}

// battle lets the shooter fire until the target's fleet is sunk and
// returns the number of shots
func battle(shooter *cpu.Opponent, target *engine.Player) (int, error) {
	shots := 0
	for target.Board().HasShips() {
		if _, _, err := shooter.SendAttack(target); err != nil {
			return shots, err
		}
		shots++
	}
	return shots, nil
}

// Report prints the statistics and the placement heatmap
func Report(w io.Writer, opts Options, stats *Stats) {
	fleet := "random fleets"
	if opts.Layout != nil {
		fleet = fmt.Sprintf("layout %q", opts.Layout.Name)
	}

	fmt.Fprintf(w, "=== %d battles against %s (seed %d) ===\n", stats.Games, fleet, opts.Seed)
	fmt.Fprintf(w, "Average shots: %.1f\n", stats.Average())
	fmt.Fprintf(w, "Fewest shots:  %d\n", stats.MinShots)
	fmt.Fprintf(w, "Most shots:    %d\n", stats.MaxShots)

	cells := engine.BoardSize * engine.BoardSize
	if stats.MaxShots == cells {
		fmt.Fprintf(w, "⚠️  At least one battle needed every cell on the board\n")
	}

	fmt.Fprintf(w, "\nShip occupancy (0-9, 9 = most often occupied)\n")
	fmt.Fprint(w, Heatmap(stats))
}

// Heatmap renders stats.Occupied scaled to single digits, with the same
// row and column headers as a board view
func Heatmap(stats *Stats) string {
	peak := 0
	for _, row := range stats.Occupied {
		for _, n := range row {
			peak = max(peak, n)
		}
	}

	var sb strings.Builder
	sb.WriteString("  ")
	for col := 0; col < engine.BoardSize; col++ {
		fmt.Fprintf(&sb, "%d", col)
	}
	sb.WriteByte('\n')

	for row, counts := range stats.Occupied {
		fmt.Fprintf(&sb, "%d ", row)
		for _, n := range counts {
			level := 0
			if peak > 0 {
				level = n * 9 / peak
			}
			fmt.Fprintf(&sb, "%d", level)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
