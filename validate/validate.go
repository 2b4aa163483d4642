// Command validate checks the fleet layout files in a directory (../layouts
// by default, or the first argument). A layout is reported valid when it
// parses, names itself, holds exactly the standard fleet and every ship
// fits on an empty board without touching another.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/battleships/game/engine"
	"github.com/wricardo/battleships/game/layout"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Messages holds informational lines; otherwise it
// holds the validation errors that were found.
type ValidationResult struct {
	File     string
	Valid    bool
	Messages []string
}

// validateLayout loads one layout file and, when it is valid, describes
// the fleet it places
func validateLayout(filePath string) ValidationResult {
	result := ValidationResult{
		File:     filepath.Base(filePath),
		Valid:    true,
		Messages: []string{},
	}

	l, err := layout.Load(filePath)
	if err != nil {
		result.Valid = false
		if errors.Is(err, layout.ErrInvalidLayout) {
			result.Messages = append(result.Messages, err.Error())
		} else {
			result.Messages = append(result.Messages, fmt.Sprintf("Failed to read file: %v", err))
		}
		return result
	}

	board := engine.NewBoard()
	if err := l.Apply(board); err != nil {
		result.Valid = false
		result.Messages = append(result.Messages, err.Error())
		return result
	}

	result.Messages = append(result.Messages, fmt.Sprintf("✓ Name: %s", l.Name))
	if l.Description != "" {
		result.Messages = append(result.Messages, fmt.Sprintf("✓ Description: %s", l.Description))
	}
	for _, p := range l.Ships {
		result.Messages = append(result.Messages, fmt.Sprintf("✓ %-10s %s", engine.ShipNames[p.Length], p))
	}
	result.Messages = append(result.Messages, fmt.Sprintf("✓ Edge cells: %d", edgeCells(board)))

	return result
}

// edgeCells counts ship cells on the outer ring of the board
func edgeCells(b *engine.Board) int {
	last := engine.BoardSize - 1
	count := 0
	for _, ship := range b.Ships() {
		for _, c := range ship.Footprint() {
			if c.Row == 0 || c.Col == 0 || c.Row == last || c.Col == last {
				count++
			}
		}
	}
	return count
}

// validateDir validates every *.json file in dir and writes a report.
// It returns false when any file is invalid or none were found.
func validateDir(w io.Writer, dir string) (bool, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return false, fmt.Errorf("error finding layout files: %w", err)
	}
	if len(files) == 0 {
		fmt.Fprintf(w, "No layout files in %s\n", dir)
		return false, nil
	}

	allValid := true
	for _, file := range files {
		result := validateLayout(file)

		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Messages {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, msg := range result.Messages {
				fmt.Fprintln(w, "  ❌ "+msg)
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All layouts are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some layouts have errors")
	}
	return allValid, nil
}

func main() {
	dir := "../layouts"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	ok, err := validateDir(os.Stdout, dir)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if !ok {
		os.Exit(1)
	}
}
