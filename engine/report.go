package engine

import (
	"fmt"
	"strings"

	"github.com/tonobo/scoresnake/board"
)

// Decision is the outcome of one evaluation and the reasons behind it.
type Decision struct {
	Move   board.Direction
	Head   board.Coord
	Scores Scores
	// Stages lists each stage's contribution in the order they ran.
	Stages []StageScores

	Cavity      string
	CavitySizes [4]int
	Notes       []string

	// Distances is nil when there was no food to search for.
	Distances *Distances
}

// Ranked returns every move ordered best first.
func (d *Decision) Ranked() Options {
	return rank(d.Head, d.Scores)
}

func (d *Decision) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "move: %s (%d)\n", d.Move, d.Scores[d.Move])
	fmt.Fprintf(&b, "%-10s %9s %9s %9s %9s\n", "stage", "left", "right", "up", "down")
	for _, st := range d.Stages {
		writeScoreRow(&b, st.Name, st.Scores)
	}
	writeScoreRow(&b, "total", d.Scores)
	if d.Cavity != "" {
		fmt.Fprintf(&b, "%s\n", d.Cavity)
	}
	for _, n := range d.Notes {
		fmt.Fprintf(&b, "%s\n", n)
	}
	if d.Distances != nil {
		b.WriteString(RenderDistances(d.Distances))
	}
	return b.String()
}

func writeScoreRow(b *strings.Builder, name string, s Scores) {
	fmt.Fprintf(b, "%-10s %9d %9d %9d %9d\n", name, s[board.Left], s[board.Right], s[board.Up], s[board.Down])
}

// RenderDistances draws the distance map top row first, two characters per
// cell: "--" unreached, "ll" farther than 15, otherwise the distance.
func RenderDistances(d *Distances) string {
	var b strings.Builder
	b.WriteString("\n")
	for y := d.Height() - 1; y >= 0; y-- {
		for x := 0; x < d.Width(); x++ {
			dist := d.At(board.Coord{X: x, Y: y})
			switch {
			case dist == Unreached:
				b.WriteString("--")
			case dist > 15:
				b.WriteString("ll")
			default:
				fmt.Fprintf(&b, "%02d", dist)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
