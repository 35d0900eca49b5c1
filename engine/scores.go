package engine

import (
	"fmt"
	"sort"

	"github.com/tonobo/scoresnake/board"
)

// Scores holds one additive score per direction, indexed by board.Direction.
type Scores [4]int

func (s *Scores) Add(d board.Direction, points int) {
	s[d] += points
}

// Best picks the highest score. Directions are walked in selection order and
// a later direction wins a tie, so a fully tied vector yields Down.
func (s Scores) Best() board.Direction {
	best := board.Directions[0]
	top := s[best]
	for _, d := range board.Directions {
		if s[d] >= top {
			top = s[d]
			best = d
		}
	}
	return best
}

func (s Scores) String() string {
	return fmt.Sprintf("left=%d right=%d up=%d down=%d", s[board.Left], s[board.Right], s[board.Up], s[board.Down])
}

// StageScores is what a single scoring stage contributed.
type StageScores struct {
	Name   string
	Scores Scores
}

// Accumulator collects stage contributions into the shared score vector.
// Stages only ever add to it, in the order they run.
type Accumulator struct {
	head   board.Coord
	total  Scores
	stages []StageScores
}

func newAccumulator(head board.Coord) *Accumulator {
	return &Accumulator{head: head}
}

func (a *Accumulator) begin(stage string) {
	a.stages = append(a.stages, StageScores{Name: stage})
}

func (a *Accumulator) Add(d board.Direction, points int) {
	a.total.Add(d, points)
	if n := len(a.stages); n > 0 {
		a.stages[n-1].Scores.Add(d, points)
	}
}

// AddToward scores the move from the head onto cell. cell must be next to
// the head; anything else is a bug in the calling stage.
func (a *Accumulator) AddToward(cell board.Coord, points int) {
	d, err := a.head.DirectionTo(cell)
	if err != nil {
		panic(fmt.Sprintf("engine: scoring %v from head %v: %v", cell, a.head, err))
	}
	a.Add(d, points)
}

// AddAround scores every cell in cells that is next to the head.
func (a *Accumulator) AddAround(cells []board.Coord, points int) {
	for _, c := range cells {
		if a.head.Adjacent(c) {
			a.AddToward(c, points)
		}
	}
}

func (a *Accumulator) Total() Scores {
	return a.total
}

func (a *Accumulator) Stages() []StageScores {
	return append([]StageScores(nil), a.stages...)
}

// Option is one candidate move with its final score.
type Option struct {
	Direction board.Direction
	Score     int
	Target    board.Coord
}

type Options []Option

func (p Options) Len() int           { return len(p) }
func (p Options) Less(i, j int) bool {
	if p[i].Score != p[j].Score {
		return p[i].Score > p[j].Score
	}
	return p[i].Direction > p[j].Direction
}
func (p Options) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }

// rank orders the moves best first. Ties go to the later direction, as in
// Best, so the first option is always the chosen move.
func rank(head board.Coord, s Scores) Options {
	options := make(Options, 0, len(board.Directions))
	for _, d := range board.Directions {
		options = append(options, Option{Direction: d, Score: s[d], Target: head.Step(d)})
	}
	sort.Sort(options)
	return options
}
