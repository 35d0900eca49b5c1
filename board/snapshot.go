// Package board holds the per-turn view of a Battlesnake game: coordinates,
// directions, snakes and the board snapshot they live on.
//
// A Snapshot is rebuilt from every move request and never mutated while a
// turn is evaluated.
package board

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyBoard   = errors.New("board has no cells")
	ErrMissingAgent = errors.New("agent snake not on board")
	ErrEmptyBody    = errors.New("snake has no body")
	ErrOutOfBounds  = errors.New("coordinate outside board")
	ErrNotUnitStep  = errors.New("not a unit step")
)

// Snake is a body ordered head first. Length is the body length, which can
// exceed the number of distinct cells while segments are stacked.
type Snake struct {
	ID     string
	Name   string
	Health int
	Body   []Coord
}

func (s Snake) Head() Coord {
	return s.Body[0]
}

func (s Snake) Tail() Coord {
	return s.Body[len(s.Body)-1]
}

func (s Snake) Length() int {
	return len(s.Body)
}

// Snapshot is the immutable state of one turn. Food order is kept as sent,
// it decides ties between equally near food.
type Snapshot struct {
	Width   int
	Height  int
	Food    []Coord
	Hazards []Coord
	Snakes  []Snake
	YouID   string
}

// You returns the agent snake.
func (s *Snapshot) You() (Snake, bool) {
	for _, snake := range s.Snakes {
		if snake.ID == s.YouID {
			return snake, true
		}
	}
	return Snake{}, false
}

// Others returns every snake except the agent, in board order.
func (s *Snapshot) Others() []Snake {
	others := make([]Snake, 0, len(s.Snakes))
	for _, snake := range s.Snakes {
		if snake.ID != s.YouID {
			others = append(others, snake)
		}
	}
	return others
}

func (s *Snapshot) In(c Coord) bool {
	return c.X >= 0 && c.X < s.Width && c.Y >= 0 && c.Y < s.Height
}

// OnEdge reports whether c lies on the outermost ring of the board.
func (s *Snapshot) OnEdge(c Coord) bool {
	return c.X == 0 || c.X == s.Width-1 || c.Y == 0 || c.Y == s.Height-1
}

// InBoardNeighbors returns the neighbours of c that are on the board, in
// selection order.
func (s *Snapshot) InBoardNeighbors(c Coord) []Coord {
	neighbors := make([]Coord, 0, 4)
	for _, n := range c.Neighbors() {
		if s.In(n) {
			neighbors = append(neighbors, n)
		}
	}
	return neighbors
}

// CanEat reports whether snake's head is next to food, i.e. it may grow
// this turn.
func (s *Snapshot) CanEat(snake Snake) bool {
	head := snake.Head()
	for _, f := range s.Food {
		if head.Adjacent(f) {
			return true
		}
	}
	return false
}

// Validate checks the preconditions evaluation relies on.
func (s *Snapshot) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrEmptyBoard, s.Width, s.Height)
	}
	if _, ok := s.You(); !ok {
		return fmt.Errorf("%w: %q", ErrMissingAgent, s.YouID)
	}
	for _, snake := range s.Snakes {
		if len(snake.Body) == 0 {
			return fmt.Errorf("snake %q: %w", snake.ID, ErrEmptyBody)
		}
		for _, c := range snake.Body {
			if !s.In(c) {
				return fmt.Errorf("snake %q at %v: %w", snake.ID, c, ErrOutOfBounds)
			}
		}
	}
	for _, f := range s.Food {
		if !s.In(f) {
			return fmt.Errorf("food at %v: %w", f, ErrOutOfBounds)
		}
	}
	return nil
}
