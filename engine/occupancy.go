package engine

import "github.com/tonobo/scoresnake/board"

// FreeNow marks a cell no snake occupies.
const FreeNow = 0

// Occupancy holds, per cell, the turn by which snake bodies have vacated it.
// A cell holding v can be entered by a move that lands at turn v or later,
// so a non-growing tail (v == 1) is safe to step on next move.
type Occupancy struct {
	*board.Grid[int]
}

// Forecast builds the occupancy grid for a snapshot. Segment i of a snake of
// length L frees after L-i turns; a snake whose head is next to food may
// grow this turn, which holds every one of its segments one turn longer.
// Stacked segments keep the latest vacate time.
func Forecast(s *board.Snapshot) *Occupancy {
	occ := &Occupancy{board.NewGrid(s.Width, s.Height, FreeNow)}
	for _, snake := range s.Snakes {
		growth := 0
		if s.CanEat(snake) {
			growth = 1
		}
		length := snake.Length()
		for i, c := range snake.Body {
			v := length - i + growth
			if v > occ.At(c) {
				occ.Set(c, v)
			}
		}
	}
	return occ
}

// FreeBy reports whether c is on the board and vacated by turn.
func (o *Occupancy) FreeBy(c board.Coord, turn int) bool {
	return o.In(c) && o.At(c) <= turn
}

// Blocked reports whether moving onto c next turn would hit a body or leave
// the board.
func (o *Occupancy) Blocked(c board.Coord) bool {
	return !o.FreeBy(c, 1)
}

// FreeNeighbors returns the neighbours of c that can be entered next turn,
// in selection order.
func (o *Occupancy) FreeNeighbors(c board.Coord) []board.Coord {
	free := make([]board.Coord, 0, 4)
	for _, n := range c.Neighbors() {
		if !o.Blocked(n) {
			free = append(free, n)
		}
	}
	return free
}
