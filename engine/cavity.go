package engine

import "github.com/tonobo/scoresnake/board"

type cavityStep struct {
	c     board.Coord
	depth int
}

// CavitySize counts the cells reachable from start by a depth-first flood.
// start must be enterable next turn, otherwise the cavity is empty. A cell
// found from depth d joins the cavity if its forecast has cleared by d+1.
func CavitySize(start board.Coord, occ *Occupancy) int {
	if occ.Blocked(start) {
		return 0
	}

	queued := board.NewGrid(occ.Width, occ.Height, false)
	queued.Set(start, true)
	stack := []cavityStep{{c: start}}
	size := 0

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		size++

		depth := cur.depth + 1
		for _, n := range cur.c.Neighbors() {
			if !occ.FreeBy(n, depth) || queued.At(n) {
				continue
			}
			queued.Set(n, true)
			stack = append(stack, cavityStep{c: n, depth: depth})
		}
	}
	return size
}

// largeCavity reports whether a cavity leaves enough room for a snake of
// the given length.
func (w Weights) largeCavity(size, length int) bool {
	return size >= w.CavityFactor*length
}
