package engine

import (
	"math"

	"github.com/tonobo/scoresnake/board"
)

// Unreached is the distance of cells the search never got to.
const Unreached = math.MaxInt32

type distanceCell struct {
	dist  int
	preds []board.Coord
}

// Distances is a breadth-first distance map. Every reached cell keeps all
// neighbours one step closer to an origin, so every shortest path can be
// walked back, not just the first one found.
type Distances struct {
	grid *board.Grid[distanceCell]
}

// MapDistances runs a multi-source breadth-first search from origins. A cell
// first reached at distance d is entered only if its forecast is cleared by
// departure+d. Origins outside the board are ignored.
func MapDistances(origins []board.Coord, occ *Occupancy, departure int) *Distances {
	grid := board.NewGrid(occ.Width, occ.Height, distanceCell{dist: Unreached})

	// A cell has at most four predecessors; carve every set out of one array.
	backing := make([]board.Coord, 4*occ.Width*occ.Height)
	i := 0
	grid.Each(func(_ board.Coord, cell *distanceCell) {
		cell.preds = backing[i : i : i+4]
		i += 4
	})

	queue := make([]board.Coord, 0, occ.Width*occ.Height)
	for _, o := range origins {
		if !grid.In(o) {
			continue
		}
		cell := grid.Ptr(o)
		if cell.dist == 0 {
			continue
		}
		cell.dist = 0
		queue = append(queue, o)
	}

	for next := 0; next < len(queue); next++ {
		cur := queue[next]
		d := grid.At(cur).dist + 1
		for _, n := range cur.Neighbors() {
			if !occ.FreeBy(n, departure+d) {
				continue
			}
			cell := grid.Ptr(n)
			switch {
			case d < cell.dist:
				cell.dist = d
				cell.preds = append(cell.preds[:0], cur)
				queue = append(queue, n)
			case d == cell.dist:
				cell.preds = appendUnique(cell.preds, cur)
			}
		}
	}
	return &Distances{grid: grid}
}

func appendUnique(set []board.Coord, c board.Coord) []board.Coord {
	for _, have := range set {
		if have == c {
			return set
		}
	}
	return append(set, c)
}

func (d *Distances) Width() int  { return d.grid.Width }
func (d *Distances) Height() int { return d.grid.Height }

// At returns the distance to c, or Unreached.
func (d *Distances) At(c board.Coord) int {
	return d.grid.At(c).dist
}

func (d *Distances) Reached(c board.Coord) bool {
	return d.At(c) != Unreached
}

// Preds returns the cells one step closer to an origin on some shortest path
// to c. The slice must not be modified.
func (d *Distances) Preds(c board.Coord) []board.Coord {
	return d.grid.At(c).preds
}
