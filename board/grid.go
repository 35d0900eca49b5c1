package board

import "fmt"

// Grid is a width x height board of per-cell values, stored row-major.
// Indexing outside the board is a programming error and panics.
type Grid[T any] struct {
	Width  int
	Height int
	cells  []T
}

// NewGrid allocates a grid with every cell set to fill.
func NewGrid[T any](width, height int, fill T) *Grid[T] {
	g := &Grid[T]{
		Width:  width,
		Height: height,
		cells:  make([]T, width*height),
	}
	for i := range g.cells {
		g.cells[i] = fill
	}
	return g
}

func (g *Grid[T]) In(c Coord) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

func (g *Grid[T]) At(c Coord) T {
	return g.cells[g.index(c)]
}

func (g *Grid[T]) Set(c Coord, v T) {
	g.cells[g.index(c)] = v
}

// Ptr gives in-place access to a cell.
func (g *Grid[T]) Ptr(c Coord) *T {
	return &g.cells[g.index(c)]
}

// Each visits every cell, bottom row first.
func (g *Grid[T]) Each(fn func(c Coord, v *T)) {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			fn(Coord{X: x, Y: y}, &g.cells[y*g.Width+x])
		}
	}
}

func (g *Grid[T]) index(c Coord) int {
	if !g.In(c) {
		panic(fmt.Sprintf("board: %v outside %dx%d grid", c, g.Width, g.Height))
	}
	return c.Y*g.Width + c.X
}
