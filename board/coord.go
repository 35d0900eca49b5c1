package board

import (
	"fmt"
	"strings"

	"github.com/joonazan/vec2"
)

// Direction is one of the four moves a snake can make. The declaration order
// is significant: move selection walks directions in this order.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

// Directions lists every move in selection order.
var Directions = [...]Direction{Left, Right, Up, Down}

var (
	directionNames = [...]string{"left", "right", "up", "down"}

	// Battlesnake puts (0,0) bottom-left, so up increases y.
	direction2Vector = [...]vec2.Vector{
		Left:  {X: -1, Y: 0},
		Right: {X: 1, Y: 0},
		Up:    {X: 0, Y: 1},
		Down:  {X: 0, Y: -1},
	}
)

func (d Direction) String() string {
	if d < Left || d > Down {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// Vector returns the unit step of d.
func (d Direction) Vector() vec2.Vector {
	return direction2Vector[d]
}

// ParseDirection accepts the lower case wire tokens, case-insensitively.
func ParseDirection(s string) (Direction, error) {
	for _, d := range Directions {
		if strings.EqualFold(s, directionNames[d]) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// DirectionFromDelta maps a unit step to its direction. Anything that is not
// one of the four unit steps is rejected with ErrNotUnitStep.
func DirectionFromDelta(delta vec2.Vector) (Direction, error) {
	for _, d := range Directions {
		if direction2Vector[d] == delta {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: (%v,%v)", ErrNotUnitStep, delta.X, delta.Y)
}

// Coord is a zero based board position.
type Coord struct {
	X int
	Y int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

func (c Coord) Vec() vec2.Vector {
	return vec2.Vector{X: float64(c.X), Y: float64(c.Y)}
}

// Step returns the coordinate one move away in direction d.
func (c Coord) Step(d Direction) Coord {
	v := d.Vector()
	return Coord{X: c.X + int(v.X), Y: c.Y + int(v.Y)}
}

// Neighbors returns the four orthogonal neighbours in selection order,
// regardless of board bounds.
func (c Coord) Neighbors() [4]Coord {
	var n [4]Coord
	for i, d := range Directions {
		n[i] = c.Step(d)
	}
	return n
}

// DirectionTo resolves the move that takes c onto o.
func (c Coord) DirectionTo(o Coord) (Direction, error) {
	return DirectionFromDelta(o.Vec().Minus(c.Vec()))
}

// Distance is the manhattan distance between c and o.
func (c Coord) Distance(o Coord) int {
	return abs(c.X-o.X) + abs(c.Y-o.Y)
}

func (c Coord) Adjacent(o Coord) bool {
	return c.Distance(o) == 1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
