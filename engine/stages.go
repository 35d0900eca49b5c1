package engine

import (
	"fmt"
	"strings"

	"github.com/tonobo/scoresnake/board"
)

// turn is the read-only input every stage sees, plus diagnostic side
// outputs. Stages exchange scores through the Accumulator only.
type turn struct {
	snap *board.Snapshot
	you  board.Snake
	head board.Coord
	occ  *Occupancy
	w    Weights

	cavity      string
	cavitySizes [4]int
	notes       []string
	dists       *Distances
}

// direction resolves the move from the head onto a neighbouring cell.
func (t *turn) direction(n board.Coord) board.Direction {
	d, err := t.head.DirectionTo(n)
	if err != nil {
		panic(fmt.Sprintf("engine: %v is not next to head %v: %v", n, t.head, err))
	}
	return d
}

func (t *turn) note(format string, args ...interface{}) {
	t.notes = append(t.notes, fmt.Sprintf(format, args...))
}

type stage struct {
	name string
	run  func(t *turn, acc *Accumulator)
}

// pipeline is the fixed scoring order.
var pipeline = []stage{
	{"bounds", scoreBounds},
	{"collision", scoreCollisions},
	{"cavity", scoreCavities},
	{"edge", scoreEdges},
	{"food", scoreFood},
}

func scoreBounds(t *turn, acc *Accumulator) {
	for _, d := range board.Directions {
		if !t.snap.In(t.head.Step(d)) {
			acc.Add(d, t.w.Die)
		}
	}
}

func scoreCollisions(t *turn, acc *Accumulator) {
	headOnEdge := t.snap.OnEdge(t.head)
	for _, snake := range t.snap.Snakes {
		markBody(t, acc, snake)
		if snake.ID == t.you.ID {
			continue
		}
		scoreDuel(t, acc, snake)
		if !headOnEdge {
			scoreCapture(t, acc, snake)
		}
	}
}

// markBody makes every move onto snake's body lethal, except onto a tail
// that moves away this turn.
func markBody(t *turn, acc *Accumulator, snake board.Snake) {
	vacating := snake.Length() - 1
	if t.snap.CanEat(snake) {
		vacating = -1
	}
	for _, d := range board.Directions {
		next := t.head.Step(d)
		for i, c := range snake.Body {
			if c == next && i != vacating {
				acc.Add(d, t.w.Die)
				break
			}
		}
	}
}

// scoreDuel rates the cells both heads can reach next turn. Equal or longer
// opponents win the head-on collision.
func scoreDuel(t *turn, acc *Accumulator, opponent board.Snake) {
	points := t.w.WinningDuel
	if opponent.Length() >= t.you.Length() {
		points = t.w.LosingDuel
	}
	for _, field := range opponent.Head().Neighbors() {
		if t.snap.In(field) && t.head.Adjacent(field) {
			acc.AddToward(field, points)
		}
	}
}

// scoreCapture rewards pinning an opponent running along the edge next to
// us: with a single way out, we close in on the cells around that exit.
func scoreCapture(t *turn, acc *Accumulator, opponent board.Snake) {
	head := opponent.Head()
	if !t.snap.OnEdge(head) || !t.head.Adjacent(head) {
		return
	}
	escapes := t.occ.FreeNeighbors(head)
	if len(escapes) != 1 {
		return
	}
	t.note("%s pinned on edge, escape %v", opponent.ID, escapes[0])
	acc.AddAround(t.occ.FreeNeighbors(escapes[0]), t.w.Capturing)
}

func scoreCavities(t *turn, acc *Accumulator) {
	neighbors := t.occ.FreeNeighbors(t.head)
	if len(neighbors) == 0 {
		t.cavity = "no free neighbour"
		return
	}

	sizes := make([]int, len(neighbors))
	largest := -1
	var large []string
	for i, n := range neighbors {
		sizes[i] = CavitySize(n, t.occ)
		d := t.direction(n)
		t.cavitySizes[d] = sizes[i]
		if t.w.largeCavity(sizes[i], t.you.Length()) {
			acc.AddToward(n, t.w.LargeCavity)
			large = append(large, d.String())
		}
		if sizes[i] > largest {
			largest = sizes[i]
		}
	}
	if len(large) > 0 {
		t.cavity = "large cavities: " + strings.Join(large, ",")
		return
	}

	// Nothing is roomy enough: take the least bad, ties share.
	var best []string
	for i, n := range neighbors {
		if sizes[i] == largest {
			acc.AddToward(n, t.w.LargeCavity)
			best = append(best, t.direction(n).String())
		}
	}
	t.cavity = fmt.Sprintf("largest cavity: %s (%d)", strings.Join(best, ","), largest)
}

func scoreEdges(t *turn, acc *Accumulator) {
	for _, n := range t.snap.InBoardNeighbors(t.head) {
		if t.snap.OnEdge(n) {
			acc.AddToward(n, t.w.Edge)
		}
	}
}

// scoreFood rewards every move that starts some shortest path to the
// nearest food.
func scoreFood(t *turn, acc *Accumulator) {
	if len(t.snap.Food) == 0 {
		return
	}
	t.dists = MapDistances([]board.Coord{t.head}, t.occ, 0)

	points := t.w.foodScore(t.you.Health)
	if t.you.Health <= t.w.LowHealth {
		t.note("low on health; searching food")
	}

	nearest, best := board.Coord{}, Unreached
	for _, f := range t.snap.Food {
		if d := t.dists.At(f); d > 0 && d < best {
			nearest, best = f, d
		}
	}
	if best == Unreached {
		t.note("no reachable food")
		return
	}
	if t.head.Adjacent(nearest) {
		acc.AddToward(nearest, points)
		return
	}

	seen := board.NewGrid(t.snap.Width, t.snap.Height, false)
	seen.Set(nearest, true)
	queue := []board.Coord{nearest}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if t.dists.At(cur) == 1 {
			acc.AddToward(cur, points)
			continue
		}
		for _, p := range t.dists.Preds(cur) {
			if !seen.At(p) {
				seen.Set(p, true)
				queue = append(queue, p)
			}
		}
	}
}
