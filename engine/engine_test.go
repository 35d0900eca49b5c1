package engine

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/tonobo/scoresnake/board"
)

func xy(x, y int) board.Coord {
	return board.Coord{X: x, Y: y}
}

func snake(id string, health int, body ...board.Coord) board.Snake {
	return board.Snake{ID: id, Health: health, Body: body}
}

// newSnapshot builds a snapshot whose agent is the first snake.
func newSnapshot(width, height int, food []board.Coord, snakes ...board.Snake) *board.Snapshot {
	return &board.Snapshot{
		Width:  width,
		Height: height,
		Food:   food,
		Snakes: snakes,
		YouID:  snakes[0].ID,
	}
}

func emptyOccupancy(width, height int) *Occupancy {
	return &Occupancy{board.NewGrid(width, height, FreeNow)}
}

func containsCoord(cs []board.Coord, c board.Coord) bool {
	for _, have := range cs {
		if have == c {
			return true
		}
	}
	return false
}

func evaluate(t *testing.T, w Weights, s *board.Snapshot) *Decision {
	t.Helper()
	d, err := New(w, nil).Evaluate(s)
	if err != nil {
		t.Fatalf("evaluate: %v\n%s", err, s)
	}
	return d
}

func stageScores(t *testing.T, d *Decision, name string) Scores {
	t.Helper()
	for _, st := range d.Stages {
		if st.Name == name {
			return st.Scores
		}
	}
	t.Fatalf("no stage %q in %+v", name, d.Stages)
	return Scores{}
}

func TestStageOrder(t *testing.T) {
	d := evaluate(t, DefaultWeights(), newSnapshot(11, 11, []board.Coord{xy(1, 1)}, snake("me", 100, xy(5, 5), xy(5, 4), xy(5, 3))))
	var names []string
	for _, st := range d.Stages {
		names = append(names, st.Name)
	}
	if got := strings.Join(names, ","); got != "bounds,collision,cavity,edge,food" {
		t.Fatalf("stage order = %s", got)
	}
}

func TestWallAvoidance(t *testing.T) {
	w := DefaultWeights()
	s := newSnapshot(11, 11, nil, snake("me", 100, xy(0, 5), xy(0, 5), xy(0, 5)))
	d := evaluate(t, w, s)

	if d.Scores[board.Left] > w.Die/2 {
		t.Errorf("left into the wall scored %d\n%s", d.Scores[board.Left], s)
	}
	for _, dir := range []board.Direction{board.Up, board.Down, board.Right} {
		if d.Scores[dir] <= w.Die/2 {
			t.Errorf("%v marked lethal: %d\n%s", dir, d.Scores[dir], s)
		}
	}
	if d.Move != board.Right {
		t.Errorf("move = %v, want right (away from the wall)\n%s", d.Move, d)
	}
}

func TestHeadToHeadDuel(t *testing.T) {
	w := DefaultWeights()
	me := snake("me", 100, xy(5, 5), xy(4, 5), xy(3, 5))

	longer := snake("long", 100, xy(5, 7), xy(5, 8), xy(5, 9), xy(6, 9), xy(7, 9))
	s := newSnapshot(11, 11, nil, me, longer)
	d := evaluate(t, w, s)
	collision := stageScores(t, d, "collision")
	if collision[board.Up] != w.LosingDuel {
		t.Errorf("losing duel: up collision score = %d, want %d\n%s", collision[board.Up], w.LosingDuel, s)
	}
	if collision[board.Left] != w.Die {
		t.Errorf("own neck: left collision score = %d, want %d", collision[board.Left], w.Die)
	}
	if d.Move == board.Up {
		t.Errorf("moved into a losing duel\n%s", d)
	}

	shorter := snake("short", 100, xy(5, 7), xy(5, 8))
	s = newSnapshot(11, 11, nil, me, shorter)
	d = evaluate(t, w, s)
	if got := stageScores(t, d, "collision")[board.Up]; got != w.WinningDuel {
		t.Errorf("winning duel: up collision score = %d, want %d\n%s", got, w.WinningDuel, s)
	}

	equal := snake("equal", 100, xy(5, 7), xy(5, 8), xy(5, 9))
	s = newSnapshot(11, 11, nil, me, equal)
	d = evaluate(t, w, s)
	if got := stageScores(t, d, "collision")[board.Up]; got != w.LosingDuel {
		t.Errorf("equal length duel: up collision score = %d, want %d", got, w.LosingDuel)
	}
}

func TestFoodUrgencyAtLowHealth(t *testing.T) {
	w := DefaultWeights()
	w.WinningDuel = 20

	build := func(health int) *board.Snapshot {
		return newSnapshot(11, 11, []board.Coord{xy(3, 5)},
			snake("me", health, xy(5, 5), xy(5, 4), xy(5, 3)),
			snake("prey", 100, xy(7, 5), xy(8, 5)),
		)
	}

	full := evaluate(t, w, build(100))
	if got := stageScores(t, full, "food")[board.Left]; got != w.Food {
		t.Errorf("full health food score = %d, want %d", got, w.Food)
	}
	if full.Move != board.Right {
		t.Errorf("full health move = %v, want right (duel bonus beats food)\n%s", full.Move, full)
	}

	hungry := evaluate(t, w, build(w.LowHealth))
	if got := stageScores(t, hungry, "food")[board.Left]; got != w.Food*w.LowHealthFoodMultiplier {
		t.Errorf("low health food score = %d, want %d", got, w.Food*w.LowHealthFoodMultiplier)
	}
	if hungry.Move != board.Left {
		t.Errorf("low health move = %v, want left (towards food)\n%s", hungry.Move, hungry)
	}
}

func TestSelfTrapAvoidance(t *testing.T) {
	w := DefaultWeights()
	// Left leads into the corner pocket closed off by our own body.
	s := newSnapshot(7, 7, nil, snake("me", 100, xy(1, 0), xy(1, 1), xy(0, 1), xy(0, 2), xy(0, 3)))
	d := evaluate(t, w, s)

	if d.CavitySizes[board.Left] != 1 {
		t.Errorf("pocket cavity = %d, want 1\n%s", d.CavitySizes[board.Left], s)
	}
	cavity := stageScores(t, d, "cavity")
	if cavity[board.Left] != 0 || cavity[board.Right] != w.LargeCavity {
		t.Errorf("cavity stage = %v\n%s", cavity, s)
	}
	if d.Scores[board.Right] <= d.Scores[board.Left] || d.Move != board.Right {
		t.Errorf("move = %v with %v, want right\n%s", d.Move, d.Scores, s)
	}
}

func TestCavityFallback(t *testing.T) {
	w := DefaultWeights()

	s := newSnapshot(5, 1, nil, snake("me", 100, xy(2, 0), xy(2, 0), xy(2, 0), xy(2, 0)))
	d := evaluate(t, w, s)
	cavity := stageScores(t, d, "cavity")
	if cavity[board.Left] != w.LargeCavity || cavity[board.Right] != w.LargeCavity {
		t.Errorf("tied small cavities should share the bonus: %v", cavity)
	}
	if d.Cavity != "largest cavity: left,right (2)" {
		t.Errorf("cavity note = %q", d.Cavity)
	}
	if d.Move != board.Right {
		t.Errorf("tie should go to the later direction, got %v", d.Move)
	}

	s = newSnapshot(6, 1, nil, snake("me", 100, xy(2, 0), xy(2, 0), xy(2, 0), xy(2, 0)))
	d = evaluate(t, w, s)
	cavity = stageScores(t, d, "cavity")
	if cavity[board.Left] != 0 || cavity[board.Right] != w.LargeCavity {
		t.Errorf("only the largest small cavity should score: %v", cavity)
	}
	if d.Cavity != "largest cavity: right (3)" {
		t.Errorf("cavity note = %q", d.Cavity)
	}
}

func TestNoLegalMoveStillMoves(t *testing.T) {
	w := DefaultWeights()
	s := newSnapshot(11, 11, nil, snake("me", 100, xy(0, 0), xy(1, 0), xy(1, 1), xy(0, 1), xy(0, 2)))
	d := evaluate(t, w, s)

	for _, dir := range board.Directions {
		if d.Scores[dir] > w.Die/2 {
			t.Errorf("%v not lethal: %d\n%s", dir, d.Scores[dir], s)
		}
	}
	if d.Move < board.Left || d.Move > board.Down {
		t.Fatalf("move %v is not a direction", d.Move)
	}
	if d.Cavity != "no free neighbour" {
		t.Errorf("cavity note = %q", d.Cavity)
	}
}

func TestEdgeCapture(t *testing.T) {
	w := DefaultWeights()
	s := newSnapshot(11, 11, nil,
		snake("me", 100, xy(1, 5), xy(2, 5), xy(3, 5)),
		snake("edge", 100, xy(0, 5), xy(0, 4), xy(0, 3)),
	)
	d := evaluate(t, w, s)

	collision := stageScores(t, d, "collision")
	if collision[board.Up] != w.Capturing {
		t.Errorf("capture bonus up = %d, want %d\n%s", collision[board.Up], w.Capturing, s)
	}
	if collision[board.Down] != 0 {
		t.Errorf("down should not get a capture bonus: %d", collision[board.Down])
	}
	if d.Move != board.Up {
		t.Errorf("move = %v, want up to cut off the escape\n%s", d.Move, d)
	}

	// Our head on the edge too: no capture.
	s = newSnapshot(11, 11, nil,
		snake("me", 100, xy(1, 0), xy(2, 0), xy(3, 0)),
		snake("edge", 100, xy(0, 0), xy(0, 1), xy(0, 2)),
	)
	d = evaluate(t, w, s)
	if got := stageScores(t, d, "collision")[board.Up]; got != 0 {
		t.Errorf("capture from the edge = %d, want 0", got)
	}
}

func TestGrowingTailIsLethal(t *testing.T) {
	w := DefaultWeights()
	me := snake("me", 100, xy(5, 5), xy(5, 4), xy(5, 3))
	other := snake("other", 100, xy(7, 7), xy(7, 6), xy(7, 5), xy(6, 5))

	d := evaluate(t, w, newSnapshot(11, 11, nil, me, other))
	if got := stageScores(t, d, "collision")[board.Right]; got != 0 {
		t.Errorf("moving onto a vacating tail scored %d", got)
	}

	s := newSnapshot(11, 11, []board.Coord{xy(7, 8)}, me, other)
	d = evaluate(t, w, s)
	if got := stageScores(t, d, "collision")[board.Right]; got != w.Die {
		t.Errorf("tail of a snake about to eat scored %d, want %d\n%s", got, w.Die, s)
	}
}

func TestFoodFollowsEveryShortestPath(t *testing.T) {
	w := DefaultWeights()
	me := snake("me", 100, xy(5, 5), xy(5, 4), xy(5, 3))

	tests := []struct {
		name string
		food []board.Coord
		want Scores
	}{
		{"diagonal", []board.Coord{xy(7, 7)}, Scores{board.Right: w.Food, board.Up: w.Food}},
		{"adjacent", []board.Coord{xy(4, 5)}, Scores{board.Left: w.Food}},
		{"tie goes to first listed", []board.Coord{xy(7, 5), xy(3, 5)}, Scores{board.Right: w.Food}},
		{"tie other order", []board.Coord{xy(3, 5), xy(7, 5)}, Scores{board.Left: w.Food}},
		{"nearest wins", []board.Coord{xy(9, 5), xy(5, 8)}, Scores{board.Up: w.Food}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSnapshot(11, 11, tt.food, me)
			d := evaluate(t, w, s)
			if got := stageScores(t, d, "food"); got != tt.want {
				t.Errorf("food stage = %v, want %v\n%s", got, tt.want, s)
			}
		})
	}
}

func TestUnreachableFood(t *testing.T) {
	// Food sealed off behind a coiled snake that never clears in time.
	coiled := snake("wall", 100)
	for i := 0; i < 20; i++ {
		coiled.Body = append(coiled.Body, xy(1, 0))
	}
	s := newSnapshot(3, 1, []board.Coord{xy(2, 0)}, snake("me", 100, xy(0, 0)), coiled)
	d := evaluate(t, DefaultWeights(), s)
	if got := stageScores(t, d, "food"); got != (Scores{}) {
		t.Errorf("unreachable food scored %v\n%s", got, s)
	}
	if d.Distances == nil || d.Distances.Reached(xy(2, 0)) {
		t.Errorf("food should be unreached")
	}
}

func TestEvaluateRejectsMalformedSnapshot(t *testing.T) {
	s := newSnapshot(11, 11, nil, snake("me", 100, xy(5, 5)))
	s.YouID = "someone else"
	if _, err := New(DefaultWeights(), nil).Evaluate(s); !errors.Is(err, board.ErrMissingAgent) {
		t.Errorf("err = %v, want ErrMissingAgent", err)
	}

	s = newSnapshot(0, 11, nil, snake("me", 100, xy(0, 0)))
	if _, err := Move(s); !errors.Is(err, board.ErrEmptyBoard) {
		t.Errorf("err = %v, want ErrEmptyBoard", err)
	}
}

func TestConcurrentEvaluations(t *testing.T) {
	e := New(DefaultWeights(), nil)
	snapshots := []*board.Snapshot{
		newSnapshot(11, 11, []board.Coord{xy(7, 7)}, snake("me", 100, xy(5, 5), xy(5, 4), xy(5, 3))),
		newSnapshot(7, 7, nil, snake("me", 100, xy(1, 0), xy(1, 1), xy(0, 1), xy(0, 2), xy(0, 3))),
		newSnapshot(19, 19, []board.Coord{xy(0, 0), xy(18, 18)}, snake("me", 20, xy(9, 9), xy(9, 9), xy(9, 9))),
	}
	want := make([]board.Direction, len(snapshots))
	for i, s := range snapshots {
		d, err := e.Move(s)
		if err != nil {
			t.Fatal(err)
		}
		want[i] = d
	}

	var wg sync.WaitGroup
	for round := 0; round < 8; round++ {
		for i, s := range snapshots {
			wg.Add(1)
			go func(i int, s *board.Snapshot) {
				defer wg.Done()
				if got, err := e.Move(s); err != nil || got != want[i] {
					t.Errorf("snapshot %d: got %v, %v; want %v", i, got, err, want[i])
				}
			}(i, s)
		}
	}
	wg.Wait()
}

func TestDecisionReport(t *testing.T) {
	d := evaluate(t, DefaultWeights(), newSnapshot(11, 11, []board.Coord{xy(7, 7)}, snake("me", 20, xy(5, 5), xy(5, 4), xy(5, 3))))
	out := d.String()
	for _, want := range []string{"move: " + d.Move.String(), "collision", "total", "large cavities: left,right,up", "low on health; searching food"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if ranked := d.Ranked(); ranked[0].Direction != d.Move {
		t.Errorf("ranked first %v, decision %v", ranked[0].Direction, d.Move)
	}
}

func TestRenderDistances(t *testing.T) {
	got := RenderDistances(MapDistances([]board.Coord{xy(0, 0)}, emptyOccupancy(3, 2), 0))
	if want := "\n010203\n000102\n"; got != want {
		t.Errorf("render = %q, want %q", got, want)
	}

	got = RenderDistances(MapDistances([]board.Coord{xy(0, 0)}, emptyOccupancy(20, 1), 0))
	if want := "\n00010203040506070809101112131415llllllll\n"; got != want {
		t.Errorf("render = %q, want %q", got, want)
	}

	occ := emptyOccupancy(3, 1)
	occ.Set(xy(1, 0), 5)
	got = RenderDistances(MapDistances([]board.Coord{xy(0, 0)}, occ, 0))
	if want := "\n00----\n"; got != want {
		t.Errorf("render = %q, want %q", got, want)
	}
}
