// Package engine scores the four moves of a Battlesnake turn and picks one.
//
// Each turn is evaluated from scratch: the snapshot is turned into an
// occupancy forecast, then a fixed sequence of stages (bounds, collision,
// cavity, edge, food) adds points to a shared per-direction score vector,
// and the best direction wins. Nothing survives between turns, so one
// Engine can serve any number of games concurrently.
package engine

import (
	"fmt"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/tonobo/scoresnake/board"
)

type Engine struct {
	weights Weights
	logger  log.Logger
}

// New returns an engine using w. A nil logger discards output.
func New(w Weights, logger log.Logger) *Engine {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Engine{weights: w, logger: logger}
}

// Move evaluates s and returns the chosen direction.
func (e *Engine) Move(s *board.Snapshot) (board.Direction, error) {
	d, err := e.Evaluate(s)
	if err != nil {
		return 0, err
	}
	return d.Move, nil
}

// Evaluate runs the full scoring pipeline and returns the decision with its
// diagnostics. It fails only on a malformed snapshot; a turn where every
// move is lethal still yields a move.
func (e *Engine) Evaluate(s *board.Snapshot) (*Decision, error) {
	start := time.Now()
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	you, _ := s.You()

	t := &turn{
		snap: s,
		you:  you,
		head: you.Head(),
		occ:  Forecast(s),
		w:    e.weights,
	}
	acc := newAccumulator(t.head)
	for _, st := range pipeline {
		acc.begin(st.name)
		st.run(t, acc)
	}

	scores := acc.Total()
	d := &Decision{
		Move:        scores.Best(),
		Head:        t.head,
		Scores:      scores,
		Stages:      acc.Stages(),
		Cavity:      t.cavity,
		CavitySizes: t.cavitySizes,
		Notes:       t.notes,
		Distances:   t.dists,
	}

	for _, dir := range board.Directions {
		kv := []interface{}{"msg", "heuristics calculated", "dir", dir, "cavity", t.cavitySizes[dir]}
		for _, st := range d.Stages {
			kv = append(kv, st.Name, st.Scores[dir])
		}
		kv = append(kv, "final_score", scores[dir])
		_ = level.Debug(e.logger).Log(kv...)
	}
	_ = level.Info(e.logger).Log("msg", "making move", "move", d.Move, "score", scores[d.Move], "cavity", t.cavity, "took_ms", time.Since(start).Milliseconds())

	return d, nil
}

// Move evaluates s with the default weights.
func Move(s *board.Snapshot) (board.Direction, error) {
	return New(DefaultWeights(), nil).Move(s)
}
