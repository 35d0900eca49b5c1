// Package archive keeps what the server saw and decided: one parquet file of
// turns per game, and a sqlite table of game results.
package archive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
	"github.com/tonobo/scoresnake/board"
	"github.com/tonobo/scoresnake/engine"
)

var ErrBadGameID = errors.New("game id cannot be used as a file name")

// TurnRow is one evaluated turn: the board as received and the engine's answer.
// Scores are ordered left, right, up, down.
type TurnRow struct {
	GameID string `parquet:"game_id,dict"`
	Turn   int32  `parquet:"turn"`
	Width  int32  `parquet:"width"`
	Height int32  `parquet:"height"`
	YouID  string `parquet:"you_id,dict"`

	FoodX []int32 `parquet:"food_x"`
	FoodY []int32 `parquet:"food_y"`

	HazardX []int32 `parquet:"hazard_x"`
	HazardY []int32 `parquet:"hazard_y"`

	Snakes []TurnSnake `parquet:"snakes"`

	Move       string  `parquet:"move,dict"`
	Scores     []int64 `parquet:"scores"`
	EvalMicros int64   `parquet:"eval_micros"`
}

type TurnSnake struct {
	ID     string `parquet:"id,dict"`
	Name   string `parquet:"name,dict"`
	Health int32  `parquet:"health"`

	BodyX []int32 `parquet:"body_x"`
	BodyY []int32 `parquet:"body_y"`
}

// NewTurnRow flattens a snapshot and the decision taken on it.
func NewTurnRow(gameID string, turn int, s *board.Snapshot, d *engine.Decision, took time.Duration) TurnRow {
	row := TurnRow{
		GameID:     gameID,
		Turn:       int32(turn),
		Width:      int32(s.Width),
		Height:     int32(s.Height),
		YouID:      s.YouID,
		Move:       d.Move.String(),
		EvalMicros: took.Microseconds(),
	}
	row.FoodX, row.FoodY = splitCoords(s.Food)
	row.HazardX, row.HazardY = splitCoords(s.Hazards)
	for _, sn := range s.Snakes {
		ts := TurnSnake{ID: sn.ID, Name: sn.Name, Health: int32(sn.Health)}
		ts.BodyX, ts.BodyY = splitCoords(sn.Body)
		row.Snakes = append(row.Snakes, ts)
	}
	for _, dir := range board.Directions {
		row.Scores = append(row.Scores, int64(d.Scores[dir]))
	}
	return row
}

// Snapshot rebuilds the board the turn was evaluated on.
func (r TurnRow) Snapshot() *board.Snapshot {
	s := &board.Snapshot{
		Width:   int(r.Width),
		Height:  int(r.Height),
		Food:    joinCoords(r.FoodX, r.FoodY),
		Hazards: joinCoords(r.HazardX, r.HazardY),
		YouID:   r.YouID,
	}
	for _, ts := range r.Snakes {
		s.Snakes = append(s.Snakes, board.Snake{
			ID:     ts.ID,
			Name:   ts.Name,
			Health: int(ts.Health),
			Body:   joinCoords(ts.BodyX, ts.BodyY),
		})
	}
	return s
}

// RecordedMove parses the move that was sent.
func (r TurnRow) RecordedMove() (board.Direction, error) {
	return board.ParseDirection(r.Move)
}

// RecordedScores returns the stored score vector, zero when absent.
func (r TurnRow) RecordedScores() engine.Scores {
	var s engine.Scores
	for i := 0; i < len(s) && i < len(r.Scores); i++ {
		s[i] = int(r.Scores[i])
	}
	return s
}

func splitCoords(cs []board.Coord) (xs, ys []int32) {
	for _, c := range cs {
		xs = append(xs, int32(c.X))
		ys = append(ys, int32(c.Y))
	}
	return xs, ys
}

func joinCoords(xs, ys []int32) []board.Coord {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	if n == 0 {
		return nil
	}
	cs := make([]board.Coord, n)
	for i := range cs {
		cs[i] = board.Coord{X: int(xs[i]), Y: int(ys[i])}
	}
	return cs
}

// DefaultStaleAfter is how long a game may go without a turn before its
// buffer is dropped.
const DefaultStaleAfter = 30 * time.Minute

// Recorder buffers turns per game until the game ends. Games that stop
// sending turns without ending are dropped once stale.
type Recorder struct {
	dir        string
	staleAfter time.Duration
	now        func() time.Time

	mu    sync.Mutex
	games map[string]*gameBuffer
}

type gameBuffer struct {
	rows    []TurnRow
	touched time.Time
}

// NewRecorder archives into dir. A non-positive staleAfter uses
// DefaultStaleAfter.
func NewRecorder(dir string, staleAfter time.Duration) *Recorder {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &Recorder{
		dir:        dir,
		staleAfter: staleAfter,
		now:        time.Now,
		games:      make(map[string]*gameBuffer),
	}
}

func validGameID(gameID string) error {
	if gameID == "" || strings.ContainsAny(gameID, `/\`) || strings.Contains(gameID, "..") {
		return fmt.Errorf("%w: %q", ErrBadGameID, gameID)
	}
	return nil
}

// Append buffers row under its game and drops stale games. Rows whose game
// id cannot name a file are rejected.
func (r *Recorder) Append(row TurnRow) error {
	if err := validGameID(row.GameID); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, g := range r.games {
		if id != row.GameID && now.Sub(g.touched) > r.staleAfter {
			delete(r.games, id)
		}
	}
	g, ok := r.games[row.GameID]
	if !ok {
		g = &gameBuffer{}
		r.games[row.GameID] = g
	}
	g.rows = append(g.rows, row)
	g.touched = now
	return nil
}

// Pending is the number of buffered turns for gameID.
func (r *Recorder) Pending(gameID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.games[gameID]; ok {
		return len(g.rows)
	}
	return 0
}

// Games is the number of games with buffered turns.
func (r *Recorder) Games() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.games)
}

// Flush writes the buffered turns of gameID to <dir>/<gameID>.parquet and
// drops the buffer. It returns "" when nothing was buffered.
func (r *Recorder) Flush(gameID string) (string, error) {
	r.mu.Lock()
	var rows []TurnRow
	if g, ok := r.games[gameID]; ok {
		rows = g.rows
	}
	delete(r.games, gameID)
	r.mu.Unlock()

	if err := validGameID(gameID); err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", nil
	}

	outPath := filepath.Join(r.dir, gameID+".parquet")
	if err := writeTurns(outPath, rows); err != nil {
		return "", fmt.Errorf("archive game %s: %w", gameID, err)
	}
	return outPath, nil
}

func writeTurns(outPath string, rows []TurnRow) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", "scoresnake_turn_v1"),
	); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}

// ReadTurns loads every turn of an archive file in the order written.
func ReadTurns(path string) ([]TurnRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := parquet.NewGenericReader[TurnRow](f)
	defer reader.Close()

	rows := make([]TurnRow, reader.NumRows())
	read := 0
	for read < len(rows) {
		n, err := reader.Read(rows[read:])
		read += n
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if n == 0 {
			break
		}
	}
	return rows[:read], nil
}
