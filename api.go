package main

import (
	"github.com/go-kit/log"
	"github.com/tonobo/scoresnake/board"
)

// Request is the body of /start, /move and /end.
type Request struct {
	Game  Game        `json:"game"`
	Turn  int         `json:"turn"`
	Board Board       `json:"board"`
	You   Battlesnake `json:"you"`
}

type Game struct {
	ID      string  `json:"id"`
	Ruleset Ruleset `json:"ruleset"`
	Map     string  `json:"map"`
	Timeout int     `json:"timeout"`
	Source  string  `json:"source"`
}

type Ruleset struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type Board struct {
	Height  int           `json:"height"`
	Width   int           `json:"width"`
	Food    []Coord       `json:"food"`
	Hazards []Coord       `json:"hazards"`
	Snakes  []Battlesnake `json:"snakes"`
}

type Battlesnake struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Health  int     `json:"health"`
	Body    []Coord `json:"body"`
	Head    Coord   `json:"head"`
	Length  int     `json:"length"`
	Latency string  `json:"latency"`
	Shout   string  `json:"shout"`
}

type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type InfoResponse struct {
	APIVersion string `json:"apiversion"`
	Author     string `json:"author"`
	Color      string `json:"color"`
	Head       string `json:"head"`
	Tail       string `json:"tail"`
	Version    string `json:"version"`
}

type MoveResponse struct {
	Move  string `json:"move"`
	Shout string `json:"shout,omitempty"`
}

// Snapshot converts the request into the engine's view of the turn.
func (r *Request) Snapshot() *board.Snapshot {
	s := &board.Snapshot{
		Width:   r.Board.Width,
		Height:  r.Board.Height,
		Food:    coords(r.Board.Food),
		Hazards: coords(r.Board.Hazards),
		YouID:   r.You.ID,
	}
	for _, bs := range r.Board.Snakes {
		s.Snakes = append(s.Snakes, board.Snake{
			ID:     bs.ID,
			Name:   bs.Name,
			Health: bs.Health,
			Body:   coords(bs.Body),
		})
	}
	return s
}

// Logger tags logger with the game and turn of the request.
func (r *Request) Logger(logger log.Logger) log.Logger {
	return log.With(logger, "game", r.Game.ID, "turn", r.Turn)
}

// Outcome is "won" when we are still on the board at the end, "draw" when
// nobody is, "lost" otherwise.
func (r *Request) Outcome() string {
	for _, snake := range r.Board.Snakes {
		if snake.ID == r.You.ID {
			return "won"
		}
	}
	if len(r.Board.Snakes) == 0 {
		return "draw"
	}
	return "lost"
}

func coords(cs []Coord) []board.Coord {
	if len(cs) == 0 {
		return nil
	}
	out := make([]board.Coord, len(cs))
	for i, c := range cs {
		out[i] = board.Coord{X: c.X, Y: c.Y}
	}
	return out
}
