package board

import (
	"fmt"
	"strings"
)

// snakeLetters marks opponents in String, head upper case.
var snakeLetters = []string{"a", "b", "c", "d", "e", "g", "h", "j", "k"}

// String draws the board top row first. The agent is M/m, opponents take a
// letter each, food is F and hazards x.
func (s *Snapshot) String() string {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Sprintf("%dx%d you=%s\n", s.Width, s.Height, s.YouID)
	}
	cells := NewGrid(s.Width, s.Height, "-")
	for _, h := range s.Hazards {
		if s.In(h) {
			cells.Set(h, "x")
		}
	}
	for _, f := range s.Food {
		if s.In(f) {
			cells.Set(f, "F")
		}
	}
	other := 0
	for _, snake := range s.Snakes {
		mark := "m"
		if snake.ID != s.YouID {
			mark = snakeLetters[other%len(snakeLetters)]
			other++
		}
		for i := len(snake.Body) - 1; i >= 0; i-- {
			if !s.In(snake.Body[i]) {
				continue
			}
			if i == 0 {
				cells.Set(snake.Body[i], strings.ToUpper(mark))
			} else {
				cells.Set(snake.Body[i], mark)
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%dx%d you=%s\n", s.Width, s.Height, s.YouID)
	for y := s.Height - 1; y >= 0; y-- {
		for x := 0; x < s.Width; x++ {
			b.WriteString(cells.At(Coord{X: x, Y: y}))
		}
		b.WriteString("\n")
	}
	return b.String()
}
