package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tonobo/scoresnake/archive"
	"github.com/tonobo/scoresnake/board"
	"github.com/tonobo/scoresnake/engine"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	ownStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#e04a01")).Bold(true)
	opponentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	foodStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	hazardStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	diffStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// frame is one archived turn next to what the current weights decide.
type frame struct {
	row      archive.TurnRow
	snap     *board.Snapshot
	decision *engine.Decision
	err      error
}

type model struct {
	source string
	frames []frame
	index  int
}

func newModel(source string, rows []archive.TurnRow, e *engine.Engine) model {
	m := model{source: source}
	for _, row := range rows {
		f := frame{row: row, snap: row.Snapshot()}
		f.decision, f.err = e.Evaluate(f.snap)
		m.frames = append(m.frames, f)
	}
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "right", "l":
		if m.index < len(m.frames)-1 {
			m.index++
		}
	case "left", "h":
		if m.index > 0 {
			m.index--
		}
	case "home", "g":
		m.index = 0
	case "end", "G":
		if len(m.frames) > 0 {
			m.index = len(m.frames) - 1
		}
	}
	return m, nil
}

func (m model) View() string {
	if len(m.frames) == 0 {
		return fmt.Sprintf("%s: no turns archived\n", m.source)
	}
	f := m.frames[m.index]

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s  game %s  turn %d  (%d/%d)", m.source, f.row.GameID, f.row.Turn, m.index+1, len(m.frames))))
	b.WriteString("\n")
	b.WriteString(boardStyle.Render(colorBoard(f.snap)))
	b.WriteString("\n")

	if f.err != nil {
		fmt.Fprintf(&b, "recorded %s, re-evaluation failed: %v\n", f.row.Move, f.err)
	} else {
		replayed := f.decision.Move.String()
		if recorded, err := f.row.RecordedMove(); err != nil || recorded != f.decision.Move {
			replayed = diffStyle.Render(replayed)
		}
		fmt.Fprintf(&b, "recorded %s %v  replayed %s\n", f.row.Move, f.row.RecordedScores(), replayed)
		b.WriteString(f.decision.String())
	}
	b.WriteString(helpStyle.Render("←/h prev  →/l next  g first  G last  q quit"))
	b.WriteString("\n")
	return b.String()
}

// colorBoard styles the plain board drawing cell by cell.
func colorBoard(s *board.Snapshot) string {
	lines := strings.Split(strings.TrimRight(s.String(), "\n"), "\n")
	var b strings.Builder
	for i, line := range lines[1:] {
		if i > 0 {
			b.WriteString("\n")
		}
		for _, r := range line {
			b.WriteString(cellStyle(r).Render(string(r)))
		}
	}
	return b.String()
}

func cellStyle(r rune) lipgloss.Style {
	switch r {
	case 'M', 'm':
		return ownStyle
	case 'F':
		return foodStyle
	case 'x':
		return hazardStyle
	case '-':
		return emptyStyle
	default:
		return opponentStyle
	}
}
