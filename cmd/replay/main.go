// Command replay steps through an archived game and shows, turn by turn, the
// move that was sent next to what the engine decides now.
package main

import (
	"flag"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-kit/log/level"
	"github.com/tonobo/scoresnake/archive"
	"github.com/tonobo/scoresnake/engine"
	"github.com/tonobo/scoresnake/logging"
)

func main() {
	file := flag.String("file", "", "parquet archive of one game")
	weights := flag.String("weights", "", "YAML file overriding the scoring weights")
	flag.Parse()

	logger := logging.New(os.Stderr, false)
	if *file == "" {
		_ = level.Error(logger).Log("msg", "-file is required")
		os.Exit(2)
	}

	w := engine.DefaultWeights()
	if *weights != "" {
		var err error
		if w, err = engine.LoadWeights(*weights); err != nil {
			_ = level.Error(logger).Log("err", err)
			os.Exit(1)
		}
	}

	rows, err := archive.ReadTurns(*file)
	if err != nil {
		_ = level.Error(logger).Log("msg", "reading archive", "file", *file, "err", err)
		os.Exit(1)
	}

	m := newModel(filepath.Base(*file), rows, engine.New(w, nil))
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		_ = level.Error(logger).Log("err", err)
		os.Exit(1)
	}
}
