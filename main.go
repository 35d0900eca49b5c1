package main // import "github.com/tonobo/scoresnake"

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/mattn/go-isatty"
	"github.com/tonobo/scoresnake/archive"
	"github.com/tonobo/scoresnake/engine"
	"github.com/tonobo/scoresnake/logging"
)

var version = "dev"

var (
	listen     = flag.String("listen", defaultListen(), "HTTP listen address")
	weights    = flag.String("weights", "", "YAML file overriding the scoring weights")
	archiveDir = flag.String("archive-dir", "", "directory for per-game parquet archives, empty disables")
	archiveTTL = flag.Duration("archive-stale", archive.DefaultStaleAfter, "drop buffered turns of games idle this long")
	resultsDB  = flag.String("results-db", "", "sqlite file for game results, empty disables")
	debug      = flag.Bool("debug", false, "log per-direction heuristics")
	move       = flag.Bool("move", false, "read one move request from stdin, print the decision and exit")

	author = flag.String("author", "tonobo", "author shown in the snake info")
	color  = flag.String("color", "#e04a01", "snake color")
	head   = flag.String("head", "viper", "snake head")
	tail   = flag.String("tail", "flame", "snake tail")
)

func defaultListen() string {
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return ":8080"
}

func main() {
	flag.Parse()
	logger := logging.New(os.Stderr, *debug)
	logging.SetGlobal(logger)

	w := engine.DefaultWeights()
	if *weights != "" {
		var err error
		if w, err = engine.LoadWeights(*weights); err != nil {
			fatal(logger, err)
		}
	}
	e := engine.New(w, log.With(logger, "component", "engine"))

	if *move {
		if err := moveOnce(e, os.Stdin, os.Stdout, isatty.IsTerminal(os.Stdout.Fd())); err != nil {
			fatal(logger, err)
		}
		return
	}

	srv := &Server{
		Engine: e,
		Info: InfoResponse{
			APIVersion: "1",
			Author:     *author,
			Color:      *color,
			Head:       *head,
			Tail:       *tail,
			Version:    version,
		},
	}
	if *archiveDir != "" {
		srv.Recorder = archive.NewRecorder(*archiveDir, *archiveTTL)
	}
	if *resultsDB != "" {
		results, err := archive.OpenResults(*resultsDB)
		if err != nil {
			fatal(logger, err)
		}
		defer results.Close()
		srv.Results = results
	}

	if !*debug {
		gin.SetMode(gin.ReleaseMode)
	}
	_ = level.Info(logger).Log("msg", "listening", "addr", *listen, "archive", *archiveDir, "results", *resultsDB)
	if err := srv.Router().Run(*listen); err != nil {
		_ = level.Error(logger).Log("msg", "server stopped", "err", err)
	}
}

// moveOnce evaluates a single request. A terminal gets the board and the
// full breakdown, a pipe only the move.
func moveOnce(e *engine.Engine, in io.Reader, out io.Writer, verbose bool) error {
	var req Request
	if err := json.NewDecoder(in).Decode(&req); err != nil {
		return fmt.Errorf("decode move request: %w", err)
	}
	snap := req.Snapshot()
	d, err := e.Evaluate(snap)
	if err != nil {
		return err
	}
	if verbose {
		fmt.Fprint(out, snap)
		fmt.Fprint(out, d)
		return nil
	}
	fmt.Fprintln(out, d.Move)
	return nil
}

func fatal(logger log.Logger, err error) {
	_ = level.Error(logger).Log("err", err)
	os.Exit(1)
}
