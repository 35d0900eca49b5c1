package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/tonobo/scoresnake/archive"
	"github.com/tonobo/scoresnake/engine"
	"github.com/tonobo/scoresnake/logging"
)

const defaultGamesLimit = 20

// Server answers the Battlesnake API. Recorder and Results are optional; a
// nil Logger logs to the process logger.
type Server struct {
	Engine   *engine.Engine
	Info     InfoResponse
	Recorder *archive.Recorder
	Results  *archive.Results
	Logger   log.Logger
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger()))

	r.GET("/", s.handleInfo)
	r.POST("/start", s.handleStart)
	r.POST("/move", s.handleMove)
	r.POST("/end", s.handleEnd)
	r.POST("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})
	r.GET("/games", s.handleGames)
	return r
}

func (s *Server) logger() log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return logging.GlobalLogger()
}

func requestLogger(logger log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		_ = level.Debug(logger).Log("msg", "request", "method", c.Request.Method, "path", c.Request.URL.Path,
			"status", c.Writer.Status(), "took_ms", time.Since(start).Milliseconds())
	}
}

func (s *Server) handleInfo(c *gin.Context) {
	c.JSON(http.StatusOK, s.Info)
}

func (s *Server) handleStart(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	_ = level.Info(req.Logger(s.logger())).Log("msg", "starting game", "width", req.Board.Width, "height", req.Board.Height, "snakes", len(req.Board.Snakes))
	c.JSON(http.StatusOK, gin.H{})
}

func (s *Server) handleMove(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	snap := req.Snapshot()
	d, err := s.Engine.Evaluate(snap)
	if err != nil {
		_ = level.Warn(req.Logger(s.logger())).Log("msg", "rejected move request", "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if s.Recorder != nil {
		if err := s.Recorder.Append(archive.NewTurnRow(req.Game.ID, req.Turn, snap, d, time.Since(start))); err != nil {
			_ = level.Warn(req.Logger(s.logger())).Log("msg", "turn not archived", "err", err)
		}
	}
	c.JSON(http.StatusOK, MoveResponse{Move: d.Move.String(), Shout: d.Cavity})
}

func (s *Server) handleEnd(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	logger := req.Logger(s.logger())
	result := req.Outcome()
	_ = level.Info(logger).Log("msg", "game ended", "result", result)

	if s.Recorder != nil {
		path, err := s.Recorder.Flush(req.Game.ID)
		if err != nil {
			_ = level.Error(logger).Log("msg", "archive failed", "err", err)
		} else if path != "" {
			_ = level.Info(logger).Log("msg", "archived game", "path", path)
		}
	}
	if s.Results != nil {
		res := archive.Result{
			GameID:  req.Game.ID,
			Turns:   req.Turn,
			Result:  result,
			Length:  len(req.You.Body),
			EndedAt: time.Now(),
		}
		if err := s.Results.Record(c.Request.Context(), res); err != nil {
			_ = level.Error(logger).Log("msg", "recording result failed", "err", err)
		}
	}
	c.JSON(http.StatusOK, gin.H{})
}

func (s *Server) handleGames(c *gin.Context) {
	if s.Results == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "results store disabled"})
		return
	}
	limit := defaultGamesLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	results, err := s.Results.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if results == nil {
		results = []archive.Result{}
	}
	c.JSON(http.StatusOK, results)
}
