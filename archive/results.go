package archive

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const resultsTable = "game_results"

// endedAtLayout has fixed width so text order matches time order.
const endedAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Result is how a game ended for the agent: "won", "lost" or "draw".
type Result struct {
	GameID  string    `json:"game_id"`
	Turns   int       `json:"turns"`
	Result  string    `json:"result"`
	Length  int       `json:"length"`
	EndedAt time.Time `json:"ended_at"`
}

// Results stores game outcomes in sqlite.
type Results struct {
	db *sql.DB
}

func OpenResults(path string) (*Results, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open results db: %w", err)
	}
	r := &Results{db: db}
	if err := r.createTable(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Results) createTable() error {
	const createTableSQL = `
	CREATE TABLE IF NOT EXISTS ` + resultsTable + ` (
		game_id TEXT PRIMARY KEY,
		turns INTEGER NOT NULL,
		result TEXT NOT NULL,
		length INTEGER NOT NULL,
		ended_at TEXT NOT NULL
	);`

	if _, err := r.db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to execute CREATE TABLE: %w", err)
	}
	return nil
}

// Record stores res, replacing an earlier result of the same game.
func (r *Results) Record(ctx context.Context, res Result) error {
	const upsertSQL = `
	INSERT INTO ` + resultsTable + ` (game_id, turns, result, length, ended_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(game_id) DO UPDATE SET
		turns = excluded.turns,
		result = excluded.result,
		length = excluded.length,
		ended_at = excluded.ended_at;`

	endedAt := res.EndedAt.UTC().Format(endedAtLayout)
	if _, err := r.db.ExecContext(ctx, upsertSQL, res.GameID, res.Turns, res.Result, res.Length, endedAt); err != nil {
		return fmt.Errorf("failed to record result for %s: %w", res.GameID, err)
	}
	return nil
}

// Recent returns up to limit results, newest first.
func (r *Results) Recent(ctx context.Context, limit int) ([]Result, error) {
	const selectSQL = `
	SELECT game_id, turns, result, length, ended_at
	FROM ` + resultsTable + `
	ORDER BY ended_at DESC, game_id
	LIMIT ?;`

	rows, err := r.db.QueryContext(ctx, selectSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var res Result
		var endedAt string
		if err := rows.Scan(&res.GameID, &res.Turns, &res.Result, &res.Length, &endedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if res.EndedAt, err = time.Parse(endedAtLayout, endedAt); err != nil {
			return nil, fmt.Errorf("result %s: bad ended_at %q: %w", res.GameID, endedAt, err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return results, nil
}

func (r *Results) Close() error {
	return r.db.Close()
}
