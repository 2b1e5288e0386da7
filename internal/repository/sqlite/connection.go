package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS game (
    game_id          TEXT PRIMARY KEY,
    player1_name     TEXT NOT NULL,
    player2_name     TEXT NOT NULL,
    player1_symbol   TEXT NOT NULL,
    player2_symbol   TEXT NOT NULL,
    winner_name      TEXT,
    reason           TEXT NOT NULL,
    total_moves      INTEGER NOT NULL DEFAULT 0,
    duration_seconds INTEGER NOT NULL DEFAULT 0,
    created_at       TIMESTAMP NOT NULL,
    finished_at      TIMESTAMP NOT NULL,
    board_state      TEXT,
    moves            TEXT
);
CREATE INDEX IF NOT EXISTS idx_game_finished_at ON game (finished_at DESC);
`

// Open creates (if needed) and opens the sqlite file at path and applies
// the schema. Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	// one writer; also keeps ":memory:" on a single shared connection
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply sqlite schema: %w", err)
	}
	return db, nil
}
