package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iamasit07/connect4/internal/domain"
	"github.com/iamasit07/connect4/internal/repository"
)

type GameRepo struct {
	DB *sql.DB
}

func NewGameRepo(db *sql.DB) *GameRepo {
	return &GameRepo{DB: db}
}

const selectGame = `
	SELECT game_id, player1_name, player2_name, player1_symbol, player2_symbol,
	       winner_name, reason, total_moves, duration_seconds,
	       created_at, finished_at, board_state, moves
	FROM game`

// SaveGame stores a finished game. Saving the same game twice overwrites
// the outcome.
func (r *GameRepo) SaveGame(ctx context.Context, record *domain.GameRecord) error {
	boardJSON, movesJSON, err := repository.EncodeGame(record)
	if err != nil {
		return err
	}

	query := `
	INSERT INTO game (game_id, player1_name, player2_name, player1_symbol, player2_symbol, winner_name, reason, total_moves, duration_seconds, created_at, finished_at, board_state, moves)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (game_id) DO UPDATE SET
		winner_name = EXCLUDED.winner_name,
		reason = EXCLUDED.reason,
		total_moves = EXCLUDED.total_moves,
		duration_seconds = EXCLUDED.duration_seconds,
		finished_at = EXCLUDED.finished_at,
		board_state = EXCLUDED.board_state,
		moves = EXCLUDED.moves;
	`

	_, err = r.DB.ExecContext(ctx, query,
		record.GameID, record.Player1, record.Player2, record.Symbol1, record.Symbol2,
		nullString(record.Winner), record.Reason, record.TotalMoves, record.DurationSeconds,
		record.CreatedAt, record.FinishedAt, boardJSON, movesJSON)
	if err != nil {
		return fmt.Errorf("failed to upsert game record: %w", err)
	}
	return nil
}

// GetGameByID returns repository.ErrNotFound for unknown ids.
func (r *GameRepo) GetGameByID(ctx context.Context, gameID string) (*domain.GameRecord, error) {
	row := r.DB.QueryRowContext(ctx, selectGame+` WHERE game_id = $1;`, gameID)

	record, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game by ID: %w", err)
	}
	return record, nil
}

// ListRecentGames returns up to limit games, most recently finished first.
// Board and moves are left out of the listing.
func (r *GameRepo) ListRecentGames(ctx context.Context, limit int) ([]domain.GameRecord, error) {
	rows, err := r.DB.QueryContext(ctx, selectGame+` ORDER BY finished_at DESC LIMIT $1;`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query game history: %w", err)
	}
	defer rows.Close()

	games := []domain.GameRecord{}
	for rows.Next() {
		record, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", err)
		}
		record.Board = nil
		record.Moves = nil
		games = append(games, *record)
	}
	return games, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGame(s scanner) (*domain.GameRecord, error) {
	var record domain.GameRecord
	var winner sql.NullString
	var boardJSON, movesJSON []byte

	err := s.Scan(
		&record.GameID,
		&record.Player1,
		&record.Player2,
		&record.Symbol1,
		&record.Symbol2,
		&winner,
		&record.Reason,
		&record.TotalMoves,
		&record.DurationSeconds,
		&record.CreatedAt,
		&record.FinishedAt,
		&boardJSON,
		&movesJSON,
	)
	if err != nil {
		return nil, err
	}

	if winner.Valid {
		record.Winner = winner.String
	}
	if err := repository.DecodeGame(&record, boardJSON, movesJSON); err != nil {
		return nil, err
	}
	return &record, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
