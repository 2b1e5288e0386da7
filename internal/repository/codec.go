// Package repository holds what the postgres and sqlite history stores share.
package repository

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iamasit07/connect4/internal/domain"
)

var ErrNotFound = errors.New("game not found")

// EncodeGame serializes the board and move list of a record.
func EncodeGame(record *domain.GameRecord) (board []byte, moves []byte, err error) {
	board, err = json.Marshal(record.Board)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal board state: %w", err)
	}
	moves, err = json.Marshal(record.Moves)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal moves: %w", err)
	}
	return board, moves, nil
}

// DecodeGame fills the board and moves of record. Missing columns decode
// to an empty board.
func DecodeGame(record *domain.GameRecord, board []byte, moves []byte) error {
	if len(board) > 0 && string(board) != "null" {
		if err := json.Unmarshal(board, &record.Board); err != nil {
			return fmt.Errorf("failed to unmarshal board state: %w", err)
		}
	} else {
		record.Board = domain.NewBoard().Strings()
	}
	if len(moves) > 0 && string(moves) != "null" {
		if err := json.Unmarshal(moves, &record.Moves); err != nil {
			return fmt.Errorf("failed to unmarshal moves: %w", err)
		}
	}
	return nil
}
