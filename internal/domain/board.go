package domain

import "strings"

// Board owns every cell of the grid. Cells only ever go from Empty to a
// symbol, never back.
type Board struct {
	cells  [Rows][Columns]Symbol
	filled [Columns]bool // filled[c-1] iff cell (1, c) is occupied
	moves  int

	dead *DeadLineSet
	// tracked lines touched since the last tie evaluation
	pending map[LineID]struct{}
}

func NewBoard() *Board {
	return &Board{
		dead:    NewDeadLineSet(),
		pending: make(map[LineID]struct{}),
	}
}

// Cell returns the symbol at c, or Empty for empty and off-board cells.
func (b *Board) Cell(c Coordinate) Symbol {
	if !c.InBounds() {
		return Empty
	}
	return b.cells[c.Row-1][c.Column-1]
}

func (b *Board) IsColumnFull(column int) bool {
	if column < 1 || column > Columns {
		return false
	}
	return b.filled[column-1]
}

// FilledColumns lists the columns that have no empty cell left, ascending.
func (b *Board) FilledColumns() []int {
	var columns []int
	for c := 1; c <= Columns; c++ {
		if b.filled[c-1] {
			columns = append(columns, c)
		}
	}
	return columns
}

func (b *Board) IsFull() bool {
	for c := 0; c < Columns; c++ {
		if !b.filled[c] {
			return false
		}
	}
	return true
}

func (b *Board) MoveCount() int {
	return b.moves
}

// ValidateMove returns the cell a disk dropped in column would land on.
// It does not touch the board.
func (b *Board) ValidateMove(column int) (Coordinate, error) {
	if column < 1 || column > Columns {
		return Coordinate{}, &MoveError{Column: column, Err: ErrOutOfRange}
	}
	if b.filled[column-1] {
		return Coordinate{}, &MoveError{Column: column, Err: ErrColumnFull}
	}

	// disks fall to the lowest empty cell, so scan from the bottom row up
	for row := Rows; row >= 1; row-- {
		if b.cells[row-1][column-1] == Empty {
			return Coordinate{Row: row, Column: column}, nil
		}
	}

	// filled cache out of sync; treat as full rather than guess
	return Coordinate{}, &MoveError{Column: column, Err: ErrColumnFull}
}

// Drop validates and applies a move in one step.
func (b *Board) Drop(column int, symbol Symbol) (Coordinate, error) {
	if symbol == Empty {
		return Coordinate{}, &MoveError{Column: column, Err: ErrInvalidSymbol}
	}

	landing, err := b.ValidateMove(column)
	if err != nil {
		return Coordinate{}, err
	}

	b.apply(landing, symbol)
	return landing, nil
}

// apply is the only place a cell is written.
func (b *Board) apply(c Coordinate, symbol Symbol) {
	b.cells[c.Row-1][c.Column-1] = symbol
	b.moves++

	if c.Row == 1 {
		b.filled[c.Column-1] = true
	}

	for _, line := range LinesThrough(c) {
		if IsTracked(line.ID) {
			b.pending[line.ID] = struct{}{}
		}
	}
}

// Cells returns a deep copy of the grid, top row first.
func (b *Board) Cells() [][]Symbol {
	out := make([][]Symbol, Rows)
	for r := range out {
		out[r] = make([]Symbol, Columns)
		copy(out[r], b.cells[r][:])
	}
	return out
}

// Strings is Cells with symbols as plain strings, for storage and JSON.
func (b *Board) Strings() [][]string {
	out := make([][]string, Rows)
	for r := range out {
		out[r] = make([]string, Columns)
		for c := range out[r] {
			out[r][c] = string(b.cells[r][c])
		}
	}
	return out
}

// Render draws the board one row per line, top row first:
//
//	| [X] [ ] [O] [ ] [ ] [ ] [ ] |
func (b *Board) Render() string {
	var sb strings.Builder
	for r := 0; r < Rows; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("| ")
		for c := 0; c < Columns; c++ {
			sb.WriteByte('[')
			if s := b.cells[r][c]; s != Empty {
				sb.WriteString(string(s))
			} else {
				sb.WriteByte(' ')
			}
			sb.WriteString("] ")
		}
		sb.WriteByte('|')
	}
	return sb.String()
}
