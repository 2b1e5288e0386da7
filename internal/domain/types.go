package domain

import "fmt"

// Symbol is the token a player leaves in a cell. Only equality matters.
type Symbol string

// Empty marks a cell nobody has played yet.
const Empty Symbol = ""

const (
	Rows    = 6
	Columns = 7
	ToWin   = 4
)

// Coordinate is 1-based: row 1 is the top of the board, row 6 the bottom.
type Coordinate struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d, %d)", c.Row, c.Column)
}

// InBounds reports whether c lies on the grid.
func (c Coordinate) InBounds() bool {
	return c.Row >= 1 && c.Row <= Rows && c.Column >= 1 && c.Column <= Columns
}

// to represent the game status
type GameStatus string

const (
	StatusActive    GameStatus = "active"
	StatusWon       GameStatus = "won"
	StatusTied      GameStatus = "tied"
	StatusAbandoned GameStatus = "abandoned"
)

// reasons stored with finished games
const (
	ReasonConnectFour = "connect_four"
	ReasonTie         = "tie"
	ReasonAbandoned   = "abandoned"
)

// basic error that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrOutOfRange      Error = "column out of range"
	ErrColumnFull      Error = "column is full"
	ErrMalformedInput  Error = "malformed input"
	ErrGameFinished    Error = "game is already finished"
	ErrInvalidSymbol   Error = "symbol must not be empty"
	ErrDuplicateSymbol Error = "players must use different symbols"
	ErrInvalidPlayer   Error = "unknown player"
)

// MoveError carries the rejected column (or raw input) along with the reason.
type MoveError struct {
	Column int
	Input  string
	Err    error
}

func (e *MoveError) Error() string {
	if e.Input != "" {
		return fmt.Sprintf("invalid move %q: %v", e.Input, e.Err)
	}
	return fmt.Sprintf("invalid move in column %d: %v", e.Column, e.Err)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}
