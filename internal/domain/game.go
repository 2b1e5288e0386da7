package domain

import "strings"

type Player struct {
	Name   string
	Symbol Symbol
	// cells this player has played, oldest first
	Moves []Coordinate
}

type Game struct {
	Board     *Board
	Players   [2]*Player
	Current   int // index into Players
	Status    GameStatus
	Winner    int // index into Players, -1 while nobody won
	MoveCount int
	LastMove  *Coordinate
}

type MoveResult struct {
	Player     int        `json:"player"`
	Coordinate Coordinate `json:"coordinate"`
	Win        bool       `json:"win"`
	Tie        bool       `json:"tie"`
}

func NewGame(p1, p2 Player) (*Game, error) {
	p1.Symbol = Symbol(strings.TrimSpace(string(p1.Symbol)))
	p2.Symbol = Symbol(strings.TrimSpace(string(p2.Symbol)))

	if p1.Symbol == Empty || p2.Symbol == Empty {
		return nil, ErrInvalidSymbol
	}
	if p1.Symbol == p2.Symbol {
		return nil, ErrDuplicateSymbol
	}

	p1.Moves = nil
	p2.Moves = nil

	return &Game{
		Board:   NewBoard(),
		Players: [2]*Player{&p1, &p2},
		Current: 0,
		Status:  StatusActive,
		Winner:  -1,
	}, nil
}

func (g *Game) CurrentPlayer() *Player {
	return g.Players[g.Current]
}

// MakeMove plays column for the current player. Alignment is checked before
// a tie, so a move that does both is a win. A rejected move keeps the turn.
func (g *Game) MakeMove(column int) (MoveResult, error) {
	if g.IsFinished() {
		return MoveResult{}, &MoveError{Column: column, Err: ErrGameFinished}
	}

	player := g.CurrentPlayer()
	landing, err := g.Board.Drop(column, player.Symbol)
	if err != nil {
		return MoveResult{}, err
	}

	player.Moves = append(player.Moves, landing)
	g.MoveCount++
	g.LastMove = &landing

	result := MoveResult{Player: g.Current, Coordinate: landing}

	if g.Board.HasAlignment(player.Symbol, landing) {
		g.Status = StatusWon
		g.Winner = g.Current
		result.Win = true
		return result, nil
	}

	if g.Board.IsTied() {
		g.Status = StatusTied
		result.Tie = true
		return result, nil
	}

	g.Current = 1 - g.Current
	return result, nil
}

// MakeMoveInput parses a raw column token and plays it.
func (g *Game) MakeMoveInput(input string) (MoveResult, error) {
	if g.IsFinished() {
		return MoveResult{}, &MoveError{Input: input, Err: ErrGameFinished}
	}
	column, err := ParseColumn(input)
	if err != nil {
		return MoveResult{}, err
	}
	return g.MakeMove(column)
}

// Abandon ends an active game; the other player is recorded as the winner.
func (g *Game) Abandon(player int) error {
	if player != 0 && player != 1 {
		return ErrInvalidPlayer
	}
	if g.IsFinished() {
		return ErrGameFinished
	}
	g.Status = StatusAbandoned
	g.Winner = 1 - player
	return nil
}

func (g *Game) IsFinished() bool {
	return g.Status != StatusActive
}

// WinningCells returns the aligned cells of a won game.
func (g *Game) WinningCells() []Coordinate {
	if g.Status != StatusWon || g.LastMove == nil {
		return nil
	}
	return g.Board.WinningCells(g.Players[g.Winner].Symbol, *g.LastMove)
}
