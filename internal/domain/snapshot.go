package domain

import "time"

type PlayerView struct {
	Name   string       `json:"name"`
	Symbol string       `json:"symbol"`
	Moves  []Coordinate `json:"moves"`
}

// Snapshot is what spectators see of a game after each turn.
type Snapshot struct {
	GameID       string         `json:"gameId"`
	Players      []PlayerView   `json:"players"`
	Board        [][]string     `json:"board"`
	Rendered     string         `json:"rendered"`
	Status       GameStatus     `json:"status"`
	CurrentTurn  int            `json:"currentTurn"`
	Winner       string         `json:"winner,omitempty"`
	WinningCells []Coordinate   `json:"winningCells,omitempty"`
	MoveCount    int            `json:"moveCount"`
	LastMove     *Coordinate    `json:"lastMove,omitempty"`
	DeadLines    DeadLineCounts `json:"deadLines"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// LiveGame is the short listing of a game still in memory.
type LiveGame struct {
	GameID         string     `json:"gameId"`
	Player1        string     `json:"player1"`
	Player2        string     `json:"player2"`
	Status         GameStatus `json:"status"`
	MoveCount      int        `json:"moveCount"`
	SpectatorCount int        `json:"spectatorCount"`
	StartedAt      time.Time  `json:"startedAt"`
}

type MoveRecord struct {
	Number int    `json:"number"`
	Symbol string `json:"symbol"`
	Row    int    `json:"row"`
	Column int    `json:"column"`
}

// GameRecord is a finished game as it is stored.
type GameRecord struct {
	GameID          string       `json:"gameId"`
	Player1         string       `json:"player1"`
	Player2         string       `json:"player2"`
	Symbol1         string       `json:"symbol1"`
	Symbol2         string       `json:"symbol2"`
	Winner          string       `json:"winner,omitempty"`
	Reason          string       `json:"reason"`
	TotalMoves      int          `json:"totalMoves"`
	DurationSeconds int          `json:"durationSeconds"`
	CreatedAt       time.Time    `json:"createdAt"`
	FinishedAt      time.Time    `json:"finishedAt"`
	Board           [][]string   `json:"board,omitempty"`
	Moves           []MoveRecord `json:"moves,omitempty"`
}

// Snapshot builds the spectator view of g.
func (g *Game) Snapshot(gameID string) Snapshot {
	snap := Snapshot{
		GameID:      gameID,
		Board:       g.Board.Strings(),
		Rendered:    g.Board.Render(),
		Status:      g.Status,
		CurrentTurn: g.Current,
		MoveCount:   g.MoveCount,
		DeadLines:   g.Board.DeadLines(),
		UpdatedAt:   time.Now().UTC(),
	}
	for _, p := range g.Players {
		moves := make([]Coordinate, len(p.Moves))
		copy(moves, p.Moves)
		snap.Players = append(snap.Players, PlayerView{Name: p.Name, Symbol: string(p.Symbol), Moves: moves})
	}
	if g.LastMove != nil {
		last := *g.LastMove
		snap.LastMove = &last
	}
	if g.Winner >= 0 {
		snap.Winner = g.Players[g.Winner].Name
		snap.WinningCells = g.WinningCells()
	}
	return snap
}

// MoveLog interleaves both players' histories back into play order.
// Player 1 always moves first.
func (g *Game) MoveLog() []MoveRecord {
	var log []MoveRecord
	var idx [2]int
	turn := 0
	for idx[0] < len(g.Players[0].Moves) || idx[1] < len(g.Players[1].Moves) {
		p := g.Players[turn]
		if idx[turn] < len(p.Moves) {
			c := p.Moves[idx[turn]]
			idx[turn]++
			log = append(log, MoveRecord{
				Number: len(log) + 1,
				Symbol: string(p.Symbol),
				Row:    c.Row,
				Column: c.Column,
			})
		}
		turn = 1 - turn
	}
	return log
}
