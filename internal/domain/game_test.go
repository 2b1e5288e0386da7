package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGame(t *testing.T) *Game {
	t.Helper()
	g, err := NewGame(Player{Name: "Player 1", Symbol: "X"}, Player{Name: "Player 2", Symbol: "O"})
	require.NoError(t, err)
	return g
}

func TestNewGame_ValidatesSymbols(t *testing.T) {
	_, err := NewGame(Player{Symbol: "X"}, Player{Symbol: "  "})
	assert.ErrorIs(t, err, ErrInvalidSymbol)

	_, err = NewGame(Player{Symbol: "X"}, Player{Symbol: " X "})
	assert.ErrorIs(t, err, ErrDuplicateSymbol)

	g, err := NewGame(Player{Symbol: " # "}, Player{Symbol: "@"})
	require.NoError(t, err)
	assert.Equal(t, Symbol("#"), g.Players[0].Symbol)
	assert.Equal(t, StatusActive, g.Status)
	assert.Equal(t, -1, g.Winner)
}

func TestGame_AlternatesTurns(t *testing.T) {
	g := newTestGame(t)

	res, err := g.MakeMove(1)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Player)
	assert.Equal(t, 1, g.Current)

	res, err = g.MakeMove(1)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Player)
	assert.Equal(t, Coordinate{Row: 5, Column: 1}, res.Coordinate)
	assert.Equal(t, 0, g.Current)

	assert.Equal(t, []Coordinate{{6, 1}}, g.Players[0].Moves)
	assert.Equal(t, []Coordinate{{5, 1}}, g.Players[1].Moves)
}

func TestGame_RejectedMoveKeepsTurn(t *testing.T) {
	g := newTestGame(t)
	for i := 0; i < Rows; i++ {
		_, err := g.MakeMove(1)
		require.NoError(t, err)
	}
	require.Equal(t, 0, g.Current)

	_, err := g.MakeMove(1)
	assert.ErrorIs(t, err, ErrColumnFull)
	_, err = g.MakeMoveInput("nine")
	assert.ErrorIs(t, err, ErrMalformedInput)
	_, err = g.MakeMoveInput("9")
	assert.ErrorIs(t, err, ErrOutOfRange)

	assert.Equal(t, 0, g.Current)
	assert.Equal(t, Rows, g.MoveCount)
	assert.False(t, g.IsFinished())
}

func TestGame_VerticalWin(t *testing.T) {
	g := newTestGame(t)
	// X plays column 4, O plays column 5
	moves := []int{4, 5, 4, 5, 4, 5}
	for _, c := range moves {
		res, err := g.MakeMove(c)
		require.NoError(t, err)
		require.False(t, res.Win)
	}

	res, err := g.MakeMove(4)
	require.NoError(t, err)
	assert.True(t, res.Win)
	assert.False(t, res.Tie)
	assert.Equal(t, Coordinate{Row: 3, Column: 4}, res.Coordinate)
	assert.Equal(t, StatusWon, g.Status)
	assert.Equal(t, 0, g.Winner)
	assert.Len(t, g.WinningCells(), ToWin)

	_, err = g.MakeMove(1)
	assert.ErrorIs(t, err, ErrGameFinished)
	_, err = g.MakeMoveInput("1")
	assert.ErrorIs(t, err, ErrGameFinished)
}

func TestGame_TieEndsGame(t *testing.T) {
	g := newTestGame(t)

	for i, ch := range earlyTieGame {
		res, err := g.MakeMove(int(ch - '0'))
		require.NoError(t, err, "move %d", i+1)
		require.False(t, res.Win)
		if i < len(earlyTieGame)-1 {
			require.False(t, res.Tie, "move %d", i+1)
		} else {
			assert.True(t, res.Tie)
		}
	}

	assert.Equal(t, StatusTied, g.Status)
	assert.Equal(t, -1, g.Winner)
	assert.Nil(t, g.WinningCells())
}

func TestGame_Abandon(t *testing.T) {
	g := newTestGame(t)
	_, err := g.MakeMove(3)
	require.NoError(t, err)

	assert.ErrorIs(t, g.Abandon(2), ErrInvalidPlayer)
	require.NoError(t, g.Abandon(1))
	assert.Equal(t, StatusAbandoned, g.Status)
	assert.Equal(t, 0, g.Winner)
	assert.ErrorIs(t, g.Abandon(0), ErrGameFinished)
}

func TestGame_MoveLogAndSnapshot(t *testing.T) {
	g := newTestGame(t)
	for _, c := range []int{4, 3, 4, 3, 4, 3, 4} {
		_, err := g.MakeMove(c)
		require.NoError(t, err)
	}

	log := g.MoveLog()
	require.Len(t, log, 7)
	assert.Equal(t, MoveRecord{Number: 1, Symbol: "X", Row: 6, Column: 4}, log[0])
	assert.Equal(t, MoveRecord{Number: 2, Symbol: "O", Row: 6, Column: 3}, log[1])
	assert.Equal(t, MoveRecord{Number: 7, Symbol: "X", Row: 3, Column: 4}, log[6])

	snap := g.Snapshot("game-1")
	assert.Equal(t, "game-1", snap.GameID)
	assert.Equal(t, StatusWon, snap.Status)
	assert.Equal(t, "Player 1", snap.Winner)
	assert.Equal(t, 7, snap.MoveCount)
	assert.Equal(t, &Coordinate{Row: 3, Column: 4}, snap.LastMove)
	assert.Equal(t, "X", snap.Board[2][3])
	assert.Equal(t, "", snap.Board[0][0])
	assert.Equal(t, g.Board.Render(), snap.Rendered)
	require.Len(t, snap.Players, 2)
	assert.Len(t, snap.Players[0].Moves, 4)
	assert.Len(t, snap.WinningCells, ToWin)
}
