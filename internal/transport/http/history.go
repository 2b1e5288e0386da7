package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4/internal/domain"
	"github.com/iamasit07/connect4/internal/repository"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// GameHistory is implemented by both the postgres and sqlite repositories.
type GameHistory interface {
	ListRecentGames(ctx context.Context, limit int) ([]domain.GameRecord, error)
	GetGameByID(ctx context.Context, gameID string) (*domain.GameRecord, error)
}

type HistoryHandler struct {
	GameRepo GameHistory
}

func NewHistoryHandler(gameRepo GameHistory) *HistoryHandler {
	return &HistoryHandler{GameRepo: gameRepo}
}

type historyItem struct {
	ID         string `json:"id"`
	Player1    string `json:"player1"`
	Player2    string `json:"player2"`
	Winner     string `json:"winner,omitempty"`
	EndReason  string `json:"endReason"`
	MovesCount int    `json:"movesCount"`
	Duration   int    `json:"durationSeconds"`
	FinishedAt string `json:"finishedAt"`
}

func (h *HistoryHandler) GetHistory(c *gin.Context) {
	if h.GameRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "History is disabled"})
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	games, err := h.GameRepo.ListRecentGames(c.Request.Context(), limit)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}

	history := make([]historyItem, 0, len(games))
	for _, g := range games {
		history = append(history, historyItem{
			ID:         g.GameID,
			Player1:    g.Player1,
			Player2:    g.Player2,
			Winner:     g.Winner,
			EndReason:  g.Reason,
			MovesCount: g.TotalMoves,
			Duration:   g.DurationSeconds,
			FinishedAt: g.FinishedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	c.JSON(http.StatusOK, history)
}

// GetGameDetails returns the full record including the final board and
// every move.
func (h *HistoryHandler) GetGameDetails(c *gin.Context) {
	if h.GameRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "History is disabled"})
		return
	}

	record, err := h.GameRepo.GetGameByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch game"})
		return
	}
	c.JSON(http.StatusOK, record)
}
