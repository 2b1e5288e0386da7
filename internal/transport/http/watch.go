package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4/internal/domain"
	"github.com/iamasit07/connect4/internal/repository"
	"github.com/iamasit07/connect4/internal/service/game"
	"github.com/iamasit07/connect4/internal/transport/websocket"
)

// SnapshotReader serves games this process no longer holds in memory.
type SnapshotReader interface {
	Get(ctx context.Context, gameID string) (*domain.Snapshot, error)
}

type WatchHandler struct {
	SessionManager *game.SessionManager
	Snapshots      SnapshotReader
	Hub            *websocket.Hub
}

func NewWatchHandler(sm *game.SessionManager, snapshots SnapshotReader, hub *websocket.Hub) *WatchHandler {
	return &WatchHandler{SessionManager: sm, Snapshots: snapshots, Hub: hub}
}

// GetLiveGames returns all unfinished games available for spectating
func (h *WatchHandler) GetLiveGames(c *gin.Context) {
	c.JSON(http.StatusOK, h.SessionManager.GetActiveGames())
}

func (h *WatchHandler) GetGame(c *gin.Context) {
	snap, err := h.lookup(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// ServeWatch upgrades to the live feed of one game. The latest snapshot is
// sent first.
func (h *WatchHandler) ServeWatch(c *gin.Context) {
	gameID := c.Param("id")
	snap, err := h.lookup(c.Request.Context(), gameID)
	if err != nil {
		writeLookupError(c, err)
		return
	}
	h.Hub.ServeWatch(c.Writer, c.Request, gameID, snap)
}

func (h *WatchHandler) lookup(ctx context.Context, gameID string) (*domain.Snapshot, error) {
	if session, ok := h.SessionManager.GetSession(gameID); ok {
		snap := session.Snapshot()
		return &snap, nil
	}
	if h.Snapshots == nil {
		return nil, repository.ErrNotFound
	}
	return h.Snapshots.Get(ctx, gameID)
}

func writeLookupError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}
	c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load game"})
}
