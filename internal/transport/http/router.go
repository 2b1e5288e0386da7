package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4/internal/service/game"
	"github.com/iamasit07/connect4/internal/transport/http/middleware"
	"github.com/iamasit07/connect4/internal/transport/websocket"
)

type RouterConfig struct {
	Sessions       *game.SessionManager
	Hub            *websocket.Hub
	Snapshots      SnapshotReader
	History        GameHistory
	AllowedOrigins []string
	JWTSecret      string
}

// NewRouter wires the read-only spectator API. Nothing here can change a
// game; moves only come from the console.
func NewRouter(cfg RouterConfig) *gin.Engine {
	watchHandler := NewWatchHandler(cfg.Sessions, cfg.Snapshots, cfg.Hub)
	historyHandler := NewHistoryHandler(cfg.History)

	router := gin.New()
	router.Use(middleware.RequestLogger(), gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"activeGames": len(cfg.Sessions.GetActiveGames()),
		})
	})

	router.GET("/api/watch", watchHandler.GetLiveGames)
	router.GET("/api/history", historyHandler.GetHistory)
	router.GET("/api/history/:id", historyHandler.GetGameDetails)

	watchMW := middleware.WatchTokenMiddleware(cfg.JWTSecret)
	router.GET("/api/watch/:id", watchMW, watchHandler.GetGame)
	router.GET("/ws/watch/:id", watchMW, watchHandler.ServeWatch)

	return router
}
