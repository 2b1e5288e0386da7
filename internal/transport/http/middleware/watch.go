package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4/pkg/auth"
	"github.com/iamasit07/connect4/pkg/httputil"
)

const WatchGameKey = "watch_game_id"

// WatchTokenMiddleware only lets a request through when it carries a valid
// watch token for the game named by the :id route parameter.
func WatchTokenMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := httputil.GetTokenFromRequest(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		claims, err := auth.ValidateWatchToken(tokenString, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		if claims.GameID != c.Param("id") {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Token is for another game"})
			return
		}

		c.Set(WatchGameKey, claims.GameID)
		c.Next()
	}
}
