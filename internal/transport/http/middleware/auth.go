package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Frida7771/GomokuAI/pkg/auth"
	"github.com/Frida7771/GomokuAI/pkg/httputil"
)

const GameIDKey = "game_id"

// GameAuthMiddleware requires a game token, as a bearer header or the game
// cookie, whose game matches the :id route parameter.
func GameAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := httputil.GetTokenFromRequest(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing game token"})
			return
		}

		claims, err := auth.ValidateGameToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid game token"})
			return
		}

		if id := c.Param("id"); id != "" && id != claims.GameID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "token is for another game"})
			return
		}

		c.Set(GameIDKey, claims.GameID)
		c.Next()
	}
}
