package middleware

import (
	"net/http"
	"strings"

	"feedapi/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// AuthRequired resolves the caller's identity from a bearer token, or a
// token query parameter on websocket upgrades. A missing credential is
// rejected before any decode is attempted.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		if websocket.IsWebSocketUpgrade(c.Request) {
			token = c.Query("token")
		} else {
			authHeader := c.GetHeader("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				token = authHeader[7:]
			}
		}

		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		userID, err := utils.ValidateJWT(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
