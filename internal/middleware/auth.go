package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/warbler-server/internal/monitoring"
	"github.com/warbler-server/internal/service"
	"github.com/warbler-server/internal/session"
)

const (
	// ContextKeyUserID is the key for the acting user's id in gin context
	ContextKeyUserID = "user_id"
	// ContextKeyUsername is the key for the acting user's name in gin context
	ContextKeyUsername = "username"
)

// AccessUnauthorized is the uniform refusal shown for every failed guard
// check. It deliberately never says which check failed.
const AccessUnauthorized = "Access unauthorized"

// RequireUser guards mutating routes. A request passes when its session
// holds a user id that still resolves to an existing user, or when it
// carries a valid bearer token for an existing user. Everything else is
// refused identically: flash, redirect home, no side effect.
func RequireUser(sessions *session.Manager, authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := sessions.UserID(c); ok {
			if user, err := authService.GetUserByID(userID); err == nil {
				c.Set(ContextKeyUserID, user.ID)
				c.Set(ContextKeyUsername, user.Username)
				c.Next()
				return
			}
		}

		// Bearer token fallback for API clients
		if token := bearerToken(c); token != "" {
			if claims, err := authService.ValidateToken(token); err == nil {
				if user, err := authService.GetUserByID(claims.UserID); err == nil {
					c.Set(ContextKeyUserID, user.ID)
					c.Set(ContextKeyUsername, user.Username)
					c.Next()
					return
				}
			}
		}

		monitoring.UnauthorizedAttempts.Inc()
		_ = sessions.Flash(c, AccessUnauthorized)
		c.Redirect(http.StatusFound, "/")
		c.Abort()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// GetUserID gets the acting user's id from the gin context
func GetUserID(c *gin.Context) uint {
	userID, exists := c.Get(ContextKeyUserID)
	if !exists {
		return 0
	}
	return userID.(uint)
}

// GetUsername gets the acting user's name from the gin context
func GetUsername(c *gin.Context) string {
	username, exists := c.Get(ContextKeyUsername)
	if !exists {
		return ""
	}
	return username.(string)
}
