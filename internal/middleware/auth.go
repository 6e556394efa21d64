package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Emna-bentorkia/Pfe-Projet-final/internal/domain"
)

// SessionCookieName is the cookie that carries the signed session credential.
const SessionCookieName = "token"

// AuthMiddleware authenticates the request from the session cookie, falling
// back to a bearer Authorization header, and stores the account id in the
// request context.
func AuthMiddleware(authSvc domain.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := TokenFromRequest(c)
		if tokenString == "" {
			abortJSON(c, http.StatusUnauthorized, "Token is missing. Please log in again.")
			return
		}

		userID, err := authSvc.ValidateToken(tokenString)
		if err != nil {
			abortJSON(c, http.StatusUnauthorized, "Invalid or expired token. Please log in again.")
			return
		}

		c.Set("user_id", userID)
	}
}

// TokenFromRequest extracts the session credential: cookie first, then the
// Authorization header.
func TokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(SessionCookieName); err == nil && token != "" {
		return token
	}
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func abortJSON(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{
		"success": false,
		"message": message,
	})
	c.Abort()
}
