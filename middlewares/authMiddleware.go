package middlewares

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SindhuAbhirami/civic-watch/models"
	authUtils "github.com/SindhuAbhirami/civic-watch/utils"
)

const (
	sessionKey = "session"
	// AuthCookie carries the session token for browser clients.
	AuthCookie = "auth_token"
)

// AuthMiddleware resolves the session from a Bearer token or the auth
// cookie and aborts with 401 when there is none.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		if authHeader := c.Request.Header.Get("Authorization"); authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		} else if cookie, err := c.Cookie(AuthCookie); err == nil {
			tokenString = cookie
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No authorization token provided"})
			return
		}

		session, err := authUtils.ParseToken(tokenString)
		if err != nil {
			log.Printf("Token validation failed: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization token"})
			return
		}

		c.Set(sessionKey, session)
		c.Set("user_id", strconv.FormatInt(session.ActorID, 10))
		c.Next()
	}
}

// RequireRole lets only sessions of the given role through. It must run
// after AuthMiddleware.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := CurrentSession(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}
		if session.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Only " + string(role) + "s can do this"})
			return
		}
		c.Next()
	}
}

func CurrentSession(c *gin.Context) (models.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return models.Session{}, false
	}
	s, ok := v.(models.Session)
	return s, ok
}
