package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shinypath-api/res/auth"
	"shinypath-api/res/store"
)

// SESSION USER GETTER

const contextKeyCurrentUser = "currentUser"

func GetCurrentUser(c *gin.Context) *store.User {
	if val, ok := c.Get(contextKeyCurrentUser); ok {
		if currentUser, ok := val.(*store.User); ok {
			return currentUser
		}
	}

	return nil
}

// AUTH MIDDLEWARE

// AuthMiddleware resolves the Authorization header into the current user.
// A missing header passes through anonymously; a present-but-invalid one is
// rejected, never silently downgraded.
func AuthMiddleware(logger *log.Logger, storeImpl store.Store, authImpl auth.Auth) gin.HandlerFunc {
	return func(c *gin.Context) {
		headerVal := c.GetHeader("Authorization")

		if len(headerVal) == 0 {
			c.Next()
			return
		}

		headerValParts := strings.Split(headerVal, " ")
		if len(headerValParts) != 2 || !strings.EqualFold(headerValParts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Malformed Authorization header"})
			return
		}

		var accessTokenClaims auth.AccessTokenClaims
		err := authImpl.ValidateToken(headerValParts[1], &accessTokenClaims)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid Authorization header"})
			return
		}

		currentUser, err := storeImpl.Users().Get(c.Request.Context(), accessTokenClaims.UserID)
		if err != nil || currentUser == nil {
			logger.Printf("Error resolving user for access token: %s", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid Authorization header"})
			return
		}

		c.Set(contextKeyCurrentUser, currentUser)
		c.Next()
	}
}

// RequireUser rejects anonymous requests. It assumes AuthMiddleware ran
// earlier in the chain.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetCurrentUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects requests whose current user lacks the admin role.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUser := GetCurrentUser(c)
		if currentUser == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		if !currentUser.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}
