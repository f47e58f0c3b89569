package middleware

import (
	"shop_api/internal/domain" // Request context helpers
	"shop_api/internal/utils"  // JWT utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

// UserIDKey is the gin context key holding the session user id
const UserIDKey = "userID"

// SessionMiddleware decodes the session cookie. A missing or invalid token leaves
// the request anonymous; resolvers decide whether that is allowed.
func SessionMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(utils.TokenCookieName) // Get the session cookie
		if err != nil || tokenStr == "" {
			c.Next() // Anonymous request
			return
		}
		claims, err := utils.ParseJWT(tokenStr, secret) // Parse the JWT token
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"path":  c.Request.URL.Path,
				"error": err,
			}).Debug("Ignoring invalid session token")
			c.Next() // Treated as anonymous
			return
		}
		c.Set(UserIDKey, claims.UserID) // Store userID in gin context
		ctx := domain.WithUserID(c.Request.Context(), claims.UserID)
		c.Request = c.Request.WithContext(ctx) // Visible to resolvers
		c.Next()                               // Proceed to the next handler
	}
}
