package middleware

import (
	"context" // Loader signature

	"shop_api/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

// UserLoader fetches a user by id
type UserLoader interface {
	UserByID(ctx context.Context, id string) (*domain.User, error)
}

// UserMiddleware loads the session user from the database on each request.
// An id that no longer resolves to a user is treated as anonymous.
func UserMiddleware(users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := domain.UserIDFromContext(c.Request.Context()) // Set by SessionMiddleware
		if userID == "" {
			c.Next()
			return
		}
		user, err := users.UserByID(c.Request.Context(), userID) // Fetch user from database
		if err != nil {
			if !domain.IsCode(err, domain.ENOTFOUND) {
				logrus.WithFields(logrus.Fields{
					"user_id": userID,
					"error":   err,
				}).Error("Failed to load session user")
			}
			c.Next() // Proceed without a user
			return
		}
		c.Request = c.Request.WithContext(domain.WithUser(c.Request.Context(), user))
		c.Next()
	}
}
