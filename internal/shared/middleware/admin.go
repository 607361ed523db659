package middleware

import (
	"github.com/gin-gonic/gin"

	"bookapi-backend/internal/shared/response"
)

// AdminMiddleware rejects callers without the admin role with message.
// It must run after AuthMiddleware.
func AdminMiddleware(message string) gin.HandlerFunc {
	if message == "" {
		message = "Access denied: admin role required"
	}
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			response.Forbidden(c, message)
			c.Abort()
			return
		}

		c.Next()
	}
}
