package middleware

import (
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"bookapi-backend/internal/shared/response"
)

// Recovery turns a handler panic into an opaque 500. The panic value and
// stack are logged only.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("request_id", c.GetString(ContextRequestID)).
					Str("method", c.Request.Method).
					Str("route", c.FullPath()).
					Interface("panic", err).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				if !c.Writer.Written() {
					response.InternalServerError(c)
				}
				c.Abort()
			}
		}()

		c.Next()
	}
}
