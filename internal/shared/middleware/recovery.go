package middleware

import (
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"salonsuite-backend/internal/shared/response"
)

// Recovery converts a handler panic into a 500 through the shared
// response envelope, logging the stack under the request id.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("request_id", c.GetString("request_id")).
					Interface("error", err).
					Bytes("stack", debug.Stack()).
					Msg("Panic recovered")

				response.InternalServerError(c, "internal server error")
				c.Abort()
			}
		}()

		c.Next()
	}
}
