package middleware

import (
	"fmt"
	"runtime"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/clinic-recall/internal/httperr"
)

// Recovery logs panics with their stack and forwards them to Sentry when a
// client is configured.
func Recovery(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				var stack [4096]byte
				n := runtime.Stack(stack[:], false)

				logger.Error().
					Str("request_id", c.GetString(ContextRequestID)).
					Str("panic", fmt.Sprintf("%v", r)).
					Str("stack", string(stack[:n])).
					Msg("panic recovered")

				hub := sentry.CurrentHub().Clone()
				hub.Scope().SetTag("request_id", c.GetString(ContextRequestID))
				hub.Scope().SetTag("path", c.FullPath())
				hub.Recover(r)

				httperr.Internal(c, "internal_error", "Erro interno.")
				c.Abort()
			}
		}()

		c.Next()
	}
}
