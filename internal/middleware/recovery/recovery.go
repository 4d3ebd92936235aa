// Package recovery turns handler panics into HTTP 500 responses.
package recovery

import (
	"net/http"
	"runtime/debug"

	"github.com/edunote/edunote/internal/middleware/requestid"
	"github.com/edunote/edunote/internal/observability/logger"
	"github.com/edunote/edunote/internal/server/router"
)

// Recovery creates middleware that recovers from panics in HTTP handlers.
// The panic is logged with its stack trace and the client receives a 500
// with an empty JSON object, matching the other server-side failure paths.
func Recovery(log logger.Logger) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			defer func() {
				if r := recover(); r != nil {
					requestID := requestid.GetRequestID(c.Request().Context())

					log.Error("panic recovered",
						"request_id", requestID,
						"panic", r,
						"stack", string(debug.Stack()),
					)

					if !c.Response().Written() {
						if err := c.JSON(http.StatusInternalServerError, struct{}{}); err != nil {
							log.Error("failed to send error response",
								"request_id", requestID,
								"error", err,
							)
						}
					}
				}
			}()

			return next(c)
		}
	}
}
