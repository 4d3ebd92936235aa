package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/edunote/edunote/internal/httperr"
	"github.com/edunote/edunote/internal/middleware"
	"github.com/edunote/edunote/internal/observability/logger"
	"github.com/edunote/edunote/internal/server/router"
)

// RequireToken gates routes behind a valid session cookie. The resolved
// account, with its password excluded, is stored in the request context under
// middleware.UserKey. Requests without a valid session answer 401 with an
// empty body.
func RequireToken(service *Service, cookieName string, log logger.Logger) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			cookie, err := c.Request().Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, struct{}{})
			}

			user, err := service.ResolveToken(c.Request().Context(), cookie.Value)
			if err != nil {
				if errors.Is(err, ErrInvalidToken) {
					return c.JSON(http.StatusUnauthorized, struct{}{})
				}

				var httpErr *httperr.Error
				if errors.As(err, &httpErr) {
					log.WithContext(c.Request().Context()).Error("session lookup failed", "error", err)
					return c.JSON(httpErr.Status, struct{}{})
				}
				return c.JSON(http.StatusInternalServerError, struct{}{})
			}

			ctx := context.WithValue(c.Request().Context(), middleware.UserKey, user)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
