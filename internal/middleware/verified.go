package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireVerified enforces that the authenticated user has confirmed
// their email address before reaching schedule endpoints.  It reads
// the "verified" claim placed in context by JWTAuth; a user who
// confirms their address picks up the claim by refreshing their
// access token.  Unverified users receive 403 with a hint rather
// than 401, since their credentials are valid.
func RequireVerified() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v, ok := c.Get("verified").(bool)
			if !ok || !v {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "email not verified"})
			}
			return next(c)
		}
	}
}
