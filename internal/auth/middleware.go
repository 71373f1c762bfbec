package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/galwaybites/storefront/pkg/tokens"
)

// RequireAuth validates the access token cookie and stores the caller's
// identity in the echo context under "user_id" and "is_admin".
func RequireAuth(jwtSecret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie("accessToken")
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
			}

			claims, err := tokens.AccessClaimsFromToken(cookie.Value, jwtSecret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set("user_id", claims.Subject)
			c.Set("is_admin", claims.IsAdmin())
			return next(c)
		}
	}
}

// RequireAdmin assumes RequireAuth already ran.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			isAdmin, _ := c.Get("is_admin").(bool)
			if !isAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
			}
			return next(c)
		}
	}
}
