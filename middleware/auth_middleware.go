package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireUserType restricts a route group to the given user types.
// Runs after JWTMiddleware, which has already stored the claims.
func RequireUserType(allowedTypes ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userType := ExtractUserType(c)
			if userType == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing user type")
			}

			for _, allowed := range allowedTypes {
				if userType == allowed {
					return next(c)
				}
			}

			return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
		}
	}
}
