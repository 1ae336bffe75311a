package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireStaff aborts with 403 unless Authenticate resolved a staff
// actor for the request.
func RequireStaff() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !ActorFrom(c).IsStaff() {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
