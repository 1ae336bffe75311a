package middleware // middleware contains the request processing shared by handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/meeting-room-scheduler/internal/service"
	"github.com/iliyamo/meeting-room-scheduler/internal/utils"
)

// Authenticate resolves the acting party of every request.  Requests
// without an Authorization header run as service.Anonymous.  A Bearer
// token must verify against secret or the request is rejected with 401.
// A verified token only grants staff rights while its subject still holds
// the gate's session, so logging out revokes every issued token.
func Authenticate(secret string, gate *service.Gate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if auth == "" {
				c.Set(ActorKey, service.Anonymous)
				return next(c)
			}
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set(StaffEmailKey, claims.Email)
			actor := service.Anonymous
			if role := gate.ClassifyIdentity(claims.Email); role.IsStaff() {
				actor = service.Actor{Role: role, Email: claims.Email}
			}
			c.Set(ActorKey, actor)
			return next(c)
		}
	}
}
