package middleware

// identity.go holds the context keys shared by the middleware and handlers
// and the helpers that read them back.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/meeting-room-scheduler/internal/service"
)

const (
	// ActorKey stores the service.Actor resolved for the request.
	ActorKey = "actor"
	// StaffEmailKey stores the verified token subject, if any.
	StaffEmailKey = "staff_email"
)

// ActorFrom returns the actor resolved by Authenticate, or
// service.Anonymous when the middleware did not run.
func ActorFrom(c echo.Context) service.Actor {
	if a, ok := c.Get(ActorKey).(service.Actor); ok {
		return a
	}
	return service.Anonymous
}

// clientID identifies the caller for rate limiting: the staff email when
// a valid token was presented, "anon" otherwise.
func clientID(c echo.Context) string {
	if s, ok := c.Get(StaffEmailKey).(string); ok && s != "" {
		return s
	}
	return "anon"
}
