package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/meeting-room-scheduler/internal/handler"
	"github.com/iliyamo/meeting-room-scheduler/internal/middleware"
	"github.com/iliyamo/meeting-room-scheduler/internal/service"
)

// RegisterRoutes registers the routes that need no identity at all: the
// health check and the Prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers the staff session endpoints.  Login is open to
// anyone; logout and me require the current session holder.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, gate *service.Gate) {
	g := e.Group("/v1/auth", middleware.Authenticate(jwtSecret, gate))
	g.POST("/login", a.Login)

	staff := g.Group("", middleware.RequireStaff())
	staff.POST("/logout", a.Logout)
	staff.GET("/me", a.Me)
}

// RegisterReservations registers the grid and reservation endpoints.
// Every route resolves the actor first; whether the actor may perform
// the operation is decided by the booking service.  limit guards the
// create endpoint and may be nil.
func RegisterReservations(e *echo.Echo, r *handler.ReservationHandler, jwtSecret string, gate *service.Gate, limit echo.MiddlewareFunc) {
	g := e.Group("/v1", middleware.Authenticate(jwtSecret, gate))
	g.GET("/week", r.Week)
	g.GET("/slots/:date/:time", r.Slot)
	g.GET("/reservations", r.List)
	g.GET("/reservations/:id", r.Get)

	create := []echo.MiddlewareFunc{}
	if limit != nil {
		create = append(create, limit)
	}
	g.POST("/reservations", r.Create, create...)
	g.PUT("/reservations/:id", r.Update)
	g.DELETE("/reservations/:id", r.Delete)
}
