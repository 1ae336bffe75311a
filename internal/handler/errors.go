package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/meeting-room-scheduler/internal/logger"
	"github.com/iliyamo/meeting-room-scheduler/internal/service"
)

// writeError maps a service error onto its HTTP status.  Anything
// unrecognised is logged and reported as a 500 without details.
func writeError(c echo.Context, log logger.Logger, err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Error(), "field": verr.Field})
	case errors.Is(err, service.ErrSlotConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "slot already booked"})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	case errors.Is(err, service.ErrPermissionDenied):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "staff login required"})
	case errors.Is(err, service.ErrDomainMismatch):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	default:
		log.Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
