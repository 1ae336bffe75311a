package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/meeting-room-scheduler/internal/logger"
	"github.com/iliyamo/meeting-room-scheduler/internal/middleware"
	"github.com/iliyamo/meeting-room-scheduler/internal/service"
)

// ReservationHandler serves the weekly grid and the reservation
// lifecycle.  Permission checks happen in the booking service; the
// handler only forwards the actor resolved by middleware.Authenticate.
type ReservationHandler struct {
	Bookings *service.BookingService
	Log      logger.Logger
}

func NewReservationHandler(b *service.BookingService, log logger.Logger) *ReservationHandler {
	if b == nil {
		panic("nil booking service passed to NewReservationHandler")
	}
	return &ReservationHandler{Bookings: b, Log: logger.OrNop(log)}
}

// Week handles GET /v1/week: the five weekdays, the hourly labels and
// every reservation inside the current week.
func (h *ReservationHandler) Week(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Bookings.Week())
}

// List handles GET /v1/reservations.
func (h *ReservationHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"reservations": h.Bookings.List()})
}

// Get handles GET /v1/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	res, err := h.Bookings.Get(c.Param("id"))
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Slot handles GET /v1/slots/:date/:time.  An open slot is reported with
// 200 and "available": true rather than a 404.
func (h *ReservationHandler) Slot(c echo.Context) error {
	date, hour := c.Param("date"), c.Param("time")
	res, ok := h.Bookings.Lookup(date, hour)
	if !ok {
		return c.JSON(http.StatusOK, echo.Map{"date": date, "time": hour, "available": true})
	}
	return c.JSON(http.StatusOK, echo.Map{"date": date, "time": hour, "available": false, "reservation": res})
}

// Create handles POST /v1/reservations.
func (h *ReservationHandler) Create(c echo.Context) error {
	var in service.ReservationInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	res, err := h.Bookings.Book(c.Request().Context(), middleware.ActorFrom(c), in)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// Update handles PUT /v1/reservations/:id.  Empty date or time fields
// keep the current slot component.
func (h *ReservationHandler) Update(c echo.Context) error {
	var in service.ReservationInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	res, err := h.Bookings.Edit(c.Request().Context(), middleware.ActorFrom(c), c.Param("id"), in)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Delete handles DELETE /v1/reservations/:id.
func (h *ReservationHandler) Delete(c echo.Context) error {
	if _, err := h.Bookings.Cancel(c.Request().Context(), middleware.ActorFrom(c), c.Param("id")); err != nil {
		return writeError(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
