package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/land-looker/internal/middleware"
)

// Statistics handles GET /api/booking-statistics: the five properties with
// the most bookings assigned to the calling worker.
func (h *BookingHandler) Statistics(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	top, err := h.Bookings.TopBookedProperties(ctx, middleware.Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"top_booked_properties": nonNil(top)})
}
