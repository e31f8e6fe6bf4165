package handler

import (
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/land-looker/internal/middleware"
	"github.com/iliyamo/land-looker/internal/model"
)

var csvHeader = []string{"ID", "Property ID", "Booking Date", "Status", "Total Price", "Payment Method"}

func csvRow(b model.Booking) []string {
	return []string{
		strconv.FormatUint(b.ID, 10),
		strconv.FormatUint(b.PropertyID, 10),
		b.BookingDate.String(),
		string(b.Status),
		strconv.FormatFloat(b.TotalPrice, 'f', 2, 64),
		string(b.PaymentMethod),
	}
}

// ExportCSV handles GET /api/bookings/export/csv.  The caller's bookings
// are written in id order.
func (h *BookingHandler) ExportCSV(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	rows, err := h.Bookings.Export(ctx, middleware.Actor(c))
	if err != nil {
		return respondError(c, err)
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="bookings.csv"`)
	res.WriteHeader(http.StatusOK)

	w := csv.NewWriter(res)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, b := range rows {
		if err := w.Write(csvRow(b)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
