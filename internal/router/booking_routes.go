package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/land-looker/internal/handler"
	"github.com/iliyamo/land-looker/internal/policy"
)

// registerBookings mounts the buyer booking endpoints, the worker queue
// and the statistics.  Ownership of a single booking is checked by the
// service after the record is loaded.
func registerBookings(g *echo.Group, b *handler.BookingHandler, m chains) {
	g.GET("/bookings", b.List, m.read(policy.BookingList)...)
	g.GET("/bookings/export/csv", b.ExportCSV, m.read(policy.BookingExport)...)
	g.POST("/bookings", b.Create, m.write(policy.BookingCreate)...)
	g.GET("/bookings/:id", b.Show, m.read(policy.BookingRead)...)
	g.PUT("/bookings/:id", b.Update, m.write(policy.BookingUpdate)...)
	g.DELETE("/bookings/:id", b.Delete, m.write(policy.BookingDelete)...)

	g.GET("/worker-bookings", b.WorkerIndex, m.read(policy.BookingListAssigned)...)
	g.PATCH("/worker-bookings/:id/status", b.UpdateStatus, m.write(policy.BookingUpdateStatus)...)

	g.GET("/booking-statistics", b.Statistics, m.read(policy.BookingStatistics)...)
}
