package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/land-looker/internal/middleware"
	"github.com/iliyamo/land-looker/internal/model"
	"github.com/iliyamo/land-looker/internal/policy"
	"github.com/iliyamo/land-looker/internal/service"
)

type BookingService interface {
	Create(ctx context.Context, actor *policy.Actor, in service.BookingInput) (*model.Booking, error)
	Get(ctx context.Context, actor *policy.Actor, id uint64) (*model.BookingDetail, error)
	Update(ctx context.Context, actor *policy.Actor, id uint64, in service.BookingPatch) (*model.Booking, error)
	UpdateStatus(ctx context.Context, actor *policy.Actor, id uint64, in service.StatusInput) (*model.BookingDetail, error)
	Delete(ctx context.Context, actor *policy.Actor, id uint64) error
	ListForBuyer(ctx context.Context, actor *policy.Actor) ([]model.BookingDetail, error)
	ListForWorker(ctx context.Context, actor *policy.Actor) ([]model.BookingDetail, error)
	Export(ctx context.Context, actor *policy.Actor) ([]model.Booking, error)
	TopBookedProperties(ctx context.Context, actor *policy.Actor) ([]model.PropertyBookingCount, error)
}

// BookingHandler serves the buyer side (/api/bookings), the worker side
// (/api/worker-bookings) and the statistics endpoint.
type BookingHandler struct {
	Bookings BookingService
}

func NewBookingHandler(bookings BookingService) *BookingHandler {
	return &BookingHandler{Bookings: bookings}
}

// List handles GET /api/bookings and returns the caller's bookings with
// the assigned worker embedded.
func (h *BookingHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Bookings.ListForBuyer(ctx, middleware.Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return data(c, http.StatusOK, nonNil(items))
}

func (h *BookingHandler) Create(c echo.Context) error {
	var in service.BookingInput
	if err := c.Bind(&in); err != nil {
		return bindError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Bookings.Create(ctx, middleware.Actor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return data(c, http.StatusCreated, b)
}

func (h *BookingHandler) Show(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Bookings.Get(ctx, middleware.Actor(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return data(c, http.StatusOK, b)
}

func (h *BookingHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c)
	}
	var in service.BookingPatch
	if err := c.Bind(&in); err != nil {
		return bindError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Bookings.Update(ctx, middleware.Actor(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return data(c, http.StatusOK, b)
}

func (h *BookingHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Bookings.Delete(ctx, middleware.Actor(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Booking deleted successfully."})
}

// WorkerIndex handles GET /api/worker-bookings, newest booking date first.
func (h *BookingHandler) WorkerIndex(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Bookings.ListForWorker(ctx, middleware.Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return data(c, http.StatusOK, nonNil(items))
}

// UpdateStatus handles PATCH /api/worker-bookings/:id/status.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c)
	}
	var in service.StatusInput
	if err := c.Bind(&in); err != nil {
		return bindError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Bookings.UpdateStatus(ctx, middleware.Actor(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return data(c, http.StatusOK, b)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
