package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/land-looker/internal/middleware"
	"github.com/iliyamo/land-looker/internal/model"
	"github.com/iliyamo/land-looker/internal/policy"
	"github.com/iliyamo/land-looker/internal/repository"
	"github.com/iliyamo/land-looker/internal/service"
)

type LocationService interface {
	List(ctx context.Context) ([]model.Location, error)
	Create(ctx context.Context, actor *policy.Actor, in service.LocationInput) (*model.Location, error)
	Delete(ctx context.Context, actor *policy.Actor, id uint64) (repository.CascadeResult, error)
}

type LocationHandler struct {
	Locations LocationService
}

func NewLocationHandler(locations LocationService) *LocationHandler {
	return &LocationHandler{Locations: locations}
}

// locationResource adds the "City, State, Country" label used by pickers.
type locationResource struct {
	model.Location
	Name string `json:"name"`
}

func toLocationResource(l model.Location) locationResource {
	return locationResource{Location: l, Name: l.DisplayName()}
}

func (h *LocationHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Locations.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]locationResource, 0, len(items))
	for _, l := range items {
		out = append(out, toLocationResource(l))
	}
	return data(c, http.StatusOK, out)
}

func (h *LocationHandler) Create(c echo.Context) error {
	var in service.LocationInput
	if err := c.Bind(&in); err != nil {
		return bindError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	l, err := h.Locations.Create(ctx, middleware.Actor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return data(c, http.StatusCreated, toLocationResource(*l))
}

// Delete removes the location together with its properties and their
// bookings and reports how many of each went.
func (h *LocationHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Locations.Delete(ctx, middleware.Actor(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Location deleted successfully.",
		"deleted": res,
	})
}
