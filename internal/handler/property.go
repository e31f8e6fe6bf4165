package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/land-looker/internal/middleware"
	"github.com/iliyamo/land-looker/internal/model"
	"github.com/iliyamo/land-looker/internal/policy"
	"github.com/iliyamo/land-looker/internal/service"
)

type PropertyService interface {
	List(ctx context.Context) ([]model.Property, error)
	Get(ctx context.Context, id uint64) (*model.Property, error)
	Search(ctx context.Context, actor *policy.Actor, in service.SearchInput) ([]model.Property, error)
	Sort(ctx context.Context, actor *policy.Actor, in service.SortInput) ([]model.Property, error)
	Create(ctx context.Context, actor *policy.Actor, in service.PropertyInput) (*model.Property, error)
	Update(ctx context.Context, actor *policy.Actor, id uint64, in service.PropertyPatch) (*model.Property, error)
	UpdatePrice(ctx context.Context, actor *policy.Actor, id uint64, in service.PriceInput) (*model.Property, error)
	Delete(ctx context.Context, actor *policy.Actor, id uint64) error
}

type PropertyHandler struct {
	Properties PropertyService
}

func NewPropertyHandler(properties PropertyService) *PropertyHandler {
	return &PropertyHandler{Properties: properties}
}

// List handles GET /api/properties.
func (h *PropertyHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Properties.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return data(c, http.StatusOK, items)
}

// Get handles GET /api/properties/:id.
func (h *PropertyHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Properties.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return data(c, http.StatusOK, p)
}

// Search handles GET /api/properties/search?search=term.
func (h *PropertyHandler) Search(c echo.Context) error {
	in := service.SearchInput{Search: strings.TrimSpace(c.QueryParam("search"))}
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Properties.Search(ctx, middleware.Actor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return data(c, http.StatusOK, items)
}

// Sort handles GET /api/properties/sort?sort_by=price&order=desc.
func (h *PropertyHandler) Sort(c echo.Context) error {
	in := service.SortInput{
		SortBy: strings.TrimSpace(c.QueryParam("sort_by")),
		Order:  strings.ToLower(strings.TrimSpace(c.QueryParam("order"))),
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Properties.Sort(ctx, middleware.Actor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return data(c, http.StatusOK, items)
}

func (h *PropertyHandler) Create(c echo.Context) error {
	var in service.PropertyInput
	if err := c.Bind(&in); err != nil {
		return bindError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Properties.Create(ctx, middleware.Actor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return data(c, http.StatusCreated, p)
}

// Update handles PUT /api/properties/:id; only the fields present in the
// body change.
func (h *PropertyHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c)
	}
	var in service.PropertyPatch
	if err := c.Bind(&in); err != nil {
		return bindError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Properties.Update(ctx, middleware.Actor(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return data(c, http.StatusOK, p)
}

func (h *PropertyHandler) UpdatePrice(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c)
	}
	var in service.PriceInput
	if err := c.Bind(&in); err != nil {
		return bindError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Properties.UpdatePrice(ctx, middleware.Actor(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return data(c, http.StatusOK, p)
}

func (h *PropertyHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Properties.Delete(ctx, middleware.Actor(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Property deleted successfully."})
}
