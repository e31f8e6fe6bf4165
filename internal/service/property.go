package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/land-looker/internal/model"
	"github.com/iliyamo/land-looker/internal/policy"
	"github.com/iliyamo/land-looker/internal/repository"
	"github.com/iliyamo/land-looker/internal/service/ports"
)

type PropertyService struct {
	properties ports.PropertyRepo
	locations  ports.LocationRepo
	logger     *log.Logger
}

func NewPropertyService(properties ports.PropertyRepo, locations ports.LocationRepo, logger *log.Logger) *PropertyService {
	return &PropertyService{properties: properties, locations: locations, logger: logger}
}

// PropertyInput is the full payload of a new property.  Numeric fields
// are pointers so that a missing value is told apart from zero.
type PropertyInput struct {
	Name             string   `json:"name" validate:"required,max=255"`
	PropertyImage    *string  `json:"property_image" validate:"omitempty,url,max=2048"`
	Property360Image *string  `json:"property_360_image" validate:"omitempty,url,max=2048"`
	Description      *string  `json:"description"`
	Price            *float64 `json:"price" validate:"required,gte=0,lte=9999999999.99"`
	Size             *int     `json:"size" validate:"required,gt=0,lte=2147483647"`
	PropertyType     string   `json:"property_type" validate:"required,oneof=house apartment villa"`
	Bedrooms         *int     `json:"bedrooms" validate:"required,min=1,max=2147483647"`
	Bathrooms        *int     `json:"bathrooms" validate:"required,min=1,max=2147483647"`
	YearBuilt        *int     `json:"year_built" validate:"omitnil,gte=0,lte=9999"`
	LocationID       *uint64  `json:"location_id" validate:"required"`
	AvailableFrom    *string  `json:"available_from" validate:"omitempty,date"`
	Status           string   `json:"status" validate:"required,oneof=available sold reserved"`
}

// PropertyPatch updates only the fields that are present.  A JSON null is
// treated as absent.
type PropertyPatch struct {
	Name             *string  `json:"name" validate:"omitnil,min=1,max=255"`
	PropertyImage    *string  `json:"property_image" validate:"omitempty,url,max=2048"`
	Property360Image *string  `json:"property_360_image" validate:"omitempty,url,max=2048"`
	Description      *string  `json:"description"`
	Price            *float64 `json:"price" validate:"omitnil,gte=0,lte=9999999999.99"`
	Size             *int     `json:"size" validate:"omitnil,gt=0,lte=2147483647"`
	PropertyType     *string  `json:"property_type" validate:"omitnil,oneof=house apartment villa"`
	Bedrooms         *int     `json:"bedrooms" validate:"omitnil,min=1,max=2147483647"`
	Bathrooms        *int     `json:"bathrooms" validate:"omitnil,min=1,max=2147483647"`
	YearBuilt        *int     `json:"year_built" validate:"omitnil,gte=0,lte=9999"`
	LocationID       *uint64  `json:"location_id" validate:"omitnil,gt=0"`
	AvailableFrom    *string  `json:"available_from" validate:"omitempty,date"`
	Status           *string  `json:"status" validate:"omitnil,oneof=available sold reserved"`
}

type PriceInput struct {
	Price *float64 `json:"price" validate:"required,gte=0,lte=9999999999.99"`
}

type SearchInput struct {
	Search string `json:"search" query:"search" validate:"required,max=255"`
}

type SortInput struct {
	SortBy string `json:"sort_by" query:"sort_by" validate:"required,oneof=name price size bedrooms bathrooms"`
	Order  string `json:"order" query:"order" validate:"omitempty,oneof=asc desc"`
}

// List is public and returns the whole catalog.
func (s *PropertyService) List(ctx context.Context) ([]model.Property, error) {
	out, err := s.properties.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	return out, nil
}

// Get is public.
func (s *PropertyService) Get(ctx context.Context, id uint64) (*model.Property, error) {
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get property %d: %w", id, err)
	}
	return p, nil
}

// Search matches name case-insensitively.  Buyers only.
func (s *PropertyService) Search(ctx context.Context, actor *policy.Actor, in SearchInput) ([]model.Property, error) {
	if err := policy.Authorize(actor, policy.PropertySearch, nil); err != nil {
		return nil, err
	}
	in.Search = strings.TrimSpace(in.Search)
	if ve := check(in); ve != nil {
		return nil, ve
	}
	out, err := s.properties.Search(ctx, in.Search)
	if err != nil {
		return nil, fmt.Errorf("search properties: %w", err)
	}
	return out, nil
}

// Sort orders the catalog by a safelisted field, ascending by default.
// Buyers only.
func (s *PropertyService) Sort(ctx context.Context, actor *policy.Actor, in SortInput) ([]model.Property, error) {
	if err := policy.Authorize(actor, policy.PropertySort, nil); err != nil {
		return nil, err
	}
	in.SortBy = strings.ToLower(strings.TrimSpace(in.SortBy))
	in.Order = strings.ToLower(strings.TrimSpace(in.Order))
	if ve := check(in); ve != nil {
		return nil, ve
	}
	order := model.SortAsc
	if in.Order != "" {
		order = model.SortOrder(in.Order)
	}
	out, err := s.properties.Sort(ctx, model.SortField(in.SortBy), order)
	if err != nil {
		return nil, fmt.Errorf("sort properties: %w", err)
	}
	return out, nil
}

func (s *PropertyService) Create(ctx context.Context, actor *policy.Actor, in PropertyInput) (*model.Property, error) {
	if err := policy.Authorize(actor, policy.PropertyCreate, nil); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if ve := check(in); ve != nil {
		return nil, ve
	}
	if err := s.requireLocation(ctx, *in.LocationID); err != nil {
		return nil, err
	}
	p := &model.Property{
		Name:             in.Name,
		PropertyImage:    nonEmpty(in.PropertyImage),
		Property360Image: nonEmpty(in.Property360Image),
		Description:      in.Description,
		Price:            *in.Price,
		Size:             *in.Size,
		PropertyType:     model.PropertyType(in.PropertyType),
		Bedrooms:         *in.Bedrooms,
		Bathrooms:        *in.Bathrooms,
		YearBuilt:        in.YearBuilt,
		AvailableFrom:    parseOptionalDate(in.AvailableFrom),
		Status:           model.PropertyStatus(in.Status),
		LocationID:       *in.LocationID,
	}
	if err := s.properties.Create(ctx, p); err != nil {
		if ve := rangeError(err); ve != nil {
			return nil, ve
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalidField("location_id", "The selected location id is invalid.")
		}
		return nil, fmt.Errorf("create property: %w", err)
	}
	s.logger.Infoj(log.JSON{"event": "property_created", "property_id": p.ID, "actor_id": actor.ID})
	return s.reload(ctx, p.ID)
}

// Update applies a partial change.  The property must exist before the
// payload is validated.
func (s *PropertyService) Update(ctx context.Context, actor *policy.Actor, id uint64, in PropertyPatch) (*model.Property, error) {
	if err := policy.Authorize(actor, policy.PropertyUpdate, nil); err != nil {
		return nil, err
	}
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get property %d: %w", id, err)
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
	}
	if ve := check(in); ve != nil {
		return nil, ve
	}
	if in.LocationID != nil && *in.LocationID != p.LocationID {
		if err := s.requireLocation(ctx, *in.LocationID); err != nil {
			return nil, err
		}
		p.LocationID = *in.LocationID
	}
	applyPropertyPatch(p, in)
	if err := s.properties.Update(ctx, p); err != nil {
		if ve := rangeError(err); ve != nil {
			return nil, ve
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalidField("location_id", "The selected location id is invalid.")
		}
		return nil, fmt.Errorf("update property %d: %w", id, err)
	}
	s.logger.Infoj(log.JSON{"event": "property_updated", "property_id": id, "actor_id": actor.ID})
	return s.reload(ctx, id)
}

// UpdatePrice changes only the price, which must not be negative.
func (s *PropertyService) UpdatePrice(ctx context.Context, actor *policy.Actor, id uint64, in PriceInput) (*model.Property, error) {
	if err := policy.Authorize(actor, policy.PropertyUpdatePrice, nil); err != nil {
		return nil, err
	}
	if ve := check(in); ve != nil {
		return nil, ve
	}
	if _, err := s.properties.GetByID(ctx, id); err != nil {
		return nil, fmt.Errorf("get property %d: %w", id, err)
	}
	if err := s.properties.UpdatePrice(ctx, id, *in.Price); err != nil {
		if ve := rangeError(err); ve != nil {
			return nil, ve
		}
		return nil, fmt.Errorf("update price of property %d: %w", id, err)
	}
	s.logger.Infoj(log.JSON{"event": "property_price_updated", "property_id": id, "price": *in.Price, "actor_id": actor.ID})
	return s.reload(ctx, id)
}

// Delete removes the property and, through the schema, its bookings.
func (s *PropertyService) Delete(ctx context.Context, actor *policy.Actor, id uint64) error {
	if err := policy.Authorize(actor, policy.PropertyDelete, nil); err != nil {
		return err
	}
	if err := s.properties.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete property %d: %w", id, err)
	}
	s.logger.Infoj(log.JSON{"event": "property_deleted", "property_id": id, "actor_id": actor.ID})
	return nil
}

func (s *PropertyService) requireLocation(ctx context.Context, id uint64) error {
	ok, err := s.locations.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check location %d: %w", id, err)
	}
	if !ok {
		return invalidField("location_id", "The selected location id is invalid.")
	}
	return nil
}

func (s *PropertyService) reload(ctx context.Context, id uint64) (*model.Property, error) {
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload property %d: %w", id, err)
	}
	return p, nil
}

func applyPropertyPatch(p *model.Property, in PropertyPatch) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.PropertyImage != nil {
		p.PropertyImage = nonEmpty(in.PropertyImage)
	}
	if in.Property360Image != nil {
		p.Property360Image = nonEmpty(in.Property360Image)
	}
	if in.Description != nil {
		p.Description = in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Size != nil {
		p.Size = *in.Size
	}
	if in.PropertyType != nil {
		p.PropertyType = model.PropertyType(*in.PropertyType)
	}
	if in.Bedrooms != nil {
		p.Bedrooms = *in.Bedrooms
	}
	if in.Bathrooms != nil {
		p.Bathrooms = *in.Bathrooms
	}
	if in.YearBuilt != nil {
		p.YearBuilt = in.YearBuilt
	}
	if in.AvailableFrom != nil {
		p.AvailableFrom = parseOptionalDate(in.AvailableFrom)
	}
	if in.Status != nil {
		p.Status = model.PropertyStatus(*in.Status)
	}
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

// parseOptionalDate expects a value that already passed the date check.
func parseOptionalDate(s *string) *model.Date {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	d, err := model.ParseDate(*s)
	if err != nil {
		return nil
	}
	return &d
}
