package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/land-looker/internal/model"
	"github.com/iliyamo/land-looker/internal/policy"
	"github.com/iliyamo/land-looker/internal/repository"
	"github.com/iliyamo/land-looker/internal/service/ports"
)

type LocationService struct {
	locations ports.LocationRepo
	logger    *log.Logger
}

func NewLocationService(locations ports.LocationRepo, logger *log.Logger) *LocationService {
	return &LocationService{locations: locations, logger: logger}
}

type LocationInput struct {
	City      string   `json:"city" validate:"required,max=255"`
	State     string   `json:"state" validate:"max=255"`
	Country   string   `json:"country" validate:"required,max=255"`
	ZipCode   string   `json:"zip_code" validate:"required,max=20"`
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

// List is public; locations come back ordered by city.
func (s *LocationService) List(ctx context.Context) ([]model.Location, error) {
	out, err := s.locations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return out, nil
}

func (s *LocationService) Create(ctx context.Context, actor *policy.Actor, in LocationInput) (*model.Location, error) {
	if err := policy.Authorize(actor, policy.LocationCreate, nil); err != nil {
		return nil, err
	}
	in.City = strings.TrimSpace(in.City)
	in.Country = strings.TrimSpace(in.Country)
	in.ZipCode = strings.TrimSpace(in.ZipCode)
	if ve := check(in); ve != nil {
		return nil, ve
	}
	l := &model.Location{
		City:      in.City,
		State:     strings.TrimSpace(in.State),
		Country:   in.Country,
		ZipCode:   in.ZipCode,
		Latitude:  *in.Latitude,
		Longitude: *in.Longitude,
	}
	if err := s.locations.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}
	s.logger.Infoj(log.JSON{"event": "location_created", "location_id": l.ID, "actor_id": actor.ID})
	return l, nil
}

// Delete removes the location together with its properties and their
// bookings.
func (s *LocationService) Delete(ctx context.Context, actor *policy.Actor, id uint64) (repository.CascadeResult, error) {
	if err := policy.Authorize(actor, policy.LocationDelete, nil); err != nil {
		return repository.CascadeResult{}, err
	}
	res, err := s.locations.Delete(ctx, id)
	if err != nil {
		return res, fmt.Errorf("delete location %d: %w", id, err)
	}
	s.logger.Infoj(log.JSON{
		"event":       "location_deleted",
		"location_id": id,
		"actor_id":    actor.ID,
		"properties":  res.Properties,
		"bookings":    res.Bookings,
	})
	return res, nil
}
