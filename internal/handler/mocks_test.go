package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/land-looker/internal/middleware"
	"github.com/iliyamo/land-looker/internal/model"
	"github.com/iliyamo/land-looker/internal/policy"
	"github.com/iliyamo/land-looker/internal/repository"
	"github.com/iliyamo/land-looker/internal/service"
)

var (
	buyer  = &policy.Actor{ID: 10, Role: model.RoleBuyer}
	worker = &policy.Actor{ID: 20, Role: model.RoleWorker}
)

// as stands in for JWTAuth and puts actor on the context.
func as(actor *policy.Actor) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if actor != nil {
				c.Set(middleware.KeyUserID, actor.ID)
				c.Set(middleware.KeyRole, actor.Role)
				c.Set(middleware.KeyTokenID, "jti-1")
				c.Set(middleware.KeyTokenExp, time.Unix(1700000000, 0))
			}
			return next(c)
		}
	}
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Logger.SetOutput(io.Discard)
	return e
}

type mockAuth struct{ mock.Mock }

func (m *mockAuth) Register(ctx context.Context, in service.RegisterInput) (*service.AuthResult, error) {
	args := m.Called(ctx, in)
	r, _ := args.Get(0).(*service.AuthResult)
	return r, args.Error(1)
}

func (m *mockAuth) Login(ctx context.Context, in service.LoginInput) (*service.AuthResult, error) {
	args := m.Called(ctx, in)
	r, _ := args.Get(0).(*service.AuthResult)
	return r, args.Error(1)
}

func (m *mockAuth) Refresh(ctx context.Context, raw string) (*service.AuthResult, error) {
	args := m.Called(ctx, raw)
	r, _ := args.Get(0).(*service.AuthResult)
	return r, args.Error(1)
}

func (m *mockAuth) Logout(ctx context.Context, actor *policy.Actor, jti string, exp time.Time) (string, error) {
	args := m.Called(ctx, actor, jti, exp)
	return args.String(0), args.Error(1)
}

func (m *mockAuth) Me(ctx context.Context, actor *policy.Actor) (*model.User, error) {
	args := m.Called(ctx, actor)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

type mockProperties struct{ mock.Mock }

func (m *mockProperties) List(ctx context.Context) ([]model.Property, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]model.Property)
	return out, args.Error(1)
}

func (m *mockProperties) Get(ctx context.Context, id uint64) (*model.Property, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*model.Property)
	return p, args.Error(1)
}

func (m *mockProperties) Search(ctx context.Context, actor *policy.Actor, in service.SearchInput) ([]model.Property, error) {
	args := m.Called(ctx, actor, in)
	out, _ := args.Get(0).([]model.Property)
	return out, args.Error(1)
}

func (m *mockProperties) Sort(ctx context.Context, actor *policy.Actor, in service.SortInput) ([]model.Property, error) {
	args := m.Called(ctx, actor, in)
	out, _ := args.Get(0).([]model.Property)
	return out, args.Error(1)
}

func (m *mockProperties) Create(ctx context.Context, actor *policy.Actor, in service.PropertyInput) (*model.Property, error) {
	args := m.Called(ctx, actor, in)
	p, _ := args.Get(0).(*model.Property)
	return p, args.Error(1)
}

func (m *mockProperties) Update(ctx context.Context, actor *policy.Actor, id uint64, in service.PropertyPatch) (*model.Property, error) {
	args := m.Called(ctx, actor, id, in)
	p, _ := args.Get(0).(*model.Property)
	return p, args.Error(1)
}

func (m *mockProperties) UpdatePrice(ctx context.Context, actor *policy.Actor, id uint64, in service.PriceInput) (*model.Property, error) {
	args := m.Called(ctx, actor, id, in)
	p, _ := args.Get(0).(*model.Property)
	return p, args.Error(1)
}

func (m *mockProperties) Delete(ctx context.Context, actor *policy.Actor, id uint64) error {
	return m.Called(ctx, actor, id).Error(0)
}

type mockLocations struct{ mock.Mock }

func (m *mockLocations) List(ctx context.Context) ([]model.Location, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]model.Location)
	return out, args.Error(1)
}

func (m *mockLocations) Create(ctx context.Context, actor *policy.Actor, in service.LocationInput) (*model.Location, error) {
	args := m.Called(ctx, actor, in)
	l, _ := args.Get(0).(*model.Location)
	return l, args.Error(1)
}

func (m *mockLocations) Delete(ctx context.Context, actor *policy.Actor, id uint64) (repository.CascadeResult, error) {
	args := m.Called(ctx, actor, id)
	return args.Get(0).(repository.CascadeResult), args.Error(1)
}

type mockBookings struct{ mock.Mock }

func (m *mockBookings) Create(ctx context.Context, actor *policy.Actor, in service.BookingInput) (*model.Booking, error) {
	args := m.Called(ctx, actor, in)
	b, _ := args.Get(0).(*model.Booking)
	return b, args.Error(1)
}

func (m *mockBookings) Get(ctx context.Context, actor *policy.Actor, id uint64) (*model.BookingDetail, error) {
	args := m.Called(ctx, actor, id)
	b, _ := args.Get(0).(*model.BookingDetail)
	return b, args.Error(1)
}

func (m *mockBookings) Update(ctx context.Context, actor *policy.Actor, id uint64, in service.BookingPatch) (*model.Booking, error) {
	args := m.Called(ctx, actor, id, in)
	b, _ := args.Get(0).(*model.Booking)
	return b, args.Error(1)
}

func (m *mockBookings) UpdateStatus(ctx context.Context, actor *policy.Actor, id uint64, in service.StatusInput) (*model.BookingDetail, error) {
	args := m.Called(ctx, actor, id, in)
	b, _ := args.Get(0).(*model.BookingDetail)
	return b, args.Error(1)
}

func (m *mockBookings) Delete(ctx context.Context, actor *policy.Actor, id uint64) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *mockBookings) ListForBuyer(ctx context.Context, actor *policy.Actor) ([]model.BookingDetail, error) {
	args := m.Called(ctx, actor)
	out, _ := args.Get(0).([]model.BookingDetail)
	return out, args.Error(1)
}

func (m *mockBookings) ListForWorker(ctx context.Context, actor *policy.Actor) ([]model.BookingDetail, error) {
	args := m.Called(ctx, actor)
	out, _ := args.Get(0).([]model.BookingDetail)
	return out, args.Error(1)
}

func (m *mockBookings) Export(ctx context.Context, actor *policy.Actor) ([]model.Booking, error) {
	args := m.Called(ctx, actor)
	out, _ := args.Get(0).([]model.Booking)
	return out, args.Error(1)
}

func (m *mockBookings) TopBookedProperties(ctx context.Context, actor *policy.Actor) ([]model.PropertyBookingCount, error) {
	args := m.Called(ctx, actor)
	out, _ := args.Get(0).([]model.PropertyBookingCount)
	return out, args.Error(1)
}
