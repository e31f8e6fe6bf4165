package service

import (
	"context"
	"io"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/land-looker/internal/model"
	"github.com/iliyamo/land-looker/internal/queue"
	"github.com/iliyamo/land-looker/internal/repository"
)

func newTestLogger() *log.Logger {
	l := log.New("test")
	l.SetOutput(io.Discard)
	l.SetLevel(log.OFF)
	return l
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, u *model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

type mockTokenRepo struct{ mock.Mock }

func (m *mockTokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	return m.Called(ctx, userID, tokenHash, exp).Error(0)
}

func (m *mockTokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *mockTokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	return m.Called(ctx, tokenHash).Error(0)
}

func (m *mockTokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	return m.Called(ctx, userID).Error(0)
}

type mockRevoker struct{ mock.Mock }

func (m *mockRevoker) Revoke(ctx context.Context, jti string, until time.Time) error {
	return m.Called(ctx, jti, until).Error(0)
}

func (m *mockRevoker) RevokeUser(ctx context.Context, userID uint64, at time.Time, ttl time.Duration) error {
	return m.Called(ctx, userID, at, ttl).Error(0)
}

type mockLocationRepo struct{ mock.Mock }

func (m *mockLocationRepo) List(ctx context.Context) ([]model.Location, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]model.Location)
	return out, args.Error(1)
}

func (m *mockLocationRepo) GetByID(ctx context.Context, id uint64) (*model.Location, error) {
	args := m.Called(ctx, id)
	l, _ := args.Get(0).(*model.Location)
	return l, args.Error(1)
}

func (m *mockLocationRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockLocationRepo) Create(ctx context.Context, l *model.Location) error {
	return m.Called(ctx, l).Error(0)
}

func (m *mockLocationRepo) Delete(ctx context.Context, id uint64) (repository.CascadeResult, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(repository.CascadeResult), args.Error(1)
}

type mockPropertyRepo struct{ mock.Mock }

func (m *mockPropertyRepo) List(ctx context.Context) ([]model.Property, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]model.Property)
	return out, args.Error(1)
}

func (m *mockPropertyRepo) Search(ctx context.Context, term string) ([]model.Property, error) {
	args := m.Called(ctx, term)
	out, _ := args.Get(0).([]model.Property)
	return out, args.Error(1)
}

func (m *mockPropertyRepo) Sort(ctx context.Context, field model.SortField, order model.SortOrder) ([]model.Property, error) {
	args := m.Called(ctx, field, order)
	out, _ := args.Get(0).([]model.Property)
	return out, args.Error(1)
}

func (m *mockPropertyRepo) GetByID(ctx context.Context, id uint64) (*model.Property, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*model.Property)
	return p, args.Error(1)
}

func (m *mockPropertyRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockPropertyRepo) Create(ctx context.Context, p *model.Property) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPropertyRepo) Update(ctx context.Context, p *model.Property) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPropertyRepo) UpdatePrice(ctx context.Context, id uint64, price float64) error {
	return m.Called(ctx, id, price).Error(0)
}

func (m *mockPropertyRepo) Delete(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) Create(ctx context.Context, b *model.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockBookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*model.Booking)
	return b, args.Error(1)
}

func (m *mockBookingRepo) GetDetail(ctx context.Context, id uint64) (*model.BookingDetail, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*model.BookingDetail)
	return d, args.Error(1)
}

func (m *mockBookingRepo) ListByBuyer(ctx context.Context, buyerID uint64) ([]model.BookingDetail, error) {
	args := m.Called(ctx, buyerID)
	out, _ := args.Get(0).([]model.BookingDetail)
	return out, args.Error(1)
}

func (m *mockBookingRepo) ListByWorker(ctx context.Context, workerID uint64) ([]model.BookingDetail, error) {
	args := m.Called(ctx, workerID)
	out, _ := args.Get(0).([]model.BookingDetail)
	return out, args.Error(1)
}

func (m *mockBookingRepo) ListForExport(ctx context.Context, buyerID uint64) ([]model.Booking, error) {
	args := m.Called(ctx, buyerID)
	out, _ := args.Get(0).([]model.Booking)
	return out, args.Error(1)
}

func (m *mockBookingRepo) Update(ctx context.Context, b *model.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id uint64, status model.BookingStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockBookingRepo) Delete(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockBookingRepo) HasActiveOnDate(ctx context.Context, propertyID uint64, date model.Date, excludeID uint64) (bool, error) {
	args := m.Called(ctx, propertyID, date, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookingRepo) TopBookedProperties(ctx context.Context, workerID uint64, limit int) ([]model.PropertyBookingCount, error) {
	args := m.Called(ctx, workerID, limit)
	out, _ := args.Get(0).([]model.PropertyBookingCount)
	return out, args.Error(1)
}

// chanPublisher hands every event to a buffered channel.
type chanPublisher chan queue.BookingEvent

func (c chanPublisher) PublishBooking(_ context.Context, ev queue.BookingEvent) error {
	c <- ev
	return nil
}
