// Package ports declares the storage and messaging dependencies of the
// services.  The repository package satisfies them in production; tests
// substitute mocks.
package ports

import (
	"context"
	"time"

	"github.com/iliyamo/land-looker/internal/model"
	"github.com/iliyamo/land-looker/internal/queue"
	"github.com/iliyamo/land-looker/internal/repository"
)

type UserRepo interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}

type TokenRepo interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

type LocationRepo interface {
	List(ctx context.Context) ([]model.Location, error)
	GetByID(ctx context.Context, id uint64) (*model.Location, error)
	Exists(ctx context.Context, id uint64) (bool, error)
	Create(ctx context.Context, l *model.Location) error
	Delete(ctx context.Context, id uint64) (repository.CascadeResult, error)
}

type PropertyRepo interface {
	List(ctx context.Context) ([]model.Property, error)
	Search(ctx context.Context, term string) ([]model.Property, error)
	Sort(ctx context.Context, field model.SortField, order model.SortOrder) ([]model.Property, error)
	GetByID(ctx context.Context, id uint64) (*model.Property, error)
	Exists(ctx context.Context, id uint64) (bool, error)
	Create(ctx context.Context, p *model.Property) error
	Update(ctx context.Context, p *model.Property) error
	UpdatePrice(ctx context.Context, id uint64, price float64) error
	Delete(ctx context.Context, id uint64) error
}

type BookingRepo interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	GetDetail(ctx context.Context, id uint64) (*model.BookingDetail, error)
	ListByBuyer(ctx context.Context, buyerID uint64) ([]model.BookingDetail, error)
	ListByWorker(ctx context.Context, workerID uint64) ([]model.BookingDetail, error)
	ListForExport(ctx context.Context, buyerID uint64) ([]model.Booking, error)
	Update(ctx context.Context, b *model.Booking) error
	UpdateStatus(ctx context.Context, id uint64, status model.BookingStatus) error
	Delete(ctx context.Context, id uint64) error
	HasActiveOnDate(ctx context.Context, propertyID uint64, date model.Date, excludeID uint64) (bool, error)
	TopBookedProperties(ctx context.Context, workerID uint64, limit int) ([]model.PropertyBookingCount, error)
}

// TokenRevoker blocks access tokens until they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	RevokeUser(ctx context.Context, userID uint64, at time.Time, ttl time.Duration) error
}

// EventPublisher is satisfied by queue.Publisher.
type EventPublisher interface {
	PublishBooking(ctx context.Context, ev queue.BookingEvent) error
}
