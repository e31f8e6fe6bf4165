package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/land-looker/internal/model"
	"github.com/iliyamo/land-looker/internal/policy"
	"github.com/iliyamo/land-looker/internal/queue"
	"github.com/iliyamo/land-looker/internal/repository"
	"github.com/iliyamo/land-looker/internal/service/ports"
)

// TopBookedLimit caps the statistics result.
const TopBookedLimit = 5

type BookingService struct {
	bookings   ports.BookingRepo
	properties ports.PropertyRepo
	users      ports.UserRepo
	events     ports.EventPublisher
	logger     *log.Logger

	// conflictCheck rejects a second non-cancelled booking of the same
	// property on the same date.
	conflictCheck bool
}

func NewBookingService(
	bookings ports.BookingRepo,
	properties ports.PropertyRepo,
	users ports.UserRepo,
	events ports.EventPublisher,
	logger *log.Logger,
	conflictCheck bool,
) *BookingService {
	return &BookingService{
		bookings:      bookings,
		properties:    properties,
		users:         users,
		events:        events,
		logger:        logger,
		conflictCheck: conflictCheck,
	}
}

// BookingInput is the creation payload.  A buyer_id in the request body
// is never read; the buyer is always the caller.
type BookingInput struct {
	PropertyID    *uint64  `json:"property_id" validate:"required"`
	WorkerID      *uint64  `json:"worker_id" validate:"required"`
	BookingDate   string   `json:"booking_date" validate:"required,date"`
	Status        string   `json:"status" validate:"required,oneof=pending confirmed cancelled"`
	TotalPrice    *float64 `json:"total_price" validate:"required,gte=0,lte=9999999999.99"`
	PaymentMethod string   `json:"payment_method" validate:"required,oneof=credit_card bank_transfer paypal"`
}

// BookingPatch is the buyer's partial update.  Property and worker are
// fixed at creation.
type BookingPatch struct {
	BookingDate   *string  `json:"booking_date" validate:"omitnil,date"`
	Status        *string  `json:"status" validate:"omitnil,oneof=pending confirmed cancelled"`
	TotalPrice    *float64 `json:"total_price" validate:"omitnil,gte=0,lte=9999999999.99"`
	PaymentMethod *string  `json:"payment_method" validate:"omitnil,oneof=credit_card bank_transfer paypal"`
}

type StatusInput struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled"`
}

// Create records a booking for the calling buyer.
func (s *BookingService) Create(ctx context.Context, actor *policy.Actor, in BookingInput) (*model.Booking, error) {
	if err := policy.Authorize(actor, policy.BookingCreate, nil); err != nil {
		return nil, err
	}
	if ve := check(in); ve != nil {
		return nil, ve
	}
	ok, err := s.properties.Exists(ctx, *in.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("check property %d: %w", *in.PropertyID, err)
	}
	if !ok {
		return nil, fmt.Errorf("property %d: %w", *in.PropertyID, repository.ErrNotFound)
	}
	if err := s.requireWorker(ctx, *in.WorkerID); err != nil {
		return nil, err
	}
	date, _ := model.ParseDate(in.BookingDate)
	b := &model.Booking{
		PropertyID:    *in.PropertyID,
		BuyerID:       actor.ID,
		WorkerID:      *in.WorkerID,
		BookingDate:   date,
		Status:        model.BookingStatus(in.Status),
		TotalPrice:    *in.TotalPrice,
		PaymentMethod: model.PaymentMethod(in.PaymentMethod),
	}
	if err := s.checkConflict(ctx, b); err != nil {
		return nil, err
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		if ve := rangeError(err); ve != nil {
			return nil, ve
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("property %d: %w", b.PropertyID, err)
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}
	s.logger.Infoj(log.JSON{"event": "booking_created", "booking_id": b.ID, "property_id": b.PropertyID, "buyer_id": b.BuyerID, "worker_id": b.WorkerID})
	s.publish(ctx, queue.BookingCreated, b, actor.ID)
	return b, nil
}

// Get returns the booking with buyer, worker and property embedded.  Only
// the buyer of record may read it.
func (s *BookingService) Get(ctx context.Context, actor *policy.Actor, id uint64) (*model.BookingDetail, error) {
	if actor == nil {
		return nil, policy.ErrUnauthorized
	}
	d, err := s.bookings.GetDetail(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking %d: %w", id, err)
	}
	if err := policy.Authorize(actor, policy.BookingRead, policy.BookingResource(&d.Booking)); err != nil {
		return nil, err
	}
	return d, nil
}

// Update applies the buyer's partial change: lookup, then ownership, then
// payload validation.
func (s *BookingService) Update(ctx context.Context, actor *policy.Actor, id uint64, in BookingPatch) (*model.Booking, error) {
	if actor == nil {
		return nil, policy.ErrUnauthorized
	}
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking %d: %w", id, err)
	}
	if err := policy.Authorize(actor, policy.BookingUpdate, policy.BookingResource(b)); err != nil {
		return nil, err
	}
	if ve := check(in); ve != nil {
		return nil, ve
	}
	prev := *b
	if in.BookingDate != nil {
		b.BookingDate, _ = model.ParseDate(*in.BookingDate)
	}
	if in.Status != nil {
		b.Status = model.BookingStatus(*in.Status)
	}
	if in.TotalPrice != nil {
		b.TotalPrice = *in.TotalPrice
	}
	if in.PaymentMethod != nil {
		b.PaymentMethod = model.PaymentMethod(*in.PaymentMethod)
	}
	if reactivates(prev, *b) {
		if err := s.checkConflict(ctx, b); err != nil {
			return nil, err
		}
	}
	if err := s.bookings.Update(ctx, b); err != nil {
		if ve := rangeError(err); ve != nil {
			return nil, ve
		}
		return nil, fmt.Errorf("update booking %d: %w", id, err)
	}
	s.logger.Infoj(log.JSON{"event": "booking_updated", "booking_id": id, "actor_id": actor.ID})
	s.publish(ctx, queue.BookingUpdated, b, actor.ID)
	return b, nil
}

// UpdateStatus lets the assigned worker change only the status.  Any
// status may replace any other.
func (s *BookingService) UpdateStatus(ctx context.Context, actor *policy.Actor, id uint64, in StatusInput) (*model.BookingDetail, error) {
	if err := policy.RoleOnly(actor, policy.BookingUpdateStatus); err != nil {
		return nil, err
	}
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking %d: %w", id, err)
	}
	if err := policy.Authorize(actor, policy.BookingUpdateStatus, policy.BookingResource(b)); err != nil {
		return nil, err
	}
	if ve := check(in); ve != nil {
		return nil, ve
	}
	prev := *b
	b.Status = model.BookingStatus(in.Status)
	if reactivates(prev, *b) {
		if err := s.checkConflict(ctx, b); err != nil {
			return nil, err
		}
	}
	if err := s.bookings.UpdateStatus(ctx, id, b.Status); err != nil {
		return nil, fmt.Errorf("update status of booking %d: %w", id, err)
	}
	s.logger.Infoj(log.JSON{"event": "booking_status_changed", "booking_id": id, "from": prev.Status, "to": b.Status, "actor_id": actor.ID})
	s.publish(ctx, queue.BookingStatusChanged, b, actor.ID)

	d, err := s.bookings.GetDetail(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload booking %d: %w", id, err)
	}
	return d, nil
}

// Delete hard-deletes the booking.  Only the buyer of record may do so.
func (s *BookingService) Delete(ctx context.Context, actor *policy.Actor, id uint64) error {
	if actor == nil {
		return policy.ErrUnauthorized
	}
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get booking %d: %w", id, err)
	}
	if err := policy.Authorize(actor, policy.BookingDelete, policy.BookingResource(b)); err != nil {
		return err
	}
	if err := s.bookings.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete booking %d: %w", id, err)
	}
	s.logger.Infoj(log.JSON{"event": "booking_deleted", "booking_id": id, "actor_id": actor.ID})
	s.publish(ctx, queue.BookingDeleted, b, actor.ID)
	return nil
}

// ListForBuyer returns the caller's bookings with the assigned worker and
// the property embedded.
func (s *BookingService) ListForBuyer(ctx context.Context, actor *policy.Actor) ([]model.BookingDetail, error) {
	if err := policy.Authorize(actor, policy.BookingList, nil); err != nil {
		return nil, err
	}
	out, err := s.bookings.ListByBuyer(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list bookings of buyer %d: %w", actor.ID, err)
	}
	return out, nil
}

// ListForWorker returns bookings assigned to the caller, latest first.
func (s *BookingService) ListForWorker(ctx context.Context, actor *policy.Actor) ([]model.BookingDetail, error) {
	if err := policy.Authorize(actor, policy.BookingListAssigned, nil); err != nil {
		return nil, err
	}
	out, err := s.bookings.ListByWorker(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list bookings of worker %d: %w", actor.ID, err)
	}
	return out, nil
}

// Export returns the caller's bookings in insertion order for the CSV
// download.
func (s *BookingService) Export(ctx context.Context, actor *policy.Actor) ([]model.Booking, error) {
	if err := policy.Authorize(actor, policy.BookingExport, nil); err != nil {
		return nil, err
	}
	out, err := s.bookings.ListForExport(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("export bookings of buyer %d: %w", actor.ID, err)
	}
	return out, nil
}

// TopBookedProperties counts the caller's assigned bookings per property
// and returns at most TopBookedLimit entries, most booked first and ties
// by ascending property id.
func (s *BookingService) TopBookedProperties(ctx context.Context, actor *policy.Actor) ([]model.PropertyBookingCount, error) {
	if err := policy.Authorize(actor, policy.BookingStatistics, nil); err != nil {
		return nil, err
	}
	out, err := s.bookings.TopBookedProperties(ctx, actor.ID, TopBookedLimit)
	if err != nil {
		return nil, fmt.Errorf("booking statistics: %w", err)
	}
	if len(out) > TopBookedLimit {
		out = out[:TopBookedLimit]
	}
	return out, nil
}

func (s *BookingService) requireWorker(ctx context.Context, id uint64) error {
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && u.UserType != model.RoleWorker) {
		return invalidField("worker_id", "The selected worker id is invalid.")
	}
	if err != nil {
		return fmt.Errorf("check worker %d: %w", id, err)
	}
	return nil
}

func (s *BookingService) checkConflict(ctx context.Context, b *model.Booking) error {
	if !s.conflictCheck || b.Status == model.BookingCancelled {
		return nil
	}
	taken, err := s.bookings.HasActiveOnDate(ctx, b.PropertyID, b.BookingDate, b.ID)
	if err != nil {
		return fmt.Errorf("check booking conflict: %w", err)
	}
	if taken {
		return fmt.Errorf("property %d is already booked on %s: %w", b.PropertyID, b.BookingDate, repository.ErrConflict)
	}
	return nil
}

// reactivates reports whether next occupies a date that prev did not.
func reactivates(prev, next model.Booking) bool {
	if next.Status == model.BookingCancelled {
		return false
	}
	return prev.Status == model.BookingCancelled || !prev.BookingDate.Equal(next.BookingDate.Time)
}

func (s *BookingService) publish(ctx context.Context, t queue.EventType, b *model.Booking, actorID uint64) {
	ev := queue.NewBookingEvent(t, b, actorID)
	go func() {
		if err := s.events.PublishBooking(context.WithoutCancel(ctx), ev); err != nil {
			s.logger.Warnj(log.JSON{"event": "booking_event_dropped", "type": t, "booking_id": b.ID, "error": err.Error()})
		}
	}()
}
