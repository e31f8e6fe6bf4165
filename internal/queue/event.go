// Package queue carries booking events between the API and the
// booking-logger over RabbitMQ.
package queue

import (
	"time"

	"github.com/iliyamo/land-looker/internal/model"
)

// QueueName is the durable queue booking events are published to.
const QueueName = "booking.events"

// EventType says what happened to a booking.
type EventType string

const (
	BookingCreated       EventType = "booking.created"
	BookingUpdated       EventType = "booking.updated"
	BookingStatusChanged EventType = "booking.status_changed"
	BookingDeleted       EventType = "booking.deleted"
)

// BookingEvent is self-contained so consumers never need to query the
// primary database.
type BookingEvent struct {
	Type          EventType           `json:"type"`
	BookingID     uint64              `json:"booking_id"`
	PropertyID    uint64              `json:"property_id"`
	BuyerID       uint64              `json:"buyer_id"`
	WorkerID      uint64              `json:"worker_id"`
	ActorID       uint64              `json:"actor_id"`
	Status        model.BookingStatus `json:"status"`
	BookingDate   string              `json:"booking_date"`
	TotalPrice    float64             `json:"total_price"`
	PaymentMethod model.PaymentMethod `json:"payment_method"`
	OccurredAt    string              `json:"occurred_at"`
}

// NewBookingEvent snapshots b.
func NewBookingEvent(t EventType, b *model.Booking, actorID uint64) BookingEvent {
	return BookingEvent{
		Type:          t,
		BookingID:     b.ID,
		PropertyID:    b.PropertyID,
		BuyerID:       b.BuyerID,
		WorkerID:      b.WorkerID,
		ActorID:       actorID,
		Status:        b.Status,
		BookingDate:   b.BookingDate.String(),
		TotalPrice:    b.TotalPrice,
		PaymentMethod: b.PaymentMethod,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	}
}
