package model

// BookingStatus enumerates bookings.status.  No transition between the
// values is forbidden.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled:
		return true
	}
	return false
}

// PaymentMethod enumerates bookings.payment_method.
type PaymentMethod string

const (
	PaymentCreditCard   PaymentMethod = "credit_card"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentPaypal       PaymentMethod = "paypal"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCreditCard, PaymentBankTransfer, PaymentPaypal:
		return true
	}
	return false
}

// Booking is a buyer-initiated reservation of a property with an
// assigned worker.
//
// Fields:
//  ID            – primary key identifier.
//  PropertyID    – booked property.
//  BuyerID       – user who created the booking; always the caller.
//  WorkerID      – worker assigned to handle the booking.
//  BookingDate   – requested date.
//  Status        – pending, confirmed or cancelled.
//  TotalPrice    – agreed total, never negative.
//  PaymentMethod – credit_card, bank_transfer or paypal.
type Booking struct {
	ID            uint64        `db:"id" json:"id"`
	PropertyID    uint64        `db:"property_id" json:"property_id"`
	BuyerID       uint64        `db:"buyer_id" json:"buyer_id"`
	WorkerID      uint64        `db:"worker_id" json:"worker_id"`
	BookingDate   Date          `db:"booking_date" json:"booking_date"`
	Status        BookingStatus `db:"status" json:"status"`
	TotalPrice    float64       `db:"total_price" json:"total_price"`
	PaymentMethod PaymentMethod `db:"payment_method" json:"payment_method"`
}

// BookingDetail is a booking together with the related records a client
// needs to render it.  Related entities are nil when they were not
// requested by the query that produced the detail.
type BookingDetail struct {
	Booking
	Buyer    *UserRef     `json:"buyer,omitempty"`
	Worker   *UserRef     `json:"worker,omitempty"`
	Property *PropertyRef `json:"property,omitempty"`
}

// PropertyBookingCount is one row of the booking statistics.
type PropertyBookingCount struct {
	ID            uint64 `db:"id" json:"id"`
	Name          string `db:"name" json:"name"`
	BookingsCount int    `db:"bookings_count" json:"bookings_count"`
}
