// This file holds booking persistence.  Besides plain CRUD it answers the
// queries behind the buyer and worker listings, the double-booking guard
// and the top-booked statistics.
package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/land-looker/internal/model"
)

type BookingRepo struct {
	db *sqlx.DB
}

func NewBookingRepo(db *sqlx.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = "b.id, b.property_id, b.buyer_id, b.worker_id, b.booking_date, b.status, b.total_price, b.payment_method"

// bookingDetailRow flattens a booking and its related people and property.
type bookingDetailRow struct {
	model.Booking
	BuyerName    string `db:"buyer_name"`
	BuyerEmail   string `db:"buyer_email"`
	WorkerName   string `db:"worker_name"`
	WorkerEmail  string `db:"worker_email"`
	PropertyName string `db:"property_name"`
}

const bookingDetailSelect = `SELECT ` + bookingColumns + `,
       bu.name AS buyer_name, bu.email AS buyer_email,
       wu.name AS worker_name, wu.email AS worker_email,
       p.name AS property_name
FROM bookings b
JOIN users bu ON bu.id = b.buyer_id
JOIN users wu ON wu.id = b.worker_id
JOIN properties p ON p.id = b.property_id`

func (row bookingDetailRow) detail(buyer, worker bool) model.BookingDetail {
	d := model.BookingDetail{
		Booking:  row.Booking,
		Property: &model.PropertyRef{ID: row.PropertyID, Name: row.PropertyName},
	}
	if buyer {
		d.Buyer = &model.UserRef{ID: row.BuyerID, Name: row.BuyerName, Email: row.BuyerEmail}
	}
	if worker {
		d.Worker = &model.UserRef{ID: row.WorkerID, Name: row.WorkerName, Email: row.WorkerEmail}
	}
	return d
}

// Create inserts b and populates its ID.  A dangling property, buyer or
// worker reference yields ErrNotFound.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO bookings (property_id, buyer_id, worker_id, booking_date, status, total_price, payment_method)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.PropertyID, b.BuyerID, b.WorkerID, b.BookingDate, b.Status, b.TotalPrice, b.PaymentMethod)
	if err != nil {
		return writeError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// GetByID returns the bare booking row.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	var b model.Booking
	if err := r.db.GetContext(ctx, &b, `SELECT `+bookingColumns+` FROM bookings b WHERE b.id = ?`, id); err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

// GetDetail returns the booking with buyer, worker and property embedded.
func (r *BookingRepo) GetDetail(ctx context.Context, id uint64) (*model.BookingDetail, error) {
	var row bookingDetailRow
	if err := r.db.GetContext(ctx, &row, bookingDetailSelect+` WHERE b.id = ?`, id); err != nil {
		return nil, notFound(err)
	}
	d := row.detail(true, true)
	return &d, nil
}

// ListByBuyer returns the caller's bookings with worker and property
// embedded, oldest first.
func (r *BookingRepo) ListByBuyer(ctx context.Context, buyerID uint64) ([]model.BookingDetail, error) {
	var rows []bookingDetailRow
	if err := r.db.SelectContext(ctx, &rows, bookingDetailSelect+` WHERE b.buyer_id = ? ORDER BY b.id`, buyerID); err != nil {
		return nil, err
	}
	out := make([]model.BookingDetail, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.detail(false, true))
	}
	return out, nil
}

// ListByWorker returns bookings assigned to a worker with buyer and
// property embedded, latest booking date first.
func (r *BookingRepo) ListByWorker(ctx context.Context, workerID uint64) ([]model.BookingDetail, error) {
	var rows []bookingDetailRow
	q := bookingDetailSelect + ` WHERE b.worker_id = ? ORDER BY b.booking_date DESC, b.id DESC`
	if err := r.db.SelectContext(ctx, &rows, q, workerID); err != nil {
		return nil, err
	}
	out := make([]model.BookingDetail, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.detail(true, false))
	}
	return out, nil
}

// ListForExport returns the buyer's bare booking rows in id order.
func (r *BookingRepo) ListForExport(ctx context.Context, buyerID uint64) ([]model.Booking, error) {
	out := []model.Booking{}
	err := r.db.SelectContext(ctx, &out, `SELECT `+bookingColumns+` FROM bookings b WHERE b.buyer_id = ? ORDER BY b.id`, buyerID)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites the mutable columns of b.  The buyer never changes.
func (r *BookingRepo) Update(ctx context.Context, b *model.Booking) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET property_id = ?, worker_id = ?, booking_date = ?, status = ?, total_price = ?, payment_method = ?
		 WHERE id = ?`,
		b.PropertyID, b.WorkerID, b.BookingDate, b.Status, b.TotalPrice, b.PaymentMethod, b.ID)
	return writeError(err)
}

// UpdateStatus changes only the status column.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, status model.BookingStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE bookings SET status = ? WHERE id = ?`, status, id)
	return err
}

// Delete removes a booking; ErrNotFound when nothing matched.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) error {
	return mustAffect(r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id))
}

// HasActiveOnDate reports whether a non-cancelled booking of the property
// exists on date.  excludeID skips the booking being updated; pass 0 on
// create.
func (r *BookingRepo) HasActiveOnDate(ctx context.Context, propertyID uint64, date model.Date, excludeID uint64) (bool, error) {
	var n int
	err := r.db.GetContext(ctx, &n,
		`SELECT COUNT(1) FROM bookings
		 WHERE property_id = ? AND booking_date = ? AND status <> 'cancelled' AND id <> ?`,
		propertyID, date, excludeID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// TopBookedProperties counts the worker's bookings per property and
// returns the limit most booked, ties broken by property id.  Properties
// without bookings are not listed.
func (r *BookingRepo) TopBookedProperties(ctx context.Context, workerID uint64, limit int) ([]model.PropertyBookingCount, error) {
	out := []model.PropertyBookingCount{}
	err := r.db.SelectContext(ctx, &out,
		`SELECT p.id, p.name, COUNT(b.id) AS bookings_count
		 FROM properties p
		 JOIN bookings b ON b.property_id = p.id
		 WHERE b.worker_id = ?
		 GROUP BY p.id, p.name
		 ORDER BY bookings_count DESC, p.id ASC
		 LIMIT ?`,
		workerID, limit)
	if err != nil {
		return nil, err
	}
	return out, nil
}
