// This file holds the location registry.  Locations are reference data:
// they are listed publicly, created by workers or the seeder, and deleting
// one removes every property located there together with the bookings of
// those properties.
package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/land-looker/internal/model"
)

// LocationRepo encapsulates all queries against the locations table.
type LocationRepo struct {
	db *sqlx.DB
}

func NewLocationRepo(db *sqlx.DB) *LocationRepo { return &LocationRepo{db: db} }

const locationColumns = "id, city, state, country, zip_code, latitude, longitude"

// List returns every location ordered by city.
func (r *LocationRepo) List(ctx context.Context) ([]model.Location, error) {
	out := []model.Location{}
	err := r.db.SelectContext(ctx, &out, "SELECT "+locationColumns+" FROM locations ORDER BY city, id")
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns ErrNotFound when no location has the given id.
func (r *LocationRepo) GetByID(ctx context.Context, id uint64) (*model.Location, error) {
	var l model.Location
	if err := r.db.GetContext(ctx, &l, "SELECT "+locationColumns+" FROM locations WHERE id = ?", id); err != nil {
		return nil, notFound(err)
	}
	return &l, nil
}

// Exists reports whether a location with the given id is present.
func (r *LocationRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(1) FROM locations WHERE id = ?", id); err != nil {
		return false, err
	}
	return n > 0, nil
}

// Count returns the number of stored locations.
func (r *LocationRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, "SELECT COUNT(1) FROM locations")
	return n, err
}

// Create inserts l and populates its ID.
func (r *LocationRepo) Create(ctx context.Context, l *model.Location) error {
	const q = `INSERT INTO locations (city, state, country, zip_code, latitude, longitude)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, l.City, l.State, l.Country, l.ZipCode, l.Latitude, l.Longitude)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	return nil
}

// CascadeResult reports how many dependent rows a cascading delete removed.
type CascadeResult struct {
	Properties int64 `json:"properties"`
	Bookings   int64 `json:"bookings"`
}

// Delete removes a location, its properties and their bookings in one
// transaction.  The foreign keys cascade as well; deleting explicitly
// lets the caller report what went away.  ErrNotFound is returned when
// the location does not exist.
func (r *LocationRepo) Delete(ctx context.Context, id uint64) (res CascadeResult, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return res, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var n int
	if err = tx.GetContext(ctx, &n, `SELECT COUNT(1) FROM locations WHERE id = ? FOR UPDATE`, id); err != nil {
		return res, err
	}
	if n == 0 {
		err = ErrNotFound
		return res, err
	}
	out, err := tx.ExecContext(ctx,
		`DELETE b FROM bookings b
		 JOIN properties p ON p.id = b.property_id
		 WHERE p.location_id = ?`, id)
	if err != nil {
		return res, err
	}
	res.Bookings, _ = out.RowsAffected()

	out, err = tx.ExecContext(ctx, `DELETE FROM properties WHERE location_id = ?`, id)
	if err != nil {
		return res, err
	}
	res.Properties, _ = out.RowsAffected()

	if _, err = tx.ExecContext(ctx, `DELETE FROM locations WHERE id = ?`, id); err != nil {
		return res, err
	}
	return res, nil
}
