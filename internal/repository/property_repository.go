// This file holds the property catalog.  Reads join the owning location
// so that every returned Property carries it; writes operate on the
// properties table only.
package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/land-looker/internal/model"
)

type PropertyRepo struct {
	db *sqlx.DB
}

func NewPropertyRepo(db *sqlx.DB) *PropertyRepo { return &PropertyRepo{db: db} }

const propertySelect = `SELECT p.id, p.name, p.property_image, p.property_360_image, p.description,
       p.price, p.size, p.property_type, p.bedrooms, p.bathrooms, p.year_built,
       p.available_from, p.status, p.location_id,
       l.city AS loc_city, l.state AS loc_state, l.country AS loc_country,
       l.zip_code AS loc_zip_code, l.latitude AS loc_latitude, l.longitude AS loc_longitude
FROM properties p
JOIN locations l ON l.id = p.location_id`

// propertyRow is a property joined with its location columns.
type propertyRow struct {
	model.Property
	LocCity      string  `db:"loc_city"`
	LocState     string  `db:"loc_state"`
	LocCountry   string  `db:"loc_country"`
	LocZipCode   string  `db:"loc_zip_code"`
	LocLatitude  float64 `db:"loc_latitude"`
	LocLongitude float64 `db:"loc_longitude"`
}

func (row propertyRow) toModel() model.Property {
	p := row.Property
	p.Location = &model.Location{
		ID:        p.LocationID,
		City:      row.LocCity,
		State:     row.LocState,
		Country:   row.LocCountry,
		ZipCode:   row.LocZipCode,
		Latitude:  row.LocLatitude,
		Longitude: row.LocLongitude,
	}
	return p
}

func (r *PropertyRepo) selectMany(ctx context.Context, q string, args ...any) ([]model.Property, error) {
	var rows []propertyRow
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	out := make([]model.Property, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}

// List returns the whole catalog ordered by id.
func (r *PropertyRepo) List(ctx context.Context) ([]model.Property, error) {
	return r.selectMany(ctx, propertySelect+` ORDER BY p.id`)
}

// Search returns properties whose name contains term, case-insensitively.
// LIKE wildcards inside term are matched literally.
func (r *PropertyRepo) Search(ctx context.Context, term string) ([]model.Property, error) {
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	return r.selectMany(ctx, propertySelect+` WHERE LOWER(p.name) LIKE ? ORDER BY p.id`, pattern)
}

var sortColumns = map[model.SortField]string{
	model.SortByName:      "p.name",
	model.SortByPrice:     "p.price",
	model.SortBySize:      "p.size",
	model.SortByBedrooms:  "p.bedrooms",
	model.SortByBathrooms: "p.bathrooms",
}

// Sort returns the catalog ordered by one safelisted column.  The id is
// used as a tie-breaker in the same direction, so the ascending order is
// exactly the reverse of the descending one.
func (r *PropertyRepo) Sort(ctx context.Context, field model.SortField, order model.SortOrder) ([]model.Property, error) {
	col, ok := sortColumns[field]
	if !ok {
		return nil, fmt.Errorf("sort: unsupported field %q", field)
	}
	dir := "ASC"
	if order == model.SortDesc {
		dir = "DESC"
	}
	return r.selectMany(ctx, propertySelect+fmt.Sprintf(` ORDER BY %s %s, p.id %s`, col, dir, dir))
}

// GetByID returns ErrNotFound when the property does not exist.
func (r *PropertyRepo) GetByID(ctx context.Context, id uint64) (*model.Property, error) {
	var row propertyRow
	if err := r.db.GetContext(ctx, &row, propertySelect+` WHERE p.id = ?`, id); err != nil {
		return nil, notFound(err)
	}
	p := row.toModel()
	return &p, nil
}

// Exists reports whether a property with the given id is present.
func (r *PropertyRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(1) FROM properties WHERE id = ?`, id); err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create inserts p and populates its ID.  A dangling location_id yields
// ErrNotFound and an oversized number an *OutOfRangeError.
func (r *PropertyRepo) Create(ctx context.Context, p *model.Property) error {
	const q = `INSERT INTO properties
	  (name, property_image, property_360_image, description, price, size, property_type,
	   bedrooms, bathrooms, year_built, available_from, status, location_id)
	  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		p.Name, p.PropertyImage, p.Property360Image, p.Description, p.Price, p.Size, p.PropertyType,
		p.Bedrooms, p.Bathrooms, p.YearBuilt, p.AvailableFrom, p.Status, p.LocationID)
	if err != nil {
		return writeError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// Update writes every mutable column of p.
func (r *PropertyRepo) Update(ctx context.Context, p *model.Property) error {
	const q = `UPDATE properties SET
	  name = ?, property_image = ?, property_360_image = ?, description = ?, price = ?, size = ?,
	  property_type = ?, bedrooms = ?, bathrooms = ?, year_built = ?, available_from = ?,
	  status = ?, location_id = ?
	  WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q,
		p.Name, p.PropertyImage, p.Property360Image, p.Description, p.Price, p.Size,
		p.PropertyType, p.Bedrooms, p.Bathrooms, p.YearBuilt, p.AvailableFrom,
		p.Status, p.LocationID, p.ID)
	// MySQL reports zero affected rows when nothing changed, so existence
	// is checked by the caller before updating.
	return writeError(err)
}

// UpdatePrice changes only the price column.
func (r *PropertyRepo) UpdatePrice(ctx context.Context, id uint64, price float64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE properties SET price = ? WHERE id = ?`, price, id)
	return writeError(err)
}

// Delete removes a property; its bookings go with it through the foreign
// key.  ErrNotFound is returned when nothing was deleted.
func (r *PropertyRepo) Delete(ctx context.Context, id uint64) error {
	return mustAffect(r.db.ExecContext(ctx, `DELETE FROM properties WHERE id = ?`, id))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
