package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/land-looker/internal/model"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "mysql"), mock
}

var propertyRowColumns = []string{
	"id", "name", "property_image", "property_360_image", "description",
	"price", "size", "property_type", "bedrooms", "bathrooms", "year_built",
	"available_from", "status", "location_id",
	"loc_city", "loc_state", "loc_country", "loc_zip_code", "loc_latitude", "loc_longitude",
}

func propertyRows() *sqlmock.Rows {
	return sqlmock.NewRows(propertyRowColumns).
		AddRow(1, "Sea View", nil, nil, "two floors", 250000.0, 120, "house", 3, 2, 1999,
			time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), "available", 7,
			"Belgrade", "", "Serbia", "11000", 44.787197, 20.457273)
}

func TestPropertyRepo_GetByIDJoinsLocation(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`FROM properties p\s+JOIN locations l ON l.id = p.location_id WHERE p.id = \?`).
		WithArgs(1).
		WillReturnRows(propertyRows())

	p, err := NewPropertyRepo(db).GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Sea View", p.Name)
	require.NotNil(t, p.Location)
	assert.Equal(t, uint64(7), p.Location.ID)
	assert.Equal(t, "Belgrade", p.Location.City)
	require.NotNil(t, p.AvailableFrom)
	assert.Equal(t, "2025-06-01", p.AvailableFrom.String())
	require.NotNil(t, p.YearBuilt)
	assert.Equal(t, 1999, *p.YearBuilt)
	assert.Nil(t, p.PropertyImage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyRepo_GetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`WHERE p.id = \?`).WithArgs(9).WillReturnError(sql.ErrNoRows)

	_, err := NewPropertyRepo(db).GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPropertyRepo_SearchEscapesWildcards(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`WHERE LOWER\(p.name\) LIKE \? ORDER BY p.id`).
		WithArgs(`%50\%\_off%`).
		WillReturnRows(sqlmock.NewRows(propertyRowColumns))

	out, err := NewPropertyRepo(db).Search(context.Background(), "50%_OFF")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyRepo_SortUsesSameDirectionTieBreak(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY p.price DESC, p.id DESC`)).
		WillReturnRows(propertyRows())
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY p.bedrooms ASC, p.id ASC`)).
		WillReturnRows(propertyRows())

	repo := NewPropertyRepo(db)
	out, err := repo.Sort(context.Background(), model.SortByPrice, model.SortDesc)
	require.NoError(t, err)
	assert.Len(t, out, 1)
	_, err = repo.Sort(context.Background(), model.SortByBedrooms, model.SortAsc)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyRepo_SortRejectsUnknownField(t *testing.T) {
	db, _ := newMock(t)
	_, err := NewPropertyRepo(db).Sort(context.Background(), model.SortField("id; DROP TABLE users"), model.SortAsc)
	assert.Error(t, err)
}

func TestPropertyRepo_CreateMissingLocation(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(`INSERT INTO properties`).
		WillReturnError(&mysql.MySQLError{Number: 1452, Message: "foreign key"})

	err := NewPropertyRepo(db).Create(context.Background(), &model.Property{Name: "x", LocationID: 99})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPropertyRepo_WriteOutOfRange(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(`INSERT INTO properties`).
		WillReturnError(&mysql.MySQLError{Number: 1264, Message: "Out of range value for column 'price' at row 1"})
	mock.ExpectExec(`UPDATE properties SET price`).
		WillReturnError(&mysql.MySQLError{Number: 1264, Message: "Out of range value"})

	repo := NewPropertyRepo(db)
	err := repo.Create(context.Background(), &model.Property{Name: "x", Price: 1e13, LocationID: 1})
	var oor *OutOfRangeError
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, "price", oor.Column)
	assert.ErrorIs(t, err, ErrOutOfRange)

	err = repo.UpdatePrice(context.Background(), 1, 1e13)
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, "value", oor.Column)
}

func TestPropertyRepo_CreateSetsID(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(`INSERT INTO properties`).WillReturnResult(sqlmock.NewResult(42, 1))

	p := &model.Property{Name: "Flat", Price: 0, LocationID: 1}
	require.NoError(t, NewPropertyRepo(db).Create(context.Background(), p))
	assert.Equal(t, uint64(42), p.ID)
}

func TestPropertyRepo_DeleteMissing(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(`DELETE FROM properties WHERE id = \?`).WithArgs(5).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, NewPropertyRepo(db).Delete(context.Background(), 5), ErrNotFound)
}

func TestLocationRepo_DeleteCascades(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(1\) FROM locations WHERE id = \? FOR UPDATE`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectExec(`DELETE b FROM bookings b`).WithArgs(3).WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(`DELETE FROM properties WHERE location_id = \?`).WithArgs(3).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM locations WHERE id = \?`).WithArgs(3).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := NewLocationRepo(db).Delete(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, CascadeResult{Properties: 2, Bookings: 4}, res)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocationRepo_DeleteMissingRollsBack(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM locations WHERE id = \? FOR UPDATE`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectRollback()

	_, err := NewLocationRepo(db).Delete(context.Background(), 3)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocationRepo_ListOrdersByCity(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`ORDER BY city, id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "city", "state", "country", "zip_code", "latitude", "longitude"}).
			AddRow(2, "Athens", "", "Greece", "10431", 37.98381, 23.727539).
			AddRow(1, "Belgrade", "", "Serbia", "11000", 44.787197, 20.457273))

	out, err := NewLocationRepo(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Athens, Greece", out[0].DisplayName())
}

var bookingDetailColumns = []string{
	"id", "property_id", "buyer_id", "worker_id", "booking_date", "status", "total_price", "payment_method",
	"buyer_name", "buyer_email", "worker_name", "worker_email", "property_name",
}

func TestBookingRepo_ListByWorkerEmbedsBuyer(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`WHERE b.worker_id = \? ORDER BY b.booking_date DESC, b.id DESC`).
		WithArgs(8).
		WillReturnRows(sqlmock.NewRows(bookingDetailColumns).
			AddRow(11, 1, 4, 8, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), "pending", 100.5, "paypal",
				"Ana", "ana@example.com", "Wes", "wes@example.com", "Sea View"))

	out, err := NewBookingRepo(db).ListByWorker(context.Background(), 8)
	require.NoError(t, err)
	require.Len(t, out, 1)
	d := out[0]
	assert.Equal(t, uint64(11), d.ID)
	assert.Equal(t, "2025-03-02", d.BookingDate.String())
	require.NotNil(t, d.Buyer)
	assert.Equal(t, "ana@example.com", d.Buyer.Email)
	assert.Nil(t, d.Worker)
	assert.Equal(t, &model.PropertyRef{ID: 1, Name: "Sea View"}, d.Property)
}

func TestBookingRepo_ListByBuyerEmbedsWorker(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`WHERE b.buyer_id = \? ORDER BY b.id`).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows(bookingDetailColumns).
			AddRow(11, 1, 4, 8, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), "pending", 100.5, "paypal",
				"Ana", "ana@example.com", "Wes", "wes@example.com", "Sea View"))

	out, err := NewBookingRepo(db).ListByBuyer(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Nil(t, out[0].Buyer)
	require.NotNil(t, out[0].Worker)
	assert.Equal(t, "Wes", out[0].Worker.Name)
}

func TestBookingRepo_HasActiveOnDate(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`status <> 'cancelled' AND id <> \?`).
		WithArgs(1, "2025-03-02", 0).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))

	d, _ := model.ParseDate("2025-03-02")
	ok, err := NewBookingRepo(db).HasActiveOnDate(context.Background(), 1, d, 0)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBookingRepo_TopBookedProperties(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY bookings_count DESC, p.id ASC`)).
		WithArgs(8, 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "bookings_count"}).
			AddRow(2, "B", 3).
			AddRow(1, "A", 1))

	out, err := NewBookingRepo(db).TopBookedProperties(context.Background(), 8, 5)
	require.NoError(t, err)
	assert.Equal(t, []model.PropertyBookingCount{{ID: 2, Name: "B", BookingsCount: 3}, {ID: 1, Name: "A", BookingsCount: 1}}, out)
}

func TestBookingRepo_CreateDanglingReference(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(`INSERT INTO bookings`).WillReturnError(&mysql.MySQLError{Number: 1452})

	err := NewBookingRepo(db).Create(context.Background(), &model.Booking{PropertyID: 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookingRepo_UpdateOutOfRange(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(`UPDATE bookings SET`).
		WillReturnError(&mysql.MySQLError{Number: 1264, Message: "Out of range value for column 'total_price' at row 1"})

	err := NewBookingRepo(db).Update(context.Background(), &model.Booking{ID: 3, TotalPrice: 1e13})
	var oor *OutOfRangeError
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, "total_price", oor.Column)
}

func TestUserRepo_CreateDuplicateEmail(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("Ana", "ana@example.com", "hash", "buyer", nil, nil).
		WillReturnError(&mysql.MySQLError{Number: 1062})

	err := NewUserRepo(db).Create(context.Background(), &model.User{
		Name: "Ana", Email: "  Ana@Example.com ", PasswordHash: "hash", UserType: model.RoleBuyer,
	})
	assert.True(t, errors.Is(err, ErrEmailExists))
}

func TestTokenRepo_StoreRefresh(t *testing.T) {
	db, mock := newMock(t)
	exp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?, ?, ?)")).
		WithArgs(int64(5), "abc", exp).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, NewTokenRepo(db).StoreRefresh(context.Background(), 5, "abc", exp))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepo_ValidateRefresh(t *testing.T) {
	db, mock := newMock(t)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := NewTokenRepo(db)
	repo.now = func() time.Time { return now }

	q := regexp.QuoteMeta("SELECT user_id FROM refresh_tokens")
	mock.ExpectQuery(q).WithArgs("live", now).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(9))
	mock.ExpectQuery(q).WithArgs("gone", now).WillReturnError(sql.ErrNoRows)

	id, err := repo.ValidateRefresh(context.Background(), "live")
	require.NoError(t, err)
	assert.Equal(t, uint64(9), id)

	_, err = repo.ValidateRefresh(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepo_RevokeAllForUser(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE refresh_tokens SET revoked_at = ? WHERE user_id = ? AND revoked_at IS NULL")).
		WithArgs(sqlmock.AnyArg(), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, NewTokenRepo(db).RevokeAllForUser(context.Background(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}
