// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios without inspecting driver errors.
package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the referenced row does not exist.
// Handlers translate it into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write cannot be performed because of
// conflicting state, such as a second active booking of a property on
// the same date.  Handlers translate it into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned when registering an email that is taken.
var ErrEmailExists = errors.New("email already exists")

// ErrOutOfRange is returned when a value does not fit its column.
var ErrOutOfRange = errors.New("value out of range")

// OutOfRangeError names the column MySQL rejected.  It unwraps to
// ErrOutOfRange.
type OutOfRangeError struct {
	Column string
}

func (e *OutOfRangeError) Error() string { return e.Column + ": " + ErrOutOfRange.Error() }

func (e *OutOfRangeError) Unwrap() error { return ErrOutOfRange }

const (
	mysqlDuplicateEntry  = 1062
	mysqlOutOfRange      = 1264
	mysqlNoReferencedRow = 1452
)

// notFound maps sql.ErrNoRows to ErrNotFound and passes anything else
// through.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// writeError maps the driver errors of an INSERT or UPDATE: a dangling
// foreign key becomes ErrNotFound and an oversized value an
// *OutOfRangeError.  nil passes through.
func writeError(err error) error {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return err
	}
	switch me.Number {
	case mysqlNoReferencedRow:
		return ErrNotFound
	case mysqlOutOfRange:
		return &OutOfRangeError{Column: quotedColumn(me.Message)}
	}
	return err
}

// quotedColumn extracts x from "Out of range value for column 'x' at row 1".
func quotedColumn(msg string) string {
	_, rest, ok := strings.Cut(msg, "column '")
	if !ok {
		return "value"
	}
	col, _, _ := strings.Cut(rest, "'")
	return col
}

func isMySQLError(err error, number uint16) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == number
}

// mustAffect returns ErrNotFound when a write touched no rows.
func mustAffect(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
