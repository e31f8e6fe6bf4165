package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/land-looker/internal/model"
	"github.com/iliyamo/land-looker/internal/policy"
	"github.com/iliyamo/land-looker/internal/repository"
	"github.com/iliyamo/land-looker/internal/service"
)

// requestTimeout bounds the storage work of a single request.
const requestTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

func invalidID(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
}

func invalidBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
}

// bindError answers a failed Bind.  A well-formed body carrying a value of
// the wrong type is a field error (422); anything else is a bad body (400).
func bindError(c echo.Context, err error) error {
	var ute *json.UnmarshalTypeError
	if !errors.As(err, &ute) {
		return invalidBody(c)
	}
	field := ute.Field
	if field == "" {
		field = "body"
	}
	ve := &service.ValidationError{Fields: map[string][]string{field: {typeMessage(field, ute.Type)}}}
	return respondError(c, ve)
}

var dateType = reflect.TypeOf(model.Date{})

func typeMessage(field string, t reflect.Type) string {
	label := strings.ReplaceAll(field, "_", " ")
	if t == nil {
		return fmt.Sprintf("The %s field is invalid.", label)
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch {
	case t == dateType:
		return fmt.Sprintf("The %s field must be a valid date.", label)
	case t.Kind() == reflect.String:
		return fmt.Sprintf("The %s field must be a string.", label)
	case t.Kind() == reflect.Bool:
		return fmt.Sprintf("The %s field must be true or false.", label)
	case t.Kind() >= reflect.Int && t.Kind() <= reflect.Uint64:
		return fmt.Sprintf("The %s field must be an integer.", label)
	case t.Kind() == reflect.Float32 || t.Kind() == reflect.Float64:
		return fmt.Sprintf("The %s field must be a number.", label)
	}
	return fmt.Sprintf("The %s field is invalid.", label)
}

func data(c echo.Context, status int, v any) error {
	return c.JSON(status, echo.Map{"data": v})
}

// respondError maps service and storage errors onto status codes.
func respondError(c echo.Context, err error) error {
	var (
		ve     *service.ValidationError
		denied *policy.Denied
		oor    *repository.OutOfRangeError
	)
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": ve.Error(), "errors": ve.Fields})
	case errors.As(err, &oor):
		msg := fmt.Sprintf("The %s field is out of range.", strings.ReplaceAll(oor.Column, "_", " "))
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": msg, "errors": map[string][]string{oor.Column: {msg}}})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	case errors.Is(err, policy.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	case errors.As(err, &denied):
		return c.JSON(http.StatusForbidden, echo.Map{"error": denied.Message()})
	case errors.Is(err, policy.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "record not found"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "the property is already booked on that date"})
	case errors.Is(err, context.DeadlineExceeded):
		c.Logger().Errorf("request timed out: %v", err)
		return c.JSON(http.StatusGatewayTimeout, echo.Map{"error": "request timed out"})
	}
	c.Logger().Errorf("unhandled error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}
