package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/iliyamo/land-looker/internal/policy"
	"github.com/iliyamo/land-looker/internal/repository"
)

// ErrInvalidCredentials is returned by Login and Refresh.  It unwraps to
// policy.ErrUnauthorized so handlers answer 401.
var ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", policy.ErrUnauthorized)

// ValidationError lists every rejected input field with its messages.
type ValidationError struct {
	Fields map[string][]string
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

// invalidField is shorthand for a single-field ValidationError.
func invalidField(field, msg string) *ValidationError {
	ve := newValidationError()
	ve.Add(field, msg)
	return ve
}

// rangeError converts a column the store rejected as out of range into a
// field error.  It returns nil for any other error.
func rangeError(err error) *ValidationError {
	var oor *repository.OutOfRangeError
	if !errors.As(err, &oor) {
		return nil
	}
	return invalidField(oor.Column, fmt.Sprintf("The %s field is out of range.", strings.ReplaceAll(oor.Column, "_", " ")))
}

func (e *ValidationError) Add(field, msg string) {
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationError) empty() bool { return len(e.Fields) == 0 }

// Error returns the first message in field order, followed by a count of
// the remaining ones.
func (e *ValidationError) Error() string {
	if e.empty() {
		return "the given data was invalid"
	}
	keys := make([]string, 0, len(e.Fields))
	total := 0
	for k, msgs := range e.Fields {
		keys = append(keys, k)
		total += len(msgs)
	}
	sort.Strings(keys)
	first := e.Fields[keys[0]][0]
	if total == 1 {
		return first
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (and %d more error", first, total-1)
	if total > 2 {
		b.WriteString("s")
	}
	b.WriteString(")")
	return b.String()
}
