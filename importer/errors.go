package importer

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownUser is returned when a row references a user that does not
	// exist and user creation is disabled.
	ErrUnknownUser = errors.New("unknown user")
	// ErrAmbiguousCustomer is returned when a customer name matches more
	// than one stored customer.
	ErrAmbiguousCustomer = errors.New("ambiguous customer")
	// ErrAmbiguousProject is returned when a project name matches more than
	// one stored project for the resolved customer.
	ErrAmbiguousProject = errors.New("ambiguous project")
	// ErrHeaderMismatch is returned when the input header row is missing a
	// supported column. It aborts the import before any row is read.
	ErrHeaderMismatch = errors.New("header mismatch")
	// ErrValidationFailed is returned when the validation pass found row
	// errors and ignore-errors is disabled. Nothing has been persisted.
	ErrValidationFailed = errors.New("validation failed, fix the errors first")
)

// RowError reports one failed input row: the row number, the missing or
// offending field names (when field validation failed) and the underlying
// cause (when resolution failed).
type RowError struct {
	Row    int
	Fields []string
	Err    error
}

func (e RowError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("row %d: missing required fields: %s", e.Row, strings.Join(e.Fields, ", "))
	}
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}
