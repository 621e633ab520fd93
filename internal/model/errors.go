package model

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidPeriod is returned when a period ends before it starts.
var ErrInvalidPeriod = errors.New("invalid period")

// InvariantError reports a derived figure that does not match the inputs it
// was derived from. It indicates a generator defect, not bad input.
type InvariantError struct {
	Statement string
	Check     string
	Expected  decimal.Decimal
	Actual    decimal.Decimal
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s: expected %s, got %s",
		e.Statement, e.Check, e.Expected.StringFixed(2), e.Actual.StringFixed(2))
}

// StatementError is a generic rejection of a generated statement, for
// example an unbalanced balance sheet.
type StatementError struct {
	Statement string
	Reason    string
}

func (e *StatementError) Error() string {
	return e.Statement + ": " + e.Reason
}
