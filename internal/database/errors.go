package database

import (
	"errors"
	"fmt"
)

var (
	// ErrPoolUnavailable reports that the pool could not be built or could
	// not hand out a connection. The driver error is joined to it.
	ErrPoolUnavailable = errors.New("database: pool unavailable")

	// ErrPoolClosed is returned by Acquire after Shutdown.
	ErrPoolClosed = errors.New("database: pool closed")

	ErrMissingTable     = errors.New("database: table name is required")
	ErrEmptyData        = errors.New("database: no column values given")
	ErrMissingCondition = errors.New("database: condition is required")
	ErrMissingIDColumn  = errors.New("database: id column is required")
)

// StatementError is a statement-execution failure: constraint violations,
// syntax errors, or connectivity lost mid-transaction. The transaction has
// been rolled back when it is returned.
type StatementError struct {
	Op    string
	Table string
	Err   error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("database: %s %s: %v", e.Op, e.Table, e.Err)
}

func (e *StatementError) Unwrap() error {
	return e.Err
}

// IsStatementError reports whether err is a statement-execution failure.
func IsStatementError(err error) bool {
	var stmtErr *StatementError
	return errors.As(err, &stmtErr)
}

// IsUnavailable reports whether err means no connection could be obtained.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrPoolUnavailable) || errors.Is(err, ErrPoolClosed)
}
