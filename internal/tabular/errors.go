package tabular

import (
	"errors"
	"fmt"
	"strings"
)

// ErrImmutableRecord is returned when an update is attempted on a record
// model that does not allow mutation after creation. This is a contract
// error on the caller's side and is never retried.
var ErrImmutableRecord = errors.New("record is immutable after creation")

// ErrTableNotFound is returned by backends when the named table does not
// exist in the store.
var ErrTableNotFound = errors.New("table not found")

// Violation describes a single failed field check.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports every violated field of a rejected record, not
// just the first. Nothing is written when validation fails.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = fmt.Sprintf("%s: %s", v.Field, v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// QuotaError signals that the backend rejected a request because the
// request-rate ceiling was exceeded. It is retryable with backoff.
type QuotaError struct {
	Err error
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("backend quota exceeded: %v", e.Err)
}

func (e *QuotaError) Unwrap() error { return e.Err }

// UnavailableError signals a transient backend outage. Reads may fall back
// to the last cached result; writes surface the error to the caller and
// are never silently dropped.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("backend unavailable: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// IsRetryable reports whether an error is one of the transient kinds that
// a retry loop should attempt again.
func IsRetryable(err error) bool {
	var q *QuotaError
	var u *UnavailableError
	return errors.As(err, &q) || errors.As(err, &u)
}
