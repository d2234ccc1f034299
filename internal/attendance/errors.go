package attendance

import (
	"errors"
	"fmt"
)

var (
	// ErrAuth is returned when a code/password pair does not match.
	ErrAuth = errors.New("invalid code or password")

	// ErrInvalidFormat is returned for an unparseable time of day.
	ErrInvalidFormat = errors.New("invalid time format, use HH:MM:SS")

	// ErrDayComplete signals that every scheduled event of the day has been
	// recorded.  It is a terminal state rather than a failure.
	ErrDayComplete = errors.New("working day already complete")
)

// ValidationError reports a missing or conflicting input field.  Err, when
// set, is the underlying cause (for example repository.ErrDuplicate).
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// StoreError wraps a failure of the underlying persistence layer.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
