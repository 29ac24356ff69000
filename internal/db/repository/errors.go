package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is matched by every *ArgumentError.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrPersistence is matched by every *PersistenceError.
	ErrPersistence = errors.New("persistence error")

	errValueNil = errors.New("value cannot be nil")
)

// ArgumentError reports a missing or unusable argument. Nothing was staged or
// committed when it is returned.
type ArgumentError struct {
	Name string // parameter name
	Err  error  // reason
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s (parameter '%s')", e.Err, e.Name)
}

// Unwrap returns the reason.
func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// Is matches ErrInvalidArgument.
func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

func nilArgument(name string) error {
	return &ArgumentError{Name: name, Err: errValueNil}
}

// PersistenceError wraps a failure of the backing store. Its message is the
// message of the underlying error.
type PersistenceError struct {
	Op  string // repository operation, e.g. "insert"
	Err error  // underlying cause
}

func (e *PersistenceError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying cause.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Cause returns the underlying cause for github.com/pkg/errors.Cause.
func (e *PersistenceError) Cause() error {
	return e.Err
}

// Is matches ErrPersistence.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

func persistence(op string, err error) error {
	if err == nil {
		return nil
	}

	return &PersistenceError{Op: op, Err: err}
}
