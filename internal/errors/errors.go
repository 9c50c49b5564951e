package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/habitflow/internal/logger"
)

var (
	// ErrNotFound marks a lookup whose target does not exist. Deletes and
	// toggles report a missing target as false rather than returning it.
	ErrNotFound = stderrors.New("not found")
	// ErrValidation marks malformed caller input
	ErrValidation = stderrors.New("validation failed")
	// ErrStorage marks a failure of the underlying store
	ErrStorage = stderrors.New("storage failure")
)

// ValidationError describes a rejected input field
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StorageError wraps a driver or transaction failure with the operation name
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// Validation returns a *ValidationError for the given field
func Validation(field, value, reason string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

// Storage wraps err as a *StorageError. A nil err stays nil, and errors that
// already classify as validation or storage failures pass through unchanged.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, ErrValidation) || stderrors.Is(err, ErrStorage) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
