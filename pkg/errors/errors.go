package errors

import (
	"errors"
	"fmt"
)

// ResourceNotFoundError is returned when a stored resource does not exist.
type ResourceNotFoundError struct {
	Kind string
	ID   string
}

func (e *ResourceNotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Kind)
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func NewResourceNotFoundError(kind, id string) error {
	return &ResourceNotFoundError{Kind: kind, ID: id}
}

func NewExplorationNotFoundError(id string) error {
	return NewResourceNotFoundError("exploration", id)
}

func NewUserNotFoundError(id string) error {
	return NewResourceNotFoundError("user", id)
}

func NewConfigPropertyNotFoundError(name string) error {
	return NewResourceNotFoundError("config property", name)
}

func NewBlobNotFoundError(path string) error {
	return NewResourceNotFoundError("blob", path)
}

func IsResourceNotFoundError(err error) bool {
	var e *ResourceNotFoundError
	return errors.As(err, &e)
}

// UnauthorizedError is returned when a request needs a logged-in user.
type UnauthorizedError struct{}

func (e *UnauthorizedError) Error() string {
	return "you must be logged in to access this resource"
}

func NewUnauthorizedError() error {
	return &UnauthorizedError{}
}

func IsUnauthorizedError(err error) bool {
	var e *UnauthorizedError
	return errors.As(err, &e)
}

// ForbiddenError is returned when the caller lacks the rights for an action.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("forbidden: %s", e.Reason)
}

func NewForbiddenError(reason string) error {
	return &ForbiddenError{Reason: reason}
}

func IsForbiddenError(err error) bool {
	var e *ForbiddenError
	return errors.As(err, &e)
}

// InvalidCSRFError is returned when a state-changing request carries a missing,
// forged or expired csrf token.
type InvalidCSRFError struct {
	Reason string
}

func (e *InvalidCSRFError) Error() string {
	return fmt.Sprintf("invalid csrf token: %s", e.Reason)
}

func NewInvalidCSRFError(reason string) error {
	return &InvalidCSRFError{Reason: reason}
}

func IsInvalidCSRFError(err error) bool {
	var e *InvalidCSRFError
	return errors.As(err, &e)
}

// ValidationError is returned when input or a domain object fails validation.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

// VersionMismatchError is returned when an update is based on a stale version.
type VersionMismatchError struct {
	ID       string
	Expected int64
	Actual   int64
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("exploration %q is at version %d, update was based on version %d", e.ID, e.Actual, e.Expected)
}

func NewVersionMismatchError(id string, expected, actual int64) error {
	return &VersionMismatchError{ID: id, Expected: expected, Actual: actual}
}

func IsVersionMismatchError(err error) bool {
	var e *VersionMismatchError
	return errors.As(err, &e)
}
