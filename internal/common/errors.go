package common

import (
	"errors"
	"fmt"
)

// Error kinds shared by every feature package. Wrap them with fmt.Errorf("%w")
// to add detail; handlers map the kind to an HTTP status via StatusFor.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUpstream     = errors.New("upstream service failed")
	ErrInternal     = errors.New("internal error")
)

// Validation wraps ErrValidation with a user facing message.
func Validation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func NotFound(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

func Upstream(service string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUpstream, service, err)
}
