package services

import (
	"errors"
	"fmt"

	"tokoshop/internal/repositories"
)

// Error kinds. Handlers map each to an HTTP status with errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = repositories.ErrNotFound
	ErrDuplicate          = repositories.ErrDuplicate
	ErrInUse              = repositories.ErrInUse
	ErrGateway            = errors.New("payment gateway error")
	ErrSignature          = errors.New("invalid webhook signature")
	ErrMalformedEvent     = errors.New("malformed webhook event")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Error carries a client-safe message alongside its kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func validationError(format string, args ...any) error {
	return newError(ErrValidation, format, args...)
}

// notFound replaces a repository not-found error with a readable one and
// passes every other error through.
func notFound(err error, what string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return newError(ErrNotFound, "%s not found", what)
	}
	return err
}

// duplicate is notFound's counterpart for unique violations.
func duplicate(err error, what string) error {
	if errors.Is(err, repositories.ErrDuplicate) {
		return newError(ErrDuplicate, "%s already exists", what)
	}
	if errors.Is(err, repositories.ErrInUse) {
		return newError(ErrInUse, "%s is still referenced", what)
	}
	return err
}
