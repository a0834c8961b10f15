package domain

import "errors"

// Error taxonomy shared by repositories and services. Callers classify with
// errors.Is; the handler layer owns the translation to HTTP status codes.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("conflict")
	ErrUnavailable     = errors.New("storage unavailable")
)
