package models

import "errors"

// Common errors. Handlers translate these into HTTP status codes.
var (
	ErrNotFound          = errors.New("record not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrAccountDisabled   = errors.New("account is disabled")
	ErrConflict          = errors.New("conflict")
	ErrDuplicate         = errors.New("duplicate record")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrLimitReached      = errors.New("limit reached")
	ErrMFARequired       = errors.New("mfa code required")
)
