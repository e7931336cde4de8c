package services

import (
	"errors"
)

// Sentinel errors the handlers translate to HTTP statuses. Services
// wrap them with context via fmt.Errorf("%w: ...") so errors.Is keeps
// working across the boundary.
var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
)
