package services

import "errors"

// Pipeline errors, checked with errors.Is at the transport boundary.
// Anything else coming out of a service is an internal failure.
var (
	ErrValidation   = errors.New("validation failed, entered data is incorrect")
	ErrMissingImage = errors.New("no image provided")
	ErrNotFound     = errors.New("could not find post")
	ErrForbidden    = errors.New("not authorized")
)
