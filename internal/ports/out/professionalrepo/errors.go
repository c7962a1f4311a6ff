package professionalrepo

import "errors"

var (
	ErrNotFound       = errors.New("professional not found")
	ErrAlreadyExists  = errors.New("professional already exists")
	ErrNoRowsAffected = errors.New("professional write affected no rows")
	ErrInUse          = errors.New("professional referenced by appointments")

	// ErrUnknownOffering indicates an offering id that does not exist.
	ErrUnknownOffering = errors.New("professional references unknown offering")
)
