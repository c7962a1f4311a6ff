package appointmentrepo

import "errors"

var (
	ErrNotFound       = errors.New("appointment not found")
	ErrAlreadyExists  = errors.New("appointment already exists")
	ErrNoRowsAffected = errors.New("appointment write affected no rows")

	// ErrOverlap indicates the professional already has a scheduled
	// appointment in the requested range.
	ErrOverlap = errors.New("appointment overlaps a scheduled appointment")
)
