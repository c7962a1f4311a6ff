package clientrepo

import "errors"

var (
	ErrNotFound       = errors.New("client not found")
	ErrAlreadyExists  = errors.New("client already exists")
	ErrEmailTaken     = errors.New("client email already in use")
	ErrNoRowsAffected = errors.New("client write affected no rows")
	ErrInUse          = errors.New("client referenced by appointments")
)
