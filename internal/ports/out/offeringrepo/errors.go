package offeringrepo

import "errors"

var (
	ErrNotFound       = errors.New("offering not found")
	ErrAlreadyExists  = errors.New("offering already exists")
	ErrNoRowsAffected = errors.New("offering write affected no rows")
	ErrInUse          = errors.New("offering referenced by appointments")
)
