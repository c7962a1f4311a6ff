package companyrepo

import "errors"

var (
	// ErrNotFound indicates the requested company does not exist.
	ErrNotFound = errors.New("company not found")

	// ErrOwnerAlreadyBound indicates the owner already has a company.
	ErrOwnerAlreadyBound = errors.New("company owner already bound")

	// ErrAlreadyExists indicates a company already exists with the provided ID.
	ErrAlreadyExists = errors.New("company already exists")

	// ErrNoRowsAffected indicates a write matched no rows.
	ErrNoRowsAffected = errors.New("company write affected no rows")
)
