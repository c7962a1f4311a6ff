package companyrepo

import (
	"context"

	"github.com/attend-app/attend-api/internal/domain"
)

// Repository provides access to persisted companies.
//
// Update and Delete run read-verify-act atomically: the callback sees the
// current row and nothing else can change it until the write completes.
// A callback error aborts the operation and is returned unchanged.
type Repository interface {
	// Create returns ErrOwnerAlreadyBound when the owner already has a company.
	Create(ctx context.Context, c domain.Company) error

	GetByID(ctx context.Context, id domain.CompanyID) (domain.Company, error)
	GetByOwner(ctx context.Context, owner domain.SubjectID) (domain.Company, error)

	Update(ctx context.Context, id domain.CompanyID, mutate func(*domain.Company) error) (domain.Company, error)
	Delete(ctx context.Context, id domain.CompanyID, check func(domain.Company) error) error
}
