package professionalrepo

import (
	"context"

	"github.com/attend-app/attend-api/internal/domain"
)

// Repository provides access to persisted professionals, including the set
// of offerings each one performs. Update persists OfferingIDs as a whole.
// ListByCompany returns professionals ordered by name, then id.
type Repository interface {
	Create(ctx context.Context, p domain.Professional) error
	GetByID(ctx context.Context, id domain.ProfessionalID) (domain.Professional, error)
	ListByCompany(ctx context.Context, companyID domain.CompanyID) ([]domain.Professional, error)

	Update(ctx context.Context, id domain.ProfessionalID, mutate func(*domain.Professional) error) (domain.Professional, error)
	// Delete returns ErrInUse when appointments still reference the professional.
	Delete(ctx context.Context, id domain.ProfessionalID, check func(domain.Professional) error) error
}
