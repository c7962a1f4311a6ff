package offeringrepo

import (
	"context"

	"github.com/attend-app/attend-api/internal/domain"
)

// Repository provides access to persisted offerings.
// ListByCompany returns offerings ordered by name, then id.
type Repository interface {
	Create(ctx context.Context, o domain.Offering) error
	GetByID(ctx context.Context, id domain.OfferingID) (domain.Offering, error)
	ListByCompany(ctx context.Context, companyID domain.CompanyID) ([]domain.Offering, error)

	Update(ctx context.Context, id domain.OfferingID, mutate func(*domain.Offering) error) (domain.Offering, error)
	// Delete returns ErrInUse when appointments still reference the offering.
	Delete(ctx context.Context, id domain.OfferingID, check func(domain.Offering) error) error
}
