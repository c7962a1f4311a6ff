package clientrepo

import (
	"context"

	"github.com/attend-app/attend-api/internal/domain"
)

// Repository provides access to persisted clients.
//
// Emails are stored normalized (see domain.NormalizeEmail); Create and Update
// return ErrEmailTaken when another client of the same company uses the email.
type Repository interface {
	Create(ctx context.Context, c domain.Client) error
	GetByID(ctx context.Context, id domain.ClientID) (domain.Client, error)
	GetByEmail(ctx context.Context, companyID domain.CompanyID, email string) (domain.Client, error)
	ListByCompany(ctx context.Context, companyID domain.CompanyID) ([]domain.Client, error)

	Update(ctx context.Context, id domain.ClientID, mutate func(*domain.Client) error) (domain.Client, error)
	// Delete returns ErrInUse when appointments still reference the client.
	Delete(ctx context.Context, id domain.ClientID, check func(domain.Client) error) error
}
