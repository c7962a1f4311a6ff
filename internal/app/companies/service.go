package companies

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/attend-app/attend-api/internal/app/input"
	"github.com/attend-app/attend-api/internal/domain"
	clockport "github.com/attend-app/attend-api/internal/ports/out/clock"
	"github.com/attend-app/attend-api/internal/ports/out/companyrepo"
)

// Service owns company lifecycle and the single-owner authorization rule.
type Service struct {
	repo companyrepo.Repository
	clk  clockport.Clock

	newCompanyID func() domain.CompanyID
}

func NewService(repo companyrepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		repo: repo,
		clk:  clk,
		newCompanyID: func() domain.CompanyID {
			return domain.CompanyID(uuid.NewString())
		},
	}
}

func (s *Service) CreateCompany(ctx context.Context, in CreateCompanyInput, ownerID domain.SubjectID) (domain.Company, error) {
	name, err := input.Name("name", in.Name)
	if err != nil {
		return domain.Company{}, err
	}

	if _, err := s.repo.GetByOwner(ctx, ownerID); err == nil {
		return domain.Company{}, errAlreadyExists
	} else if !errors.Is(err, companyrepo.ErrNotFound) {
		return domain.Company{}, err
	}

	now := s.clk.Now()
	c := domain.Company{
		ID:        s.newCompanyID(),
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		// A concurrent create for the same owner lost the race.
		if errors.Is(err, companyrepo.ErrOwnerAlreadyBound) {
			return domain.Company{}, errAlreadyExists
		}
		return domain.Company{}, err
	}
	return c, nil
}

func (s *Service) GetCompanyByID(ctx context.Context, id domain.CompanyID) (domain.Company, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, companyrepo.ErrNotFound) {
			return domain.Company{}, errNotFound
		}
		return domain.Company{}, err
	}
	return c, nil
}

// GetOwnedCompanyByID is GetCompanyByID restricted to the company's owner.
func (s *Service) GetOwnedCompanyByID(ctx context.Context, id domain.CompanyID, ownerID domain.SubjectID) (domain.Company, error) {
	c, err := s.GetCompanyByID(ctx, id)
	if err != nil {
		return domain.Company{}, err
	}
	if !c.OwnedBy(ownerID) {
		return domain.Company{}, errForbiddenRead
	}
	return c, nil
}

// GetCompanyByOwnerID returns nil when the owner has no company.
func (s *Service) GetCompanyByOwnerID(ctx context.Context, ownerID domain.SubjectID) (*domain.Company, error) {
	c, err := s.repo.GetByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, companyrepo.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// GetMyCompany is GetCompanyByOwnerID with absence reported as COMPANY_NOT_FOUND.
func (s *Service) GetMyCompany(ctx context.Context, ownerID domain.SubjectID) (domain.Company, error) {
	c, err := s.GetCompanyByOwnerID(ctx, ownerID)
	if err != nil {
		return domain.Company{}, err
	}
	if c == nil {
		return domain.Company{}, errNotFound
	}
	return *c, nil
}

func (s *Service) UpdateCompany(ctx context.Context, id domain.CompanyID, in UpdateCompanyInput, ownerID domain.SubjectID) (domain.Company, error) {
	name, err := input.Name("name", in.Name)
	if err != nil {
		return domain.Company{}, err
	}

	c, err := s.repo.Update(ctx, id, func(cur *domain.Company) error {
		if !cur.OwnedBy(ownerID) {
			return errForbiddenUpdate
		}
		cur.Name = name
		cur.UpdatedAt = s.clk.Now()
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, companyrepo.ErrNotFound):
			return domain.Company{}, errNotFound
		case errors.Is(err, companyrepo.ErrNoRowsAffected):
			return domain.Company{}, errUpdateFailed
		}
		return domain.Company{}, err
	}
	return c, nil
}

func (s *Service) DeleteCompany(ctx context.Context, id domain.CompanyID, ownerID domain.SubjectID) error {
	err := s.repo.Delete(ctx, id, func(cur domain.Company) error {
		if !cur.OwnedBy(ownerID) {
			return errForbiddenDelete
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, companyrepo.ErrNotFound):
			return errNotFound
		case errors.Is(err, companyrepo.ErrNoRowsAffected):
			return errDeleteFailed
		}
		return err
	}
	return nil
}

// CompanyLookup is the slice of companyrepo.Repository the company-scoped
// services need.
type CompanyLookup interface {
	GetByOwner(ctx context.Context, owner domain.SubjectID) (domain.Company, error)
}

// RequireOwned returns the company owned by subject, or COMPANY_NOT_FOUND
// when the subject has not created one yet.
func RequireOwned(ctx context.Context, companies CompanyLookup, subject domain.SubjectID) (domain.Company, error) {
	c, err := companies.GetByOwner(ctx, subject)
	if err != nil {
		if errors.Is(err, companyrepo.ErrNotFound) {
			return domain.Company{}, errNotFound
		}
		return domain.Company{}, err
	}
	return c, nil
}
