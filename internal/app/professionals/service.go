package professionals

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/attend-app/attend-api/internal/app/apperr"
	"github.com/attend-app/attend-api/internal/app/companies"
	"github.com/attend-app/attend-api/internal/app/input"
	"github.com/attend-app/attend-api/internal/domain"
	clockport "github.com/attend-app/attend-api/internal/ports/out/clock"
	"github.com/attend-app/attend-api/internal/ports/out/offeringrepo"
	"github.com/attend-app/attend-api/internal/ports/out/professionalrepo"
)

var (
	errNotFound         = apperr.New(apperr.CodeProfessionalNotFound, "Professional not found.")
	errForbidden        = apperr.New(apperr.CodeForbidden, "You do not have permission to access this professional.")
	errUpdateFailed     = apperr.New(apperr.CodeProfessionalUpdateFailed, "Failed to update professional.")
	errDeleteFailed     = apperr.New(apperr.CodeProfessionalDeleteFailed, "Failed to delete professional.")
	errInUse            = apperr.New(apperr.CodeConflict, "Professional has appointments and cannot be deleted.")
	errOfferingNotFound = apperr.New(apperr.CodeServiceNotFound, "Service not found.")
	errOfferingOther    = apperr.New(apperr.CodeForbidden, "Service belongs to another company.")
)

// Service manages professionals of the caller's company and the set of
// services each one performs.
type Service struct {
	companies companies.CompanyLookup
	repo      professionalrepo.Repository
	offerings offeringrepo.Repository
	clk       clockport.Clock

	newProfessionalID func() domain.ProfessionalID
}

func NewService(companyLookup companies.CompanyLookup, repo professionalrepo.Repository, offerings offeringrepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		companies: companyLookup,
		repo:      repo,
		offerings: offerings,
		clk:       clk,
		newProfessionalID: func() domain.ProfessionalID {
			return domain.ProfessionalID(uuid.NewString())
		},
	}
}

func (s *Service) CreateProfessional(ctx context.Context, subject domain.SubjectID, in CreateProfessionalInput) (domain.Professional, error) {
	company, err := companies.RequireOwned(ctx, s.companies, subject)
	if err != nil {
		return domain.Professional{}, err
	}
	name, err := input.Name("name", in.Name)
	if err != nil {
		return domain.Professional{}, err
	}
	ids, err := s.checkOfferings(ctx, company.ID, in.OfferingIDs)
	if err != nil {
		return domain.Professional{}, err
	}

	p := domain.Professional{
		ID:          s.newProfessionalID(),
		CompanyID:   company.ID,
		Name:        name,
		OfferingIDs: ids,
		CreatedAt:   s.clk.Now(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, professionalrepo.ErrUnknownOffering) {
			return domain.Professional{}, errOfferingNotFound
		}
		return domain.Professional{}, err
	}
	return p, nil
}

func (s *Service) ListProfessionals(ctx context.Context, subject domain.SubjectID) ([]domain.Professional, error) {
	company, err := companies.RequireOwned(ctx, s.companies, subject)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByCompany(ctx, company.ID)
}

func (s *Service) GetProfessional(ctx context.Context, subject domain.SubjectID, id domain.ProfessionalID) (domain.Professional, error) {
	company, err := companies.RequireOwned(ctx, s.companies, subject)
	if err != nil {
		return domain.Professional{}, err
	}
	return s.GetCompanyProfessional(ctx, company.ID, id)
}

// GetCompanyProfessional loads a professional and checks it belongs to companyID.
func (s *Service) GetCompanyProfessional(ctx context.Context, companyID domain.CompanyID, id domain.ProfessionalID) (domain.Professional, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, professionalrepo.ErrNotFound) {
			return domain.Professional{}, errNotFound
		}
		return domain.Professional{}, err
	}
	if p.CompanyID != companyID {
		return domain.Professional{}, errForbidden
	}
	return p, nil
}

func (s *Service) UpdateProfessional(ctx context.Context, subject domain.SubjectID, id domain.ProfessionalID, in UpdateProfessionalInput) (domain.Professional, error) {
	company, err := companies.RequireOwned(ctx, s.companies, subject)
	if err != nil {
		return domain.Professional{}, err
	}
	name, err := input.Name("name", in.Name)
	if err != nil {
		return domain.Professional{}, err
	}
	return s.update(ctx, company.ID, id, func(p *domain.Professional) {
		p.Name = name
	})
}

// ListProfessionalServices returns the offerings the professional performs.
func (s *Service) ListProfessionalServices(ctx context.Context, subject domain.SubjectID, id domain.ProfessionalID) ([]domain.Offering, error) {
	p, err := s.GetProfessional(ctx, subject, id)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Offering, 0, len(p.OfferingIDs))
	for _, oid := range p.OfferingIDs {
		o, err := s.offerings.GetByID(ctx, oid)
		if err != nil {
			// Deleted concurrently.
			if errors.Is(err, offeringrepo.ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// SetProfessionalServices replaces the set of offerings the professional performs.
func (s *Service) SetProfessionalServices(ctx context.Context, subject domain.SubjectID, id domain.ProfessionalID, offeringIDs []domain.OfferingID) ([]domain.Offering, error) {
	company, err := companies.RequireOwned(ctx, s.companies, subject)
	if err != nil {
		return nil, err
	}
	ids, err := s.checkOfferings(ctx, company.ID, offeringIDs)
	if err != nil {
		return nil, err
	}
	if _, err := s.update(ctx, company.ID, id, func(p *domain.Professional) {
		p.OfferingIDs = ids
	}); err != nil {
		return nil, err
	}
	return s.ListProfessionalServices(ctx, subject, id)
}

func (s *Service) DeleteProfessional(ctx context.Context, subject domain.SubjectID, id domain.ProfessionalID) error {
	company, err := companies.RequireOwned(ctx, s.companies, subject)
	if err != nil {
		return err
	}
	err = s.repo.Delete(ctx, id, func(cur domain.Professional) error {
		if cur.CompanyID != company.ID {
			return errForbidden
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, professionalrepo.ErrNotFound):
			return errNotFound
		case errors.Is(err, professionalrepo.ErrNoRowsAffected):
			return errDeleteFailed
		case errors.Is(err, professionalrepo.ErrInUse):
			return errInUse
		}
		return err
	}
	return nil
}

func (s *Service) update(ctx context.Context, companyID domain.CompanyID, id domain.ProfessionalID, apply func(*domain.Professional)) (domain.Professional, error) {
	p, err := s.repo.Update(ctx, id, func(cur *domain.Professional) error {
		if cur.CompanyID != companyID {
			return errForbidden
		}
		apply(cur)
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, professionalrepo.ErrNotFound):
			return domain.Professional{}, errNotFound
		case errors.Is(err, professionalrepo.ErrNoRowsAffected):
			return domain.Professional{}, errUpdateFailed
		case errors.Is(err, professionalrepo.ErrUnknownOffering):
			return domain.Professional{}, errOfferingNotFound
		}
		return domain.Professional{}, err
	}
	return p, nil
}

// checkOfferings verifies every id names an offering of companyID.
func (s *Service) checkOfferings(ctx context.Context, companyID domain.CompanyID, ids []domain.OfferingID) ([]domain.OfferingID, error) {
	ids = domain.NormalizeOfferingIDs(ids)
	for _, id := range ids {
		o, err := s.offerings.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, offeringrepo.ErrNotFound) {
				return nil, errOfferingNotFound.WithDetails(map[string]any{"serviceId": string(id)})
			}
			return nil, err
		}
		if o.CompanyID != companyID {
			return nil, errOfferingOther.WithDetails(map[string]any{"serviceId": string(id)})
		}
	}
	return ids, nil
}
