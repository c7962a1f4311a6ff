package offerings

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/attend-app/attend-api/internal/app/apperr"
	"github.com/attend-app/attend-api/internal/app/companies"
	"github.com/attend-app/attend-api/internal/app/input"
	"github.com/attend-app/attend-api/internal/domain"
	clockport "github.com/attend-app/attend-api/internal/ports/out/clock"
	"github.com/attend-app/attend-api/internal/ports/out/offeringrepo"
)

var (
	errNotFound     = apperr.New(apperr.CodeServiceNotFound, "Service not found.")
	errForbidden    = apperr.New(apperr.CodeForbidden, "You do not have permission to access this service.")
	errUpdateFailed = apperr.New(apperr.CodeServiceUpdateFailed, "Failed to update service.")
	errDeleteFailed = apperr.New(apperr.CodeServiceDeleteFailed, "Failed to delete service.")
	errInUse        = apperr.New(apperr.CodeConflict, "Service has appointments and cannot be deleted.")
)

// Service manages the bookable services of the caller's company.
type Service struct {
	companies companies.CompanyLookup
	repo      offeringrepo.Repository
	clk       clockport.Clock

	newOfferingID func() domain.OfferingID
}

func NewService(companyLookup companies.CompanyLookup, repo offeringrepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		companies: companyLookup,
		repo:      repo,
		clk:       clk,
		newOfferingID: func() domain.OfferingID {
			return domain.OfferingID(uuid.NewString())
		},
	}
}

func (s *Service) CreateOffering(ctx context.Context, subject domain.SubjectID, in CreateOfferingInput) (domain.Offering, error) {
	company, err := companies.RequireOwned(ctx, s.companies, subject)
	if err != nil {
		return domain.Offering{}, err
	}
	name, err := input.Name("name", in.Name)
	if err != nil {
		return domain.Offering{}, err
	}
	if err := validateAmounts(in.DurationMinutes, in.PriceCents); err != nil {
		return domain.Offering{}, err
	}

	o := domain.Offering{
		ID:              s.newOfferingID(),
		CompanyID:       company.ID,
		Name:            name,
		Description:     normalizeDescription(in.Description),
		DurationMinutes: in.DurationMinutes,
		PriceCents:      in.PriceCents,
		CreatedAt:       s.clk.Now(),
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return domain.Offering{}, err
	}
	return o, nil
}

func (s *Service) ListOfferings(ctx context.Context, subject domain.SubjectID) ([]domain.Offering, error) {
	company, err := companies.RequireOwned(ctx, s.companies, subject)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByCompany(ctx, company.ID)
}

func (s *Service) GetOffering(ctx context.Context, subject domain.SubjectID, id domain.OfferingID) (domain.Offering, error) {
	company, err := companies.RequireOwned(ctx, s.companies, subject)
	if err != nil {
		return domain.Offering{}, err
	}
	return s.GetCompanyOffering(ctx, company.ID, id)
}

// GetCompanyOffering loads an offering and checks it belongs to companyID.
func (s *Service) GetCompanyOffering(ctx context.Context, companyID domain.CompanyID, id domain.OfferingID) (domain.Offering, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, offeringrepo.ErrNotFound) {
			return domain.Offering{}, errNotFound
		}
		return domain.Offering{}, err
	}
	if o.CompanyID != companyID {
		return domain.Offering{}, errForbidden
	}
	return o, nil
}

func (s *Service) UpdateOffering(ctx context.Context, subject domain.SubjectID, id domain.OfferingID, in UpdateOfferingInput) (domain.Offering, error) {
	company, err := companies.RequireOwned(ctx, s.companies, subject)
	if err != nil {
		return domain.Offering{}, err
	}

	var name string
	if in.Name.IsSpecified() {
		if in.Name.IsNull() {
			return domain.Offering{}, apperr.Validation("name", "must not be null")
		}
		if name, err = input.Name("name", in.Name.Value()); err != nil {
			return domain.Offering{}, err
		}
	}

	o, err := s.repo.Update(ctx, id, func(cur *domain.Offering) error {
		if cur.CompanyID != company.ID {
			return errForbidden
		}
		if in.Name.IsSpecified() {
			cur.Name = name
		}
		if in.Description.IsSpecified() {
			cur.Description = normalizeDescription(in.Description.Ptr())
		}
		if in.DurationMinutes.IsSpecified() {
			if in.DurationMinutes.IsNull() {
				return apperr.Validation("durationMinutes", "must not be null")
			}
			cur.DurationMinutes = in.DurationMinutes.Value()
		}
		if in.PriceCents.IsSpecified() {
			if in.PriceCents.IsNull() {
				return apperr.Validation("priceCents", "must not be null")
			}
			cur.PriceCents = in.PriceCents.Value()
		}
		return validateAmounts(cur.DurationMinutes, cur.PriceCents)
	})
	if err != nil {
		switch {
		case errors.Is(err, offeringrepo.ErrNotFound):
			return domain.Offering{}, errNotFound
		case errors.Is(err, offeringrepo.ErrNoRowsAffected):
			return domain.Offering{}, errUpdateFailed
		}
		return domain.Offering{}, err
	}
	return o, nil
}

func (s *Service) DeleteOffering(ctx context.Context, subject domain.SubjectID, id domain.OfferingID) error {
	company, err := companies.RequireOwned(ctx, s.companies, subject)
	if err != nil {
		return err
	}
	err = s.repo.Delete(ctx, id, func(cur domain.Offering) error {
		if cur.CompanyID != company.ID {
			return errForbidden
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, offeringrepo.ErrNotFound):
			return errNotFound
		case errors.Is(err, offeringrepo.ErrNoRowsAffected):
			return errDeleteFailed
		case errors.Is(err, offeringrepo.ErrInUse):
			return errInUse
		}
		return err
	}
	return nil
}

func validateAmounts(durationMinutes, priceCents int) error {
	if durationMinutes <= 0 {
		return apperr.Validation("durationMinutes", "must be greater than 0")
	}
	if priceCents < 0 {
		return apperr.Validation("priceCents", "must be greater than or equal to 0")
	}
	return nil
}

func normalizeDescription(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
