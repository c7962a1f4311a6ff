package clients

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/attend-app/attend-api/internal/app/apperr"
	"github.com/attend-app/attend-api/internal/app/companies"
	"github.com/attend-app/attend-api/internal/app/input"
	"github.com/attend-app/attend-api/internal/domain"
	clockport "github.com/attend-app/attend-api/internal/ports/out/clock"
	"github.com/attend-app/attend-api/internal/ports/out/clientrepo"
)

var (
	errNotFound     = apperr.New(apperr.CodeClientNotFound, "Client not found.")
	errForbidden    = apperr.New(apperr.CodeForbidden, "You do not have permission to access this client.")
	errEmailInUse   = apperr.New(apperr.CodeEmailInUse, "Another client of this company already uses that email.")
	errUpdateFailed = apperr.New(apperr.CodeClientUpdateFailed, "Failed to update client.")
	errDeleteFailed = apperr.New(apperr.CodeClientDeleteFailed, "Failed to delete client.")
	errInUse        = apperr.New(apperr.CodeConflict, "Client has appointments and cannot be deleted.")
)

// Service manages the clients of the caller's company.
type Service struct {
	companies companies.CompanyLookup
	repo      clientrepo.Repository
	clk       clockport.Clock

	newClientID func() domain.ClientID
}

func NewService(companyLookup companies.CompanyLookup, repo clientrepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		companies: companyLookup,
		repo:      repo,
		clk:       clk,
		newClientID: func() domain.ClientID {
			return domain.ClientID(uuid.NewString())
		},
	}
}

func (s *Service) CreateClient(ctx context.Context, subject domain.SubjectID, in CreateClientInput) (domain.Client, error) {
	company, err := companies.RequireOwned(ctx, s.companies, subject)
	if err != nil {
		return domain.Client{}, err
	}
	name, err := input.Name("name", in.Name)
	if err != nil {
		return domain.Client{}, err
	}
	email, err := input.Email("email", in.Email)
	if err != nil {
		return domain.Client{}, err
	}
	phone, err := input.Phone("phone", in.Phone)
	if err != nil {
		return domain.Client{}, err
	}
	if err := s.ensureEmailUnique(ctx, company.ID, email, ""); err != nil {
		return domain.Client{}, err
	}

	c := domain.Client{
		ID:        s.newClientID(),
		CompanyID: company.ID,
		Name:      name,
		Email:     email,
		Phone:     phone,
		CreatedAt: s.clk.Now(),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, clientrepo.ErrEmailTaken) {
			return domain.Client{}, errEmailInUse
		}
		return domain.Client{}, err
	}
	return c, nil
}

func (s *Service) ListClients(ctx context.Context, subject domain.SubjectID) ([]domain.Client, error) {
	company, err := companies.RequireOwned(ctx, s.companies, subject)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByCompany(ctx, company.ID)
}

func (s *Service) GetClient(ctx context.Context, subject domain.SubjectID, id domain.ClientID) (domain.Client, error) {
	company, err := companies.RequireOwned(ctx, s.companies, subject)
	if err != nil {
		return domain.Client{}, err
	}
	return s.GetCompanyClient(ctx, company.ID, id)
}

// GetCompanyClient loads a client and checks it belongs to companyID.
func (s *Service) GetCompanyClient(ctx context.Context, companyID domain.CompanyID, id domain.ClientID) (domain.Client, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, clientrepo.ErrNotFound) {
			return domain.Client{}, errNotFound
		}
		return domain.Client{}, err
	}
	if c.CompanyID != companyID {
		return domain.Client{}, errForbidden
	}
	return c, nil
}

func (s *Service) UpdateClient(ctx context.Context, subject domain.SubjectID, id domain.ClientID, in UpdateClientInput) (domain.Client, error) {
	company, err := companies.RequireOwned(ctx, s.companies, subject)
	if err != nil {
		return domain.Client{}, err
	}

	var name string
	if in.Name.IsSpecified() {
		if in.Name.IsNull() {
			return domain.Client{}, apperr.Validation("name", "must not be null")
		}
		if name, err = input.Name("name", in.Name.Value()); err != nil {
			return domain.Client{}, err
		}
	}
	var email, phone *string
	if in.Email.IsSpecified() {
		if email, err = input.Email("email", in.Email.Ptr()); err != nil {
			return domain.Client{}, err
		}
		if err := s.ensureEmailUnique(ctx, company.ID, email, id); err != nil {
			return domain.Client{}, err
		}
	}
	if in.Phone.IsSpecified() {
		if phone, err = input.Phone("phone", in.Phone.Ptr()); err != nil {
			return domain.Client{}, err
		}
	}

	c, err := s.repo.Update(ctx, id, func(cur *domain.Client) error {
		if cur.CompanyID != company.ID {
			return errForbidden
		}
		if in.Name.IsSpecified() {
			cur.Name = name
		}
		if in.Email.IsSpecified() {
			cur.Email = email
		}
		if in.Phone.IsSpecified() {
			cur.Phone = phone
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, clientrepo.ErrNotFound):
			return domain.Client{}, errNotFound
		case errors.Is(err, clientrepo.ErrEmailTaken):
			return domain.Client{}, errEmailInUse
		case errors.Is(err, clientrepo.ErrNoRowsAffected):
			return domain.Client{}, errUpdateFailed
		}
		return domain.Client{}, err
	}
	return c, nil
}

func (s *Service) DeleteClient(ctx context.Context, subject domain.SubjectID, id domain.ClientID) error {
	company, err := companies.RequireOwned(ctx, s.companies, subject)
	if err != nil {
		return err
	}
	err = s.repo.Delete(ctx, id, func(cur domain.Client) error {
		if cur.CompanyID != company.ID {
			return errForbidden
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, clientrepo.ErrNotFound):
			return errNotFound
		case errors.Is(err, clientrepo.ErrNoRowsAffected):
			return errDeleteFailed
		case errors.Is(err, clientrepo.ErrInUse):
			return errInUse
		}
		return err
	}
	return nil
}

// ensureEmailUnique fails with EMAIL_IN_USE when another client of the
// company (other than self) already uses email.
func (s *Service) ensureEmailUnique(ctx context.Context, companyID domain.CompanyID, email *string, self domain.ClientID) error {
	if email == nil {
		return nil
	}
	existing, err := s.repo.GetByEmail(ctx, companyID, *email)
	if err != nil {
		if errors.Is(err, clientrepo.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != self {
		return errEmailInUse
	}
	return nil
}
